package orchestration

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/manan-dev/jarvis-core/core/audio"
	"github.com/manan-dev/jarvis-core/core/speechtotext"
	"github.com/manan-dev/jarvis-core/core/texttospeech"
	"go.opentelemetry.io/otel/trace"
)

type AudioInput interface {
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
	EncodingInfo() audio.EncodingInfo
}

type AudioOutput interface {
	Play(ctx context.Context, pcm []byte) error
	EncodingInfo() audio.EncodingInfo
}

type SpeechToText interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
	StopStream() error
	Close(ctx context.Context) error
}

type TextToSpeech interface {
	Synthesize(ctx context.Context, text string, opts ...texttospeech.SpeechOption) ([]byte, error)
}

const (
	defaultListenTimeout = 8 * time.Second
	// transcriptFlushWait bounds how long a timed-out listen waits for the
	// recognizer to flush a final transcript after the stream is stopped.
	transcriptFlushWait = 500 * time.Millisecond
)

// VoiceListener performs one bounded listen-and-recognize attempt per call:
// open a recognition stream, feed it microphone audio, and wait for a single
// finished utterance or the timeout. Attempts are serialized; the recognition
// client supports one stream at a time and the microphone is exclusive.
type VoiceListener struct {
	mu      sync.Mutex
	input   AudioInput
	stt     SpeechToText
	timeout time.Duration
}

type VoiceListenerOption func(*VoiceListener)

func WithListenTimeout(timeout time.Duration) VoiceListenerOption {
	return func(l *VoiceListener) { l.timeout = timeout }
}

func NewVoiceListener(input AudioInput, stt SpeechToText, opts ...VoiceListenerOption) *VoiceListener {
	listener := &VoiceListener{
		input:   input,
		stt:     stt,
		timeout: defaultListenTimeout,
	}
	for _, opt := range opts {
		opt(listener)
	}
	return listener
}

// Listen returns the next finished utterance, or an empty string when the
// timeout elapses without speech. Transport failures are returned as errors;
// the caller decides whether they end the session.
func (l *VoiceListener) Listen(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	transcripts := make(chan string, 1)

	err := l.stt.Transcribe(ctx,
		speechtotext.WithEncodingInfo(l.input.EncodingInfo()),
		speechtotext.WithTranscriptionCallback(func(transcript string) {
			select {
			case transcripts <- transcript:
			default:
			}
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to open recognition stream: %w", err)
	}
	defer func() {
		if err := l.stt.Close(ctx); err != nil {
			span := trace.SpanFromContext(ctx)
			span.RecordError(fmt.Errorf("failed to close recognition stream: %w", err))
		}
	}()

	if err := l.input.StartCapture(ctx, func(chunk []byte) {
		l.stt.SendAudio(chunk)
	}); err != nil {
		return "", fmt.Errorf("failed to start audio capture: %w", err)
	}
	defer l.input.StopCapture()

	select {
	case transcript := <-transcripts:
		return strings.TrimSpace(transcript), nil

	case <-time.After(l.timeout):
		// Stop the stream so the recognizer finalizes whatever it heard, and
		// give it a moment to deliver.
		if err := l.stt.StopStream(); err == nil {
			select {
			case transcript := <-transcripts:
				return strings.TrimSpace(transcript), nil
			case <-time.After(transcriptFlushWait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		return "", nil

	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// VoiceSpeaker synthesizes a reply and plays it to completion. Playback is
// deliberately blocking so the assistant does not listen to itself.
type VoiceSpeaker struct {
	output AudioOutput
	tts    TextToSpeech
}

func NewVoiceSpeaker(output AudioOutput, tts TextToSpeech) *VoiceSpeaker {
	return &VoiceSpeaker{output: output, tts: tts}
}

func (s *VoiceSpeaker) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	pcm, err := s.tts.Synthesize(ctx, text,
		texttospeech.WithEncodingInfo(s.output.EncodingInfo()),
	)
	if err != nil {
		return fmt.Errorf("failed to synthesize speech: %w", err)
	}

	if err := s.output.Play(ctx, pcm); err != nil {
		return fmt.Errorf("failed to play synthesized speech: %w", err)
	}
	return nil
}
