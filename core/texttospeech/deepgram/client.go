package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"

	"github.com/manan-dev/jarvis-core/core/audio"
	"github.com/manan-dev/jarvis-core/core/texttospeech"
)

const speakURL = "https://api.deepgram.com/v1/speak"

type deepgramVoice string

const (
	VoiceAsteria deepgramVoice = "aura-2-asteria-en"
	VoiceOrion   deepgramVoice = "aura-2-orion-en"
	VoiceZeus    deepgramVoice = "aura-2-zeus-en"
)

const defaultVoice = VoiceAsteria

func GetAvailableVoices() []deepgramVoice {
	return []deepgramVoice{VoiceAsteria, VoiceOrion, VoiceZeus}
}

// TextToSpeechClient synthesizes one finished reply at a time through the
// Deepgram speak REST endpoint.
type TextToSpeechClient struct {
	voice      deepgramVoice
	httpClient *http.Client
}

func NewTextToSpeechClient(voice deepgramVoice) (*TextToSpeechClient, error) {
	if !slices.Contains(GetAvailableVoices(), voice) {
		return nil, fmt.Errorf("invalid voice")
	}

	return &TextToSpeechClient{voice: voice, httpClient: &http.Client{}}, nil
}

func (c *TextToSpeechClient) SetVoice(voice deepgramVoice) {
	c.voice = voice
}

// Synthesize returns raw audio for text in the requested encoding.
func (c *TextToSpeechClient) Synthesize(ctx context.Context, text string, opts ...texttospeech.SpeechOption) ([]byte, error) {
	options := texttospeech.SpeechOptions{EncodingInfo: audio.GetDefaultEncodingInfo()}
	for _, opt := range opts {
		opt(&options)
	}

	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	requestURL, _ := url.Parse(speakURL)
	queryParams := requestURL.Query()
	queryParams.Set("model", string(c.voice))
	queryParams.Set("encoding", options.EncodingInfo.Format.Name())
	queryParams.Set("sample_rate", strconv.Itoa(options.EncodingInfo.SampleRate))
	queryParams.Set("container", "none")
	requestURL.RawQuery = queryParams.Encode()

	requestBodyBytes, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return nil, fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL.String(), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-OK HTTP status: %s", resp.Status)
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	return pcm, nil
}
