// Package portaudio is an alternate audio backend for systems where the
// miniaudio backend is unavailable.
package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/manan-dev/jarvis-core/core/audio"
)

type Client struct {
	bufferSize int
	stream     *portaudio.Stream

	in  []int16
	out []int16

	capturing bool
	mu        sync.Mutex
}

func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	in := make([]int16, bufferSize)
	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 1, audio.DefaultSampleRate, bufferSize, in, out)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		stream:     stream,
		in:         in,
		out:        out,
	}, nil
}

// StartCapture reads microphone frames until StopCapture or ctx cancellation.
func (c *Client) StartCapture(ctx context.Context, onAudio func(audio []byte)) error {
	c.mu.Lock()
	if c.capturing {
		c.mu.Unlock()
		return nil
	}
	c.capturing = true
	c.mu.Unlock()

	if err := c.stream.Start(); err != nil {
		c.mu.Lock()
		c.capturing = false
		c.mu.Unlock()
		return fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			c.mu.Lock()
			capturing := c.capturing
			c.mu.Unlock()
			if !capturing {
				return
			}

			if err := c.stream.Read(); err != nil {
				continue
			}

			audioBuffer := bytes.Buffer{}
			_ = binary.Write(&audioBuffer, binary.LittleEndian, c.in)
			onAudio(audioBuffer.Bytes())
		}
	}()

	return nil
}

func (c *Client) StopCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.capturing {
		return nil
	}
	c.capturing = false
	if err := c.stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop portaudio stream: %w", err)
	}
	return nil
}

// Play writes pcm to the output stream chunk by chunk; the stream write is
// itself blocking, so Play returns once the audio has been played.
func (c *Client) Play(ctx context.Context, pcm []byte) error {
	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	chunkSize := c.bufferSize * 2
	for offset := 0; offset < len(pcm); offset += chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := offset + chunkSize
		if end > len(pcm) {
			// Zero-pad the final partial chunk to a full buffer.
			padded := make([]byte, chunkSize)
			copy(padded, pcm[offset:])
			_ = binary.Read(bytes.NewBuffer(padded), binary.LittleEndian, c.out)
		} else {
			_ = binary.Read(bytes.NewBuffer(pcm[offset:end]), binary.LittleEndian, c.out)
		}
		if err := c.stream.Write(); err != nil {
			return fmt.Errorf("failed to write to portaudio stream: %w", err)
		}
	}

	return nil
}

func (c *Client) Close() {
	_ = c.stream.Close()
	_ = portaudio.Terminate()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}
