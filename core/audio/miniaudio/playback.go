package miniaudio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/manan-dev/jarvis-core/core/audio"
)

type playbackClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	pending []byte
	drained *sync.Cond

	mu      sync.Mutex
	audioMu sync.Mutex
}

func (c *playbackClient) Init(audioContext *malgo.AllocatedContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sampleRate := uint32(audio.DefaultSampleRate)
	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	c.config = malgo.DefaultDeviceConfig(malgo.Playback)
	c.config.SampleRate = sampleRate
	c.config.Playback.Format = format
	c.config.Playback.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	c.config.Periods = 4

	c.audioContext = audioContext
	c.drained = sync.NewCond(&c.audioMu)

	var err error
	if c.device, err = malgo.InitDevice(
		c.audioContext.Context,
		c.config,
		malgo.DeviceCallbacks{Data: c.processAudio(bytesPerFrame)},
	); err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	return nil
}

// Play queues pcm and blocks until the device has consumed all of it or ctx
// is cancelled. Queued audio is dropped on cancellation.
func (c *playbackClient) Play(ctx context.Context, pcm []byte) error {
	c.mu.Lock()
	if c.device == nil {
		c.mu.Unlock()
		return fmt.Errorf("device not initialized")
	}
	if !c.device.IsStarted() {
		if err := c.device.Start(); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("failed to start playback device: %w", err)
		}
	}
	c.mu.Unlock()

	c.audioMu.Lock()
	c.pending = append(c.pending, pcm...)
	c.audioMu.Unlock()

	stopWaiting := withPlaybackCancelHook(ctx, func() {
		c.audioMu.Lock()
		c.pending = nil
		c.drained.Broadcast()
		c.audioMu.Unlock()
	})
	defer close(stopWaiting)

	c.audioMu.Lock()
	for len(c.pending) > 0 && ctx.Err() == nil {
		c.drained.Wait()
	}
	c.audioMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	// The device callback reports consumption when audio leaves the buffer,
	// slightly before it leaves the speaker. Padding out the tail keeps the
	// caller blocked until playback is actually done.
	tail := time.Duration(c.config.PeriodSizeInFrames) * time.Duration(c.config.Periods) *
		time.Second / time.Duration(c.config.SampleRate)
	select {
	case <-time.After(tail):
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

func (c *playbackClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	c.device.Uninit()
	c.device = nil

	c.audioMu.Lock()
	c.pending = nil
	c.drained.Broadcast()
	c.audioMu.Unlock()

	return nil
}

func (c *playbackClient) processAudio(bytesPerFrame int) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame
		if need > len(pOutput) {
			need = len(pOutput)
		}

		c.audioMu.Lock()
		defer c.audioMu.Unlock()

		if len(c.pending) == 0 {
			return
		}

		n := copy(pOutput[:need], c.pending)
		if n >= len(c.pending) {
			c.pending = nil
		} else {
			c.pending = c.pending[n:]
		}

		if len(c.pending) == 0 {
			c.drained.Broadcast()
		}
	}
}

func withPlaybackCancelHook(ctx context.Context, onCancel func()) chan struct{} {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			onCancel()
		case <-done:
		}
	}()
	return done
}
