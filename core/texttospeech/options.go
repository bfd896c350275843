package texttospeech

import "github.com/manan-dev/jarvis-core/core/audio"

type SpeechOptions struct {
	EncodingInfo audio.EncodingInfo
}

type SpeechOption func(*SpeechOptions)

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SpeechOption {
	return func(o *SpeechOptions) {
		if encodingInfo.IsZero() {
			return
		}

		o.EncodingInfo = encodingInfo
	}
}
