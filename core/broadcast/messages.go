package broadcast

import "time"

// Message is the envelope every websocket frame carries, both directions.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Outbound message types.
const (
	TypeStatus         = "status"
	TypeStateChange    = "state_change"
	TypeUserSpeech     = "user_speech"
	TypeJarvisResponse = "jarvis_response"
	TypeError          = "error"
	TypeHistoryData    = "history_data"
)

// Inbound message types.
const (
	TypeManualTrigger = "manual_trigger"
	TypeTextCommand   = "text_command"
	TypeGetStatus     = "get_status"
	TypeGetHistory    = "get_history"
)

// Status reflects the three frontend indicator lights.
type Status struct {
	VoiceRecognition string `json:"voiceRecognition"`
	AudioOutput      string `json:"audioOutput"`
	Processing       string `json:"processing"`
}

func StatusMessage(status Status) Message {
	return Message{Type: TypeStatus, Payload: status}
}

func StateChangeMessage(state string) Message {
	return Message{Type: TypeStateChange, Payload: map[string]any{"state": state}}
}

func UserSpeechMessage(text string) Message {
	return Message{Type: TypeUserSpeech, Payload: map[string]any{
		"text":      text,
		"timestamp": time.Now().Format(time.RFC3339),
	}}
}

// JarvisResponseMessage carries the spoken reply and how long the model took,
// in milliseconds.
func JarvisResponseMessage(text string, responseTimeMs int64) Message {
	return Message{Type: TypeJarvisResponse, Payload: map[string]any{
		"text":         text,
		"responseTime": responseTimeMs,
		"timestamp":    time.Now().Format(time.RFC3339),
	}}
}

func ErrorMessage(text string) Message {
	return Message{Type: TypeError, Payload: map[string]any{"message": text}}
}

func HistoryDataMessage(entries any, errText string) Message {
	payload := map[string]any{"history": entries}
	if errText != "" {
		payload["error"] = errText
	}
	return Message{Type: TypeHistoryData, Payload: payload}
}
