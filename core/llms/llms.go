// Package llms defines the inference-provider boundary: a provider takes the
// user's utterance plus conversation context and returns the assistant's
// reply text.
package llms

import (
	"context"
	"time"
)

type TurnRole string

const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

// Turn is one entry of a conversation: a user utterance or an assistant
// reply.
type Turn struct {
	Role      TurnRole
	Content   string
	Timestamp time.Time
}

// Provider is a single inference backend.
type Provider interface {
	Name() string
	Respond(ctx context.Context, prompt string, opts ...PromptOption) (string, error)
}

type PromptOptions struct {
	Instructions string
	Turns        []Turn
}

type PromptOption func(*PromptOptions)

func WithInstructions(instructions string) PromptOption {
	return func(o *PromptOptions) { o.Instructions = instructions }
}

func WithTurns(turns []Turn) PromptOption {
	return func(o *PromptOptions) { o.Turns = turns }
}
