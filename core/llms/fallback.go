package llms

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/codes"
)

// FallbackResponse is spoken when every configured provider fails; it is a
// normal assistant reply, not an error.
const FallbackResponse = "I apologize, sir. All my sub-processors are currently unresponsive. I am unable to process your request."

var ErrNoProviders = errors.New("no inference providers configured")

// Chain tries providers in order and returns the first non-empty response.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Name() string {
	names := make([]string, 0, len(c.providers))
	for _, provider := range c.providers {
		names = append(names, provider.Name())
	}
	return "fallback(" + strings.Join(names, ",") + ")"
}

// Respond never propagates a provider failure: a chain with at least one
// provider configured always produces reply text, falling back to
// [FallbackResponse] when every provider errors or returns nothing.
func (c *Chain) Respond(ctx context.Context, prompt string, opts ...PromptOption) (string, error) {
	if len(c.providers) == 0 {
		return "", ErrNoProviders
	}

	ctx, span := tracer.Start(ctx, "llm fallback chain")
	defer span.End()

	for _, provider := range c.providers {
		logger.InfoContext(ctx, "attempting inference provider", "provider", provider.Name())
		response, err := provider.Respond(ctx, prompt, opts...)
		if err != nil {
			span.RecordError(err)
			logger.WarnContext(ctx, "inference provider failed", "provider", provider.Name(), "error", err)
			continue
		}
		if response = strings.TrimSpace(response); response != "" {
			return response, nil
		}
	}

	span.SetStatus(codes.Error, "all inference providers failed")
	return FallbackResponse, nil
}
