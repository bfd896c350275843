package llms

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestChainReturnsFirstSuccessfulResponse(t *testing.T) {
	chain := NewChain(
		providerStub{name: "first", err: errors.New("unreachable")},
		providerStub{name: "second", response: "  Hello, sir.  "},
		providerStub{name: "third", response: "should not be reached"},
	)

	response, err := chain.Respond(context.Background(), "hello")
	if err != nil {
		t.Fatalf("expected chain to succeed, got %v", err)
	}
	if response != "Hello, sir." {
		t.Fatalf("expected trimmed second provider response, got %q", response)
	}
}

func TestChainSkipsEmptyResponses(t *testing.T) {
	chain := NewChain(
		providerStub{name: "empty", response: "   "},
		providerStub{name: "real", response: "Indeed."},
	)

	response, err := chain.Respond(context.Background(), "hello")
	if err != nil {
		t.Fatalf("expected chain to succeed, got %v", err)
	}
	if response != "Indeed." {
		t.Fatalf("expected blank response skipped, got %q", response)
	}
}

func TestChainFallsBackWhenEveryProviderFails(t *testing.T) {
	chain := NewChain(
		providerStub{name: "first", err: errors.New("down")},
		providerStub{name: "second", err: errors.New("also down")},
	)

	response, err := chain.Respond(context.Background(), "hello")
	if err != nil {
		t.Fatalf("expected fallback reply instead of error, got %v", err)
	}
	if response != FallbackResponse {
		t.Fatalf("expected apology fallback, got %q", response)
	}
}

func TestChainWithoutProvidersErrors(t *testing.T) {
	chain := NewChain()

	if _, err := chain.Respond(context.Background(), "hello"); !errors.Is(err, ErrNoProviders) {
		t.Fatalf("expected ErrNoProviders, got %v", err)
	}
}

func TestFormatSessionContextLimitsToRecentExchanges(t *testing.T) {
	var turns []Turn
	for i := 0; i < 8; i++ {
		turns = append(turns,
			Turn{Role: TurnRoleUser, Content: "question"},
			Turn{Role: TurnRoleAssistant, Content: "answer"},
		)
	}

	formatted := FormatSessionContext(turns)
	if got := strings.Count(formatted, "User: "); got != maxContextExchanges {
		t.Fatalf("expected %d user lines, got %d", maxContextExchanges, got)
	}
	if !strings.HasPrefix(formatted, "\n[Current Session]\n") {
		t.Fatalf("expected session header, got %q", formatted)
	}
}

func TestFormatSessionContextEmptyForNoTurns(t *testing.T) {
	if got := FormatSessionContext(nil); got != "" {
		t.Fatalf("expected empty context for no turns, got %q", got)
	}
}

func TestBuildPromptCombinesContextAndInput(t *testing.T) {
	turns := []Turn{
		{Role: TurnRoleUser, Content: "hi"},
		{Role: TurnRoleAssistant, Content: "Hello, sir."},
	}

	prompt := BuildPrompt("Context: User's name: Manan.", turns, "open notepad")

	if !strings.HasPrefix(prompt, "Context: User's name: Manan.") {
		t.Fatalf("expected memory context first, got %q", prompt)
	}
	if !strings.Contains(prompt, "Jarvis: Hello, sir.") {
		t.Fatalf("expected session tail in prompt, got %q", prompt)
	}
	if !strings.HasSuffix(prompt, "\n\nUser: open notepad") {
		t.Fatalf("expected user input last, got %q", prompt)
	}
}

type providerStub struct {
	name     string
	response string
	err      error
}

func (p providerStub) Name() string { return p.name }

func (p providerStub) Respond(context.Context, string, ...PromptOption) (string, error) {
	return p.response, p.err
}
