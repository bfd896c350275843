package orchestration

import (
	"context"
	"time"

	"github.com/manan-dev/jarvis-core/core/actions"
	"github.com/manan-dev/jarvis-core/core/broadcast"
	"github.com/manan-dev/jarvis-core/core/llms"
	"github.com/manan-dev/jarvis-core/core/memory"
)

type OrchestratorOption func(*Orchestrator)

// Listener performs one bounded listen-and-recognize attempt. An empty
// transcript with a nil error means nothing intelligible was heard.
type Listener interface {
	Listen(ctx context.Context) (transcript string, err error)
}

func WithListener(listener Listener) OrchestratorOption {
	return func(o *Orchestrator) { o.listener = listener }
}

// Speaker voices a reply and returns once playback completes.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

func WithSpeaker(speaker Speaker) OrchestratorOption {
	return func(o *Orchestrator) { o.speaker = speaker }
}

// Responder produces the assistant's reply text; [llms.Chain] is the usual
// implementation.
type Responder interface {
	Respond(ctx context.Context, prompt string, opts ...llms.PromptOption) (string, error)
}

func WithResponder(responder Responder) OrchestratorOption {
	return func(o *Orchestrator) { o.responder = responder }
}

// ActionDispatcher executes one parsed action request and describes the
// outcome as a status string.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, request actions.Request) string
}

func WithActionDispatcher(dispatcher ActionDispatcher) OrchestratorOption {
	return func(o *Orchestrator) { o.dispatcher = dispatcher }
}

// Broadcaster fans a notification out to connected clients; delivery is
// best-effort and never fails the caller.
type Broadcaster interface {
	Broadcast(msg broadcast.Message)
}

func WithBroadcaster(broadcaster Broadcaster) OrchestratorOption {
	return func(o *Orchestrator) {
		if broadcaster == nil {
			o.broadcaster = noopBroadcaster{}
			return
		}
		o.broadcaster = broadcaster
	}
}

// MemoryStore persists the assistant's durable artifacts; [memory.Store] is
// the usual implementation.
type MemoryStore interface {
	AppendHistory(entry memory.HistoryEntry) error
	SaveSession(turns []llms.Turn, sessionStart time.Time) error
	AppendTurnLog(userText, assistantText string, at time.Time) error
	Context() string
}

func WithMemoryStore(store MemoryStore) OrchestratorOption {
	return func(o *Orchestrator) {
		if store == nil {
			o.store = noopStore{}
			return
		}
		o.store = store
	}
}

func WithWakeWord(word string) OrchestratorOption {
	return func(o *Orchestrator) {
		if word != "" {
			o.wakeWord = word
		}
	}
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(broadcast.Message) {}

type noopStore struct{}

func (noopStore) AppendHistory(memory.HistoryEntry) error        { return nil }
func (noopStore) SaveSession([]llms.Turn, time.Time) error       { return nil }
func (noopStore) AppendTurnLog(string, string, time.Time) error  { return nil }
func (noopStore) Context() string                                { return "" }
