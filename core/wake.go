package orchestration

import (
	"context"
	"strings"
	"sync"

	"github.com/manan-dev/jarvis-core/core/broadcast"
)

const defaultWakeWord = "jarvis"

// wakeGate is the handshake between the wake worker and the conversation
// loop: a single-slot signal carrying the command heard alongside the wake
// word, plus an in-flight flag that keeps the worker quiet until the loop has
// consumed the signal and returned to idle.
type wakeGate struct {
	mu       sync.Mutex
	cond     *sync.Cond
	inFlight bool
	signal   chan string
}

func newWakeGate() *wakeGate {
	gate := &wakeGate{signal: make(chan string, 1)}
	gate.cond = sync.NewCond(&gate.mu)
	return gate
}

// trigger raises the wake signal with an optional immediate command. A
// second trigger while one is in flight is dropped.
func (g *wakeGate) trigger(command string) {
	g.mu.Lock()
	if g.inFlight {
		g.mu.Unlock()
		return
	}
	g.inFlight = true
	g.mu.Unlock()

	g.signal <- command
}

// clear re-arms the gate once the conversation loop has finished the session
// the signal started.
func (g *wakeGate) clear() {
	g.mu.Lock()
	g.inFlight = false
	g.cond.Broadcast()
	g.mu.Unlock()
}

// awaitCleared blocks until no wake signal is in flight.
func (g *wakeGate) awaitCleared(ctx context.Context) error {
	done := withContextCancelHook(ctx, func() {
		g.cond.Broadcast()
	})
	defer close(done)

	g.mu.Lock()
	defer g.mu.Unlock()
	for g.inFlight && ctx.Err() == nil {
		g.cond.Wait()
	}
	return ctx.Err()
}

// runWakeWorker owns the microphone whenever the conversation loop is idle,
// listening for the wake word. It never captures audio while a session is
// active. Each detection cycle is contained on its own: a panic inside one
// cycle is reported and the next cycle starts, so wake detection survives for
// the process lifetime.
func (o *Orchestrator) runWakeWorker(ctx context.Context) error {
	cycle := panicSafeNamedWorker("wake detection", o.wakeCycle)
	for ctx.Err() == nil {
		if err := cycle(ctx); err != nil {
			logger.Error("wake detection cycle failed", "error", err)
			o.broadcaster.Broadcast(broadcast.ErrorMessage(err.Error()))
		}
	}
	return nil
}

// wakeCycle is one detection attempt: wait for idle, listen once, raise the
// wake signal if the wake word was heard.
func (o *Orchestrator) wakeCycle(ctx context.Context) error {
	if err := o.state.awaitIdle(ctx); err != nil {
		return nil
	}
	if err := o.wake.awaitCleared(ctx); err != nil {
		return nil
	}

	transcript, err := o.listener.Listen(ctx)
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		logger.Debug("wake listen attempt failed", "error", err)
		return nil
	}

	command, heard := extractWakeCommand(transcript, o.wakeWord)
	if !heard {
		return nil
	}

	logger.Info("wake word detected", "command", command)
	o.wake.trigger(command)
	return nil
}

// extractWakeCommand reports whether the wake word appears in the transcript
// and returns any text following it as a candidate immediate command.
func extractWakeCommand(transcript, wakeWord string) (string, bool) {
	lowered := strings.ToLower(transcript)
	index := strings.Index(lowered, strings.ToLower(wakeWord))
	if index < 0 {
		return "", false
	}

	trailing := transcript[index+len(wakeWord):]
	return strings.TrimSpace(strings.TrimLeft(trailing, " ,.!?")), true
}
