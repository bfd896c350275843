// Package orchestration coordinates the assistant's conversation loop: wake
// word detection, conversation turns against an inference provider, action
// dispatch, speech playback, and client notifications.
package orchestration

import (
	"context"

	"github.com/manan-dev/jarvis-core/core/broadcast"
)

const commandQueueSize = 16

type Orchestrator struct {
	listener   Listener
	speaker    Speaker
	responder  Responder
	dispatcher ActionDispatcher

	broadcaster Broadcaster
	store       MemoryStore

	wakeWord string

	state    *stateHolder
	turns    Turns
	wake     *wakeGate
	commands chan string
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		broadcaster: noopBroadcaster{},
		store:       noopStore{},
		wakeWord:    defaultWakeWord,
		wake:        newWakeGate(),
		commands:    make(chan string, commandQueueSize),
	}
	o.state = newStateHolder(func(state State) {
		o.broadcaster.Broadcast(broadcast.StateChangeMessage(string(state)))
		o.broadcaster.Broadcast(broadcast.StatusMessage(o.Status()))
	})

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run drives the conversation loop until the context is cancelled. The wake
// worker runs alongside it for the same lifetime; a session in progress when
// the context ends is persisted before Run returns.
//
// Contract: call Run at most once per orchestrator instance.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.broadcaster.Broadcast(broadcast.StateChangeMessage(string(o.state.current())))
	o.broadcaster.Broadcast(broadcast.StatusMessage(o.Status()))

	go func() {
		if err := panicSafeNamedWorker("wake detection", o.runWakeWorker)(ctx); err != nil {
			logger.Error("wake detection worker stopped", "error", err)
			o.broadcaster.Broadcast(broadcast.ErrorMessage(err.Error()))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case command := <-o.wake.signal:
			o.runSession(ctx, command)
			o.wake.clear()
		}
	}
}

// State reports the conversation loop's current phase.
func (o *Orchestrator) State() string { return string(o.state.current()) }

// Status reflects the state into the three indicator lights clients display.
func (o *Orchestrator) Status() broadcast.Status {
	status := broadcast.Status{
		VoiceRecognition: "Standby",
		AudioOutput:      "Ready",
		Processing:       "Idle",
	}

	switch o.state.current() {
	case StateListening:
		status.VoiceRecognition = "Active"
	case StateProcessing:
		status.Processing = "Active"
	case StateSpeaking:
		status.AudioOutput = "Playing"
	}

	return status
}

// TriggerWake starts a session as if the wake word had been heard. A trigger
// during an active session is dropped.
func (o *Orchestrator) TriggerWake() {
	o.wake.trigger("")
}

// QueueCommand enqueues a typed command. Queued commands take priority over
// voice capture each turn; a command arriving while idle also wakes the
// conversation loop.
func (o *Orchestrator) QueueCommand(text string) {
	select {
	case o.commands <- text:
	default:
		logger.Warn("command queue full, dropping command")
		return
	}

	if o.state.current() == StateIdle {
		o.wake.trigger("")
	}
}
