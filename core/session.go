package orchestration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/manan-dev/jarvis-core/core/actions"
	"github.com/manan-dev/jarvis-core/core/broadcast"
	"github.com/manan-dev/jarvis-core/core/llms"
	"github.com/manan-dev/jarvis-core/core/memory"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// exitKeywords end the session when an utterance equals one of them,
// case-insensitively.
var exitKeywords = map[string]struct{}{
	"exit":     {},
	"quit":     {},
	"shutdown": {},
	"stop":     {},
	"bye":      {},
}

func isExitKeyword(utterance string) bool {
	_, ok := exitKeywords[strings.ToLower(strings.TrimSpace(utterance))]
	return ok
}

// runSession drives conversation turns from a consumed wake signal until an
// exit keyword, a failed turn, or cancellation. The session transcript is
// persisted exactly once, on whichever path ends the session.
func (o *Orchestrator) runSession(ctx context.Context, initialCommand string) {
	ctx, span := tracer.Start(ctx, "conversation session")
	defer span.End()

	sessionStart := time.Now()
	defer func() {
		o.persistSession(sessionStart)
		o.state.set(StateIdle)
	}()

	pending := initialCommand
	for ctx.Err() == nil {
		utterance := pending
		pending = ""

		if !o.runCycle(ctx, utterance) {
			return
		}
	}
}

// runCycle obtains one utterance and processes it, reporting whether the
// session continues. A panic anywhere in the cycle, capture and recognition
// included, is contained here: it is reported to clients and ends the
// session instead of the process.
func (o *Orchestrator) runCycle(ctx context.Context, pending string) (keepGoing bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err := fmt.Errorf("turn processing failed: %v", recovered)
			span := trace.SpanFromContext(ctx)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			o.broadcaster.Broadcast(broadcast.ErrorMessage(err.Error()))
			keepGoing = false
		}
	}()

	utterance := pending
	if utterance == "" {
		utterance = o.nextUtterance(ctx)
	}
	if utterance == "" {
		// Silence or noise retries the turn rather than ending the session.
		return true
	}

	return o.runTurn(ctx, utterance)
}

// nextUtterance obtains the next user utterance, preferring queued text
// commands over voice capture.
func (o *Orchestrator) nextUtterance(ctx context.Context) string {
	o.state.set(StateListening)

	select {
	case command := <-o.commands:
		return strings.TrimSpace(command)
	default:
	}

	transcript, err := o.listener.Listen(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Debug("listen attempt failed", "error", err)
		}
		return ""
	}
	return strings.TrimSpace(transcript)
}

// runTurn processes one utterance end to end and reports whether the session
// continues. Panics inside the turn unwind to runCycle's recovery.
func (o *Orchestrator) runTurn(ctx context.Context, utterance string) bool {
	ctx, span := tracer.Start(ctx, "conversation turn")
	defer span.End()

	o.broadcaster.Broadcast(broadcast.UserSpeechMessage(utterance))
	o.appendHistory(llms.TurnRoleUser, utterance)

	if isExitKeyword(utterance) {
		return false
	}

	o.state.set(StateProcessing)

	// The prompt's session context covers prior exchanges only; the current
	// utterance goes in separately, so it is pushed after prompt building.
	prompt := llms.BuildPrompt(o.store.Context(), o.turns.Snapshot(), utterance)
	o.turns.Push(llms.Turn{
		Role:      llms.TurnRoleUser,
		Content:   utterance,
		Timestamp: time.Now(),
	})
	inferenceStart := time.Now()
	response, err := o.responder.Respond(ctx, prompt, llms.WithInstructions(llms.SystemPrompt))
	if err != nil {
		span.RecordError(err)
		logger.Warn("inference failed", "error", err)
		response = llms.FallbackResponse
	}
	responseTime := time.Since(inferenceStart).Milliseconds()

	for _, request := range actions.Parse(response) {
		status := o.dispatch(ctx, request)
		logger.Info("action dispatched", "type", string(request.Type), "status", status)
	}
	reply := actions.Strip(response)

	o.broadcaster.Broadcast(broadcast.JarvisResponseMessage(reply, responseTime))
	o.appendHistory(llms.TurnRoleAssistant, reply)
	o.turns.Push(llms.Turn{
		Role:      llms.TurnRoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	})

	o.state.set(StateSpeaking)
	if err := o.speaker.Speak(ctx, reply); err != nil {
		span.RecordError(err)
		logger.Warn("speech playback failed", "error", err)
	}

	if err := o.store.AppendTurnLog(utterance, reply, time.Now()); err != nil {
		logger.Warn("failed to append turn log", "error", err)
	}

	return true
}

func (o *Orchestrator) dispatch(ctx context.Context, request actions.Request) string {
	if o.dispatcher == nil {
		return "No action dispatcher configured."
	}
	return o.dispatcher.Dispatch(ctx, request)
}

func (o *Orchestrator) appendHistory(role llms.TurnRole, text string) {
	entry := memory.HistoryEntry{
		Role:      string(role),
		Text:      text,
		Timestamp: time.Now().Format(memory.TimestampLayout),
	}
	if err := o.store.AppendHistory(entry); err != nil {
		logger.Warn("failed to append history entry", "error", err)
	}
}

func (o *Orchestrator) persistSession(sessionStart time.Time) {
	turns := o.turns.Drain()
	if len(turns) == 0 {
		return
	}

	if err := o.store.SaveSession(turns, sessionStart); err != nil {
		logger.Error("failed to persist session transcript", "error", err)
	}
}
