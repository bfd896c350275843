package orchestration

import (
	"context"
	"sync"
)

// State is the conversation loop's current phase. Only the conversation loop
// writes it; the wake worker and websocket clients read it.
type State string

const (
	StateIdle       State = "idle"
	StateListening  State = "listening"
	StateProcessing State = "processing"
	StateSpeaking   State = "speaking"
)

// stateHolder guards the state with a condition variable so waiters block on
// a notify instead of sleep-polling.
type stateHolder struct {
	mu       sync.Mutex
	cond     *sync.Cond
	state    State
	onChange func(state State)
}

func newStateHolder(onChange func(state State)) *stateHolder {
	holder := &stateHolder{state: StateIdle, onChange: onChange}
	holder.cond = sync.NewCond(&holder.mu)
	return holder
}

func (s *stateHolder) current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *stateHolder) set(state State) {
	s.mu.Lock()
	if s.state == state {
		s.mu.Unlock()
		return
	}
	s.state = state
	s.cond.Broadcast()
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(state)
	}
}

// awaitIdle blocks until the state is idle or the context is cancelled.
func (s *stateHolder) awaitIdle(ctx context.Context) error {
	done := withContextCancelHook(ctx, func() {
		s.cond.Broadcast()
	})
	defer close(done)

	s.mu.Lock()
	defer s.mu.Unlock()
	for s.state != StateIdle && ctx.Err() == nil {
		s.cond.Wait()
	}
	return ctx.Err()
}
