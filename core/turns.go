package orchestration

import (
	"sync"

	"github.com/jinzhu/copier"
	"github.com/manan-dev/jarvis-core/core/llms"
)

// Turns is the in-memory turn sequence of the active session. The
// conversation loop is the only writer; snapshots go to prompt building and
// websocket clients.
type Turns struct {
	mu    sync.Mutex
	turns []llms.Turn
}

// Push adds a new turn to the stored turns
func (t *Turns) Push(turn llms.Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, turn)
}

func (t *Turns) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.turns)
}

// Snapshot returns a point-in-time deep copy of the stored turns.
func (t *Turns) Snapshot() []llms.Turn {
	t.mu.Lock()
	defer t.mu.Unlock()

	turns := []llms.Turn{}
	if err := copier.Copy(&turns, &t.turns); err != nil {
		return nil
	}
	return turns
}

// Drain returns the stored turns and clears them, ending the session's
// in-memory record.
func (t *Turns) Drain() []llms.Turn {
	t.mu.Lock()
	defer t.mu.Unlock()

	turns := t.turns
	t.turns = nil
	return turns
}
