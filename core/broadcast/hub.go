// Package broadcast fans assistant events out to websocket clients and feeds
// their requests back into the assistant.
package broadcast

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// StateProvider exposes the assistant's current state for newly-connected
// clients and status requests.
type StateProvider interface {
	State() string
	Status() Status
}

// CommandSink receives requests that clients push over the socket.
type CommandSink interface {
	// TriggerWake starts a conversation as if the wake word had been heard.
	TriggerWake()
	// QueueCommand enqueues a typed command for the next conversation turn.
	QueueCommand(text string)
}

// HistoryLoader fetches the persisted conversation history on demand.
type HistoryLoader interface {
	LoadHistory() (any, error)
}

// HistoryLoaderFunc adapts a plain function to [HistoryLoader].
type HistoryLoaderFunc func() (any, error)

func (f HistoryLoaderFunc) LoadHistory() (any, error) { return f() }

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub owns the set of connected clients. All map access happens on the run
// loop goroutine; other goroutines reach it through channels.
type Hub struct {
	state   StateProvider
	sink    CommandSink
	history HistoryLoader

	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	tasks      chan func()
	started    atomic.Bool
	stopped    chan struct{}
}

func NewHub(state StateProvider, sink CommandSink, history HistoryLoader) *Hub {
	return &Hub{
		state:      state,
		sink:       sink,
		history:    history,
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		tasks:      make(chan func()),
		stopped:    make(chan struct{}),
	}
}

// Run owns the client set until the context is cancelled. It must be running
// for connections to be accepted; broadcasts before or after are dropped.
func (h *Hub) Run(ctx context.Context) {
	h.started.Store(true)
	defer close(h.stopped)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				c.close()
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			logger.Info("client connected", "client", c.id)
			c.send(StatusMessage(h.state.Status()))
			c.send(StateChangeMessage(h.state.State()))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.close()
				logger.Info("client disconnected", "client", c.id)
			}

		case task := <-h.tasks:
			task()
		}
	}
}

// Broadcast queues a message for every connected client. A slow client drops
// the message rather than stalling the rest; a hub that is not running drops
// it entirely.
func (h *Hub) Broadcast(msg Message) {
	h.submit(func() {
		for c := range h.clients {
			c.send(msg)
		}
	})
}

// submit hands a unit of work to the run loop and waits for it to finish.
// Before Run starts or after it stops, submission is a no-op.
func (h *Hub) submit(task func()) {
	if !h.started.Load() {
		return
	}

	done := make(chan struct{})
	select {
	case h.tasks <- func() {
		defer close(done)
		task()
	}:
	case <-h.stopped:
		return
	}

	select {
	case <-done:
	case <-h.stopped:
	}
}

// ServeWS upgrades an HTTP request to a websocket client connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	if !h.started.Load() {
		http.Error(w, "service starting", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(h, conn)
	select {
	case h.register <- c:
	case <-h.stopped:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// handle processes one inbound client message. It runs on the client's read
// goroutine and only touches hub state through submit.
func (h *Hub) handle(c *client, msg Message) {
	switch msg.Type {
	case TypeManualTrigger:
		h.sink.TriggerWake()

	case TypeTextCommand:
		if text, ok := payloadText(msg.Payload); ok && text != "" {
			h.sink.QueueCommand(text)
		}

	case TypeGetStatus:
		h.submit(func() { c.send(StatusMessage(h.state.Status())) })

	case TypeGetHistory:
		entries, err := h.history.LoadHistory()
		errText := ""
		if err != nil {
			errText = err.Error()
		}
		h.submit(func() { c.send(HistoryDataMessage(entries, errText)) })

	default:
		logger.Debug("unknown client message type", "type", msg.Type)
	}
}

func payloadText(payload any) (string, bool) {
	fields, ok := payload.(map[string]any)
	if !ok {
		return "", false
	}
	text, ok := fields["text"].(string)
	return text, ok
}
