package broadcast

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestConnectingClientReceivesStatusAndStateSnapshot(t *testing.T) {
	hub, cleanup := startTestHub(t, &stateStub{state: "idle"}, &sinkStub{}, historyStub{})
	defer cleanup()

	conn := dialTestHub(t, hub.server)
	defer conn.Close()

	first := readMessage(t, conn)
	if first.Type != TypeStatus {
		t.Fatalf("expected initial status message, got %q", first.Type)
	}

	second := readMessage(t, conn)
	if second.Type != TypeStateChange {
		t.Fatalf("expected initial state message, got %q", second.Type)
	}
	payload, ok := second.Payload.(map[string]any)
	if !ok || payload["state"] != "idle" {
		t.Fatalf("expected idle state payload, got %+v", second.Payload)
	}
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub, cleanup := startTestHub(t, &stateStub{state: "idle"}, &sinkStub{}, historyStub{})
	defer cleanup()

	first := dialTestHub(t, hub.server)
	defer first.Close()
	second := dialTestHub(t, hub.server)
	defer second.Close()
	drainInitialMessages(t, first)
	drainInitialMessages(t, second)

	hub.hub.Broadcast(UserSpeechMessage("hello"))

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readMessage(t, conn)
		if msg.Type != TypeUserSpeech {
			t.Fatalf("expected user speech broadcast, got %q", msg.Type)
		}
	}
}

func TestBroadcastSurvivesDisconnectedClient(t *testing.T) {
	hub, cleanup := startTestHub(t, &stateStub{state: "idle"}, &sinkStub{}, historyStub{})
	defer cleanup()

	doomed := dialTestHub(t, hub.server)
	survivor := dialTestHub(t, hub.server)
	defer survivor.Close()
	drainInitialMessages(t, doomed)
	drainInitialMessages(t, survivor)

	doomed.Close()
	time.Sleep(50 * time.Millisecond)

	hub.hub.Broadcast(StateChangeMessage("listening"))

	msg := readMessage(t, survivor)
	if msg.Type != TypeStateChange {
		t.Fatalf("expected surviving client to receive broadcast, got %q", msg.Type)
	}
}

func TestManualTriggerAndTextCommandReachSink(t *testing.T) {
	sink := &sinkStub{
		triggers: make(chan struct{}, 1),
		commands: make(chan string, 1),
	}
	hub, cleanup := startTestHub(t, &stateStub{state: "idle"}, sink, historyStub{})
	defer cleanup()

	conn := dialTestHub(t, hub.server)
	defer conn.Close()
	drainInitialMessages(t, conn)

	if err := conn.WriteJSON(Message{Type: TypeManualTrigger}); err != nil {
		t.Fatalf("failed to send manual trigger: %v", err)
	}
	select {
	case <-sink.triggers:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for manual trigger")
	}

	if err := conn.WriteJSON(Message{
		Type:    TypeTextCommand,
		Payload: map[string]any{"text": "open notepad"},
	}); err != nil {
		t.Fatalf("failed to send text command: %v", err)
	}
	select {
	case command := <-sink.commands:
		if command != "open notepad" {
			t.Fatalf("expected queued command text, got %q", command)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for text command")
	}
}

func TestGetStatusAnswersRequestingClient(t *testing.T) {
	state := &stateStub{
		state:  "listening",
		status: Status{VoiceRecognition: "Active", AudioOutput: "Ready", Processing: "Idle"},
	}
	hub, cleanup := startTestHub(t, state, &sinkStub{}, historyStub{})
	defer cleanup()

	conn := dialTestHub(t, hub.server)
	defer conn.Close()
	drainInitialMessages(t, conn)

	if err := conn.WriteJSON(Message{Type: TypeGetStatus}); err != nil {
		t.Fatalf("failed to request status: %v", err)
	}

	msg := readMessage(t, conn)
	if msg.Type != TypeStatus {
		t.Fatalf("expected status reply, got %q", msg.Type)
	}
	payload, ok := msg.Payload.(map[string]any)
	if !ok || payload["voiceRecognition"] != "Active" {
		t.Fatalf("expected active voice recognition in status, got %+v", msg.Payload)
	}
}

func TestGetHistoryReturnsEntriesOrError(t *testing.T) {
	hub, cleanup := startTestHub(t, &stateStub{state: "idle"}, &sinkStub{},
		historyStub{entries: []string{"one", "two"}})
	defer cleanup()

	conn := dialTestHub(t, hub.server)
	defer conn.Close()
	drainInitialMessages(t, conn)

	if err := conn.WriteJSON(Message{Type: TypeGetHistory}); err != nil {
		t.Fatalf("failed to request history: %v", err)
	}
	msg := readMessage(t, conn)
	if msg.Type != TypeHistoryData {
		t.Fatalf("expected history data, got %q", msg.Type)
	}
	payload := msg.Payload.(map[string]any)
	if _, hasError := payload["error"]; hasError {
		t.Fatalf("expected no error field on success, got %+v", payload)
	}
	entries, ok := payload["history"].([]any)
	if !ok || len(entries) != 2 {
		t.Fatalf("expected two entries under the history key, got %+v", payload)
	}

	failing, failingCleanup := startTestHub(t, &stateStub{state: "idle"}, &sinkStub{},
		historyStub{err: errors.New("disk gone")})
	defer failingCleanup()

	failingConn := dialTestHub(t, failing.server)
	defer failingConn.Close()
	drainInitialMessages(t, failingConn)

	if err := failingConn.WriteJSON(Message{Type: TypeGetHistory}); err != nil {
		t.Fatalf("failed to request history: %v", err)
	}
	msg = readMessage(t, failingConn)
	payload = msg.Payload.(map[string]any)
	if payload["error"] != "disk gone" {
		t.Fatalf("expected load error in payload, got %+v", payload)
	}
}

func TestSubmitReturnsOnlyAfterTaskRuns(t *testing.T) {
	hub, cleanup := startTestHub(t, &stateStub{state: "idle"}, &sinkStub{}, historyStub{})
	defer cleanup()

	var ran atomic.Bool
	hub.hub.submit(func() { ran.Store(true) })
	if !ran.Load() {
		t.Fatalf("expected submit to return only after the run loop executed the task")
	}
}

func TestBroadcastBeforeRunIsDropped(t *testing.T) {
	hub := NewHub(&stateStub{state: "idle"}, &sinkStub{}, historyStub{})

	done := make(chan struct{})
	go func() {
		hub.Broadcast(UserSpeechMessage("hello"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected broadcast before Run to be a no-op, it blocked")
	}
}

type testHub struct {
	hub    *Hub
	server *httptest.Server
}

func startTestHub(t *testing.T, state StateProvider, sink CommandSink, history HistoryLoader) (*testHub, func()) {
	t.Helper()

	hub := NewHub(state, sink, history)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	// Wait until the run loop has marked itself started so that submit and
	// ServeWS calls made by the tests are not dropped by the started gate.
	deadline := time.Now().Add(time.Second)
	for !hub.started.Load() {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("hub run loop did not start in time")
		}
		time.Sleep(time.Millisecond)
	}

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	cleanup := func() {
		server.Close()
		cancel()
	}
	return &testHub{hub: hub, server: server}, cleanup
}

func dialTestHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial hub: %v", err)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	return msg
}

func drainInitialMessages(t *testing.T, conn *websocket.Conn) {
	t.Helper()

	// Every connection starts with a status and a state snapshot.
	for i := 0; i < 2; i++ {
		readMessage(t, conn)
	}
}

type stateStub struct {
	state  string
	status Status
}

func (s *stateStub) State() string  { return s.state }
func (s *stateStub) Status() Status { return s.status }

type sinkStub struct {
	triggers chan struct{}
	commands chan string
}

func (s *sinkStub) TriggerWake() {
	if s.triggers != nil {
		s.triggers <- struct{}{}
	}
}

func (s *sinkStub) QueueCommand(text string) {
	if s.commands != nil {
		s.commands <- text
	}
}

type historyStub struct {
	entries []string
	err     error
}

func (h historyStub) LoadHistory() (any, error) { return h.entries, h.err }
