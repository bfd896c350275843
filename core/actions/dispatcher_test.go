package actions

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestDispatchOpenAppReportsSuccess(t *testing.T) {
	launcher := &launcherStub{succeed: true}
	d := NewDispatcher(launcher, &openerStub{})

	status := d.Dispatch(context.Background(), Request{Type: TypeOpenApp, Params: []string{"notepad"}})

	if status != "Successfully initiated opening of notepad." {
		t.Fatalf("unexpected status: %q", status)
	}
	if launcher.lastName() != "notepad" || launcher.lastMonitor() != 0 {
		t.Fatalf("expected launch of notepad without monitor, got %q on %d", launcher.lastName(), launcher.lastMonitor())
	}
}

func TestDispatchOpenAppWithMonitor(t *testing.T) {
	launcher := &launcherStub{succeed: true}
	d := NewDispatcher(launcher, &openerStub{})

	status := d.Dispatch(context.Background(), Request{Type: TypeOpenApp, Params: []string{"chrome", "2"}})

	if status != "Successfully initiated opening of chrome on monitor 2." {
		t.Fatalf("unexpected status: %q", status)
	}
	if launcher.lastMonitor() != 2 {
		t.Fatalf("expected monitor 2, got %d", launcher.lastMonitor())
	}
}

func TestDispatchOpenAppIgnoresUnparseableMonitor(t *testing.T) {
	launcher := &launcherStub{succeed: true}
	d := NewDispatcher(launcher, &openerStub{})

	status := d.Dispatch(context.Background(), Request{Type: TypeOpenApp, Params: []string{"chrome", "the big one"}})

	if status != "Successfully initiated opening of chrome." {
		t.Fatalf("expected monitor omitted from status, got %q", status)
	}
	if launcher.lastMonitor() != 0 {
		t.Fatalf("expected no monitor for unparseable index, got %d", launcher.lastMonitor())
	}
}

func TestDispatchOpenAppReportsFailure(t *testing.T) {
	d := NewDispatcher(&launcherStub{succeed: false}, &openerStub{})

	status := d.Dispatch(context.Background(), Request{Type: TypeOpenApp, Params: []string{"imaginary app"}})

	if status != "Could not find or open imaginary app, sir." {
		t.Fatalf("unexpected status: %q", status)
	}
}

func TestDispatchCallOpensMessagingProtocol(t *testing.T) {
	opener := &openerStub{}
	d := NewDispatcher(&launcherStub{}, opener)

	status := d.Dispatch(context.Background(), Request{Type: TypeCall, Params: []string{"mom"}})

	if status != "Opening WhatsApp to call mom for you, sir." {
		t.Fatalf("unexpected status: %q", status)
	}
	if opener.lastURI() != "whatsapp:" {
		t.Fatalf("expected whatsapp protocol launch, got %q", opener.lastURI())
	}
}

func TestDispatchCallDefaultsContactAndSucceedsDespiteOpenerFailure(t *testing.T) {
	opener := &openerStub{err: errors.New("no handler")}
	d := NewDispatcher(&launcherStub{}, opener)

	status := d.Dispatch(context.Background(), Request{Type: TypeCall})

	if status != "Opening WhatsApp to call someone for you, sir." {
		t.Fatalf("unexpected status: %q", status)
	}
}

func TestDispatchEmailBuildsMailtoWithSubject(t *testing.T) {
	opener := &openerStub{}
	d := NewDispatcher(&launcherStub{}, opener)

	status := d.Dispatch(context.Background(), Request{Type: TypeEmail, Params: []string{"bob@example.com", "status update"}})

	if status != "Opening your email client to message bob@example.com." {
		t.Fatalf("unexpected status: %q", status)
	}
	if opener.lastURI() != "mailto:bob@example.com?subject=status+update" {
		t.Fatalf("unexpected mailto uri: %q", opener.lastURI())
	}
}

func TestDispatchEmailReportsOpenerFailure(t *testing.T) {
	d := NewDispatcher(&launcherStub{}, &openerStub{err: errors.New("no mail client")})

	status := d.Dispatch(context.Background(), Request{Type: TypeEmail, Params: []string{"bob@example.com"}})

	if status != "Failed to open email client." {
		t.Fatalf("unexpected status: %q", status)
	}
}

func TestDispatchUnknownTypeReportsWithoutPanicking(t *testing.T) {
	d := NewDispatcher(&launcherStub{}, &openerStub{})

	status := d.Dispatch(context.Background(), Request{Type: "SELF_DESTRUCT"})

	if status != "Unknown action type: SELF_DESTRUCT" {
		t.Fatalf("unexpected status: %q", status)
	}
}

type launcherStub struct {
	mu      sync.Mutex
	succeed bool
	name    string
	monitor int
}

func (l *launcherStub) Open(_ context.Context, name string, monitor int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.name = name
	l.monitor = monitor
	return l.succeed
}

func (l *launcherStub) lastName() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.name
}

func (l *launcherStub) lastMonitor() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.monitor
}

type openerStub struct {
	mu  sync.Mutex
	err error
	uri string
}

func (o *openerStub) OpenURI(uri string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.uri = uri
	return o.err
}

func (o *openerStub) lastURI() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.uri
}
