package launch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestOpenProtocolTargetUsesURIOpener(t *testing.T) {
	system := newSystemStub()
	launcher := NewLauncher(system)

	if !launcher.Open(context.Background(), "whatsapp", 0) {
		t.Fatalf("expected protocol launch to succeed")
	}
	if got := system.callsOf("OpenURI"); len(got) != 1 || got[0] != "whatsapp:" {
		t.Fatalf("expected whatsapp: protocol handoff, got %v", got)
	}
}

func TestOpenMappedExecutableTriesDirectPathFirst(t *testing.T) {
	system := newSystemStub()
	launcher := NewLauncher(system)

	if !launcher.Open(context.Background(), "Notepad", 0) {
		t.Fatalf("expected mapped launch to succeed")
	}
	if got := system.callsOf("StartFile"); len(got) != 1 || got[0] != "notepad.exe" {
		t.Fatalf("expected direct-path launch of notepad.exe, got %v", got)
	}
}

func TestOpenEscalatesToShellExecWhenDirectPathFails(t *testing.T) {
	system := newSystemStub()
	system.fail["StartFile"] = true
	launcher := NewLauncher(system)

	if !launcher.Open(context.Background(), "notepad", 0) {
		t.Fatalf("expected fallback launch to succeed")
	}
	if got := system.callsOf("ShellStart"); len(got) != 1 || got[0] != "notepad.exe" {
		t.Fatalf("expected shell-exec fallback, got %v", got)
	}
}

func TestOpenArgumentListTargetSpawnsProcess(t *testing.T) {
	system := newSystemStub()
	launcher := NewLauncher(system)

	if !launcher.Open(context.Background(), "civil 3d", 0) {
		t.Fatalf("expected argument-list launch to succeed")
	}
	if got := system.callsOf("StartProcess"); len(got) != 1 {
		t.Fatalf("expected one process spawn, got %v", got)
	}
}

func TestOpenUnmappedMultiWordNameConsultsAppIndex(t *testing.T) {
	system := newSystemStub()
	system.fail["StartFile"] = true
	system.fail["ShellStart"] = true
	system.appID = "SomeVendor.SomeApp_abc123"
	launcher := NewLauncher(system)

	if !launcher.Open(context.Background(), "some obscure app", 0) {
		t.Fatalf("expected name-discovery launch to succeed")
	}
	if got := system.callsOf("FindInstalledApp"); len(got) != 1 || got[0] != "some obscure app" {
		t.Fatalf("expected app index query, got %v", got)
	}
	if got := system.callsOf("LaunchAppID"); len(got) != 1 || got[0] != "SomeVendor.SomeApp_abc123" {
		t.Fatalf("expected launch by app id, got %v", got)
	}
}

func TestOpenFallsBackToShellAliasAsLastResort(t *testing.T) {
	system := newSystemStub()
	system.fail["StartFile"] = true
	launcher := NewLauncher(system, WithMapping(Mapping{}))

	if !launcher.Open(context.Background(), "someapp", 0) {
		t.Fatalf("expected shell-alias fallback to succeed")
	}
	if got := system.callsOf("ShellStart"); len(got) == 0 || got[len(got)-1] != "someapp" {
		t.Fatalf("expected raw name shell handoff, got %v", got)
	}
}

func TestOpenReportsFailureWhenEveryStrategyFails(t *testing.T) {
	system := newSystemStub()
	for _, name := range []string{"StartFile", "StartProcess", "OpenURI", "ShellStart", "FindInstalledApp", "LaunchAppID"} {
		system.fail[name] = true
	}
	launcher := NewLauncher(system)

	if launcher.Open(context.Background(), "hopeless app", 0) {
		t.Fatalf("expected failure when every strategy fails")
	}
}

func TestOpenBlankNameFailsWithoutSystemCalls(t *testing.T) {
	system := newSystemStub()
	launcher := NewLauncher(system)

	if launcher.Open(context.Background(), "   ", 0) {
		t.Fatalf("expected blank name to fail")
	}
	if system.totalCalls() != 0 {
		t.Fatalf("expected no system calls for blank name, got %d", system.totalCalls())
	}
}

func TestOpenWithMonitorRequestsPlacement(t *testing.T) {
	system := newSystemStub()
	placer := &placerStub{placed: make(chan placementCall, 1)}
	launcher := NewLauncher(system, WithPlacer(placer))

	if !launcher.Open(context.Background(), "notepad", 2) {
		t.Fatalf("expected launch to succeed")
	}

	select {
	case call := <-placer.placed:
		if call.app != "notepad" || call.monitor != 2 {
			t.Fatalf("expected placement of notepad on monitor 2, got %+v", call)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for placement request")
	}
}

func TestOpenWithoutMonitorSkipsPlacement(t *testing.T) {
	system := newSystemStub()
	placer := &placerStub{placed: make(chan placementCall, 1)}
	launcher := NewLauncher(system, WithPlacer(placer))

	if !launcher.Open(context.Background(), "notepad", 0) {
		t.Fatalf("expected launch to succeed")
	}

	select {
	case call := <-placer.placed:
		t.Fatalf("expected no placement request, got %+v", call)
	case <-time.After(50 * time.Millisecond):
	}
}

type systemStub struct {
	mu    sync.Mutex
	calls map[string][]string
	fail  map[string]bool
	appID string
}

func newSystemStub() *systemStub {
	return &systemStub{
		calls: map[string][]string{},
		fail:  map[string]bool{},
	}
}

func (s *systemStub) record(method, arg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method] = append(s.calls[method], arg)
	if s.fail[method] {
		return errors.New(method + " failed")
	}
	return nil
}

func (s *systemStub) StartFile(path string) error { return s.record("StartFile", path) }

func (s *systemStub) StartProcess(exe string, _ ...string) error {
	return s.record("StartProcess", exe)
}

func (s *systemStub) OpenURI(uri string) error { return s.record("OpenURI", uri) }

func (s *systemStub) ShellStart(command string) error { return s.record("ShellStart", command) }

func (s *systemStub) FindInstalledApp(name string) (string, error) {
	if err := s.record("FindInstalledApp", name); err != nil {
		return "", err
	}
	return s.appID, nil
}

func (s *systemStub) LaunchAppID(appID string) error { return s.record("LaunchAppID", appID) }

func (s *systemStub) callsOf(method string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls[method]...)
}

func (s *systemStub) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, calls := range s.calls {
		total += len(calls)
	}
	return total
}

type placementCall struct {
	app     string
	monitor int
}

type placerStub struct {
	placed chan placementCall
}

func (p *placerStub) Place(_ context.Context, appName string, monitor int) {
	select {
	case p.placed <- placementCall{app: appName, monitor: monitor}:
	default:
	}
}
