// Package placement waits for a freshly-launched application's main window to
// appear and moves it onto the requested monitor.
package placement

import (
	"context"
	"strings"
	"time"
)

// Rect is a monitor's work area or a window's bounds in virtual-screen
// coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Window is a top-level visible window as the desktop reports it.
type Window struct {
	Handle uintptr
	Title  string
}

// Desktop is the seam to the windowing system; see the windows implementation
// for the real one.
type Desktop interface {
	// Monitors lists work areas in the OS enumeration order; the primary
	// monitor comes first.
	Monitors() ([]Rect, error)
	// Windows lists visible top-level windows with a non-empty title.
	Windows() ([]Window, error)
	// Restore un-minimizes a window so it can be moved.
	Restore(handle uintptr) error
	// MoveResize places a window at the given bounds.
	MoveResize(handle uintptr, bounds Rect) error
	// Maximize maximizes a window on whichever monitor it currently occupies.
	Maximize(handle uintptr) error
	// Minimized reports whether the window is currently minimized.
	Minimized(handle uintptr) bool
}

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultPollDeadline = 20 * time.Second
)

// Poller watches the desktop for an application's main window and places it
// once it shows up. Applications with heavy startup sequences can take many
// seconds to show their real window, hence the generous deadline.
type Poller struct {
	desktop  Desktop
	rules    map[string]MatchRule
	interval time.Duration
	deadline time.Duration
}

type PollerOption func(*Poller)

func WithRule(appName string, rule MatchRule) PollerOption {
	return func(p *Poller) { p.rules[strings.ToLower(appName)] = rule }
}

func WithPollInterval(interval time.Duration) PollerOption {
	return func(p *Poller) { p.interval = interval }
}

func WithPollDeadline(deadline time.Duration) PollerOption {
	return func(p *Poller) { p.deadline = deadline }
}

func NewPoller(desktop Desktop, opts ...PollerOption) *Poller {
	poller := &Poller{
		desktop:  desktop,
		rules:    defaultRules(),
		interval: defaultPollInterval,
		deadline: defaultPollDeadline,
	}
	for _, opt := range opts {
		opt(poller)
	}
	return poller
}

// Place spawns a background watch for the application's window and returns
// immediately. Failure to find or move the window is logged, never surfaced;
// the launch itself already succeeded.
func (p *Poller) Place(ctx context.Context, appName string, monitor int) {
	go p.place(ctx, appName, monitor)
}

func (p *Poller) place(ctx context.Context, appName string, monitor int) {
	ctx, span := tracer.Start(ctx, "place window")
	defer span.End()

	bounds, ok := p.monitorBounds(monitor)
	if !ok {
		return
	}

	rule := p.rules[strings.ToLower(strings.TrimSpace(appName))]

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	timeout := time.After(p.deadline)

	for {
		if window, found := p.findWindow(appName, rule); found {
			p.moveWindow(window, bounds)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-timeout:
			logger.Warn("gave up waiting for application window", "app", appName)
			return
		case <-ticker.C:
		}
	}
}

// monitorBounds resolves a 1-based monitor index to its work area. An index
// past the end clamps to the last monitor; with no monitor info at all the
// placement is abandoned.
func (p *Poller) monitorBounds(monitor int) (Rect, bool) {
	monitors, err := p.desktop.Monitors()
	if err != nil || len(monitors) == 0 {
		logger.Warn("could not enumerate monitors", "error", err)
		return Rect{}, false
	}

	index := monitor - 1
	if index < 0 {
		index = 0
	}
	if index >= len(monitors) {
		index = len(monitors) - 1
	}
	return monitors[index], true
}

func (p *Poller) findWindow(appName string, rule MatchRule) (Window, bool) {
	windows, err := p.desktop.Windows()
	if err != nil {
		logger.Debug("could not enumerate windows", "error", err)
		return Window{}, false
	}

	for _, window := range windows {
		if matchTitle(window.Title, appName, rule) {
			return window, true
		}
	}
	return Window{}, false
}

func (p *Poller) moveWindow(window Window, bounds Rect) {
	if p.desktop.Minimized(window.Handle) {
		if err := p.desktop.Restore(window.Handle); err != nil {
			logger.Warn("could not restore window", "title", window.Title, "error", err)
			return
		}
	}

	if err := p.desktop.MoveResize(window.Handle, bounds); err != nil {
		logger.Warn("could not move window", "title", window.Title, "error", err)
		return
	}

	if err := p.desktop.Maximize(window.Handle); err != nil {
		logger.Warn("could not maximize window", "title", window.Title, "error", err)
		return
	}

	logger.Info("window placed", "title", window.Title)
}
