// Package launch resolves a spoken application name to something the OS can
// start, through a ladder of fallback strategies.
package launch

import (
	"context"
	"fmt"
	"strings"
)

// System is the seam to the OS launch facilities; see the windows
// implementation for the real one.
type System interface {
	// StartFile opens a path through the OS file association.
	StartFile(path string) error
	// StartProcess spawns an executable directly with an argument vector.
	StartProcess(exe string, args ...string) error
	// OpenURI hands a URI (protocol string) to the OS shell handler.
	OpenURI(uri string) error
	// ShellStart lets the OS shell interpret a raw command (vendor aliases).
	ShellStart(command string) error
	// FindInstalledApp queries the installed-application index for the best
	// case-insensitive substring match on display name.
	FindInstalledApp(name string) (appID string, err error)
	// LaunchAppID starts an application by its opaque identifier.
	LaunchAppID(appID string) error
}

// Placer asynchronously moves a freshly-launched application's window onto a
// monitor; it must not block the caller.
type Placer interface {
	Place(ctx context.Context, appName string, monitor int)
}

type Launcher struct {
	mapping Mapping
	system  System
	placer  Placer
}

type LauncherOption func(*Launcher)

func WithMapping(mapping Mapping) LauncherOption {
	return func(l *Launcher) { l.mapping = mapping }
}

func WithPlacer(placer Placer) LauncherOption {
	return func(l *Launcher) { l.placer = placer }
}

func NewLauncher(system System, opts ...LauncherOption) *Launcher {
	launcher := &Launcher{
		mapping: DefaultMapping(),
		system:  system,
	}
	for _, opt := range opts {
		opt(launcher)
	}
	return launcher
}

// strategy is one rung of the fallback ladder. attempt returns an error to
// mean "try the next one"; the first nil error wins.
type strategy struct {
	name    string
	attempt func() error
}

// Open tries to start the named application. It reports success or failure
// and never returns an error: every strategy failure just escalates to the
// next strategy. A monitor index greater than zero spawns a fire-and-forget
// placement request after any strategy succeeds.
func (l *Launcher) Open(ctx context.Context, name string, monitor int) bool {
	ctx, span := tracer.Start(ctx, "open application")
	defer span.End()

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}

	target, mapped := l.mapping.Lookup(trimmed)
	if !mapped {
		// An unmapped name is treated as the executable itself.
		target = Target{Executable: normalizeName(trimmed)}
	}

	for _, s := range l.strategies(trimmed, target, mapped) {
		if err := s.attempt(); err != nil {
			logger.Debug("launch strategy failed", "app", trimmed, "strategy", s.name, "error", err)
			continue
		}

		logger.Info("application launch initiated", "app", trimmed, "strategy", s.name)
		if monitor > 0 && l.placer != nil {
			l.placer.Place(ctx, trimmed, monitor)
		}
		return true
	}

	logger.Warn("all launch strategies failed", "app", trimmed)
	return false
}

func (l *Launcher) strategies(name string, target Target, mapped bool) []strategy {
	var ladder []strategy

	if target.isProtocol() {
		ladder = append(ladder, strategy{"protocol", func() error {
			return l.system.OpenURI(target.Protocol)
		}})
	}

	if target.Executable != "" && len(target.Args) == 0 {
		ladder = append(ladder,
			strategy{"direct-path", func() error {
				return l.system.StartFile(target.Executable)
			}},
			strategy{"shell-exec", func() error {
				return l.system.ShellStart(quoteIfSpaced(target.Executable))
			}},
		)
	}

	if len(target.Args) > 0 {
		ladder = append(ladder, strategy{"argument-list", func() error {
			return l.system.StartProcess(target.Executable, target.Args...)
		}})
	}

	// A multi-word name absent from the mapping is likely a human-readable
	// app title, so consult the installed-application index.
	if !mapped && strings.ContainsAny(name, " \t") {
		ladder = append(ladder, strategy{"name-discovery", func() error {
			appID, err := l.system.FindInstalledApp(name)
			if err != nil {
				return err
			}
			return l.system.LaunchAppID(appID)
		}})
	}

	ladder = append(ladder, strategy{"shell-alias", func() error {
		return l.system.ShellStart(quoteIfSpaced(normalizeName(name)))
	}})

	return ladder
}

func quoteIfSpaced(s string) string {
	if strings.Contains(s, " ") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
