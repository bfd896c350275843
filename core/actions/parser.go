// Package actions extracts structured side-effect requests from assistant
// replies and routes them to their handlers.
package actions

import (
	"strings"
)

type RequestType string

const (
	TypeOpenApp RequestType = "OPEN_APP"
	TypeCall    RequestType = "CALL"
	TypeEmail   RequestType = "EMAIL"
)

// Request is one parsed action tag. Unknown types are carried through so the
// dispatcher can report them instead of dropping them silently.
type Request struct {
	Type   RequestType
	Params []string
}

const (
	tagOpen  = "[[ACTION:"
	tagClose = "]]"
)

// Parse extracts every action tag of the form
//
//	[[ACTION: TYPE, "param1", "param2", ...]]
//
// from text, in order of appearance. Malformed or empty tags are skipped;
// Parse never fails.
func Parse(text string) []Request {
	var requests []Request
	for _, body := range tagBodies(text) {
		if request, ok := parseTagBody(body); ok {
			requests = append(requests, request)
		}
	}
	return requests
}

// Strip removes every action tag substring from text so that tags are never
// spoken or shown to the user.
func Strip(text string) string {
	var b strings.Builder
	rest := text
	for {
		start, end, ok := nextTag(rest)
		if !ok {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		rest = rest[end:]
	}
	return strings.TrimSpace(b.String())
}

// HasTag reports whether text contains at least one complete action tag.
func HasTag(text string) bool {
	_, _, ok := nextTag(text)
	return ok
}

func tagBodies(text string) []string {
	var bodies []string
	rest := text
	for {
		start, end, ok := nextTag(rest)
		if !ok {
			return bodies
		}
		bodies = append(bodies, rest[start+len(tagOpen):end-len(tagClose)])
		rest = rest[end:]
	}
}

func nextTag(text string) (start, end int, ok bool) {
	start = strings.Index(text, tagOpen)
	if start < 0 {
		return 0, 0, false
	}
	closing := strings.Index(text[start:], tagClose)
	if closing < 0 {
		return 0, 0, false
	}
	return start, start + closing + len(tagClose), true
}

func parseTagBody(body string) (Request, bool) {
	tokens := splitParams(body)
	if len(tokens) == 0 {
		return Request{}, false
	}

	requestType := strings.ToUpper(strings.TrimSpace(tokens[0]))
	if requestType == "" {
		return Request{}, false
	}

	params := make([]string, 0, len(tokens)-1)
	for _, token := range tokens[1:] {
		if token != "" {
			params = append(params, token)
		}
	}

	return Request{Type: RequestType(requestType), Params: params}, true
}

// splitParams splits on top-level commas, honoring single and double quotes.
// Known limitation: a comma inside a quoted value whose closing quote is
// missing splits the value; the upstream generator is not trusted to escape,
// so this stays as documented behavior.
func splitParams(body string) []string {
	var tokens []string
	var current strings.Builder
	var quote rune

	flush := func() {
		tokens = append(tokens, trimToken(current.String()))
		current.Reset()
	}

	for _, r := range body {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			current.WriteRune(r)
		case r == ',':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

func trimToken(token string) string {
	token = strings.TrimSpace(token)
	if len(token) >= 2 {
		first, last := token[0], token[len(token)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			token = token[1 : len(token)-1]
		}
	}
	return strings.TrimSpace(token)
}
