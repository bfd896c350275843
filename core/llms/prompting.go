package llms

import (
	"fmt"
	"strings"
)

// SystemPrompt is the assistant persona and the action-trigger contract the
// providers are instructed to honor.
const SystemPrompt = `You are Jarvis, a highly advanced AI assistant.
You are NOT a robot; you have a personality. You are witty, polite, and helpful.
You should sound like a capable assistant (like J.A.R.V.I.S from Iron Man).

CRITICAL INSTRUCTIONS:
- Give DIRECT, CONCISE answers only. Do NOT show your thinking process or reasoning.
- Do NOT acknowledge or mention any profile information, history, or context you receive.
- Do NOT explain why you're answering a certain way or reference past conversations unless directly asked.
- Keep responses SHORT and suitable for voice output (1-3 sentences maximum for simple questions).
- Answer naturally as if this is a fresh conversation, even if you have context.
- If asked "How are you?", respond briefly like: "I'm doing excellent, sir. How can I help you?"

ACTION TRIGGERS:
- If the user asks to open a software (e.g., "Open Autocad", "Start Chrome", "Launch Notepad"), you MUST include an action trigger in your response.
- Use the syntax: [[ACTION: OPEN_APP, "software_name"]]
- Always provide a verbal confirmation as well, e.g., "Certainly, sir. Opening Autocad now." or "Of course. Launching Chrome for you."

Respond ONLY with what the user needs to hear, nothing more.`

// maxContextExchanges bounds how many recent exchanges are replayed to the
// provider; one exchange is a user turn plus the assistant turn.
const maxContextExchanges = 5

// FormatSessionContext renders the tail of the live session the way providers
// expect to receive it.
func FormatSessionContext(turns []Turn) string {
	if len(turns) == 0 {
		return ""
	}

	recent := turns
	if limit := maxContextExchanges * 2; len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}

	lines := make([]string, 0, len(recent))
	for _, turn := range recent {
		name := "User"
		if turn.Role == TurnRoleAssistant {
			name = "Jarvis"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, turn.Content))
	}

	return fmt.Sprintf("\n[Current Session]\n%s\n", strings.Join(lines, "\n"))
}

// BuildPrompt combines durable memory context, the session tail, and the
// user's utterance into the single prompt string sent to a provider.
func BuildPrompt(memoryContext string, turns []Turn, userInput string) string {
	return fmt.Sprintf("%s%s\n\nUser: %s", memoryContext, FormatSessionContext(turns), userInput)
}
