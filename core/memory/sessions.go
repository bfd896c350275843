package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/manan-dev/jarvis-core/core/llms"
)

const (
	sessionsSubdir = "sessions"
	logsSubdir     = "logs"
	turnLogName    = "jarvis_logs.txt"

	// TimestampLayout matches the compact timestamps used in file names and
	// the turn log.
	TimestampLayout = "20060102-150405"
)

// SaveSession writes the finished session transcript to
// memory/sessions/session_<start>.txt. An empty session writes nothing.
func (s *Store) SaveSession(turns []llms.Turn, sessionStart time.Time) error {
	if len(turns) == 0 {
		return nil
	}

	dir := filepath.Join(s.baseDir, memorySubdir, sessionsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("session_%s.txt", sessionStart.Format(TimestampLayout)))

	var b strings.Builder
	b.WriteString("JARVIS Conversation Session\n")
	b.WriteString(fmt.Sprintf("Started: %s\n", sessionStart.Format(TimestampLayout)))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	for _, turn := range turns {
		name := "User"
		if turn.Role == llms.TurnRoleAssistant {
			name = "Jarvis"
		}
		b.WriteString(fmt.Sprintf("%s: %s\n\n", name, turn.Content))
	}

	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString(fmt.Sprintf("Session ended: %s\n", time.Now().Format("2006-01-02 15:04:05")))

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// AppendTurnLog appends the diagnostic record of one finished turn. The turn
// log is advisory; the session file is the durable record.
func (s *Store) AppendTurnLog(userText, assistantText string, at time.Time) error {
	dir := filepath.Join(s.baseDir, logsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, turnLogName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open turn log: %w", err)
	}
	defer f.Close()

	timestamp := at.Format(TimestampLayout)
	record := fmt.Sprintf("[%s] You: %s\n[%s] Jarvis: %s\n\n", timestamp, userText, timestamp, assistantText)
	if _, err := f.WriteString(record); err != nil {
		return fmt.Errorf("failed to append turn log: %w", err)
	}
	return nil
}
