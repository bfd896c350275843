// Package memory owns the durable artifacts of the assistant: the running
// conversation history, per-session transcripts, the diagnostic turn log,
// and the profile/facts context handed to inference providers.
package memory

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	historyFileName = "history.jsonl"
	memorySubdir    = "memory"
)

// HistoryEntry is one line of history.jsonl. The same format is produced by
// the external browser-export import step, so the loader must tolerate
// whatever that step wrote.
type HistoryEntry struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Store reads and writes the assistant's files under a single base
// directory. Only the conversation loop writes; writes are never concurrent.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) historyPath() string {
	return filepath.Join(s.baseDir, memorySubdir, historyFileName)
}

// AppendHistory adds one record to history.jsonl, creating the directory and
// file as needed.
func (s *Store) AppendHistory(entry HistoryEntry) error {
	path := s.historyPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create memory directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// LoadHistory reads every parseable record of history.jsonl. Malformed lines
// are skipped, not fatal; a missing file yields an empty history and
// [os.ErrNotExist].
func (s *Store) LoadHistory() ([]HistoryEntry, error) {
	f, err := os.Open(s.historyPath())
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []HistoryEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry HistoryEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("failed to read history file: %w", err)
	}

	return entries, nil
}
