// Package repl provides the interactive mode for lorikv-cli.
package repl

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

const historyMaxSize = 1000

// History keeps the commands entered in a session and persists them to
// ~/.lorikv/history across sessions.
type History struct {
	entries []string
	maxSize int
	file    string
}

// NewHistory creates an empty history backed by the default file.
func NewHistory() *History {
	homeDir, _ := os.UserHomeDir()
	return &History{
		maxSize: historyMaxSize,
		file:    filepath.Join(homeDir, ".lorikv", "history"),
	}
}

// Add records a command. Blank lines and immediate repeats are skipped.
func (h *History) Add(cmd string) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
}

// Get returns the entry at index counting back from the most recent, or
// "" when index is out of range.
func (h *History) Get(index int) string {
	if index < 0 || index >= len(h.entries) {
		return ""
	}
	return h.entries[len(h.entries)-1-index]
}

// Load reads the history file. A missing file is not an error.
func (h *History) Load() error {
	f, err := os.Open(h.file)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			h.entries = append(h.entries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
	return nil
}

// Save writes the history file, creating its directory if needed.
func (h *History) Save() error {
	if err := os.MkdirAll(filepath.Dir(h.file), 0700); err != nil {
		return err
	}
	if len(h.entries) == 0 {
		return os.WriteFile(h.file, nil, 0600)
	}
	data := strings.Join(h.entries, "\n") + "\n"
	return os.WriteFile(h.file, []byte(data), 0600)
}
