package missionlog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the JSONL file entries are appended to.
const FileName = "mission_log.jsonl"

// FileSink appends each entry as one JSON line.
type FileSink struct {
	path string
	mu   sync.Mutex
}

// NewFileSink writes to path. An empty path selects FileName under DataDir.
func NewFileSink(path string) (*FileSink, error) {
	if path == "" {
		dir, err := DataDir()
		if err != nil {
			return nil, fmt.Errorf("mission log dir: %w", err)
		}
		path = filepath.Join(dir, FileName)
	}
	return &FileSink{path: path}, nil
}

// Path returns the file being written.
func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Append(_ context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write log: %w", err)
	}
	return f.Close()
}

// DataDir returns $XDG_DATA_HOME/matrix-terminal, defaulting to
// ~/.local/share/matrix-terminal.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "matrix-terminal"), nil
}
