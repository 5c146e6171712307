package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lysyi3m/launch-comb/app/announcement"
)

type fileState struct {
	Seen []string `json:"seen"`
}

// FileStore keeps the seen keys in a JSON file of the form {"seen": [...]}.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load treats a missing or unreadable file as empty state.
func (s *FileStore) Load(_ context.Context) (announcement.SeenState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return announcement.NewSeenState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		slog.Warn("State file is corrupt, starting empty", "path", s.path, "error", err)
		return announcement.NewSeenState(), nil
	}

	return announcement.NewSeenState(st.Seen...), nil
}

// SaveAtomic writes the sorted keys to a temporary file and renames it over
// the state file.
func (s *FileStore) SaveAtomic(_ context.Context, seen announcement.SeenState) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fileState{Seen: seen.Keys()}); err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}

func (s *FileStore) Close() error {
	return nil
}
