package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore provides file-based storage, one JSON file per key.
type FileStore struct {
	basePath string
}

// NewFileStore creates a new FileStore and ensures the base directory exists.
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &FileStore{basePath: basePath}, nil
}

// sanitizeKey makes the key safe for filenames.
func sanitizeKey(key string) string {
	return strings.NewReplacer("/", "_", "\\", "_", ":", "-").Replace(key)
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.basePath, sanitizeKey(key)+".json")
}

// Load reads the snapshot file for key.
func (s *FileStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return data, true, nil
}

// Save writes the snapshot through a temp file so a crash never leaves a
// half-written blob behind.
func (s *FileStore) Save(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(s.basePath, sanitizeKey(key)+"_*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("failed to move snapshot file into place: %w", err)
	}
	return nil
}

// RemoveStaleTemps removes temp files left by interrupted saves.
func (s *FileStore) RemoveStaleTemps() error {
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*.tmp"))
	if err != nil {
		return fmt.Errorf("failed to glob stale files: %w", err)
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			return fmt.Errorf("failed to remove stale file %s: %w", match, err)
		}
	}
	return nil
}
