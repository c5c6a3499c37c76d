package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists snapshots as a single JSON document on disk. Writes go
// through a temp file and rename so a crash mid-save never leaves a
// truncated snapshot behind.
type FileStore struct {
	path string
}

// Ensure interface compliance at compile time
var _ Store = (*FileStore)(nil)

func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("snapshot: file path is required")
	}
	return &FileStore{path: path}, nil
}

// NewFileStoreFromEnv constructs a FileStore from the SNAPSHOT_PATH
// environment variable.
func NewFileStoreFromEnv() (*FileStore, error) {
	path := strings.TrimSpace(os.Getenv("SNAPSHOT_PATH"))
	if path == "" {
		return nil, errors.New("snapshot: SNAPSHOT_PATH environment variable is not set")
	}
	return NewFileStore(path)
}

func (f *FileStore) Load(_ context.Context) (*Snapshot, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", f.path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", f.path, err)
	}
	return &snap, nil
}

func (f *FileStore) Save(_ context.Context, snap *Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("snapshot: mkdir %s: %w", dir, err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("snapshot: rename %s: %w", tmp, err)
	}
	return nil
}
