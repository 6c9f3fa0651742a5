package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the checkpoint in a single JSON file, written atomically
// (temp file then rename) so a crash mid-write never leaves a torn blob.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path. An empty path uses
// DefaultFile in the current directory.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	return &FileStore{path: path}
}

func (f *FileStore) Get() (json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return emptyObject, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint file: %w", err)
	}
	if len(data) == 0 {
		return emptyObject, nil
	}
	return json.RawMessage(data), nil
}

func (f *FileStore) Set(blob json.RawMessage) error {
	blob = normalizeBlob(blob)

	dir := filepath.Dir(f.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create checkpoint directory: %w", err)
		}
	}

	tempFile := f.path + ".tmp"
	if err := os.WriteFile(tempFile, blob, 0644); err != nil {
		return fmt.Errorf("failed to write checkpoint file: %w", err)
	}
	if err := os.Rename(tempFile, f.path); err != nil {
		return fmt.Errorf("failed to save checkpoint file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear checkpoint file: %w", err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
