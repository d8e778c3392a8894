package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps credentials in a single JSON file, mode 0600.
// This is the client-side stand-in for browser localStorage.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Save(ctx context.Context, c Credentials) error {
	if c.Token == "" {
		return fmt.Errorf("session: missing token")
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("session: failed to create credentials dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	// Write then rename so a crash never leaves a half-written file.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session: failed to write credentials: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("session: failed to write credentials: %w", err)
	}

	return nil
}

func (f *FileStore) Load(ctx context.Context) (*Credentials, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil // not logged in
	}
	if err != nil {
		return nil, fmt.Errorf("session: failed to read credentials: %w", err)
	}

	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	if c.Token == "" {
		return nil, nil
	}

	return &c, nil
}

func (f *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: failed to clear credentials: %w", err)
	}
	return nil
}
