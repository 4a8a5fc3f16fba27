// Package vault provides durable session storage backends behind the
// ports.SessionVault interface: a JSON file in the user's config directory
// (the default) and Redis for environments without a stable home directory.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hidayetmm/places-client/internal/core/ports"
)

// FileVault persists the session as a single JSON file.
type FileVault struct {
	path string
}

// NewFileVault returns a FileVault writing to path. An empty path falls back
// to DefaultPath.
func NewFileVault(path string) (*FileVault, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return &FileVault{path: path}, nil
}

// DefaultPath returns the session file location under the user config
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "places", "session.json"), nil
}

// Put writes the session atomically (temp file + rename) with owner-only
// permissions, since the payload contains the access token.
func (v *FileVault) Put(_ context.Context, session []byte) error {
	dir := filepath.Dir(v.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "session-*.tmp")
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if _, err := tmp.Write(session); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	if err := os.Rename(tmp.Name(), v.path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (v *FileVault) Get(_ context.Context) ([]byte, error) {
	b, err := os.ReadFile(v.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ports.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	return b, nil
}

func (v *FileVault) Delete(_ context.Context) error {
	err := os.Remove(v.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Ping verifies the session directory exists or can be created.
func (v *FileVault) Ping(_ context.Context) error {
	if err := os.MkdirAll(filepath.Dir(v.path), 0o700); err != nil {
		return fmt.Errorf("session dir unavailable: %w", err)
	}
	return nil
}
