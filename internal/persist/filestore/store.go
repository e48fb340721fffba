// Package filestore keeps each storage slot as a JSON file in a directory.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/saadjs/mealplan-cli/internal/persist"
)

var _ persist.Slot = (*Store)(nil)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("file storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(name string) (string, error) {
	if err := persist.ValidateSlotName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+".json"), nil
}

func (s *Store) Load(_ context.Context, name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, persist.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read slot file: %w", err)
	}
	return b, nil
}

// Save writes a temp file in the same directory and renames it over the slot.
func (s *Store) Save(_ context.Context, name string, payload []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp slot file: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp slot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp slot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace slot file: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
