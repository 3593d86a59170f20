// Package identity
package identity

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"heartbeat-agent/internal/domain"
)

const FileName = "id.txt"

type FileStore struct {
	path string
}

// NewFileStore opens the store in dir. The directory must already exist
// and be writable; it is never created.
func NewFileStore(dir string) (*FileStore, error) {
	if err := CheckDir(dir); err != nil {
		return nil, err
	}
	return &FileStore{path: filepath.Join(dir, FileName)}, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) GetID(_ context.Context) (string, bool, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.NewError(domain.KindIO, "identity read", err)
	}

	if len(b) == 0 {
		return "", false, nil
	}
	return string(b), true, nil
}

func (s *FileStore) SetID(_ context.Context, id string) (string, error) {
	if err := os.WriteFile(s.path, []byte(id), 0o600); err != nil {
		return "", domain.NewError(domain.KindIO, "identity write", err)
	}
	return id, nil
}

func (s *FileStore) Close() error {
	return nil
}

// CheckDir fails with a configuration error unless dir is an existing,
// writable directory.
func CheckDir(dir string) error {
	if dir == "" {
		return domain.Errorf(domain.KindConfig, "identity", "data directory is not set")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return domain.NewError(domain.KindConfig, "identity", fmt.Errorf("data directory %s: %w", dir, err))
	}
	if !info.IsDir() {
		return domain.Errorf(domain.KindConfig, "identity", "data directory %s is not a directory", dir)
	}

	f, err := os.CreateTemp(dir, ".heartbeat-*")
	if err != nil {
		return domain.NewError(domain.KindConfig, "identity", fmt.Errorf("data directory %s is not writable: %w", dir, err))
	}
	name := f.Name()
	f.Close()
	os.Remove(name)

	return nil
}
