package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

// FileStore is a file-based store for CLI applications.
// Records are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based store.
// If baseDir is empty, defaults to ~/.config/wordcloud/sessions/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "wordcloud", "sessions")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "create session dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) recordPath(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := errors.ValidateStoreKey(key); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.recordPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "read session file")
	}
	return data, true, nil
}

// Set writes the record through a temporary file and a rename, so a crash
// never leaves a truncated record behind.
func (s *FileStore) Set(_ context.Context, key string, data []byte) error {
	if err := errors.ValidateStoreKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.baseDir, "."+key+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "write session file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "close session file")
	}
	if err := os.Rename(tmp.Name(), s.recordPath(key)); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "replace session file")
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := errors.ValidateStoreKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.recordPath(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "remove session file")
	}
	return nil
}

func (s *FileStore) Close() error    { return nil }
func (s *FileStore) Backend() string { return "file" }

// Path returns the base directory for session files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
