package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the session as a JSON file so it survives restarts.
// Writes go through a temp file and rename, which keeps the pair update atomic
// with respect to readers of the file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*FileStore)(nil)

// fileState is the on-disk layout. Tokens and the display-name override are
// independently settable, so the whole state is rewritten on every mutation.
type fileState struct {
	Access      string `json:"access,omitempty"`
	Refresh     string `json:"refresh,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// NewFileStore creates a store backed by the file at path. The file is created
// lazily on the first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(_ context.Context) (TokenPair, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return TokenPair{}, false, err
	}
	if state.Access == "" && state.Refresh == "" {
		return TokenPair{}, false, nil
	}
	return TokenPair{Access: state.Access, Refresh: state.Refresh}, true, nil
}

func (s *FileStore) Set(_ context.Context, pair TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return err
	}
	state.Access = pair.Access
	state.Refresh = pair.Refresh
	return s.write(state)
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session.FileStore Clear: %w", err)
	}
	return nil
}

func (s *FileStore) DisplayName(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return "", err
	}
	return state.DisplayName, nil
}

func (s *FileStore) SetDisplayName(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return err
	}
	state.DisplayName = name
	return s.write(state)
}

func (s *FileStore) read() (fileState, error) {
	var state fileState

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return state, nil
	}
	if err != nil {
		return state, fmt.Errorf("session.FileStore read: %w", err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt session file is treated as logged out rather than a
		// permanent failure.
		return fileState{}, nil
	}
	return state, nil
}

func (s *FileStore) write(state fileState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("session.FileStore write: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session.FileStore write: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session.FileStore write: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("session.FileStore write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("session.FileStore write: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("session.FileStore write: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("session.FileStore write: %w", err)
	}
	return nil
}
