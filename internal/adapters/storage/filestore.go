package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a small persisted key-value store backed by one JSON file,
// the server-side analog of the browser's localStorage. The file holds a
// flat object of key -> raw JSON value. Writes go through a temp file and
// rename so a crash cannot leave a half-written store.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func New(path string) *FileStore { return &FileStore{path: path} }

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return nil, false, err
	}
	v, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

func (s *FileStore) Set(key string, val []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		// A corrupt store is rebuilt rather than blocking writes.
		m = map[string]json.RawMessage{}
	}
	m[key] = json.RawMessage(val)
	return s.write(m)
}

func (s *FileStore) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		m = map[string]json.RawMessage{}
	}
	delete(m, key)
	return s.write(m)
}

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("store file %s: %w", s.path, err)
	}
	return m, nil
}

func (s *FileStore) write(m map[string]json.RawMessage) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".store-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
