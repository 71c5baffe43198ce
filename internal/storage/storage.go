// Package storage provides the persisted key-value state for redeemctl
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// StateVersion is the current state file format version
	StateVersion = "1.0"
	// StateFilename is the standard state filename
	StateFilename = "state.json"
)

// Well-known entry keys
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store is the key-value port the session store persists through.
// Values are opaque strings; absent keys return ok=false.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// stateFile is the on-disk representation
type stateFile struct {
	Version   string            `json:"version"`
	UpdatedAt time.Time         `json:"updated_at"`
	Entries   map[string]string `json:"entries"`
}

// FileStore persists entries to a JSON state file. The file is written
// with 0600 permissions via an atomic rename so a crash never leaves a
// partially written token on disk.
type FileStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
}

// NewFileStore opens (or initializes) the state file at path
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var sf stateFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing state file: %w", err)
	}
	if sf.Entries != nil {
		s.entries = sf.Entries
	}

	return s, nil
}

// Path returns the state file location
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the value for key
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok
}

// Set stores the value for key and persists the file
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return s.flush()
}

// Remove deletes the key and persists the file. Removing an absent key
// is not an error.
func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return nil
	}
	delete(s.entries, key)
	return s.flush()
}

// flush writes the state file. Caller must hold the mutex.
func (s *FileStore) flush() error {
	sf := stateFile{
		Version:   StateVersion,
		UpdatedAt: time.Now().UTC(),
		Entries:   s.entries,
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, StateFilename+".*")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting state file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing state file: %w", err)
	}

	return nil
}

// MemStore is an in-memory Store for tests
type MemStore struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]string)}
}

// Get returns the value for key
func (s *MemStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok
}

// Set stores the value for key
func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Remove deletes the key
func (s *MemStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
