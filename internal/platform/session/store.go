package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Values is everything the client remembers between navigations. An empty
// string means the identity is absent.
type Values struct {
	HealthID   string `json:"healthId,omitempty"`
	DoctorID   string `json:"doctorId,omitempty"`
	DoctorName string `json:"doctorName,omitempty"`
	AdminToken string `json:"adminToken,omitempty"`
}

// Store persists Values. Load on a store that has never been written returns
// zero Values and no error.
type Store interface {
	Load() (Values, error)
	Save(Values) error
}

// FileStore keeps the session in a single JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (Values, error) {
	var v Values
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("read session file: %w", err)
	}
	if len(data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return Values{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return v, nil
}

// Save writes to a temp file in the same directory and renames it over the
// old one.
func (s *FileStore) Save(v Values) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu sync.Mutex
	v  Values
}

func NewMemoryStore(v Values) *MemoryStore {
	return &MemoryStore{v: v}
}

func (s *MemoryStore) Load() (Values, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v, nil
}

func (s *MemoryStore) Save(v Values) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = v
	return nil
}
