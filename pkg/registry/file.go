package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/molline/pkg/cache"
	"github.com/matzehuels/molline/pkg/errors"
)

// FileStore is a file-based registry for CLI applications.
// Each record is a JSON file named after the hash of its canonical text.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based registry.
// If baseDir is empty, defaults to ~/.config/molline/registry/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "molline", "registry")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create registry dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) recordPath(canonical string) string {
	return filepath.Join(s.baseDir, cache.Hash([]byte(canonical))+".json")
}

func (s *FileStore) read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("read record file: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parse record: %w", err)
	}
	return rec, nil
}

func (s *FileStore) Register(_ context.Context, rec Record) (Record, bool, error) {
	rec, err := prepare(rec)
	if err != nil {
		return Record{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.recordPath(rec.Canonical)
	if existing, err := s.read(path); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, errors.ErrCodeNotFound) {
		return Record{}, false, err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Record{}, false, fmt.Errorf("marshal record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return Record{}, false, fmt.Errorf("write record file: %w", err)
	}
	return rec, true, nil
}

func (s *FileStore) Lookup(_ context.Context, canonical string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.recordPath(canonical))
}

// Get scans the directory; the file layout is keyed by canonical text.
func (s *FileStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return Record{}, fmt.Errorf("read registry dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		rec, err := s.read(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for record files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
