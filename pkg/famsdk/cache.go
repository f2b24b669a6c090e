package famsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CachedState is the persisted client view: the last snapshot the server
// confirmed, the session token, and when it was fetched. Never authoritative;
// always subordinate to a successful reconciliation fetch.
type CachedState struct {
	Snapshot  Snapshot  `json:"snapshot"`
	Token     string    `json:"token"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// CacheStore persists CachedState across app restarts.
type CacheStore interface {
	// Load returns the stored state and whether one exists.
	Load() (CachedState, bool, error)

	// Save replaces the stored state in one step.
	Save(state CachedState) error

	// Clear removes the stored state.
	Clear() error
}

// ============================================================================
// Memory cache
// ============================================================================

// MemoryCache is an in-process CacheStore, mostly for tests.
type MemoryCache struct {
	mu     sync.Mutex
	state  CachedState
	loaded bool
}

func NewMemoryCache() *MemoryCache { return &MemoryCache{} }

func (m *MemoryCache) Load() (CachedState, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.loaded, nil
}

func (m *MemoryCache) Save(state CachedState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.loaded = true
	return nil
}

func (m *MemoryCache) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = CachedState{}
	m.loaded = false
	return nil
}

// ============================================================================
// File cache
// ============================================================================

// FileCache persists CachedState as JSON. Writes go through a temp file and
// rename so a crash mid-write never leaves a torn cache.
type FileCache struct {
	Path string

	mu sync.Mutex
}

func NewFileCache(path string) *FileCache { return &FileCache{Path: path} }

func (f *FileCache) Load() (CachedState, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return CachedState{}, false, nil
		}
		return CachedState{}, false, fmt.Errorf("famsdk: read cache: %w", err)
	}

	var state CachedState
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt cache is treated as absent; the next reconciliation
		// rebuilds it.
		return CachedState{}, false, nil
	}
	return state, true, nil
}

func (f *FileCache) Save(state CachedState) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("famsdk: encode cache: %w", err)
	}

	tmp := f.Path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("famsdk: create cache dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("famsdk: write cache: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("famsdk: swap cache: %w", err)
	}
	return nil
}

func (f *FileCache) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("famsdk: clear cache: %w", err)
	}
	return nil
}
