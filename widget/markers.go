// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package widget

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MarkerStore is per-client key/value storage, the role localStorage plays in a browser.
// Only presence of a key matters.
type MarkerStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// MarkerKey is the key recording that this client voted on pollID
func MarkerKey(pollID string) string {
	return "voted-" + pollID
}

// MemoryMarkers keeps markers for the life of the process
type MemoryMarkers struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryMarkers() *MemoryMarkers {
	return &MemoryMarkers{values: make(map[string]string)}
}

func (m *MemoryMarkers) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryMarkers) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// FileMarkers persists markers as a JSON object in one file
type FileMarkers struct {
	mu   sync.Mutex
	path string
}

func NewFileMarkers(path string) *FileMarkers {
	return &FileMarkers{path: path}
}

func (f *FileMarkers) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileMarkers) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode markers: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create marker dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write markers: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace markers: %w", err)
	}
	return nil
}

func (f *FileMarkers) load() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read markers: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode markers %s: %w", f.path, err)
	}
	return values, nil
}
