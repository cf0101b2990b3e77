// Package keystore persists the captioning API key used by file ingestion.
// The key is a single opaque string; callers inject whichever Store fits
// their runtime (in-memory for tests, a file for the CLI) instead of
// reaching for ambient global state.
package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store reads and writes the stored API key. Get returns the empty string
// when no key has been set; Clear on an empty store is a no-op.
type Store interface {
	Get() (string, error)
	Set(value string) error
	Clear() error
}

// Memory is an ephemeral Store for tests and short-lived sessions.
type Memory struct {
	mu    sync.RWMutex
	value string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Get returns the stored key, or the empty string when unset.
func (m *Memory) Get() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value, nil
}

// Set replaces the stored key.
func (m *Memory) Set(value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = value
	return nil
}

// Clear removes the stored key.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = ""
	return nil
}

// File stores the key in a single file with 0600 permissions. A missing
// file reads as an empty key rather than an error, so a fresh install
// behaves like a cleared store.
type File struct {
	path string
}

// NewFile creates a file-backed store at path. Parent directories are
// created on the first Set.
func NewFile(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("keystore: path is required")
	}
	return &File{path: path}, nil
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Get reads the stored key. Surrounding whitespace is trimmed so a
// hand-edited file with a trailing newline still round-trips.
func (f *File) Get() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("keystore: read %s: %w", f.path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Set writes the key, creating parent directories as needed.
func (f *File) Set(value string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("keystore: create %s: %w", dir, err)
	}
	if err := os.WriteFile(f.path, []byte(value+"\n"), 0o600); err != nil {
		return fmt.Errorf("keystore: write %s: %w", f.path, err)
	}
	return nil
}

// Clear removes the backing file. A missing file is not an error.
func (f *File) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("keystore: remove %s: %w", f.path, err)
	}
	return nil
}
