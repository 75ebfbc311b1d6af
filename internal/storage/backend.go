// Package storage persists the single projectflow document behind a small
// get/set backend interface.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by a Backend that holds no document yet
var ErrNotFound = errors.New("document not found")

// Backend stores one opaque document. Implementations must be safe for
// concurrent use.
type Backend interface {
	// Get returns the stored document or ErrNotFound
	Get(ctx context.Context) ([]byte, error)
	// Set replaces the stored document
	Set(ctx context.Context, data []byte) error
	// Delete removes the stored document; deleting nothing is not an error
	Delete(ctx context.Context) error
	Close() error
}

// MemoryBackend keeps the document in memory. It is used by tests and by
// the memory storage backend.
type MemoryBackend struct {
	mu   sync.RWMutex
	data []byte

	// GetErr and SetErr, when set, are returned instead of touching data
	GetErr error
	SetErr error
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Get returns a copy of the stored document
func (m *MemoryBackend) Get(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.data == nil {
		return nil, ErrNotFound
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// Set stores a copy of data
func (m *MemoryBackend) Set(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}
	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}

// Raw returns the stored bytes without copying; nil when empty
func (m *MemoryBackend) Raw() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data
}

// Close is a no-op
func (m *MemoryBackend) Close() error {
	return nil
}

// Delete forgets the stored document
func (m *MemoryBackend) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}
	m.data = nil
	return nil
}
