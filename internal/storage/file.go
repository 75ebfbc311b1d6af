package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileBackend stores the document as a JSON file. A sidecar lock file
// serializes access between processes sharing the same path.
type FileBackend struct {
	path string
	lock *flock.Flock
}

// NewFileBackend creates a file backend rooted at path
func NewFileBackend(path string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileBackend{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the document file path
func (f *FileBackend) Path() string {
	return f.path
}

// Get reads the document file under a shared lock
func (f *FileBackend) Get(ctx context.Context) ([]byte, error) {
	if _, err := f.lock.TryRLockContext(ctx, lockRetryDelay); err != nil {
		return nil, fmt.Errorf("failed to acquire read lock: %w", err)
	}
	defer f.lock.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return data, nil
}

// Set writes the document through a temp file and rename under an exclusive lock
func (f *FileBackend) Set(ctx context.Context, data []byte) error {
	if _, err := f.lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("failed to acquire write lock: %w", err)
	}
	defer f.lock.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".projectflow-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}

// Delete removes the document file under an exclusive lock
func (f *FileBackend) Delete(ctx context.Context) error {
	if _, err := f.lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("failed to acquire write lock: %w", err)
	}
	defer f.lock.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Close releases the lock handle
func (f *FileBackend) Close() error {
	return f.lock.Close()
}
