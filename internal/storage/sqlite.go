package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dori/projectflow/internal/db"
)

const (
	lockRetryDelay = 50 * time.Millisecond
	// openTimeout bounds connecting and migrating the database
	openTimeout = 10 * time.Second
)

// SQLiteBackend stores the document as one row of the documents table
type SQLiteBackend struct {
	db  *db.DB
	key string
}

// NewSQLiteBackend opens (and migrates) the database at path
func NewSQLiteBackend(path, key string) (*SQLiteBackend, error) {
	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	database, err := db.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return &SQLiteBackend{db: database, key: key}, nil
}

// Get returns the document row
func (s *SQLiteBackend) Get(ctx context.Context) ([]byte, error) {
	data, err := s.db.GetDocument(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read document from database: %w", err)
	}
	if data == nil {
		return nil, ErrNotFound
	}
	return data, nil
}

// Set upserts the document row
func (s *SQLiteBackend) Set(ctx context.Context, data []byte) error {
	if err := s.db.PutDocument(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to write document to database: %w", err)
	}
	return nil
}

// Delete removes the document row
func (s *SQLiteBackend) Delete(ctx context.Context) error {
	if err := s.db.DeleteDocument(ctx, s.key); err != nil {
		return fmt.Errorf("failed to delete document from database: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
