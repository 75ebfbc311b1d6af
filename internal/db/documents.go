package db

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// GetDocument returns the raw document stored under key.
// Returns nil, nil when no document exists.
func (db *DB) GetDocument(ctx context.Context, key string) ([]byte, error) {
	var data string
	err := db.QueryRowContext(ctx, `SELECT data FROM documents WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

// PutDocument stores data under key, replacing any previous document
func (db *DB) PutDocument(ctx context.Context, key string, data []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO documents (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, key, string(data), time.Now().UTC())
	return err
}

// DeleteDocument removes the document stored under key
func (db *DB) DeleteDocument(ctx context.Context, key string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key)
	return err
}
