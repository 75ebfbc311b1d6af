package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dori/projectflow/internal/logging"
	"github.com/dori/projectflow/internal/model"
)

// Store reads and writes the whole document through a Backend.
//
// Read-modify-write cycles are serialized within one Store. Two processes
// sharing a backend can still overwrite each other (last writer wins).
type Store struct {
	backend Backend
	now     func() time.Time
	log     *logging.Logger

	mu sync.Mutex
}

// Option configures a Store
type Option func(*Store)

// WithClock sets the clock used to date the seed document
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger for swallowed storage failures
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore creates a Store over backend
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "storage")
	return s
}

// Backend returns the underlying backend
func (s *Store) Backend() Backend {
	return s.backend
}

// Read returns the current document. A missing or malformed document is
// replaced by the seed, which is persisted. A failing backend yields the
// seed without persisting it.
func (s *Store) Read(ctx context.Context) model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(ctx)
	if err != nil {
		return Seed(s.now())
	}
	return doc
}

// Write replaces the stored document
func (s *Store) Write(ctx context.Context, doc model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, doc)
}

// Update applies fn to a copy of the current document and writes the result.
// The returned document is what was written. When the backend cannot be
// read, fn is not called and nothing is written.
func (s *Store) Update(ctx context.Context, fn func(model.Document) model.Document) (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(ctx)
	if err != nil {
		return model.Document{}, err
	}
	next := fn(current)
	if err := s.write(ctx, next); err != nil {
		return model.Document{}, err
	}
	return next, nil
}

// Reset removes the stored document, so the next read seeds sample data again
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx); err != nil {
		s.log.Error("error deleting document", "error", err.Error())
		return err
	}
	s.log.Info("stored document deleted")
	return nil
}

// read loads the stored document. Only a missing or malformed document is
// replaced by the persisted seed; any other backend failure is returned.
func (s *Store) read(ctx context.Context) (model.Document, error) {
	data, err := s.backend.Get(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		s.log.Info("no stored document, seeding sample data")
		return s.seedAndPersist(ctx), nil
	case err != nil:
		s.log.Error("error reading document", "error", err.Error())
		return model.Document{}, fmt.Errorf("failed to read document: %w", err)
	}

	doc, err := Decode(data)
	if err != nil {
		s.log.Error("error decoding document", "error", err.Error(), "bytes", len(data))
		return s.seedAndPersist(ctx), nil
	}
	return doc, nil
}

func (s *Store) write(ctx context.Context, doc model.Document) error {
	data, err := Encode(doc)
	if err != nil {
		s.log.Error("error encoding document", "error", err.Error())
		return err
	}
	if err := s.backend.Set(ctx, data); err != nil {
		s.log.Error("error writing document", "error", err.Error())
		return err
	}
	s.log.Debug("document written", "bytes", len(data))
	return nil
}

func (s *Store) seedAndPersist(ctx context.Context) model.Document {
	doc := Seed(s.now())
	// The seed is still usable when persisting fails; write already logged it
	_ = s.write(ctx, doc)
	return doc.Clone()
}

// Encode serializes a document
func Encode(doc model.Document) ([]byte, error) {
	normalize(&doc)
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// Decode parses a serialized document
func Decode(data []byte) (model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Document{}, fmt.Errorf("failed to decode document: %w", err)
	}
	normalize(&doc)
	return doc, nil
}

// normalize replaces nil slices so the blob always carries [] rather than null
func normalize(doc *model.Document) {
	if doc.Users == nil {
		doc.Users = []model.User{}
	}
	if doc.Projects == nil {
		doc.Projects = []model.Project{}
	}
	for i := range doc.Projects {
		if doc.Projects[i].Tasks == nil {
			doc.Projects[i].Tasks = []model.Task{}
		}
	}
}
