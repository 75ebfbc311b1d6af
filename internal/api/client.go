// Package api is the data access layer the views talk to. Every call reads
// the stored document, applies a pure transform, writes the result back and
// answers after a simulated network delay.
package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dori/projectflow/internal/latency"
	"github.com/dori/projectflow/internal/logging"
	"github.com/dori/projectflow/internal/storage"
)

var (
	// ErrUserExists is returned when registering an email that is taken
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidStatus is returned for a status outside todo/in-progress/done
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrInvalidPriority is returned for a priority outside low/medium/high
	ErrInvalidPriority = errors.New("invalid task priority")
)

// Client exposes the CRUD operations over the stored document
type Client struct {
	store   *storage.Store
	latency *latency.Simulator
	now     func() time.Time
	newID   func() string
	log     *logging.Logger
}

// Option configures a Client
type Option func(*Client)

// WithClock sets the clock used for timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithIDGenerator sets the id generator for new entities
func WithIDGenerator(fn func() string) Option {
	return func(c *Client) { c.newID = fn }
}

// WithLatency sets the delay simulator
func WithLatency(s *latency.Simulator) Option {
	return func(c *Client) { c.latency = s }
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client over store
func New(store *storage.Store, opts ...Option) *Client {
	c := &Client{
		store:   store,
		latency: latency.Disabled(),
		now:     time.Now,
		newID:   uuid.NewString,
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "api")
	return c
}

// wait simulates the network round trip for one call
func (c *Client) wait(ctx context.Context, d time.Duration) error {
	if err := c.latency.Wait(ctx, d); err != nil {
		return fmt.Errorf("request cancelled: %w", err)
	}
	return nil
}

// timestamp returns the current time truncated the way the stored blob keeps it
func (c *Client) timestamp() time.Time {
	return c.now().UTC().Truncate(time.Millisecond)
}
