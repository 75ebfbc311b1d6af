// Package app wires configuration, logging, storage and the services the
// front ends use.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/redis/go-redis/v9"

	"github.com/dori/projectflow/internal/api"
	"github.com/dori/projectflow/internal/assistant"
	"github.com/dori/projectflow/internal/config"
	"github.com/dori/projectflow/internal/latency"
	"github.com/dori/projectflow/internal/logging"
	"github.com/dori/projectflow/internal/notify"
	"github.com/dori/projectflow/internal/state"
	"github.com/dori/projectflow/internal/storage"
)

// ErrAlreadyRunning is returned when another exclusive instance holds the lock
var ErrAlreadyRunning = errors.New("another instance of projectflow is already running")

// App holds the application state and dependencies
type App struct {
	Config    *config.Config
	Log       *logging.Logger
	Backend   storage.Backend
	Store     *storage.Store
	API       *api.Client
	State     *state.Provider
	Assistant *assistant.Service
	Notifier  *notify.Notifier
	// Now is the clock every component was built with
	Now func() time.Time

	lockFile *flock.Flock
}

// Options tune how the application starts
type Options struct {
	// Exclusive takes a lock next to the data file so that only one
	// interactive instance edits it at a time
	Exclusive bool
	// Clock overrides time.Now
	Clock func() time.Time
}

// New creates a new application instance
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	log, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Log:      log,
		Notifier: notify.NewNotifier(),
		Now:      clock,
	}

	if opts.Exclusive {
		if err := a.acquireLock(); err != nil {
			log.Close()
			return nil, err
		}
	}

	backend, err := OpenBackend(cfg.Storage)
	if err != nil {
		a.releaseLock()
		log.Close()
		return nil, err
	}
	a.Backend = backend

	sim := latency.New(cfg.Latency.Enabled, cfg.Latency.Scale)
	a.Store = storage.NewStore(backend, storage.WithClock(clock), storage.WithLogger(log))
	a.API = api.New(a.Store,
		api.WithClock(clock),
		api.WithLatency(sim),
		api.WithLogger(log),
	)
	a.State = state.NewProvider(a.API, log)
	a.Assistant = assistant.NewService(sim, assistant.NewRand(cfg.Assistant.Seed), clock)

	a.Notifier.SetEnabled(cfg.Notify.Enabled)

	log.Info("projectflow started", "backend", cfg.Storage.Backend, "latency", cfg.Latency.Enabled)
	return a, nil
}

// OpenBackend opens the document backend named by cfg
func OpenBackend(cfg config.StorageConfig) (storage.Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemoryBackend(), nil
	case config.BackendFile:
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		return storage.NewFileBackend(cfg.Path)
	case config.BackendSQLite:
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		backend, err := storage.NewSQLiteBackend(cfg.Path, cfg.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return backend, nil
	case config.BackendRedis:
		backend, err := storage.NewRedisBackend(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB}, cfg.Key)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := backend.Ping(ctx); err != nil {
			backend.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// lockPath places the lock beside the data file, or in the data directory
// for backends without one
func (a *App) lockPath() string {
	switch a.Config.Storage.Backend {
	case config.BackendFile, config.BackendSQLite:
		return filepath.Join(filepath.Dir(a.Config.Storage.Path), "projectflow.lock")
	default:
		return filepath.Join(config.DataDir(), "projectflow.lock")
	}
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	path := a.lockPath()
	if err := ensureDir(path); err != nil {
		return err
	}
	a.lockFile = flock.New(path)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return ErrAlreadyRunning
	}
	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
		a.lockFile = nil
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.Backend != nil {
		if err := a.Backend.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
		}
	}

	a.releaseLock()

	if a.Log != nil {
		if err := a.Log.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
