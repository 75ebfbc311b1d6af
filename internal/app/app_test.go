package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/projectflow/internal/config"
	"github.com/dori/projectflow/internal/storage"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.Backend = backend
	cfg.Storage.Path = filepath.Join(dir, "data", "projectflow.db")
	cfg.Latency.Enabled = false
	cfg.Logging.Dir = filepath.Join(dir, "logs")
	return cfg
}

func TestNewMemory(t *testing.T) {
	a, err := New(testConfig(t, config.BackendMemory), Options{})
	require.NoError(t, err)
	defer a.Close()

	_, ok := a.Backend.(*storage.MemoryBackend)
	assert.True(t, ok)

	ctx := context.Background()
	require.True(t, a.State.Login(ctx, "ada@example.com", "pw"))
	assert.Len(t, a.State.Projects(), 2)
}

func TestNotifierFollowsConfig(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)
	cfg.Notify.Enabled = false

	a, err := New(cfg, Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.Notifier.IsEnabled())
}

func TestNewSQLitePersists(t *testing.T) {
	cfg := testConfig(t, config.BackendSQLite)
	ctx := context.Background()

	a, err := New(cfg, Options{})
	require.NoError(t, err)
	require.True(t, a.State.Login(ctx, "ada@example.com", "pw"))
	require.NotNil(t, a.State.CreateProject(ctx, "Launch", ""))
	require.NoError(t, a.Close())

	b, err := New(cfg, Options{})
	require.NoError(t, err)
	defer b.Close()
	require.True(t, b.State.Load(ctx))
	require.NotNil(t, b.State.User())
	assert.Len(t, b.State.Projects(), 3)

	_, err = os.Stat(filepath.Join(cfg.Logging.Dir, "projectflow.log"))
	assert.NoError(t, err)
}

func TestNewFileBackend(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)
	cfg.Storage.Path = filepath.Join(filepath.Dir(cfg.Storage.Path), "projectflow.json")

	a, err := New(cfg, Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.Len(t, a.Store.Read(context.Background()).Projects, 2)
	_, err = os.Stat(cfg.Storage.Path)
	assert.NoError(t, err)
}

func TestNewRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, config.BackendRedis)
	cfg.Storage.RedisAddr = mr.Addr()

	a, err := New(cfg, Options{})
	require.NoError(t, err)
	defer a.Close()

	a.Store.Read(context.Background())
	assert.True(t, mr.Exists(storage.RedisKey(cfg.Storage.Key)))
}

func TestExclusiveLock(t *testing.T) {
	cfg := testConfig(t, config.BackendSQLite)

	first, err := New(cfg, Options{Exclusive: true})
	require.NoError(t, err)

	_, err = New(cfg, Options{Exclusive: true})
	assert.True(t, errors.Is(err, ErrAlreadyRunning))

	require.NoError(t, first.Close())

	again, err := New(cfg, Options{Exclusive: true})
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestInvalidConfig(t *testing.T) {
	cfg := testConfig(t, "cassette")

	_, err := New(cfg, Options{})
	assert.Error(t, err)
}

func TestClockIsInjected(t *testing.T) {
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	a, err := New(testConfig(t, config.BackendMemory), Options{Clock: func() time.Time { return fixed }})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, fixed, a.Now())
	doc := a.Store.Read(context.Background())
	assert.Equal(t, fixed.Add(-7*24*time.Hour), doc.Projects[0].CreatedAt)
}
