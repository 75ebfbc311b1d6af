package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/projectflow/internal/model"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	return NewStore(backend, WithClock(func() time.Time { return fixedNow })), backend
}

func TestReadSeedsOnFirstRun(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	require.Nil(t, backend.Raw())

	doc := store.Read(ctx)
	require.Len(t, doc.Projects, 2)
	assert.Equal(t, "Website Redesign", doc.Projects[0].Name)
	assert.Len(t, doc.Projects[0].Tasks, 3)
	assert.Len(t, doc.Projects[1].Tasks, 2)
	assert.Empty(t, doc.Users)
	assert.Nil(t, doc.CurrentUser)

	// Seed is persisted on first read
	require.NotNil(t, backend.Raw())
	persisted, err := Decode(backend.Raw())
	require.NoError(t, err)
	assert.Equal(t, doc, persisted)
}

func TestSeedDatesAreRelativeToNow(t *testing.T) {
	doc := Seed(fixedNow)

	homepage := doc.FindProject("1").FindTask("2")
	require.NotNil(t, homepage)
	require.NotNil(t, homepage.DueDate)
	assert.Equal(t, fixedNow.Add(3*day), *homepage.DueDate)
	assert.Equal(t, fixedNow.Add(-4*day), homepage.CreatedAt)

	wireframes := doc.FindProject("1").FindTask("1")
	assert.Nil(t, wireframes.DueDate)
}

func TestRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	due := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	user := "u1"
	doc := model.Document{
		Users: []model.User{{ID: "u1", Name: "Ada", Email: "ada@example.com", CreatedAt: fixedNow}},
		Projects: []model.Project{{
			ID:          "p1",
			Name:        "Launch",
			Description: "Ship it",
			CreatedAt:   fixedNow,
			Tasks: []model.Task{
				{ID: "t1", Title: "Write copy", Status: model.StatusTodo, Priority: model.PriorityHigh, DueDate: &due, Assignee: "sam", CreatedAt: fixedNow},
				{ID: "t2", Title: "Publish", Status: model.StatusDone, CreatedAt: fixedNow},
			},
		}, {
			ID: "p2", Name: "Empty", CreatedAt: fixedNow, Tasks: []model.Task{},
		}},
		CurrentUser: &user,
	}

	require.NoError(t, store.Write(ctx, doc))
	assert.Equal(t, doc, store.Read(ctx))
}

func TestReadMalformedFallsBackToSeed(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, []byte("{not json")))

	doc := store.Read(ctx)
	assert.Len(t, doc.Projects, 2)

	// The malformed blob is replaced
	_, err := Decode(backend.Raw())
	assert.NoError(t, err)
}

func TestReadBackendErrorDoesNotPersist(t *testing.T) {
	store, backend := newTestStore(t)
	backend.GetErr = errors.New("quota exceeded")

	doc := store.Read(context.Background())
	assert.Len(t, doc.Projects, 2)
	assert.Nil(t, backend.Raw())
}

func TestWriteErrorIsReturned(t *testing.T) {
	store, backend := newTestStore(t)
	backend.SetErr = errors.New("quota exceeded")

	err := store.Write(context.Background(), Seed(fixedNow))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	_, err = store.Update(context.Background(), func(d model.Document) model.Document { return d })
	assert.Error(t, err)
}

func TestUpdateAppliesTransform(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	written, err := store.Update(ctx, func(d model.Document) model.Document {
		d.Projects = d.Projects[:1]
		return d
	})
	require.NoError(t, err)
	assert.Len(t, written.Projects, 1)
	assert.Len(t, store.Read(ctx).Projects, 1)
}

func TestUpdateReadErrorDoesNotWrite(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	doc := Seed(fixedNow)
	doc.Projects = doc.Projects[:1]
	require.NoError(t, store.Write(ctx, doc))
	before := backend.Raw()

	backend.GetErr = errors.New("connection reset")
	called := false
	_, err := store.Update(ctx, func(d model.Document) model.Document {
		called = true
		return d
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.False(t, called)
	assert.Equal(t, before, backend.Raw())

	backend.GetErr = nil
	assert.Len(t, store.Read(ctx).Projects, 1)
}

func TestResetReseeds(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	_, err := store.Update(ctx, func(d model.Document) model.Document {
		d.Projects = nil
		return d
	})
	require.NoError(t, err)
	require.Empty(t, store.Read(ctx).Projects)

	require.NoError(t, store.Reset(ctx))
	assert.Nil(t, backend.Raw())
	assert.Len(t, store.Read(ctx).Projects, 2)

	backend.SetErr = errors.New("read-only")
	assert.Error(t, store.Reset(ctx))
}

func TestConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	store.Read(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, func(d model.Document) model.Document {
				d.Users = append(d.Users, model.User{ID: "x"})
				return d
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, store.Read(ctx).Users, 25)
}

func TestEncodeWritesEmptyArrays(t *testing.T) {
	data, err := Encode(model.Document{Projects: []model.Project{{ID: "p"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":[],"projects":[{"id":"p","name":"","description":"","createdAt":"0001-01-01T00:00:00Z","tasks":[]}],"currentUser":null}`, string(data))
}
