package api

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/projectflow/internal/model"
	"github.com/dori/projectflow/internal/storage"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T) (*Client, *storage.MemoryBackend) {
	t.Helper()
	clock := func() time.Time { return fixedNow }
	backend := storage.NewMemoryBackend()
	store := storage.NewStore(backend, storage.WithClock(clock))

	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return New(store, WithClock(clock), WithIDGenerator(ids)), backend
}

func stored(t *testing.T, b *storage.MemoryBackend) model.Document {
	t.Helper()
	doc, err := storage.Decode(b.Raw())
	require.NoError(t, err)
	return doc
}

func ptr[T any](v T) *T { return &v }

func TestLoginAutoCreatesUser(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()

	user, err := c.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ada", user.Name)
	assert.Equal(t, AvatarURL("ada@example.com"), user.Avatar)

	doc := stored(t, backend)
	require.Len(t, doc.Users, 1)
	require.NotNil(t, doc.CurrentUser)
	assert.Equal(t, user.ID, *doc.CurrentUser)

	// Second login finds the same account
	again, err := c.Login(ctx, "ada@example.com", "other")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Len(t, stored(t, backend).Users, 1)
}

func TestLoginWithoutPasswordFails(t *testing.T) {
	c, backend := newTestClient(t)

	user, err := c.Login(context.Background(), "ada@example.com", "")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, stored(t, backend).Users)
}

func TestRegister(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	user, err := c.Register(ctx, "Ada", "ada@example.com", "secret")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ada", user.Name)

	current, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)

	_, err = c.Register(ctx, "Other", "ada@example.com", "pw")
	assert.ErrorIs(t, err, ErrUserExists)

	empty, err := c.Register(ctx, "", "x@example.com", "pw")
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestUpdateUserAndLogout(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	ada, err := c.Register(ctx, "Ada", "ada@example.com", "pw")
	require.NoError(t, err)
	_, err = c.Register(ctx, "Bob", "bob@example.com", "pw")
	require.NoError(t, err)

	updated, err := c.UpdateUser(ctx, ada.ID, UserUpdate{Name: ptr("Ada L.")})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, "ada@example.com", updated.Email)

	_, err = c.UpdateUser(ctx, ada.ID, UserUpdate{Email: ptr("bob@example.com")})
	assert.ErrorIs(t, err, ErrUserExists)

	missing, err := c.UpdateUser(ctx, "nope", UserUpdate{Name: ptr("x")})
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, c.Logout(ctx))
	current, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestProjectsCRUD(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()

	projects, err := c.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)

	p, err := c.CreateProject(ctx, "Launch", "Ship v1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", p.ID)
	assert.Empty(t, p.Tasks)
	assert.Equal(t, fixedNow, p.CreatedAt)

	got, err := c.Project(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	updated, err := c.UpdateProject(ctx, p.ID, ProjectUpdate{Description: ptr("Ship v2")})
	require.NoError(t, err)
	assert.Equal(t, "Launch", updated.Name)
	assert.Equal(t, "Ship v2", updated.Description)

	ok, err := c.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	missing, err := c.Project(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.Len(t, stored(t, backend).Projects, 2)
}

func TestMutationWithUnreadableStoreKeepsData(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()

	_, err := c.CreateProject(ctx, "Launch", "Ship v1")
	require.NoError(t, err)
	before := backend.Raw()

	backend.GetErr = errors.New("connection reset")
	p, err := c.CreateProject(ctx, "Docs", "")
	require.Error(t, err)
	assert.Nil(t, p)
	assert.Equal(t, before, backend.Raw())

	backend.GetErr = nil
	assert.Len(t, stored(t, backend).Projects, 3)
}

func TestDeleteProjectDropsItsTasks(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()

	ok, err := c.DeleteProject(ctx, "1")
	require.NoError(t, err)
	require.True(t, ok)

	doc := stored(t, backend)
	require.Len(t, doc.Projects, 1)
	assert.Equal(t, "2", doc.Projects[0].ID)

	tasks, err := c.Tasks(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, tasks)
}

func TestTasksCRUD(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	due := fixedNow.Add(48 * time.Hour)
	task, err := c.CreateTask(ctx, "2", TaskInput{
		Title:    "Push notifications",
		Priority: model.PriorityLow,
		DueDate:  &due,
	})
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, model.StatusTodo, task.Status)
	assert.Equal(t, due, *task.DueDate)

	tasks, err := c.Tasks(ctx, "2")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, task.ID, tasks[2].ID)

	updated, err := c.UpdateTask(ctx, "2", task.ID, TaskUpdate{
		Title:        ptr("Push notifications v2"),
		ClearDueDate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Push notifications v2", updated.Title)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, model.PriorityLow, updated.Priority)

	ok, err := c.DeleteTask(ctx, "2", task.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.DeleteTask(ctx, "2", task.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateTaskMissingProject(t *testing.T) {
	c, _ := newTestClient(t)

	task, err := c.CreateTask(context.Background(), "nope", TaskInput{Title: "x"})
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestInvalidStatusAndPriorityAreRejected(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	_, err := c.CreateTask(ctx, "1", TaskInput{Title: "x", Status: "blocked"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = c.CreateTask(ctx, "1", TaskInput{Title: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrInvalidPriority)

	_, err = c.UpdateTask(ctx, "1", "1", TaskUpdate{Status: ptr(model.Status("later"))})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = c.MoveTask(ctx, "1", "1", "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestMoveTask(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()

	moved, err := c.MoveTask(ctx, "1", "3", model.StatusInProgress)
	require.NoError(t, err)
	require.NotNil(t, moved)
	assert.Equal(t, model.StatusInProgress, moved.Status)

	doc := stored(t, backend)
	assert.Equal(t, model.StatusInProgress, doc.FindProject("1").FindTask("3").Status)
}

func TestMoveTaskToSameStatusDoesNotWrite(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()

	_, err := c.Projects(ctx)
	require.NoError(t, err)
	before := backend.Raw()

	backend.SetErr = fmt.Errorf("write should not happen")
	task, err := c.MoveTask(ctx, "1", "2", model.StatusInProgress)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, model.StatusInProgress, task.Status)
	assert.Equal(t, before, backend.Raw())
}

func TestMoveTaskMissing(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	task, err := c.MoveTask(ctx, "1", "nope", model.StatusDone)
	require.NoError(t, err)
	assert.Nil(t, task)

	task, err = c.MoveTask(ctx, "nope", "1", model.StatusDone)
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestStats(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	past := fixedNow.Add(-24 * time.Hour)
	_, err := c.CreateTask(ctx, "1", TaskInput{Title: "Late", DueDate: &past})
	require.NoError(t, err)

	stats, err := c.ProjectStats(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, ProjectStats{Total: 4, Completed: 1, InProgress: 1, Todo: 2, Overdue: 1}, stats)

	zero, err := c.ProjectStats(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, ProjectStats{}, zero)

	all, err := c.AllProjectsStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, OverallStats{Projects: 2, Tasks: 6, Completed: 2, Overdue: 1}, all)
}

func TestCancelledContext(t *testing.T) {
	c, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Projects(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
