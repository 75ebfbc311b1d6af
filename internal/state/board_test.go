package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/projectflow/internal/model"
)

func columnIDs(c Column) []string {
	out := []string{}
	for _, t := range c.Tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestBuildBoard(t *testing.T) {
	project := &model.Project{Tasks: []model.Task{
		{ID: "a", Status: model.StatusDone},
		{ID: "b", Status: model.StatusTodo},
		{ID: "c", Status: model.StatusTodo},
		{ID: "d", Status: model.StatusInProgress},
	}}

	board := BuildBoard(project)
	require.Len(t, board, 3)
	assert.Equal(t, "To Do", board[0].Title)
	assert.Equal(t, []string{"b", "c"}, columnIDs(board[0]))
	assert.Equal(t, []string{"d"}, columnIDs(board[1]))
	assert.Equal(t, []string{"a"}, columnIDs(board[2]))

	empty := BuildBoard(&model.Project{})
	assert.Equal(t, []model.Task{}, empty[1].Tasks)
}

func TestDropMovesTask(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	task := p.Project("1").FindTask("3")
	require.NotNil(t, task)

	require.True(t, p.Drop(ctx, "1", PickUp(*task), model.StatusDone))

	board, ok := p.Board("1")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "3"}, columnIDs(board[2]))
	assert.Empty(t, board[0].Tasks)
}

func TestDropOnSameColumnIsNoop(t *testing.T) {
	p, backend := newTestProvider(t)
	before := backend.Raw()
	backend.SetErr = errors.New("must not write")

	payload := DragPayload{TaskID: "2", SourceStatus: model.StatusInProgress}
	assert.True(t, p.Drop(context.Background(), "1", payload, model.StatusInProgress))
	assert.Equal(t, before, backend.Raw())
	assert.Equal(t, model.StatusInProgress, p.Project("1").FindTask("2").Status)
}

func TestDropUnknownTask(t *testing.T) {
	p, backend := newTestProvider(t)
	before := backend.Raw()

	payload := DragPayload{TaskID: "nope", SourceStatus: model.StatusTodo}
	assert.False(t, p.Drop(context.Background(), "1", payload, model.StatusTodo))
	assert.Equal(t, before, backend.Raw())
}

func TestDropWithStaleSourceStatus(t *testing.T) {
	p, _ := newTestProvider(t)

	// task 1 is stored as done; the payload claims it already sits in todo
	payload := DragPayload{TaskID: "1", SourceStatus: model.StatusTodo}
	require.True(t, p.Drop(context.Background(), "1", payload, model.StatusTodo))
	assert.Equal(t, model.StatusTodo, p.Project("1").FindTask("1").Status)
}

func TestBoardUnknownProject(t *testing.T) {
	p, _ := newTestProvider(t)

	_, ok := p.Board("nope")
	assert.False(t, ok)
}
