package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestStatus(t *testing.T) {
	assert.Equal(t, []Status{StatusTodo, StatusInProgress, StatusDone}, Statuses())
	for _, s := range Statuses() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("blocked").Valid())
	assert.False(t, Status("").Valid())

	assert.Equal(t, "To Do", StatusTodo.Label())
	assert.Equal(t, "In Progress", StatusInProgress.Label())
	assert.Equal(t, "Done", StatusDone.Label())
	assert.Equal(t, "blocked", Status("blocked").Label())
}

func TestPriorityValid(t *testing.T) {
	assert.True(t, Priority("").Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("urgent").Valid())

	assert.Equal(t, 3, (&Task{Priority: PriorityHigh}).PriorityWeight())
	assert.Equal(t, 0, (&Task{}).PriorityWeight())
}

func TestIsOverdue(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"no due date", Task{Status: StatusTodo}, false},
		{"past and open", Task{Status: StatusInProgress, DueDate: at(-time.Hour)}, true},
		{"past but done", Task{Status: StatusDone, DueDate: at(-time.Hour)}, false},
		{"future", Task{Status: StatusTodo, DueDate: at(time.Hour)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.IsOverdue(now))
		})
	}
}

func TestDaysUntilDue(t *testing.T) {
	_, ok := (&Task{}).DaysUntilDue(now)
	assert.False(t, ok)

	days, ok := (&Task{DueDate: at(36 * time.Hour)}).DaysUntilDue(now)
	require.True(t, ok)
	assert.InDelta(t, 1.5, days, 1e-9)

	days, _ = (&Task{DueDate: at(-48 * time.Hour)}).DaysUntilDue(now)
	assert.InDelta(t, -2.0, days, 1e-9)
}

func TestProjectHelpers(t *testing.T) {
	p := Project{ID: "1", Tasks: []Task{
		{ID: "1", Status: StatusDone},
		{ID: "2", Status: StatusTodo},
		{ID: "3", Status: StatusTodo},
	}}

	assert.Equal(t, map[Status]int{StatusTodo: 2, StatusInProgress: 0, StatusDone: 1}, p.CountByStatus())
	require.NotNil(t, p.FindTask("2"))
	assert.Equal(t, StatusTodo, p.FindTask("2").Status)
	assert.Nil(t, p.FindTask("9"))

	p.FindTask("2").Status = StatusDone
	assert.Equal(t, StatusDone, p.Tasks[1].Status)
}

func TestProjectCloneIsDeep(t *testing.T) {
	p := Project{ID: "1", Tasks: []Task{{ID: "1", DueDate: at(time.Hour)}}}

	c := p.Clone()
	c.Tasks[0].Title = "changed"
	*c.Tasks[0].DueDate = now

	assert.Empty(t, p.Tasks[0].Title)
	assert.Equal(t, now.Add(time.Hour), *p.Tasks[0].DueDate)
}

func TestDocumentCloneIsDeep(t *testing.T) {
	id := "u1"
	d := Document{
		Users:       []User{{ID: "u1", Email: "ada@example.com"}},
		Projects:    []Project{{ID: "1", Tasks: []Task{{ID: "1"}}}},
		CurrentUser: &id,
	}

	c := d.Clone()
	c.Users[0].Name = "changed"
	c.Projects[0].Tasks[0].Title = "changed"
	*c.CurrentUser = "u2"

	assert.Empty(t, d.Users[0].Name)
	assert.Empty(t, d.Projects[0].Tasks[0].Title)
	assert.Equal(t, "u1", *d.CurrentUser)

	assert.Nil(t, Document{}.Clone().Projects)
}

func TestDocumentFinders(t *testing.T) {
	d := Document{
		Users:    []User{{ID: "u1", Email: "ada@example.com"}},
		Projects: []Project{{ID: "1"}, {ID: "2"}},
	}

	assert.Equal(t, "2", d.FindProject("2").ID)
	assert.Nil(t, d.FindProject("3"))
	assert.Equal(t, "u1", d.FindUser("u1").ID)
	assert.Nil(t, d.FindUser("u2"))
	assert.Equal(t, "u1", d.FindUserByEmail("ada@example.com").ID)
	assert.Nil(t, d.FindUserByEmail("bob@example.com"))
}
