package model

import (
	"time"
)

// Status represents the workflow state of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses returns the board columns in display order
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// Valid reports whether s is one of the three workflow states
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label returns the human readable column name
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// Priority represents task priority level. The zero value means unset.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is unset or one of the known levels
func (p Priority) Valid() bool {
	switch p {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a unit of work inside a project
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Status      Status     `json:"status" yaml:"status"`
	Assignee    string     `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Priority    Priority   `json:"priority,omitempty" yaml:"priority,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
}

// IsOpen returns true if the task is not done
func (t *Task) IsOpen() bool {
	return t.Status != StatusDone
}

// IsOverdue returns true if the task is open and past its due date
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || !t.IsOpen() {
		return false
	}
	return t.DueDate.Before(now)
}

// DaysUntilDue returns the fractional number of days until the due date.
// The second return value is false when the task has no due date.
func (t *Task) DaysUntilDue(now time.Time) (float64, bool) {
	if t.DueDate == nil {
		return 0, false
	}
	return t.DueDate.Sub(now).Hours() / 24, true
}

// PriorityWeight returns a numeric weight for sorting by priority
func (t *Task) PriorityWeight() int {
	switch t.Priority {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}
