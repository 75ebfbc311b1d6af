package api

import (
	"context"
	"fmt"
	"time"

	"github.com/dori/projectflow/internal/latency"
	"github.com/dori/projectflow/internal/model"
)

// TaskInput holds the fields of a task to create. An empty status means todo.
type TaskInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      model.Status   `json:"status"`
	Assignee    string         `json:"assignee,omitempty"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	Priority    model.Priority `json:"priority,omitempty"`
}

// TaskUpdate holds the task fields to change; nil fields are kept.
// ClearDueDate removes the due date and wins over DueDate.
type TaskUpdate struct {
	Title        *string         `json:"title,omitempty"`
	Description  *string         `json:"description,omitempty"`
	Status       *model.Status   `json:"status,omitempty"`
	Assignee     *string         `json:"assignee,omitempty"`
	DueDate      *time.Time      `json:"dueDate,omitempty"`
	ClearDueDate bool            `json:"clearDueDate,omitempty"`
	Priority     *model.Priority `json:"priority,omitempty"`
}

func validateStatus(s model.Status) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return nil
}

func validatePriority(p model.Priority) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, p)
	}
	return nil
}

func (u TaskUpdate) validate() error {
	if u.Status != nil {
		if err := validateStatus(*u.Status); err != nil {
			return err
		}
	}
	if u.Priority != nil {
		if err := validatePriority(*u.Priority); err != nil {
			return err
		}
	}
	return nil
}

func (u TaskUpdate) apply(t *model.Task) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Assignee != nil {
		t.Assignee = *u.Assignee
	}
	if u.DueDate != nil {
		due := *u.DueDate
		t.DueDate = &due
	}
	if u.ClearDueDate {
		t.DueDate = nil
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
}

// Tasks returns the tasks of a project, or nil when the project is missing
func (c *Client) Tasks(ctx context.Context, projectID string) ([]model.Task, error) {
	if err := c.wait(ctx, latency.Get); err != nil {
		return nil, err
	}

	doc := c.store.Read(ctx)
	p := doc.FindProject(projectID)
	if p == nil {
		return nil, nil
	}
	return p.Tasks, nil
}

// CreateTask appends a task to a project. Returns nil when the project
// does not exist.
func (c *Client) CreateTask(ctx context.Context, projectID string, in TaskInput) (*model.Task, error) {
	if in.Status == "" {
		in.Status = model.StatusTodo
	}
	if err := validateStatus(in.Status); err != nil {
		return nil, err
	}
	if err := validatePriority(in.Priority); err != nil {
		return nil, err
	}

	if err := c.wait(ctx, latency.Default); err != nil {
		return nil, err
	}

	task := model.Task{
		ID:          c.newID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Assignee:    in.Assignee,
		Priority:    in.Priority,
		CreatedAt:   c.timestamp(),
	}
	if in.DueDate != nil {
		due := in.DueDate.UTC()
		task.DueDate = &due
	}

	var created bool
	_, err := c.store.Update(ctx, func(d model.Document) model.Document {
		p := d.FindProject(projectID)
		if p == nil {
			return d
		}
		p.Tasks = append(p.Tasks, task)
		created = true
		return d
	})
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, nil
	}

	c.log.Info("task created", "project_id", projectID, "task_id", task.ID)
	return &task, nil
}

// UpdateTask applies update to a task. Returns nil when the project or the
// task does not exist.
func (c *Client) UpdateTask(ctx context.Context, projectID, taskID string, update TaskUpdate) (*model.Task, error) {
	if err := update.validate(); err != nil {
		return nil, err
	}

	if err := c.wait(ctx, latency.Default); err != nil {
		return nil, err
	}

	var updated *model.Task
	_, err := c.store.Update(ctx, func(d model.Document) model.Document {
		p := d.FindProject(projectID)
		if p == nil {
			return d
		}
		t := p.FindTask(taskID)
		if t == nil {
			return d
		}
		update.apply(t)
		out := *t
		updated = &out
		return d
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes a task from a project. Reports whether a task was removed.
func (c *Client) DeleteTask(ctx context.Context, projectID, taskID string) (bool, error) {
	if err := c.wait(ctx, latency.Default); err != nil {
		return false, err
	}

	var found bool
	_, err := c.store.Update(ctx, func(d model.Document) model.Document {
		p := d.FindProject(projectID)
		if p == nil {
			return d
		}
		kept := make([]model.Task, 0, len(p.Tasks))
		for _, t := range p.Tasks {
			if t.ID == taskID {
				found = true
				continue
			}
			kept = append(kept, t)
		}
		p.Tasks = kept
		return d
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// MoveTask sets the status of a task. Moving a task to the status it
// already has returns it unchanged without writing.
func (c *Client) MoveTask(ctx context.Context, projectID, taskID string, status model.Status) (*model.Task, error) {
	if err := validateStatus(status); err != nil {
		return nil, err
	}

	if err := c.wait(ctx, latency.Default); err != nil {
		return nil, err
	}

	doc := c.store.Read(ctx)
	p := doc.FindProject(projectID)
	if p == nil {
		return nil, nil
	}
	current := p.FindTask(taskID)
	if current == nil {
		return nil, nil
	}
	if current.Status == status {
		out := *current
		return &out, nil
	}

	var moved *model.Task
	_, err := c.store.Update(ctx, func(d model.Document) model.Document {
		p := d.FindProject(projectID)
		if p == nil {
			return d
		}
		t := p.FindTask(taskID)
		if t == nil {
			return d
		}
		t.Status = status
		out := *t
		moved = &out
		return d
	})
	if err != nil {
		return nil, err
	}

	if moved != nil {
		c.log.Info("task moved", "project_id", projectID, "task_id", taskID, "status", string(status))
	}
	return moved, nil
}
