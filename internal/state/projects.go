package state

import (
	"context"

	"github.com/dori/projectflow/internal/api"
	"github.com/dori/projectflow/internal/assistant"
	"github.com/dori/projectflow/internal/model"
)

// CreateProject creates a project and adds it to the loaded list
func (p *Provider) CreateProject(ctx context.Context, name, description string) *model.Project {
	project, err := p.api.CreateProject(ctx, name, description)
	if err != nil {
		p.fail("create project", err)
		return nil
	}
	p.refresh(ctx, project.ID)
	return project
}

// UpdateProject changes a project's name or description
func (p *Provider) UpdateProject(ctx context.Context, id string, update api.ProjectUpdate) *model.Project {
	project, err := p.api.UpdateProject(ctx, id, update)
	if err != nil {
		p.fail("update project", err, "project_id", id)
		return nil
	}
	p.refresh(ctx, id)
	return project
}

// DeleteProject removes a project and its tasks
func (p *Provider) DeleteProject(ctx context.Context, id string) bool {
	ok, err := p.api.DeleteProject(ctx, id)
	if err != nil {
		p.fail("delete project", err, "project_id", id)
		return false
	}
	p.refresh(ctx, id)
	return ok
}

// AddTask creates a task in a project
func (p *Provider) AddTask(ctx context.Context, projectID string, in api.TaskInput) *model.Task {
	task, err := p.api.CreateTask(ctx, projectID, in)
	if err != nil {
		p.fail("add task", err, "project_id", projectID)
		return nil
	}
	p.refresh(ctx, projectID)
	return task
}

// AddGeneratedTask accepts an assistant draft into a project
func (p *Provider) AddGeneratedTask(ctx context.Context, projectID string, g assistant.Generated) *model.Task {
	return p.AddTask(ctx, projectID, api.TaskInput{
		Title:       g.Task.Title,
		Description: g.Task.Description,
		Status:      g.Task.Status,
		DueDate:     g.Task.DueDate,
		Priority:    g.Task.Priority,
	})
}

// UpdateTask changes fields of a task
func (p *Provider) UpdateTask(ctx context.Context, projectID, taskID string, update api.TaskUpdate) *model.Task {
	task, err := p.api.UpdateTask(ctx, projectID, taskID, update)
	if err != nil {
		p.fail("update task", err, "project_id", projectID, "task_id", taskID)
		return nil
	}
	p.refresh(ctx, projectID)
	return task
}

// DeleteTask removes a task from a project
func (p *Provider) DeleteTask(ctx context.Context, projectID, taskID string) bool {
	ok, err := p.api.DeleteTask(ctx, projectID, taskID)
	if err != nil {
		p.fail("delete task", err, "project_id", projectID, "task_id", taskID)
		return false
	}
	p.refresh(ctx, projectID)
	return ok
}

// MoveTask changes the status of a task
func (p *Provider) MoveTask(ctx context.Context, projectID, taskID string, status model.Status) *model.Task {
	task, err := p.api.MoveTask(ctx, projectID, taskID, status)
	if err != nil {
		p.fail("move task", err, "project_id", projectID, "task_id", taskID)
		return nil
	}
	p.refresh(ctx, projectID)
	return task
}

// Stats returns the dashboard counters
func (p *Provider) Stats(ctx context.Context) (api.OverallStats, bool) {
	stats, err := p.api.AllProjectsStats(ctx)
	if err != nil {
		p.fail("load stats", err)
		return api.OverallStats{}, false
	}
	return stats, true
}

// ProjectStats returns the counters of one project
func (p *Provider) ProjectStats(ctx context.Context, id string) (api.ProjectStats, bool) {
	stats, err := p.api.ProjectStats(ctx, id)
	if err != nil {
		p.fail("load project stats", err, "project_id", id)
		return api.ProjectStats{}, false
	}
	return stats, true
}
