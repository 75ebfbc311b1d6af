package api

import (
	"context"

	"github.com/dori/projectflow/internal/latency"
	"github.com/dori/projectflow/internal/model"
)

// ProjectUpdate holds the project fields to change; nil fields are kept
type ProjectUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Projects returns every project in stored order
func (c *Client) Projects(ctx context.Context) ([]model.Project, error) {
	if err := c.wait(ctx, latency.List); err != nil {
		return nil, err
	}
	return c.store.Read(ctx).Projects, nil
}

// Project returns the project with id, or nil
func (c *Client) Project(ctx context.Context, id string) (*model.Project, error) {
	if err := c.wait(ctx, latency.Get); err != nil {
		return nil, err
	}

	doc := c.store.Read(ctx)
	p := doc.FindProject(id)
	if p == nil {
		return nil, nil
	}
	out := p.Clone()
	return &out, nil
}

// CreateProject appends a new empty project
func (c *Client) CreateProject(ctx context.Context, name, description string) (*model.Project, error) {
	if err := c.wait(ctx, latency.Default); err != nil {
		return nil, err
	}

	project := model.Project{
		ID:          c.newID(),
		Name:        name,
		Description: description,
		CreatedAt:   c.timestamp(),
		Tasks:       []model.Task{},
	}
	_, err := c.store.Update(ctx, func(d model.Document) model.Document {
		d.Projects = append(d.Projects, project)
		return d
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("project created", "project_id", project.ID)
	return &project, nil
}

// UpdateProject applies update to the project with id. Returns nil when
// the project does not exist.
func (c *Client) UpdateProject(ctx context.Context, id string, update ProjectUpdate) (*model.Project, error) {
	if err := c.wait(ctx, latency.Default); err != nil {
		return nil, err
	}

	var updated *model.Project
	_, err := c.store.Update(ctx, func(d model.Document) model.Document {
		p := d.FindProject(id)
		if p == nil {
			return d
		}
		if update.Name != nil {
			p.Name = *update.Name
		}
		if update.Description != nil {
			p.Description = *update.Description
		}
		out := p.Clone()
		updated = &out
		return d
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProject removes the project with id and every task in it.
// Reports whether a project was removed.
func (c *Client) DeleteProject(ctx context.Context, id string) (bool, error) {
	if err := c.wait(ctx, latency.Default); err != nil {
		return false, err
	}

	var found bool
	_, err := c.store.Update(ctx, func(d model.Document) model.Document {
		kept := make([]model.Project, 0, len(d.Projects))
		for _, p := range d.Projects {
			if p.ID == id {
				found = true
				continue
			}
			kept = append(kept, p)
		}
		d.Projects = kept
		return d
	})
	if err != nil {
		return false, err
	}

	if found {
		c.log.Info("project deleted", "project_id", id)
	}
	return found, nil
}
