// Package state keeps the signed in user and the loaded projects in memory
// for the front ends. Every mutation goes through the api client and then
// re-fetches the affected project, replacing it wholesale.
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/dori/projectflow/internal/api"
	"github.com/dori/projectflow/internal/logging"
	"github.com/dori/projectflow/internal/model"
)

// Provider is safe for concurrent use. Failures are logged and reported as
// false or nil; only a duplicate registration is surfaced as an error.
type Provider struct {
	api *api.Client
	log *logging.Logger

	mu       sync.RWMutex
	user     *model.User
	projects []model.Project
	current  *model.Project
}

// NewProvider creates an empty provider over client
func NewProvider(client *api.Client, log *logging.Logger) *Provider {
	if log == nil {
		log = logging.Discard()
	}
	return &Provider{
		api: client,
		log: log.With("component", "state"),
	}
}

// API returns the underlying client
func (p *Provider) API() *api.Client {
	return p.api
}

func (p *Provider) fail(op string, err error, args ...any) {
	p.log.Error(op+" failed", append(args, "error", err.Error())...)
}

// User returns the signed in user, or nil
func (p *Provider) User() *model.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.user == nil {
		return nil
	}
	u := *p.user
	return &u
}

// Projects returns a copy of the loaded projects
func (p *Provider) Projects() []model.Project {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Project, len(p.projects))
	for i := range p.projects {
		out[i] = p.projects[i].Clone()
	}
	return out
}

// Project returns a loaded project, or nil
func (p *Provider) Project(id string) *model.Project {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for i := range p.projects {
		if p.projects[i].ID == id {
			out := p.projects[i].Clone()
			return &out
		}
	}
	return nil
}

// Current returns the selected project, or nil
func (p *Provider) Current() *model.Project {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return nil
	}
	out := p.current.Clone()
	return &out
}

// Load fetches the signed in user and, when there is one, every project
func (p *Provider) Load(ctx context.Context) bool {
	user, err := p.api.CurrentUser(ctx)
	if err != nil {
		p.fail("load user", err)
		return false
	}

	p.mu.Lock()
	p.user = user
	p.mu.Unlock()

	if user == nil {
		return true
	}
	return p.RefreshProjects(ctx)
}

// RefreshProjects reloads the project list from storage
func (p *Provider) RefreshProjects(ctx context.Context) bool {
	projects, err := p.api.Projects(ctx)
	if err != nil {
		p.fail("load projects", err)
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.projects = projects
	if p.current != nil {
		p.current = findProject(p.projects, p.current.ID)
	}
	return true
}

// Login signs in and loads the projects
func (p *Provider) Login(ctx context.Context, email, password string) bool {
	user, err := p.api.Login(ctx, email, password)
	if err != nil {
		p.fail("login", err)
		return false
	}
	if user == nil {
		return false
	}

	p.mu.Lock()
	p.user = user
	p.mu.Unlock()
	return p.RefreshProjects(ctx)
}

// Register creates an account and signs it in. api.ErrUserExists is
// returned so the form can tell the user.
func (p *Provider) Register(ctx context.Context, name, email, password string) (bool, error) {
	user, err := p.api.Register(ctx, name, email, password)
	if errors.Is(err, api.ErrUserExists) {
		return false, err
	}
	if err != nil {
		p.fail("register", err)
		return false, nil
	}
	if user == nil {
		return false, nil
	}

	p.mu.Lock()
	p.user = user
	p.mu.Unlock()
	return p.RefreshProjects(ctx), nil
}

// Logout signs out and forgets the loaded projects
func (p *Provider) Logout(ctx context.Context) bool {
	if err := p.api.Logout(ctx); err != nil {
		p.fail("logout", err)
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.user = nil
	p.projects = nil
	p.current = nil
	return true
}

// UpdateProfile changes the signed in user's profile
func (p *Provider) UpdateProfile(ctx context.Context, update api.UserUpdate) (*model.User, error) {
	current := p.User()
	if current == nil {
		return nil, nil
	}

	user, err := p.api.UpdateUser(ctx, current.ID, update)
	if errors.Is(err, api.ErrUserExists) {
		return nil, err
	}
	if err != nil {
		p.fail("update profile", err, "user_id", current.ID)
		return nil, nil
	}
	if user == nil {
		return nil, nil
	}

	p.mu.Lock()
	p.user = user
	p.mu.Unlock()
	out := *user
	return &out, nil
}

// SelectProject fetches a project and makes it current
func (p *Provider) SelectProject(ctx context.Context, id string) *model.Project {
	project, err := p.api.Project(ctx, id)
	if err != nil {
		p.fail("select project", err, "project_id", id)
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = project
	if project == nil {
		return nil
	}
	p.replace(*project)
	out := project.Clone()
	return &out
}

// refresh re-fetches one project and swaps it into memory; a project that
// no longer exists is dropped
func (p *Provider) refresh(ctx context.Context, id string) {
	project, err := p.api.Project(ctx, id)
	if err != nil {
		p.fail("refresh project", err, "project_id", id)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if project == nil {
		p.remove(id)
		return
	}
	p.replace(*project)
}

// replace must be called with mu held
func (p *Provider) replace(project model.Project) {
	replaced := false
	for i := range p.projects {
		if p.projects[i].ID == project.ID {
			p.projects[i] = project
			replaced = true
			break
		}
	}
	if !replaced {
		p.projects = append(p.projects, project)
	}
	if p.current != nil && p.current.ID == project.ID {
		cur := project.Clone()
		p.current = &cur
	}
}

// remove must be called with mu held
func (p *Provider) remove(id string) {
	kept := p.projects[:0]
	for _, project := range p.projects {
		if project.ID != id {
			kept = append(kept, project)
		}
	}
	p.projects = kept
	if p.current != nil && p.current.ID == id {
		p.current = nil
	}
}

func findProject(projects []model.Project, id string) *model.Project {
	for i := range projects {
		if projects[i].ID == id {
			out := projects[i].Clone()
			return &out
		}
	}
	return nil
}
