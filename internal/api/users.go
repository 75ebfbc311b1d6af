package api

import (
	"context"
	"strings"

	"github.com/dori/projectflow/internal/latency"
	"github.com/dori/projectflow/internal/model"
)

// UserUpdate holds the profile fields to change; nil fields are kept
type UserUpdate struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// AvatarURL returns the generated avatar for an email
func AvatarURL(email string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + email
}

// Login signs in the user registered with email. An unknown email with a
// non-empty password creates the account on the fly. Returns nil when no
// user could be signed in.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	if err := c.wait(ctx, latency.Default); err != nil {
		return nil, err
	}

	var user *model.User
	_, err := c.store.Update(ctx, func(d model.Document) model.Document {
		if existing := d.FindUserByEmail(email); existing != nil {
			u := *existing
			user = &u
		} else if email != "" && password != "" {
			u := model.User{
				ID:        c.newID(),
				Name:      strings.Split(email, "@")[0],
				Email:     email,
				Avatar:    AvatarURL(email),
				CreatedAt: c.timestamp(),
			}
			d.Users = append(d.Users, u)
			user = &u
		}

		if user != nil {
			id := user.ID
			d.CurrentUser = &id
		}
		return d
	})
	if err != nil {
		return nil, err
	}

	if user == nil {
		c.log.Info("login rejected", "email", email)
	}
	return user, nil
}

// Register creates a user and signs it in. Returns nil when a field is
// empty and ErrUserExists when the email is taken.
func (c *Client) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	if err := c.wait(ctx, latency.Default); err != nil {
		return nil, err
	}

	if name == "" || email == "" || password == "" {
		return nil, nil
	}

	var exists bool
	user := model.User{
		ID:        c.newID(),
		Name:      name,
		Email:     email,
		Avatar:    AvatarURL(email),
		CreatedAt: c.timestamp(),
	}
	_, err := c.store.Update(ctx, func(d model.Document) model.Document {
		if d.FindUserByEmail(email) != nil {
			exists = true
			return d
		}
		d.Users = append(d.Users, user)
		d.CurrentUser = &user.ID
		return d
	})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}
	return &user, nil
}

// CurrentUser returns the signed in user, or nil
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	if err := c.wait(ctx, latency.Short); err != nil {
		return nil, err
	}

	doc := c.store.Read(ctx)
	if doc.CurrentUser == nil {
		return nil, nil
	}
	u := doc.FindUser(*doc.CurrentUser)
	if u == nil {
		return nil, nil
	}
	out := *u
	return &out, nil
}

// UpdateUser applies update to the user with id. Returns nil when the user
// does not exist and ErrUserExists when the new email belongs to someone else.
func (c *Client) UpdateUser(ctx context.Context, id string, update UserUpdate) (*model.User, error) {
	if err := c.wait(ctx, latency.Default); err != nil {
		return nil, err
	}

	var (
		updated *model.User
		taken   bool
	)
	_, err := c.store.Update(ctx, func(d model.Document) model.Document {
		u := d.FindUser(id)
		if u == nil {
			return d
		}
		if update.Email != nil {
			if other := d.FindUserByEmail(*update.Email); other != nil && other.ID != id {
				taken = true
				return d
			}
			u.Email = *update.Email
		}
		if update.Name != nil {
			u.Name = *update.Name
		}
		if update.Avatar != nil {
			u.Avatar = *update.Avatar
		}
		out := *u
		updated = &out
		return d
	})
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUserExists
	}
	return updated, nil
}

// Logout clears the signed in user
func (c *Client) Logout(ctx context.Context) error {
	if err := c.wait(ctx, latency.Short); err != nil {
		return err
	}

	_, err := c.store.Update(ctx, func(d model.Document) model.Document {
		d.CurrentUser = nil
		return d
	})
	return err
}
