// Package provision maps an authenticated identity onto a stored profile.
package provision

import (
	"context"
	"fmt"

	"github.com/lucasmenke/suggestion-app/internal/app/system/normalize"
	"github.com/lucasmenke/suggestion-app/internal/domain/models"
	"go.uber.org/zap"
)

// Claims are the identity-provider values supplied with each authenticated
// request. An empty Subject means the caller is anonymous.
type Claims struct {
	Subject     string
	DisplayName string
	FirstName   string
	LastName    string
	Email       string
}

// Users is the subset of the user repository provisioning needs.
type Users interface {
	GetByObjectIdentifier(ctx context.Context, subject string) (*models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	Update(ctx context.Context, u models.User) error
}

// Provisioner resolves claims to profiles, creating or refreshing them.
type Provisioner struct {
	users Users
	log   *zap.Logger
}

func New(users Users, logger *zap.Logger) *Provisioner {
	return &Provisioner{users: users, log: logger}
}

// Resolve returns the profile for c. It returns (nil, nil) for anonymous
// callers. A first login creates the profile; later logins copy any changed
// claims onto it and write only when something changed.
func (p *Provisioner) Resolve(ctx context.Context, c Claims) (*models.User, error) {
	c = clean(c)
	if c.Subject == "" {
		return nil, nil
	}

	u, err := p.users.GetByObjectIdentifier(ctx, c.Subject)
	if err != nil {
		return nil, fmt.Errorf("lookup subject: %w", err)
	}

	if u == nil {
		created, err := p.users.Create(ctx, models.User{
			ObjectIdentifier: c.Subject,
			DisplayName:      c.DisplayName,
			FirstName:        c.FirstName,
			LastName:         c.LastName,
			Email:            c.Email,
		})
		if err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
		p.log.Info("user provisioned",
			zap.String("user_id", created.ID.Hex()),
			zap.String("display_name", created.DisplayName))
		return &created, nil
	}

	if !apply(u, c) {
		return u, nil
	}
	if err := p.users.Update(ctx, *u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	p.log.Debug("user profile refreshed from claims", zap.String("user_id", u.ID.Hex()))
	return u, nil
}

func clean(c Claims) Claims {
	return Claims{
		Subject:     normalize.Subject(c.Subject),
		DisplayName: normalize.Name(c.DisplayName),
		FirstName:   normalize.Name(c.FirstName),
		LastName:    normalize.Name(c.LastName),
		Email:       normalize.Email(c.Email),
	}
}

// apply copies c onto u and reports whether anything changed.
func apply(u *models.User, c Claims) bool {
	changed := false
	set := func(dst *string, v string) {
		if *dst != v {
			*dst = v
			changed = true
		}
	}
	set(&u.ObjectIdentifier, c.Subject)
	set(&u.DisplayName, c.DisplayName)
	set(&u.FirstName, c.FirstName)
	set(&u.LastName, c.LastName)
	set(&u.Email, c.Email)
	return changed
}
