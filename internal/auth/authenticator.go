// Package auth implements staff authentication: bcrypt password accounts and JWT sessions.
package auth

import (
	"context"

	"github.com/mmynk/kanzlei/internal/models"
)

// Registration describes a new staff account.
type Registration struct {
	Email    string
	Name     string
	Password string

	// Role defaults to models.RoleUser. Self-registration never sets it.
	Role string
}

// Authenticator creates staff accounts and verifies their credentials.
type Authenticator interface {
	Register(ctx context.Context, reg Registration) (*models.User, error)

	// Authenticate returns ErrInvalidCredentials for unknown emails and wrong passwords alike.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}
