package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Roles a user may hold.
const (
	RoleUser    = "user"
	RoleAdvisor = "advisor"
	RoleAdmin   = "admin"
)

// DefaultLanguage is the UI language assigned to new users.
const DefaultLanguage = "de"

// User represents a staff account.
// Advisors (Steuerberater) are users with RoleAdvisor.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Email is unique and used for login.
	Email string `json:"email"`

	// Name is the display name, also used as document owner and template creator.
	Name string `json:"name"`

	Role     string `json:"role"`
	Language string `json:"language"`

	// PasswordHash is the bcrypt hash of the password. Never serialised.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUser creates a user with a fresh ID, default role and language.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().UTC().Truncate(time.Second)
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		Role:         RoleUser,
		Language:     DefaultLanguage,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ValidRole reports whether role is a known role.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdvisor || role == RoleAdmin
}

// Advisor is the reduced view of an advisor used by selection lists.
type Advisor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Languages lists the supported UI languages.
var Languages = []string{"de", "en"}

// ValidLanguage reports whether lang is a supported UI language.
func ValidLanguage(lang string) bool {
	return slices.Contains(Languages, lang)
}
