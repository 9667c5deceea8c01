package domain

import (
	"errors"
	"time"
)

// Account is the core identity record. PasswordHash is opaque; only
// security.Hasher writes or verifies it.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Validate validates the account for persistence. Returns an error describing the first validation failure.
func (a *Account) Validate() error {
	if a.Email == "" {
		return errors.New("email is required")
	}
	if a.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if a.Role == "" {
		a.Role = RoleUser
	}
	if !a.Role.Valid() {
		return errors.New("unknown role")
	}
	return nil
}

// Profile is the display-safe projection of an account: never carries the
// password hash.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Profile returns the display-safe projection of the account.
func (a *Account) Profile() Profile {
	return Profile{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}
