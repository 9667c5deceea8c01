package repository

import (
	"context"
	"errors"

	"gdash/backend/internal/account/domain"
)

// ErrDuplicateEmail is returned by Create when the email is already taken.
// Backed by the unique index on accounts.email, so exactly one of two racing
// inserts wins and the other observes this error.
var ErrDuplicateEmail = errors.New("email already registered")

// Repository defines persistence for accounts. It is the sole persistence
// boundary of the auth core.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, a *domain.Account) error
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Account, error)
}
