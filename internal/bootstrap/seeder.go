// Package bootstrap guarantees the baseline data invariant at process startup:
// an admin account with the well-known email exists before any request is served.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"gdash/backend/internal/account/domain"
	"gdash/backend/internal/account/repository"
	"gdash/backend/internal/audit"
	"gdash/backend/internal/security"
)

// EnsureAdmin creates the admin account with the given email if absent, and
// promotes it to admin if present with a lesser role. Idempotent and safe to
// race with a registration of the same email: the store's unique index decides
// the winner and the loser falls through to promotion. auditor may be nil.
//
// The default credentials are an operational liability flagged here, not
// solved: rotate them out of band in any real deployment.
func EnsureAdmin(ctx context.Context, accounts repository.Repository, hasher *security.Hasher, auditor *audit.Logger, email, password, name string) error {
	acct, err := accounts.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("bootstrap: lookup admin: %w", err)
	}

	if acct == nil {
		hash, err := hasher.Hash([]byte(password))
		if err != nil {
			return fmt.Errorf("bootstrap: hash admin password: %w", err)
		}
		now := time.Now().UTC()
		created := &domain.Account{
			ID:           uuid.New().String(),
			Email:        email,
			Name:         name,
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		err = accounts.Create(ctx, created)
		if err == nil {
			log.Printf("bootstrap: created admin account %s", email)
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateEmail) {
			return fmt.Errorf("bootstrap: create admin: %w", err)
		}
		// Lost the race to a concurrent registration; promote that record instead.
		acct, err = accounts.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("bootstrap: re-lookup admin: %w", err)
		}
		if acct == nil {
			return errors.New("bootstrap: admin account vanished after duplicate insert")
		}
	}

	if acct.Role != domain.RoleAdmin {
		if err := accounts.UpdateRole(ctx, acct.ID, domain.RoleAdmin); err != nil {
			return fmt.Errorf("bootstrap: promote admin: %w", err)
		}
		auditor.LogEvent(ctx, nil, acct.ID, audit.ActionBootstrapPromote, "account:"+acct.ID, "")
		log.Printf("bootstrap: promoted %s to admin", email)
	}
	return nil
}
