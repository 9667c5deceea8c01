// Package rbac enforces the role stage of the request gate. It runs after
// authentication and re-reads the caller's role from the store, so promotions
// and demotions after token issuance take effect immediately.
package rbac

import (
	"context"
	"net/http"

	"gdash/backend/internal/account/domain"
	"gdash/backend/internal/server/httpx"
	"gdash/backend/internal/server/middleware"
)

// AccountGetter resolves an account by ID. Used to look up the caller's current role.
type AccountGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

// RequireRole returns middleware that ensures the authenticated caller's
// current role matches required. Must be mounted after middleware.RequireAuth.
// Missing identity or a deleted account yields 401; a role mismatch yields 403.
func RequireRole(accounts AccountGetter, required domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := middleware.GetIdentity(r.Context())
			if !ok || id.AccountID == "" {
				httpx.Error(w, http.StatusUnauthorized, "missing or invalid authorization")
				return
			}
			acct, err := accounts.GetByID(r.Context(), id.AccountID)
			if err != nil {
				httpx.Internal(w, err)
				return
			}
			if acct == nil {
				httpx.Error(w, http.StatusUnauthorized, "missing or invalid authorization")
				return
			}
			if acct.Role != required {
				httpx.Error(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
