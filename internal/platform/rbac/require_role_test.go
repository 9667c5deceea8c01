package rbac

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gdash/backend/internal/account/domain"
	"gdash/backend/internal/server/middleware"
)

type fakeGetter struct {
	accounts map[string]*domain.Account
	err      error
}

func (g *fakeGetter) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.accounts[id], nil
}

func serveWithIdentity(t *testing.T, getter AccountGetter, identity *middleware.Identity) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	called := false
	h := RequireRole(getter, domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), *identity))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, called
}

func TestRequireRole_AdminAllowed(t *testing.T) {
	getter := &fakeGetter{accounts: map[string]*domain.Account{
		"acct-1": {ID: "acct-1", Role: domain.RoleAdmin},
	}}
	rec, called := serveWithIdentity(t, getter, &middleware.Identity{AccountID: "acct-1"})
	if !called || rec.Code != http.StatusOK {
		t.Errorf("admin should pass; called=%v status=%d", called, rec.Code)
	}
}

func TestRequireRole_UserForbidden(t *testing.T) {
	getter := &fakeGetter{accounts: map[string]*domain.Account{
		"acct-1": {ID: "acct-1", Role: domain.RoleUser},
	}}
	rec, called := serveWithIdentity(t, getter, &middleware.Identity{AccountID: "acct-1"})
	if called {
		t.Error("handler must not run for insufficient role")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRequireRole_FreshRoleWins(t *testing.T) {
	// The gate re-reads the store, so a promotion after token issuance counts.
	acct := &domain.Account{ID: "acct-1", Role: domain.RoleUser}
	getter := &fakeGetter{accounts: map[string]*domain.Account{"acct-1": acct}}

	rec, _ := serveWithIdentity(t, getter, &middleware.Identity{AccountID: "acct-1"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("before promotion: status = %d, want 403", rec.Code)
	}

	acct.Role = domain.RoleAdmin
	rec, called := serveWithIdentity(t, getter, &middleware.Identity{AccountID: "acct-1"})
	if !called || rec.Code != http.StatusOK {
		t.Errorf("after promotion: called=%v status=%d, want pass", called, rec.Code)
	}
}

func TestRequireRole_NoIdentity(t *testing.T) {
	getter := &fakeGetter{accounts: map[string]*domain.Account{}}
	rec, called := serveWithIdentity(t, getter, nil)
	if called {
		t.Error("handler must not run without identity")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRole_DeletedAccount(t *testing.T) {
	getter := &fakeGetter{accounts: map[string]*domain.Account{}}
	rec, _ := serveWithIdentity(t, getter, &middleware.Identity{AccountID: "gone"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for deleted account", rec.Code)
	}
}

func TestRequireRole_StoreFailure(t *testing.T) {
	getter := &fakeGetter{err: errors.New("connection refused")}
	rec, _ := serveWithIdentity(t, getter, &middleware.Identity{AccountID: "acct-1"})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 for store failure", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Error("storage detail must not leak to the client")
	}
}
