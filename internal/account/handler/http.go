// Package handler exposes the auth and user-administration HTTP endpoints.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gdash/backend/internal/account/domain"
	"gdash/backend/internal/account/repository"
	"gdash/backend/internal/account/service"
	"gdash/backend/internal/audit"
	"gdash/backend/internal/server/httpx"
	"gdash/backend/internal/server/middleware"
)

// Handler serves /auth/* and /users/*. The role gate for /users/* is mounted by
// the server, not here.
type Handler struct {
	svc      *service.Service
	accounts repository.Repository
	auditor  *audit.Logger
}

// New returns a Handler. auditor may be nil; auditing is then disabled.
func New(svc *service.Service, accounts repository.Repository, auditor *audit.Logger) *Handler {
	return &Handler{svc: svc, accounts: accounts, auditor: auditor}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string      `json:"accessToken"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	User        profileBody `json:"user"`
}

type profileBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	profile, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			httpx.Error(w, http.StatusBadRequest, "name, valid email, and password of at least 6 characters are required")
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			httpx.Error(w, http.StatusConflict, "email already registered")
		default:
			httpx.Internal(w, err)
		}
		return
	}
	h.auditor.LogEvent(r.Context(), r, profile.ID, audit.ActionRegister, "account", "")
	httpx.WriteJSON(w, http.StatusCreated, profileBody{Name: profile.Name, Email: profile.Email})
}

// Login handles POST /auth/login. Unknown email and wrong password produce the
// same response shape and status.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.auditor.LogEvent(r.Context(), r, "", audit.ActionLoginFailure, "session", "credential mismatch or unknown email")
			httpx.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		httpx.Internal(w, err)
		return
	}
	h.auditor.LogEvent(r.Context(), r, res.Profile.ID, audit.ActionLoginSuccess, "session", "")
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: res.AccessToken,
		ExpiresAt:   res.ExpiresAt,
		User:        profileBody{Name: res.Profile.Name, Email: res.Profile.Email},
	})
}

// Me handles GET /auth/me: the caller's current profile, fresh from the store.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}
	acct, err := h.accounts.GetByID(r.Context(), id.AccountID)
	if err != nil {
		httpx.Internal(w, err)
		return
	}
	if acct == nil {
		httpx.Error(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, acct.Profile())
}

// List handles GET /users (admin): all profiles, never hashes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accts, err := h.accounts.List(r.Context())
	if err != nil {
		httpx.Internal(w, err)
		return
	}
	profiles := make([]domain.Profile, 0, len(accts))
	for _, a := range accts {
		profiles = append(profiles, a.Profile())
	}
	httpx.WriteJSON(w, http.StatusOK, profiles)
}

// Delete handles DELETE /users/{id} (admin).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")
	if targetID == "" {
		httpx.Error(w, http.StatusBadRequest, "user id is required")
		return
	}
	if err := h.accounts.Delete(r.Context(), targetID); err != nil {
		httpx.Internal(w, err)
		return
	}
	caller, _ := middleware.GetIdentity(r.Context())
	h.auditor.LogEvent(r.Context(), r, caller.AccountID, audit.ActionAccountDelete, "account:"+targetID, "")
	w.WriteHeader(http.StatusNoContent)
}

type roleRequest struct {
	Role domain.Role `json:"role"`
}

// SetRole handles PATCH /users/{id}/role (admin): the administrative promotion
// path. Takes effect on the target's next request; their outstanding token is
// untouched because role is never a token claim.
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")
	if targetID == "" {
		httpx.Error(w, http.StatusBadRequest, "user id is required")
		return
	}
	var req roleRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	if !req.Role.Valid() {
		httpx.Error(w, http.StatusBadRequest, "role must be admin or user")
		return
	}
	acct, err := h.accounts.GetByID(r.Context(), targetID)
	if err != nil {
		httpx.Internal(w, err)
		return
	}
	if acct == nil {
		httpx.Error(w, http.StatusNotFound, "user not found")
		return
	}
	if err := h.accounts.UpdateRole(r.Context(), targetID, req.Role); err != nil {
		httpx.Internal(w, err)
		return
	}
	caller, _ := middleware.GetIdentity(r.Context())
	h.auditor.LogEvent(r.Context(), r, caller.AccountID, audit.ActionRoleChange, "account:"+targetID, string(req.Role))
	acct.Role = req.Role
	httpx.WriteJSON(w, http.StatusOK, acct.Profile())
}
