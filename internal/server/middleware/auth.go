package middleware

import (
	"net/http"
	"strings"

	"gdash/backend/internal/security"
	"gdash/backend/internal/server/httpx"
)

const bearerPrefix = "bearer "

// RequireAuth validates the Bearer (session) token from the Authorization
// header and attaches the identity to the request context. Missing, malformed,
// tampered, and expired tokens all produce the same 401 response.
func RequireAuth(tokens *security.TokenProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				httpx.Error(w, http.StatusUnauthorized, "missing or invalid authorization")
				return
			}
			claims, err := tokens.Validate(token)
			if err != nil {
				httpx.Error(w, http.StatusUnauthorized, "missing or invalid authorization")
				return
			}
			ctx := WithIdentity(r.Context(), Identity{
				AccountID: claims.Subject,
				Email:     claims.Email,
				Name:      claims.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearer returns the Bearer token from the Authorization header, or ""
// if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
