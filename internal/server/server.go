// Package server assembles the HTTP router: CORS, instrumentation, and the
// two-stage access gate (authentication, then authorization by role).
package server

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	accountdomain "gdash/backend/internal/account/domain"
	accounthandler "gdash/backend/internal/account/handler"
	"gdash/backend/internal/platform/rbac"
	"gdash/backend/internal/security"
	"gdash/backend/internal/server/httpx"
	"gdash/backend/internal/server/middleware"
	weatherhandler "gdash/backend/internal/weather/handler"
)

// Deps holds the collaborators the router needs. Each component receives its
// dependencies explicitly; there is no ambient container.
type Deps struct {
	Tokens      *security.TokenProvider
	Accounts    rbac.AccountGetter
	AccountH    *accounthandler.Handler
	WeatherH    *weatherhandler.Handler
	CORSOrigins []string
	// DB is used by the health endpoint for readiness; may be nil in tests.
	DB *sql.DB
}

// NewRouter builds the full route tree.
//
// Gate stages per route group:
//   - /auth/register, /auth/login, POST /api/weather/logs, /healthz: public.
//     The ingest POST is deliberately open for the external collector chain.
//   - /auth/me, weather reads: authentication only.
//   - /users/*: authentication + admin role (re-read from the store).
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if deps.DB != nil {
			if err := deps.DB.PingContext(req.Context()); err != nil {
				httpx.Error(w, http.StatusServiceUnavailable, "database unreachable")
				return
			}
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Post("/auth/register", deps.AccountH.Register)
	r.Post("/auth/login", deps.AccountH.Login)
	r.Post("/api/weather/logs", deps.WeatherH.Ingest)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth(deps.Tokens))

		pr.Get("/auth/me", deps.AccountH.Me)
		pr.Get("/api/weather/logs", deps.WeatherH.List)
		pr.Get("/api/weather/insights", deps.WeatherH.Insights)
		pr.Get("/api/weather/export/csv", deps.WeatherH.ExportCSV)

		pr.Group(func(ar chi.Router) {
			ar.Use(rbac.RequireRole(deps.Accounts, accountdomain.RoleAdmin))

			ar.Get("/users", deps.AccountH.List)
			ar.Delete("/users/{id}", deps.AccountH.Delete)
			ar.Patch("/users/{id}/role", deps.AccountH.SetRole)
		})
	})

	return otelhttp.NewHandler(r, "gdash-api")
}
