// Package audit records auth-relevant events. The API boundary merges failure
// causes into uniform responses; the audit trail is where the causes stay apart.
package audit

import (
	"context"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"gdash/backend/internal/audit/domain"
	auditrepo "gdash/backend/internal/audit/repository"
)

// Event actions recorded by the auth and admin code paths.
const (
	ActionRegister         = "register"
	ActionLoginSuccess     = "login_success"
	ActionLoginFailure     = "login_failure"
	ActionBootstrapPromote = "bootstrap_promote"
	ActionRoleChange       = "role_change"
	ActionAccountDelete    = "account_delete"
)

// Logger writes audit events. Best-effort: failures are logged and do not
// affect the caller. A nil Logger is safe to call.
type Logger struct {
	repo auditrepo.Repository
}

// NewLogger returns a Logger that persists to repo.
func NewLogger(repo auditrepo.Repository) *Logger {
	return &Logger{repo: repo}
}

// LogEvent writes one audit entry. metadata must never contain plaintext
// passwords, hashes, or tokens.
func (l *Logger) LogEvent(ctx context.Context, r *http.Request, accountID, action, resource, metadata string) {
	if l == nil || l.repo == nil {
		return
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Action:    action,
		Resource:  resource,
		IP:        clientIP(r),
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: write event %s: %v", action, err)
	}
}

// clientIP returns the remote IP for the request, preferring X-Forwarded-For
// when present (first hop).
func clientIP(r *http.Request) string {
	if r == nil {
		return "unknown"
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
