package domain

import "time"

// AuditLog is one recorded auth-relevant event. Entries carry outcome detail
// the API boundary deliberately merges (e.g. login failure cause), never secrets.
type AuditLog struct {
	ID        string
	AccountID string // empty for events with no resolved account (e.g. failed login)
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
