package middleware

import "context"

// Identity is the immutable identity attached to the request context after the
// session token validates. It mirrors the token claims; role is looked up from
// the store at authorization time, never carried here.
type Identity struct {
	AccountID string
	Email     string
	Name      string
}

type contextKey struct{ name string }

var identityKey = contextKey{"identity"}

// WithIdentity returns a context carrying the authenticated identity.
// Handlers and the role gate read it via GetIdentity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity returns the identity from context and true if set; otherwise a
// zero Identity and false.
func GetIdentity(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(identityKey).(Identity)
	return v, ok
}
