package security

import "time"

// NewTestTokenProvider returns a TokenProvider with a fixed secret and short TTL
// for use in tests across packages.
func NewTestTokenProvider() (*TokenProvider, error) {
	return NewTokenProvider([]byte("test-secret-not-for-production"), "gdash-test", "gdash-test-api", 15*time.Minute)
}
