package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for any token that fails validation: malformed,
	// tampered, expired, or signed with the wrong method or secret. Callers cannot
	// distinguish the cases; that is deliberate.
	ErrInvalidToken = errors.New("invalid token")
)

// SessionClaims holds the JWT claims for a session token. The account role is
// intentionally absent: authorization re-reads it from the store so promotions
// and demotions take effect before the token expires.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenProvider issues and validates HS256 session tokens signed with a single
// process-wide secret. The secret is read-only after construction and safe to
// share across concurrent validations.
type TokenProvider struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewTokenProvider returns a TokenProvider signing with secret. issuer and
// audience are set on claims and checked on validation. ttl bounds the exposure
// window of a leaked token; there is no server-side revocation.
func NewTokenProvider(secret []byte, issuer, audience string, ttl time.Duration) (*TokenProvider, error) {
	if len(secret) == 0 {
		return nil, errors.New("security: token secret must not be empty")
	}
	return &TokenProvider{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}, nil
}

// Issue signs a session token for the given account identity.
// Returns the compact token string and its expiration time.
func (p *TokenProvider) Issue(accountID, email, name string) (token string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	expiresAt = now.Add(p.ttl)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
		Name:  name,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate parses and validates a session token (signature first, then expiry,
// issuer, audience). Returns the claims, or ErrInvalidToken on any failure.
func (p *TokenProvider) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return nil, ErrInvalidToken
	}
	audOk := false
	for _, a := range claims.Audience {
		if a == p.audience {
			audOk = true
			break
		}
	}
	if !audOk {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
