package security

import (
	"errors"
	"testing"
	"time"
)

func TestTokenProvider_IssueAndValidate(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}

	token, exp, err := p.Issue("acct-1", "a@x.com", "A")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("Issue returned empty token")
	}
	if exp.Before(time.Now()) {
		t.Fatal("expires at in the past")
	}

	claims, err := p.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Subject != "acct-1" || claims.Email != "a@x.com" || claims.Name != "A" {
		t.Errorf("claims = sub=%q email=%q name=%q", claims.Subject, claims.Email, claims.Name)
	}
}

func TestTokenProvider_ValidateMalformed(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	for _, tok := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := p.Validate(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate(%q): want ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestTokenProvider_ValidateExpired(t *testing.T) {
	p, err := NewTokenProvider([]byte("test-secret-not-for-production"), "gdash-test", "gdash-test-api", -time.Minute)
	if err != nil {
		t.Fatalf("NewTokenProvider: %v", err)
	}
	token, _, err := p.Issue("acct-1", "a@x.com", "A")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := p.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ValidateAfterTTLElapses(t *testing.T) {
	p, err := NewTokenProvider([]byte("test-secret-not-for-production"), "gdash-test", "gdash-test-api", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewTokenProvider: %v", err)
	}
	token, _, err := p.Issue("acct-1", "a@x.com", "A")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Claims carry second precision, so wait past the full second that contains
	// the expiry before asserting rejection.
	time.Sleep(1200 * time.Millisecond)
	if _, err := p.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token past its TTL: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ValidateTampered(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	token, _, err := p.Issue("acct-1", "a@x.com", "A")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	// Flip a single character anywhere in the token; every position must fail.
	for i := 0; i < len(token); i += 7 {
		b := []byte(token)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		if _, err := p.Validate(string(b)); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("tampered at %d: want ErrInvalidToken, got %v", i, err)
		}
	}
}

func TestTokenProvider_ValidateWrongSecret(t *testing.T) {
	p1, err := NewTokenProvider([]byte("secret-one"), "gdash-test", "gdash-test-api", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenProvider: %v", err)
	}
	p2, err := NewTokenProvider([]byte("secret-two"), "gdash-test", "gdash-test-api", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenProvider: %v", err)
	}
	token, _, err := p1.Issue("acct-1", "a@x.com", "A")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := p2.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ValidateWrongIssuerAudience(t *testing.T) {
	secret := []byte("test-secret-not-for-production")
	p1, _ := NewTokenProvider(secret, "other-issuer", "gdash-test-api", time.Minute)
	p2, _ := NewTokenProvider(secret, "gdash-test", "other-audience", time.Minute)
	target, _ := NewTokenProvider(secret, "gdash-test", "gdash-test-api", time.Minute)

	for name, p := range map[string]*TokenProvider{"issuer": p1, "audience": p2} {
		token, _, err := p.Issue("acct-1", "a@x.com", "A")
		if err != nil {
			t.Fatalf("Issue (%s): %v", name, err)
		}
		if _, err := target.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("wrong %s: want ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestNewTokenProvider_EmptySecret(t *testing.T) {
	if _, err := NewTokenProvider(nil, "iss", "aud", time.Minute); err == nil {
		t.Fatal("empty secret should be rejected")
	}
}
