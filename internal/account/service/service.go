package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"gdash/backend/internal/account/domain"
	"gdash/backend/internal/account/repository"
	"gdash/backend/internal/security"
)

// Sentinel errors for the credential manager; handlers map them to HTTP status codes.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password so a
	// caller cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)

// LoginResult holds the outcome of a successful login.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Profile     domain.Profile
}

// Service orchestrates registration (hash + store) and login (lookup + verify +
// issue token). It is the only writer of password hashes.
type Service struct {
	accounts repository.Repository
	hasher   *security.Hasher
	tokens   *security.TokenProvider
}

// NewService returns a Service with the given dependencies.
func NewService(accounts repository.Repository, hasher *security.Hasher, tokens *security.TokenProvider) *Service {
	return &Service{accounts: accounts, hasher: hasher, tokens: tokens}
}

// Register creates an account with role user and returns its profile. The
// password hash never leaves the service. Returns ErrEmailAlreadyRegistered on
// a duplicate email, whether detected by lookup or by the store's unique index
// under concurrent submission.
func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.Profile, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" {
		return nil, ErrInvalidInput
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	existing, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	acct := &domain.Account{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := acct.Validate(); err != nil {
		return nil, err
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}
	profile := acct.Profile()
	return &profile, nil
}

// Login authenticates with email/password and returns a session token plus the
// display-safe profile. Unknown email and wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(acct.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Issue(acct.ID, acct.Email, acct.Name)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Profile:     acct.Profile(),
	}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return ErrInvalidInput
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return ErrInvalidInput
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return ErrInvalidInput
	}
	return nil
}
