package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"gdash/backend/internal/account/domain"
	"gdash/backend/internal/account/repository"
	"gdash/backend/internal/security"
)

// memAccountRepo honors the email unique constraint the way the store does:
// exactly one of two racing Creates wins.
type memAccountRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Account
	byEmail map[string]*domain.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{
		byID:    map[string]*domain.Account{},
		byEmail: map[string]*domain.Account{},
	}
}

func (r *memAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id], nil
}

func (r *memAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byEmail[email], nil
}

func (r *memAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[a.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	cp := *a
	r.byID[a.ID] = &cp
	r.byEmail[a.Email] = &cp
	return nil
}

func (r *memAccountRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byID[id]; ok {
		a.Role = role
	}
	return nil
}

func (r *memAccountRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byID[id]; ok {
		delete(r.byEmail, a.Email)
		delete(r.byID, id)
	}
	return nil
}

func (r *memAccountRepo) List(ctx context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Account, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	return out, nil
}

func newTestService(t *testing.T, repo repository.Repository) *Service {
	t.Helper()
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	return NewService(repo, security.NewHasher(4), tokens)
}

func TestService_RegisterAndLogin(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	profile, err := svc.Register(ctx, "A", "a@x.com", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if profile.Name != "A" || profile.Email != "a@x.com" {
		t.Errorf("profile = %+v", profile)
	}
	if profile.Role != domain.RoleUser {
		t.Errorf("new accounts must default to role user, got %q", profile.Role)
	}

	stored, _ := repo.GetByEmail(ctx, "a@x.com")
	if stored == nil {
		t.Fatal("account not persisted")
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "secret" {
		t.Fatal("password must be stored hashed")
	}

	res, err := svc.Login(ctx, "a@x.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken == "" {
		t.Fatal("login must issue a token")
	}
	if res.Profile.Name != "A" || res.Profile.Email != "a@x.com" {
		t.Errorf("login profile = %+v", res.Profile)
	}
	if strings.Contains(res.AccessToken, stored.PasswordHash) {
		t.Fatal("token must not embed the hash")
	}
}

func TestService_RegisterNormalizesEmail(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "  A@X.Com ", "secret"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if a, _ := repo.GetByEmail(ctx, "a@x.com"); a == nil {
		t.Fatal("email should be trimmed and lowercased before persistence")
	}
}

func TestService_RegisterDuplicate(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "a@x.com", "secret"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(ctx, "B", "a@x.com", "other-secret")
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("second Register: want ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestService_RegisterConcurrentDuplicate(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, "A", "race@x.com", "secret")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	wins, dups := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrEmailAlreadyRegistered):
			dups++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("exactly one concurrent registration should win, got %d", wins)
	}
	if wins+dups != n {
		t.Errorf("wins+dups = %d, want %d", wins+dups, n)
	}
}

func TestService_RegisterInvalidInput(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	cases := []struct {
		name     string
		regName  string
		email    string
		password string
	}{
		{"empty name", "  ", "a@x.com", "secret"},
		{"empty email", "A", "", "secret"},
		{"bad email", "A", "not-an-email", "secret"},
		{"short password", "A", "a@x.com", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.regName, tc.email, tc.password); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("want ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestService_LoginFailuresIndistinguishable(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "a@x.com", "secret"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, errWrongPassword := svc.Login(ctx, "a@x.com", "wrong")
	_, errUnknownEmail := svc.Login(ctx, "nobody@x.com", "secret")

	if !errors.Is(errWrongPassword, ErrInvalidCredentials) {
		t.Errorf("wrong password: want ErrInvalidCredentials, got %v", errWrongPassword)
	}
	if !errors.Is(errUnknownEmail, ErrInvalidCredentials) {
		t.Errorf("unknown email: want ErrInvalidCredentials, got %v", errUnknownEmail)
	}
	if errWrongPassword.Error() != errUnknownEmail.Error() {
		t.Error("the two failure branches must be indistinguishable")
	}
}
