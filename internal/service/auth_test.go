package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/auth"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/repository"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.UserRepository.
// Using a fake (not a mock framework) keeps tests dependency-free and easy
// to read — you can see exactly what the fake does.
type fakeUserRepo struct {
	users  map[string]*model.User // keyed by internal ID
	nextID int
	// set to a non-nil error to simulate a database failure
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User), nextID: 1}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.Conflict("an account with this email already exists")
		}
	}
	user.ID = fmt.Sprintf("user-fake-%d", f.nextID)
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) ListUsers(ctx context.Context, filter repository.UserFilter, opts repository.ListOptions) ([]model.User, error) {
	out := []model.User{}
	for _, u := range f.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) CountUsers(ctx context.Context, filter repository.UserFilter) (int, error) {
	n := 0
	for _, u := range f.users {
		if filter.Role == "" || u.Role == filter.Role {
			n++
		}
	}
	return n, nil
}

// testLogger discards everything below Error so test output stays clean.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestAuthService returns an AuthService wired with fake dependencies.
// Bcrypt cost 4 is the library minimum — makes tests fast.
func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceWithCost(4)

	return NewAuthService(repo, passwords, tokens, testLogger())
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "secret123",
	}
}

// =========================================================================
// Register TESTS
// =========================================================================

func TestRegister_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	user, token, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Register() did not assign an ID")
	}
	if token == "" {
		t.Error("Register() returned empty token")
	}
	// Role defaults to job_seeker when not provided
	if user.Role != model.RoleJobSeeker {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleJobSeeker)
	}
	// The plaintext must never be stored
	if user.PasswordHash == "secret123" {
		t.Error("Register() stored the plaintext password")
	}
}

func TestRegister_NormalisesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	in := validRegisterInput()
	in.Email = "  Mixed@Example.COM "

	user, _, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "mixed@example.com" {
		t.Errorf("Email = %q, want lowercased and trimmed", user.Email)
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"short name", func(in *RegisterInput) { in.Name = "x" }},
		{"invalid email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *RegisterInput) { in.Password = "12345" }},
		{"unknown role", func(in *RegisterInput) { in.Role = "superuser" }},
		{"unknown experience", func(in *RegisterInput) { in.Experience = "wizard" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			svc := newTestAuthService(t, repo)

			in := validRegisterInput()
			tt.mutate(&in)

			_, _, err := svc.Register(context.Background(), in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, _, err := svc.Register(context.Background(), validRegisterInput())
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("second Register() error = %v, want ErrConflict", err)
	}
}

func TestRegister_AdminRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	in := validRegisterInput()
	in.Role = model.RoleAdmin

	user, token, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want admin", user.Role)
	}

	// The role claim must ride inside the token so the admin gate can
	// trust it without a lookup.
	tokens, _ := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	_, role, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if role != model.RoleAdmin {
		t.Errorf("token role claim = %q, want admin", role)
	}
}

func TestRegister_RepositoryError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = errors.New("database is on fire")
	svc := newTestAuthService(t, repo)

	_, _, err := svc.Register(context.Background(), validRegisterInput())
	if err == nil {
		t.Fatal("Register() should propagate repository errors")
	}
}

// =========================================================================
// Login TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	registered, _, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("setup Register() error = %v", err)
	}

	user, token, err := svc.Login(context.Background(), "test@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("Login() user.ID = %q, want %q", user.ID, registered.ID)
	}
	if token == "" {
		t.Error("Login() returned empty token")
	}
}

func TestLogin_EmailCaseInsensitive(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "TEST@Example.com", "secret123")
	if err != nil {
		t.Errorf("Login() with mixed-case email error = %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "test@example.com", "wrong-password")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Login() wrong password error = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, _, errUnknown := svc.Login(context.Background(), "nobody@example.com", "secret123")
	_, _, errWrongPw := svc.Login(context.Background(), "test@example.com", "wrong-password")

	if !errors.Is(errUnknown, apperror.ErrUnauthorized) {
		t.Errorf("unknown email error = %v, want ErrUnauthorized", errUnknown)
	}
	// Both failures must be indistinguishable so login cannot be used to
	// probe which addresses have accounts.
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("error messages differ: %q vs %q", errUnknown.Error(), errWrongPw.Error())
	}
}
