// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services accept primitives and return domain models and domain errors —
// they have zero knowledge of HTTP. Handlers translate both directions.
// Each service takes repository interfaces (not concrete types), so tests
// inject in-memory mocks and main injects SQLite.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/auth"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/repository"
)

const (
	MinPasswordLength = 6
	MinNameLength     = 2
)

// RegisterInput carries the registration payload. Role defaults to
// job_seeker when empty; the profile fields are optional.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Role       string
	Phone      string
	Location   string
	Skills     []string
	Experience string
}

// AuthService handles registration, login, and credential verification.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
}

func NewAuthService(users repository.UserRepository, passwords *auth.PasswordService, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// Register creates a new account and issues a token scoped to it.
//
// Duplicate email handling is two-layered like the application duplicate
// guard: the GetUserByEmail lookup catches the common case with a clean
// Conflict, and the UNIQUE email column catches the race where two
// registrations for the same address interleave.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if len(in.Name) < MinNameLength {
		return nil, "", apperror.ValidationFailed("name", "name must be at least 2 characters")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, "", apperror.ValidationFailed("email", "a valid email is required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, "", apperror.ValidationFailed("password", "password must be at least 6 characters")
	}
	if in.Role == "" {
		in.Role = model.RoleJobSeeker
	}
	if !model.ValidRole(in.Role) {
		return nil, "", apperror.ValidationFailed("role", "invalid role")
	}
	if in.Experience != "" && !model.ValidExperience(in.Experience) {
		return nil, "", apperror.ValidationFailed("experience", "invalid experience level")
	}

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, "", apperror.Conflict("an account with this email already exists")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Phone:        strings.TrimSpace(in.Phone),
		Location:     strings.TrimSpace(in.Location),
		Skills:       in.Skills,
		Experience:   in.Experience,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("role", user.Role),
	)

	return user, token, nil
}

// Login verifies credentials and issues a token.
//
// The failure is deliberately generic: "no such user" and "wrong password"
// both come back as the same Unauthorized error, so a caller cannot probe
// which email addresses have accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", apperror.Unauthorized("invalid credentials")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, "", apperror.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return user, token, nil
}
