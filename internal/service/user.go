package service

import (
	"context"
	"log/slog"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/repository"
)

// UserPage is a page of admin user-listing results.
type UserPage struct {
	Users   []model.User
	Current int
	Pages   int
	Total   int
}

// UserService serves the admin user listing and dashboard stats.
type UserService struct {
	repo   repository.UserRepository
	logger *slog.Logger
}

func NewUserService(repo repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// List returns users newest-first with an optional role filter. Password
// hashes never reach the response — the model excludes them from JSON.
func (s *UserService) List(ctx context.Context, role string, page, limit int) (*UserPage, error) {
	if role != "" && !model.ValidRole(role) {
		return nil, apperror.ValidationFailed("role", "invalid role")
	}

	filter := repository.UserFilter{Role: role}
	page, opts := clampPaging(page, limit)

	users, err := s.repo.ListUsers(ctx, filter, opts)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, err
	}

	total, err := s.repo.CountUsers(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count users", slog.String("error", err.Error()))
		return nil, err
	}

	return &UserPage{
		Users:   users,
		Current: page,
		Pages:   pages(total, opts.Limit),
		Total:   total,
	}, nil
}

// Stats returns the dashboard headcount: total accounts and the breakdown
// by role.
func (s *UserService) Stats(ctx context.Context) (*model.UserStats, error) {
	total, err := s.repo.CountUsers(ctx, repository.UserFilter{})
	if err != nil {
		return nil, err
	}
	seekers, err := s.repo.CountUsers(ctx, repository.UserFilter{Role: model.RoleJobSeeker})
	if err != nil {
		return nil, err
	}
	admins, err := s.repo.CountUsers(ctx, repository.UserFilter{Role: model.RoleAdmin})
	if err != nil {
		return nil, err
	}

	return &model.UserStats{
		Total:      total,
		JobSeekers: seekers,
		Admins:     admins,
	}, nil
}
