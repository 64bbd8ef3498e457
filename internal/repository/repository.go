// Package repository defines the storage interfaces the service layer
// programs against, plus the filter and pagination descriptors shared by
// every list endpoint.
package repository

import (
	"context"

	"github.com/sakif/jobboard/internal/model"
)

// ListOptions is the skip/limit pagination descriptor. The service layer
// clamps values before they reach a repository, so implementations may
// assume Limit >= 1 and Offset >= 0.
type ListOptions struct {
	Limit  int
	Offset int
}

// JobFilter narrows a job listing. Zero-value fields are ignored; set
// fields combine with logical AND.
type JobFilter struct {
	Status     string // exact match; empty = no status predicate
	Location   string // case-insensitive substring match
	Type       string // exact match against the job type enum
	Experience string // exact match against the experience enum
	Search     string // matches title OR company OR description, case-insensitive
}

// ApplicationFilter narrows the admin application listing.
type ApplicationFilter struct {
	Status string // exact match
	JobID  string // exact match on the job reference
}

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Role string // exact match
}

// Method names carry the entity (CreateUser, CreateJob, ...) because a
// single storage type implements all three interfaces on one receiver.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, filter UserFilter, opts ListOptions) ([]model.User, error)
	CountUsers(ctx context.Context, filter UserFilter) (int, error)
}

type JobRepository interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJobByID(ctx context.Context, id string) (*model.Job, error)
	ListJobs(ctx context.Context, filter JobFilter, opts ListOptions) ([]model.Job, error)
	CountJobs(ctx context.Context, filter JobFilter) (int, error)
	UpdateJob(ctx context.Context, job *model.Job) error
	DeleteJob(ctx context.Context, id string) error
}

type ApplicationRepository interface {
	// CreateApplication inserts the application. A (job, applicant)
	// uniqueness violation is returned as apperror.ErrConflict, not a raw
	// driver error — this is the authoritative duplicate guard.
	CreateApplication(ctx context.Context, app *model.Application) error
	GetApplicationByID(ctx context.Context, id string) (*model.Application, error)
	ExistsForJobAndApplicant(ctx context.Context, jobID, applicantID string) (bool, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]model.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]model.Application, error)
	ListApplications(ctx context.Context, filter ApplicationFilter, opts ListOptions) ([]model.Application, error)
	CountApplications(ctx context.Context, filter ApplicationFilter) (int, error)
	UpdateApplicationStatus(ctx context.Context, id, status, notes string) error
}
