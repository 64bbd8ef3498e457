package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/repository"
)

// MinDocumentLength is the minimum resume/cover-letter length (after
// trimming). Both are free text; the bound only rejects obviously empty
// submissions.
const MinDocumentLength = 10

// ApplicationPage is a page of admin application results with its
// envelope numbers.
type ApplicationPage struct {
	Applications []model.Application
	Current      int
	Pages        int
	Total        int
}

// ApplicationService enforces the rules around submitting and reviewing
// applications.
type ApplicationService struct {
	repo   repository.ApplicationRepository
	jobs   repository.JobRepository
	logger *slog.Logger
}

func NewApplicationService(repo repository.ApplicationRepository, jobs repository.JobRepository, logger *slog.Logger) *ApplicationService {
	return &ApplicationService{repo: repo, jobs: jobs, logger: logger}
}

// Apply submits an application for the acting user.
//
// Preconditions, in order:
//  1. resume and cover letter meet the minimum length
//  2. the job exists (404 otherwise)
//  3. the job is active (400 otherwise)
//  4. the user has not already applied (409 otherwise)
//
// The existence pre-check (4) and the storage UNIQUE constraint overlap on
// purpose: the pre-check produces the clean error in the common case, and
// the constraint — surfaced by the repository as the same Conflict — closes
// the window where two concurrent applies both pass the pre-check. Neither
// path can ever create a duplicate.
func (s *ApplicationService) Apply(ctx context.Context, applicantID, jobID, resume, coverLetter string) (*model.Application, error) {
	jobID = strings.TrimSpace(jobID)
	resume = strings.TrimSpace(resume)
	coverLetter = strings.TrimSpace(coverLetter)

	if jobID == "" {
		return nil, apperror.ValidationFailed("jobId", "job ID is required")
	}
	if len(resume) < MinDocumentLength {
		return nil, apperror.ValidationFailed("resume", "resume must be at least 10 characters")
	}
	if len(coverLetter) < MinDocumentLength {
		return nil, apperror.ValidationFailed("coverLetter", "cover letter must be at least 10 characters")
	}

	job, err := s.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != model.JobStatusActive {
		return nil, apperror.ValidationFailed("jobId", "job is not accepting applications")
	}

	exists, err := s.repo.ExistsForJobAndApplicant(ctx, jobID, applicantID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("you have already applied for this job")
	}

	app := &model.Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		Resume:      resume,
		CoverLetter: coverLetter,
	}

	if err := s.repo.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	s.logger.Info("application submitted",
		slog.String("id", app.ID),
		slog.String("jobID", jobID),
		slog.String("applicantID", applicantID),
	)

	// Re-read so the response carries the job and applicant projections.
	return s.repo.GetApplicationByID(ctx, app.ID)
}

// ListMine returns the acting user's applications, newest first. This path
// is unpaginated — a seeker's own list is small by nature.
func (s *ApplicationService) ListMine(ctx context.Context, applicantID string) ([]model.Application, error) {
	apps, err := s.repo.ListByApplicant(ctx, applicantID)
	if err != nil {
		s.logger.Error("failed to list applications",
			slog.String("applicantID", applicantID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return apps, nil
}

// ListAll returns the admin listing with optional status/job filters.
func (s *ApplicationService) ListAll(ctx context.Context, status, jobID string, page, limit int) (*ApplicationPage, error) {
	if status != "" && !model.ValidApplicationStatus(status) {
		return nil, apperror.ValidationFailed("status", "invalid status")
	}

	filter := repository.ApplicationFilter{Status: status, JobID: strings.TrimSpace(jobID)}
	page, opts := clampPaging(page, limit)

	apps, err := s.repo.ListApplications(ctx, filter, opts)
	if err != nil {
		s.logger.Error("failed to list applications", slog.String("error", err.Error()))
		return nil, err
	}

	total, err := s.repo.CountApplications(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count applications", slog.String("error", err.Error()))
		return nil, err
	}

	return &ApplicationPage{
		Applications: apps,
		Current:      page,
		Pages:        pages(total, opts.Limit),
		Total:        total,
	}, nil
}

// ListForJob returns all applications for one job with the full applicant
// profile, unpaginated (the reviewer sees every candidate at once).
func (s *ApplicationService) ListForJob(ctx context.Context, jobID string) ([]model.Application, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, apperror.ValidationFailed("jobId", "job ID is required")
	}

	apps, err := s.repo.ListByJob(ctx, jobID)
	if err != nil {
		s.logger.Error("failed to list applications for job",
			slog.String("jobID", jobID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return apps, nil
}

// UpdateStatus moves an application to a new review status with optional
// notes. Only enum membership is enforced — any of the five states may be
// set from any other at any time.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id, status, notes string) (*model.Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "application ID is required")
	}
	if !model.ValidApplicationStatus(status) {
		return nil, apperror.ValidationFailed("status", "invalid status")
	}

	if err := s.repo.UpdateApplicationStatus(ctx, id, status, strings.TrimSpace(notes)); err != nil {
		return nil, err
	}

	s.logger.Info("application status updated",
		slog.String("id", id),
		slog.String("status", status),
	)

	return s.repo.GetApplicationByID(ctx, id)
}
