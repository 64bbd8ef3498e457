package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/repository"
)

// Pagination clamps. Page and limit arrive from untrusted query strings;
// clamping here (rather than in each handler) means no repository ever sees
// limit=0 and the pages calculation can never divide by zero.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Validation minimums for job fields, matching the public API contract.
const (
	MinTitleLength       = 3
	MinCompanyLength     = 2
	MinDescriptionLength = 10
	MinLocationLength    = 2
)

// clampPaging normalises page/limit and returns the derived ListOptions.
func clampPaging(page, limit int) (int, repository.ListOptions) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, repository.ListOptions{Limit: limit, Offset: (page - 1) * limit}
}

// pages is the ceiling division for the pagination envelope.
func pages(total, limit int) int {
	return (total + limit - 1) / limit
}

// JobInput carries a create or partial-update payload. On update, empty
// string / nil fields mean "leave unchanged"; salary and deadline are
// pointers so "not provided" is distinguishable from zero.
type JobInput struct {
	Title               string
	Company             string
	Description         string
	Requirements        []string
	Location            string
	Type                string
	Salary              *model.Salary
	Skills              []string
	Experience          string
	Status              string
	ApplicationDeadline *time.Time
}

// JobPage is a page of job results with its envelope numbers.
type JobPage struct {
	Jobs    []model.Job
	Current int
	Pages   int
	Total   int
}

// JobService handles posting CRUD and the public/admin listings.
type JobService struct {
	repo   repository.JobRepository
	logger *slog.Logger
}

func NewJobService(repo repository.JobRepository, logger *slog.Logger) *JobService {
	return &JobService{repo: repo, logger: logger}
}

// ListQuery carries the listing refinements parsed from the query string.
type ListQuery struct {
	Location   string
	Type       string
	Experience string
	Search     string
	Status     string // admin listing only; ignored on the public path
	Page       int
	Limit      int
}

// ListPublic returns the public job listing: always restricted to active
// postings, refined by the optional filters, newest first.
func (s *JobService) ListPublic(ctx context.Context, q ListQuery) (*JobPage, error) {
	filter := repository.JobFilter{
		Status:     model.JobStatusActive,
		Location:   strings.TrimSpace(q.Location),
		Type:       q.Type,
		Experience: q.Experience,
		Search:     strings.TrimSpace(q.Search),
	}
	return s.list(ctx, filter, q.Page, q.Limit)
}

// ListAdmin returns the admin job listing: no implicit status predicate, so
// drafts and closed postings show up; an explicit status filter may be
// supplied instead.
func (s *JobService) ListAdmin(ctx context.Context, q ListQuery) (*JobPage, error) {
	if q.Status != "" && !model.ValidJobStatus(q.Status) {
		return nil, apperror.ValidationFailed("status", "invalid job status")
	}
	filter := repository.JobFilter{
		Status:     q.Status,
		Location:   strings.TrimSpace(q.Location),
		Type:       q.Type,
		Experience: q.Experience,
		Search:     strings.TrimSpace(q.Search),
	}
	return s.list(ctx, filter, q.Page, q.Limit)
}

func (s *JobService) list(ctx context.Context, filter repository.JobFilter, page, limit int) (*JobPage, error) {
	page, opts := clampPaging(page, limit)

	jobs, err := s.repo.ListJobs(ctx, filter, opts)
	if err != nil {
		s.logger.Error("failed to list jobs", slog.String("error", err.Error()))
		return nil, err
	}

	total, err := s.repo.CountJobs(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count jobs", slog.String("error", err.Error()))
		return nil, err
	}

	return &JobPage{
		Jobs:    jobs,
		Current: page,
		Pages:   pages(total, opts.Limit),
		Total:   total,
	}, nil
}

// GetByID retrieves one job. Returns apperror.ErrNotFound if it doesn't exist.
func (s *JobService) GetByID(ctx context.Context, id string) (*model.Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "job ID is required")
	}
	return s.repo.GetJobByID(ctx, id)
}

// Create validates and saves a new posting owned by postedBy.
func (s *JobService) Create(ctx context.Context, postedBy string, in JobInput) (*model.Job, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)

	if len(in.Title) < MinTitleLength {
		return nil, apperror.ValidationFailed("title", "title must be at least 3 characters")
	}
	if len(in.Company) < MinCompanyLength {
		return nil, apperror.ValidationFailed("company", "company must be at least 2 characters")
	}
	if len(in.Description) < MinDescriptionLength {
		return nil, apperror.ValidationFailed("description", "description must be at least 10 characters")
	}
	if len(in.Location) < MinLocationLength {
		return nil, apperror.ValidationFailed("location", "location is required")
	}
	if !model.ValidJobType(in.Type) {
		return nil, apperror.ValidationFailed("type", "invalid job type")
	}
	if !model.ValidExperience(in.Experience) {
		return nil, apperror.ValidationFailed("experience", "invalid experience level")
	}

	if in.Status == "" {
		in.Status = model.JobStatusActive
	}
	if !model.ValidJobStatus(in.Status) {
		return nil, apperror.ValidationFailed("status", "invalid job status")
	}

	salary := model.Salary{Currency: model.CurrencyUSD}
	if in.Salary != nil {
		salary = *in.Salary
		if salary.Currency == "" {
			salary.Currency = model.CurrencyUSD
		}
		if !model.ValidCurrency(salary.Currency) {
			return nil, apperror.ValidationFailed("salary.currency", "invalid salary currency")
		}
	}

	job := &model.Job{
		Title:               in.Title,
		Company:             in.Company,
		Description:         in.Description,
		Requirements:        in.Requirements,
		Location:            in.Location,
		Type:                in.Type,
		Salary:              salary,
		Skills:              in.Skills,
		Experience:          in.Experience,
		Status:              in.Status,
		PostedBy:            postedBy,
		ApplicationDeadline: in.ApplicationDeadline,
	}

	if err := s.repo.CreateJob(ctx, job); err != nil {
		s.logger.Error("failed to create job",
			slog.String("title", in.Title),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("job created",
		slog.String("id", job.ID),
		slog.String("title", job.Title),
	)

	// Re-read so the response carries the poster projection.
	return s.repo.GetJobByID(ctx, job.ID)
}

// Update applies a partial update: fetch the existing posting, merge the
// provided fields (validating each), save. Status transitions between
// active/closed/draft are unconstrained — admin free choice.
func (s *JobService) Update(ctx context.Context, id string, in JobInput) (*model.Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "job ID is required")
	}

	job, err := s.repo.GetJobByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		if len(title) < MinTitleLength {
			return nil, apperror.ValidationFailed("title", "title must be at least 3 characters")
		}
		job.Title = title
	}
	if company := strings.TrimSpace(in.Company); company != "" {
		if len(company) < MinCompanyLength {
			return nil, apperror.ValidationFailed("company", "company must be at least 2 characters")
		}
		job.Company = company
	}
	if description := strings.TrimSpace(in.Description); description != "" {
		if len(description) < MinDescriptionLength {
			return nil, apperror.ValidationFailed("description", "description must be at least 10 characters")
		}
		job.Description = description
	}
	if location := strings.TrimSpace(in.Location); location != "" {
		if len(location) < MinLocationLength {
			return nil, apperror.ValidationFailed("location", "location is required")
		}
		job.Location = location
	}
	if in.Type != "" {
		if !model.ValidJobType(in.Type) {
			return nil, apperror.ValidationFailed("type", "invalid job type")
		}
		job.Type = in.Type
	}
	if in.Experience != "" {
		if !model.ValidExperience(in.Experience) {
			return nil, apperror.ValidationFailed("experience", "invalid experience level")
		}
		job.Experience = in.Experience
	}
	if in.Status != "" {
		if !model.ValidJobStatus(in.Status) {
			return nil, apperror.ValidationFailed("status", "invalid job status")
		}
		job.Status = in.Status
	}
	if in.Salary != nil {
		if in.Salary.Currency == "" {
			in.Salary.Currency = model.CurrencyUSD
		}
		if !model.ValidCurrency(in.Salary.Currency) {
			return nil, apperror.ValidationFailed("salary.currency", "invalid salary currency")
		}
		job.Salary = *in.Salary
	}
	if in.Requirements != nil {
		job.Requirements = in.Requirements
	}
	if in.Skills != nil {
		job.Skills = in.Skills
	}
	if in.ApplicationDeadline != nil {
		job.ApplicationDeadline = in.ApplicationDeadline
	}

	if err := s.repo.UpdateJob(ctx, job); err != nil {
		s.logger.Error("failed to update job",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("job updated", slog.String("id", job.ID))

	return job, nil
}

// Delete removes a posting (and, by cascade, its applications).
func (s *JobService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "job ID is required")
	}

	if err := s.repo.DeleteJob(ctx, id); err != nil {
		return err
	}

	s.logger.Info("job deleted", slog.String("id", id))
	return nil
}
