package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/repository"
)

// compile-time check that *DB implements repository.JobRepository
var _ repository.JobRepository = (*DB)(nil)

// jobColumns are the job table columns plus the poster's name from the
// joined users table. Every job read carries the poster projection so the
// client never needs a second request to display "posted by".
const jobColumns = `j.id, j.title, j.company, j.description, j.requirements, j.location,
	j.type, j.salary_min, j.salary_max, j.salary_currency, j.skills, j.experience,
	j.status, j.posted_by, j.application_deadline, j.created_at, j.updated_at, u.name`

const jobFrom = ` FROM jobs j LEFT JOIN users u ON u.id = j.posted_by`

// CreateJob inserts a new job posting.
func (db *DB) CreateJob(ctx context.Context, job *model.Job) error {
	now := time.Now()
	job.ID = xid.New().String()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO jobs (id, title, company, description, requirements, location, type,
			salary_min, salary_max, salary_currency, skills, experience, status, posted_by,
			application_deadline, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.Title,
		job.Company,
		job.Description,
		marshalStrings(job.Requirements),
		job.Location,
		job.Type,
		job.Salary.Min,
		job.Salary.Max,
		job.Salary.Currency,
		marshalStrings(job.Skills),
		job.Experience,
		job.Status,
		job.PostedBy,
		job.ApplicationDeadline,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting job: %w", err)
	}

	return nil
}

// GetJobByID retrieves a single job with its poster projection.
func (db *DB) GetJobByID(ctx context.Context, id string) (*model.Job, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+jobColumns+jobFrom+` WHERE j.id = ?`, id)

	job, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("job", id)
		}
		return nil, fmt.Errorf("sqlite: getting job %s: %w", id, err)
	}

	return job, nil
}

// jobWhere builds the WHERE clause for a job filter. All predicates AND
// together; an empty filter produces no clause at all (admin listing).
//
// LIKE in SQLite is case-insensitive for ASCII by default, which gives the
// case-insensitive substring semantics for location and search. The search
// term matches title OR company OR description.
func jobWhere(filter repository.JobFilter) (string, []any) {
	clauses := []string{}
	args := []any{}

	if filter.Status != "" {
		clauses = append(clauses, `j.status = ?`)
		args = append(args, filter.Status)
	}
	if filter.Location != "" {
		clauses = append(clauses, `j.location LIKE '%' || ? || '%'`)
		args = append(args, filter.Location)
	}
	if filter.Type != "" {
		clauses = append(clauses, `j.type = ?`)
		args = append(args, filter.Type)
	}
	if filter.Experience != "" {
		clauses = append(clauses, `j.experience = ?`)
		args = append(args, filter.Experience)
	}
	if filter.Search != "" {
		clauses = append(clauses,
			`(j.title LIKE '%' || ? || '%' OR j.company LIKE '%' || ? || '%' OR j.description LIKE '%' || ? || '%')`)
		args = append(args, filter.Search, filter.Search, filter.Search)
	}

	if len(clauses) == 0 {
		return "", args
	}

	where := " WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}

// ListJobs returns jobs matching the filter, newest first, paginated.
func (db *DB) ListJobs(ctx context.Context, filter repository.JobFilter, opts repository.ListOptions) ([]model.Job, error) {
	where, args := jobWhere(filter)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+jobColumns+jobFrom+where+` ORDER BY j.created_at DESC LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.Job, 0, opts.Limit)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning job row: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating jobs: %w", err)
	}

	return jobs, nil
}

// CountJobs returns the total number of jobs matching the filter, for the
// pagination envelope.
func (db *DB) CountJobs(ctx context.Context, filter repository.JobFilter) (int, error) {
	where, args := jobWhere(filter)

	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs j`+where, args...,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting jobs: %w", err)
	}
	return count, nil
}

// UpdateJob rewrites all mutable columns of a job. The service layer has
// already merged the partial update into a fetched copy, so a blanket SET
// is correct here. ID, posted_by, and created_at never change.
func (db *DB) UpdateJob(ctx context.Context, job *model.Job) error {
	job.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE jobs
		 SET title = ?, company = ?, description = ?, requirements = ?, location = ?,
		     type = ?, salary_min = ?, salary_max = ?, salary_currency = ?, skills = ?,
		     experience = ?, status = ?, application_deadline = ?, updated_at = ?
		 WHERE id = ?`,
		job.Title,
		job.Company,
		job.Description,
		marshalStrings(job.Requirements),
		job.Location,
		job.Type,
		job.Salary.Min,
		job.Salary.Max,
		job.Salary.Currency,
		marshalStrings(job.Skills),
		job.Experience,
		job.Status,
		job.ApplicationDeadline,
		job.UpdatedAt,
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating job %s: %w", job.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("job", job.ID)
	}

	return nil
}

// DeleteJob removes a job. Its applications go with it (ON DELETE CASCADE).
func (db *DB) DeleteJob(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting job %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("job", id)
	}

	return nil
}

func scanJob(row rowScanner) (*model.Job, error) {
	var j model.Job
	var requirements, skills string
	var deadline sql.NullTime
	var posterName sql.NullString

	err := row.Scan(
		&j.ID,
		&j.Title,
		&j.Company,
		&j.Description,
		&requirements,
		&j.Location,
		&j.Type,
		&j.Salary.Min,
		&j.Salary.Max,
		&j.Salary.Currency,
		&skills,
		&j.Experience,
		&j.Status,
		&j.PostedBy,
		&deadline,
		&j.CreatedAt,
		&j.UpdatedAt,
		&posterName,
	)
	if err != nil {
		return nil, err
	}

	j.Requirements = unmarshalStrings(requirements)
	j.Skills = unmarshalStrings(skills)
	if deadline.Valid {
		j.ApplicationDeadline = &deadline.Time
	}
	if posterName.Valid {
		j.Poster = &model.UserSummary{ID: j.PostedBy, Name: posterName.String}
	}

	return &j, nil
}
