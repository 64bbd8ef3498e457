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

// compile-time check that *DB implements repository.ApplicationRepository
var _ repository.ApplicationRepository = (*DB)(nil)

// applicationColumns joins in the referenced job and applicant so every
// read returns the populated projections. Each method then keeps only the
// summary fields its endpoint documents — the seeker's own listing doesn't
// echo their profile back, the admin review paths carry progressively more
// applicant context.
const applicationColumns = `a.id, a.job_id, a.applicant_id, a.resume, a.cover_letter,
	a.status, a.notes, a.created_at, a.updated_at,
	j.title, j.company, j.location, j.type,
	u.name, u.email, u.phone, u.location, u.skills, u.experience`

const applicationFrom = ` FROM applications a
	LEFT JOIN jobs j ON j.id = a.job_id
	LEFT JOIN users u ON u.id = a.applicant_id`

// CreateApplication inserts a new application in pending state.
//
// The UNIQUE(job_id, applicant_id) constraint is the real duplicate guard:
// two concurrent applies can both pass the service-layer existence check,
// but only one insert succeeds — the loser gets the same Conflict error the
// pre-check would have produced, never a raw constraint failure.
func (db *DB) CreateApplication(ctx context.Context, app *model.Application) error {
	now := time.Now()
	app.ID = xid.New().String()
	app.Status = model.ApplicationPending
	app.CreatedAt = now
	app.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO applications (id, job_id, applicant_id, resume, cover_letter, status, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID,
		app.JobID,
		app.ApplicantID,
		app.Resume,
		app.CoverLetter,
		app.Status,
		app.Notes,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("you have already applied for this job")
		}
		return fmt.Errorf("sqlite: inserting application (job=%s): %w", app.JobID, err)
	}

	return nil
}

// GetApplicationByID retrieves one application populated with the job's
// title/company and the applicant's name/email.
func (db *DB) GetApplicationByID(ctx context.Context, id string) (*model.Application, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+applicationColumns+applicationFrom+` WHERE a.id = ?`, id)

	app, err := scanApplication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("application", id)
		}
		return nil, fmt.Errorf("sqlite: getting application %s: %w", id, err)
	}

	trimJobSummary(app)
	trimApplicantToContact(app)
	return app, nil
}

// ExistsForJobAndApplicant reports whether the (job, applicant) pair
// already has an application. This is the pre-check that turns the common
// duplicate case into a clean error before touching the INSERT.
func (db *DB) ExistsForJobAndApplicant(ctx context.Context, jobID, applicantID string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE job_id = ? AND applicant_id = ?`,
		jobID, applicantID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking existing application: %w", err)
	}
	return count > 0, nil
}

// ListByApplicant returns all of one user's applications, newest first,
// populated with the job summary (title, company, location, type). The
// applicant projection is omitted — the caller is the applicant.
func (db *DB) ListByApplicant(ctx context.Context, applicantID string) ([]model.Application, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+applicationColumns+applicationFrom+`
		 WHERE a.applicant_id = ? ORDER BY a.created_at DESC`,
		applicantID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing applications for applicant %s: %w", applicantID, err)
	}
	defer rows.Close()

	apps, err := collectApplications(rows)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		apps[i].Applicant = nil
	}
	return apps, nil
}

// ListByJob returns all applications for one job, newest first, populated
// with the full applicant profile (the reviewer's view).
func (db *DB) ListByJob(ctx context.Context, jobID string) ([]model.Application, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+applicationColumns+applicationFrom+`
		 WHERE a.job_id = ? ORDER BY a.created_at DESC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing applications for job %s: %w", jobID, err)
	}
	defer rows.Close()

	apps, err := collectApplications(rows)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		trimJobSummary(&apps[i])
	}
	return apps, nil
}

// ListApplications returns the admin listing: optional status/job filters,
// newest first, paginated, with applicant contact fields (name, email,
// phone, location) but not the full skills/experience profile.
func (db *DB) ListApplications(ctx context.Context, filter repository.ApplicationFilter, opts repository.ListOptions) ([]model.Application, error) {
	where, args := applicationWhere(filter)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+applicationColumns+applicationFrom+where+`
		 ORDER BY a.created_at DESC LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing applications: %w", err)
	}
	defer rows.Close()

	apps, err := collectApplications(rows)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		trimJobSummary(&apps[i])
		if apps[i].Applicant != nil {
			apps[i].Applicant.Skills = nil
			apps[i].Applicant.Experience = ""
		}
	}
	return apps, nil
}

// CountApplications returns the number of applications matching the filter.
func (db *DB) CountApplications(ctx context.Context, filter repository.ApplicationFilter) (int, error) {
	where, args := applicationWhere(filter)

	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications a`+where, args...,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting applications: %w", err)
	}
	return count, nil
}

// UpdateApplicationStatus sets the review status and notes. The status has
// been validated against the enum by the service layer.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id, status, notes string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE applications SET status = ?, notes = ?, updated_at = ? WHERE id = ?`,
		status, notes, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating application %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("application", id)
	}

	return nil
}

func applicationWhere(filter repository.ApplicationFilter) (string, []any) {
	clauses := []string{}
	args := []any{}

	if filter.Status != "" {
		clauses = append(clauses, `a.status = ?`)
		args = append(args, filter.Status)
	}
	if filter.JobID != "" {
		clauses = append(clauses, `a.job_id = ?`)
		args = append(args, filter.JobID)
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

func collectApplications(rows *sql.Rows) ([]model.Application, error) {
	apps := []model.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning application row: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating applications: %w", err)
	}
	return apps, nil
}

// scanApplication reads a joined row with the fullest projections; callers
// trim the summaries down to their endpoint's field set.
func scanApplication(row rowScanner) (*model.Application, error) {
	var a model.Application
	var jobTitle, jobCompany, jobLocation, jobType sql.NullString
	var name, email, phone, location, skills, experience sql.NullString

	err := row.Scan(
		&a.ID,
		&a.JobID,
		&a.ApplicantID,
		&a.Resume,
		&a.CoverLetter,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
		&jobTitle,
		&jobCompany,
		&jobLocation,
		&jobType,
		&name,
		&email,
		&phone,
		&location,
		&skills,
		&experience,
	)
	if err != nil {
		return nil, err
	}

	if jobTitle.Valid {
		a.Job = &model.JobSummary{
			ID:       a.JobID,
			Title:    jobTitle.String,
			Company:  jobCompany.String,
			Location: jobLocation.String,
			Type:     jobType.String,
		}
	}
	if name.Valid {
		a.Applicant = &model.UserSummary{
			ID:         a.ApplicantID,
			Name:       name.String,
			Email:      email.String,
			Phone:      phone.String,
			Location:   location.String,
			Skills:     unmarshalStrings(skills.String),
			Experience: experience.String,
		}
	}

	return &a, nil
}

func trimJobSummary(app *model.Application) {
	if app.Job != nil {
		app.Job.Location = ""
		app.Job.Type = ""
	}
}

func trimApplicantToContact(app *model.Application) {
	if app.Applicant != nil {
		app.Applicant.Phone = ""
		app.Applicant.Location = ""
		app.Applicant.Skills = nil
		app.Applicant.Experience = ""
	}
}
