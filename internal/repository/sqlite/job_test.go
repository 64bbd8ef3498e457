package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/repository"
)

// =========================================================================
// CREATE / GET TESTS
// =========================================================================

func TestCreateJob(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin@example.com", model.RoleAdmin)

	deadline := time.Now().Add(30 * 24 * time.Hour)
	job := &model.Job{
		Title:               "Backend Engineer",
		Company:             "Acme Corp",
		Description:         "Build and maintain our Go services",
		Requirements:        []string{"3 years Go", "SQL"},
		Location:            "Cairo",
		Type:                model.JobTypeFullTime,
		Salary:              model.Salary{Min: 2000, Max: 4000, Currency: model.CurrencyUSD},
		Skills:              []string{"go", "sqlite"},
		Experience:          model.ExperienceMid,
		Status:              model.JobStatusActive,
		PostedBy:            admin.ID,
		ApplicationDeadline: &deadline,
	}

	if err := db.CreateJob(context.Background(), job); err != nil {
		t.Fatalf("CreateJob() error = %v", err)
	}
	if job.ID == "" {
		t.Error("CreateJob() did not set job.ID")
	}

	got, err := db.GetJobByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetJobByID() error = %v", err)
	}
	if got.Title != "Backend Engineer" {
		t.Errorf("Title = %q, want %q", got.Title, "Backend Engineer")
	}
	if got.Salary.Max != 4000 {
		t.Errorf("Salary.Max = %d, want 4000", got.Salary.Max)
	}
	if len(got.Requirements) != 2 {
		t.Errorf("Requirements = %v, want 2 entries", got.Requirements)
	}
	if got.ApplicationDeadline == nil {
		t.Error("ApplicationDeadline was not persisted")
	}
}

func TestGetJobByID_PosterProjection(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "poster@example.com", model.RoleAdmin)
	job := createTestJob(t, db, admin.ID, "Projected Job")

	got, err := db.GetJobByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetJobByID() error = %v", err)
	}

	// The poster's name comes from the JOIN — no second query needed.
	if got.Poster == nil {
		t.Fatal("GetJobByID() did not fill the Poster projection")
	}
	if got.Poster.ID != admin.ID {
		t.Errorf("Poster.ID = %q, want %q", got.Poster.ID, admin.ID)
	}
	if got.Poster.Name != admin.Name {
		t.Errorf("Poster.Name = %q, want %q", got.Poster.Name, admin.Name)
	}
}

func TestGetJobByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetJobByID(context.Background(), "missing-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetJobByID() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LIST / FILTER TESTS
// =========================================================================

// seedJobs inserts a small mixed set of jobs for filter tests.
func seedJobs(t *testing.T, db *DB) {
	t.Helper()
	admin := createTestUser(t, db, "seeder@example.com", model.RoleAdmin)

	jobs := []model.Job{
		{Title: "Senior Go Developer", Company: "CloudCo", Description: "Distributed systems work", Location: "Cairo", Type: model.JobTypeFullTime, Experience: model.ExperienceSenior, Status: model.JobStatusActive},
		{Title: "Frontend Engineer", Company: "WebWorks", Description: "React dashboards", Location: "Alexandria", Type: model.JobTypeContract, Experience: model.ExperienceMid, Status: model.JobStatusActive},
		{Title: "Data Intern", Company: "CloudCo", Description: "Python notebooks", Location: "Remote - Cairo", Type: model.JobTypeInternship, Experience: model.ExperienceEntry, Status: model.JobStatusDraft},
	}
	for i := range jobs {
		jobs[i].PostedBy = admin.ID
		jobs[i].Salary = model.Salary{Currency: model.CurrencyUSD}
		if err := db.CreateJob(context.Background(), &jobs[i]); err != nil {
			t.Fatalf("seeding job %q: %v", jobs[i].Title, err)
		}
	}
}

func TestListJobs_StatusFilter(t *testing.T) {
	db := newTestDB(t)
	seedJobs(t, db)

	active, err := db.ListJobs(context.Background(),
		repository.JobFilter{Status: model.JobStatusActive},
		repository.ListOptions{Limit: 10},
	)
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(active) != 2 {
		t.Errorf("ListJobs(active) = %d jobs, want 2", len(active))
	}
	for _, j := range active {
		if j.Status != model.JobStatusActive {
			t.Errorf("job %q has status %q, want active", j.Title, j.Status)
		}
	}
}

func TestListJobs_LocationSubstringCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	seedJobs(t, db)

	jobs, err := db.ListJobs(context.Background(),
		repository.JobFilter{Location: "cairo"},
		repository.ListOptions{Limit: 10},
	)
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	// "Cairo" and "Remote - Cairo" both match the substring
	if len(jobs) != 2 {
		t.Errorf("ListJobs(location=cairo) = %d jobs, want 2", len(jobs))
	}
}

func TestListJobs_SearchAcrossFields(t *testing.T) {
	db := newTestDB(t)
	seedJobs(t, db)

	// "cloudco" only appears in the company field
	jobs, err := db.ListJobs(context.Background(),
		repository.JobFilter{Search: "cloudco"},
		repository.ListOptions{Limit: 10},
	)
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(jobs) != 2 {
		t.Errorf("ListJobs(search=cloudco) = %d jobs, want 2", len(jobs))
	}
}

func TestListJobs_CombinedFilters(t *testing.T) {
	db := newTestDB(t)
	seedJobs(t, db)

	jobs, err := db.ListJobs(context.Background(),
		repository.JobFilter{
			Status:     model.JobStatusActive,
			Type:       model.JobTypeFullTime,
			Experience: model.ExperienceSenior,
		},
		repository.ListOptions{Limit: 10},
	)
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("ListJobs(combined) = %d jobs, want 1", len(jobs))
	}
	if jobs[0].Title != "Senior Go Developer" {
		t.Errorf("Title = %q, want Senior Go Developer", jobs[0].Title)
	}
}

func TestListJobs_NoMatch(t *testing.T) {
	db := newTestDB(t)
	seedJobs(t, db)

	jobs, err := db.ListJobs(context.Background(),
		repository.JobFilter{Search: "nonexistent-keyword"},
		repository.ListOptions{Limit: 10},
	)
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("ListJobs(no match) = %d jobs, want 0", len(jobs))
	}
}

func TestCountJobs_MatchesFilter(t *testing.T) {
	db := newTestDB(t)
	seedJobs(t, db)

	total, err := db.CountJobs(context.Background(), repository.JobFilter{})
	if err != nil {
		t.Fatalf("CountJobs() error = %v", err)
	}
	if total != 3 {
		t.Errorf("CountJobs() = %d, want 3", total)
	}

	drafts, err := db.CountJobs(context.Background(), repository.JobFilter{Status: model.JobStatusDraft})
	if err != nil {
		t.Fatalf("CountJobs(draft) error = %v", err)
	}
	if drafts != 1 {
		t.Errorf("CountJobs(draft) = %d, want 1", drafts)
	}
}

// =========================================================================
// UPDATE / DELETE TESTS
// =========================================================================

func TestUpdateJob(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "upd@example.com", model.RoleAdmin)
	job := createTestJob(t, db, admin.ID, "Original Title")

	job.Title = "Updated Title"
	job.Status = model.JobStatusClosed
	if err := db.UpdateJob(context.Background(), job); err != nil {
		t.Fatalf("UpdateJob() error = %v", err)
	}

	got, err := db.GetJobByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetJobByID() error = %v", err)
	}
	if got.Title != "Updated Title" {
		t.Errorf("Title = %q, want Updated Title", got.Title)
	}
	if got.Status != model.JobStatusClosed {
		t.Errorf("Status = %q, want closed", got.Status)
	}
}

func TestUpdateJob_NotFound(t *testing.T) {
	db := newTestDB(t)

	ghost := &model.Job{ID: "no-such-job", Salary: model.Salary{Currency: model.CurrencyUSD}}
	err := db.UpdateJob(context.Background(), ghost)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateJob() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteJob(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "del@example.com", model.RoleAdmin)
	job := createTestJob(t, db, admin.ID, "Doomed Job")

	if err := db.DeleteJob(context.Background(), job.ID); err != nil {
		t.Fatalf("DeleteJob() error = %v", err)
	}

	_, err := db.GetJobByID(context.Background(), job.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetJobByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestDeleteJob_CascadesApplications(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "cascade-admin@example.com", model.RoleAdmin)
	seeker := createTestUser(t, db, "cascade-seeker@example.com", model.RoleJobSeeker)
	job := createTestJob(t, db, admin.ID, "Cascading Job")
	app := createTestApplication(t, db, job.ID, seeker.ID)

	if err := db.DeleteJob(context.Background(), job.ID); err != nil {
		t.Fatalf("DeleteJob() error = %v", err)
	}

	// ON DELETE CASCADE removes the application along with its job.
	_, err := db.GetApplicationByID(context.Background(), app.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetApplicationByID() after job delete error = %v, want ErrNotFound", err)
	}
}

func TestDeleteJob_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.DeleteJob(context.Background(), "no-such-job")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeleteJob() error = %v, want ErrNotFound", err)
	}
}
