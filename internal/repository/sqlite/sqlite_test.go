package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/jobboard/internal/model"
)

// newTestDB creates an in-memory SQLite database with the full schema.
// ":memory:" databases are private to the connection and vanish on close,
// so every test gets a pristine, isolated database for free.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, email, role string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$04$notarealhashbutlookslikeone",
		Role:         role,
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestJob inserts an active job posting owned by postedBy.
func createTestJob(t *testing.T, db *DB, postedBy, title string) *model.Job {
	t.Helper()
	job := &model.Job{
		Title:       title,
		Company:     "Acme Corp",
		Description: "A test job posting with enough description text",
		Location:    "Cairo",
		Type:        model.JobTypeFullTime,
		Salary:      model.Salary{Min: 1000, Max: 2000, Currency: model.CurrencyUSD},
		Experience:  model.ExperienceMid,
		Status:      model.JobStatusActive,
		PostedBy:    postedBy,
	}
	if err := db.CreateJob(context.Background(), job); err != nil {
		t.Fatalf("failed to create test job: %v", err)
	}
	return job
}

// createTestApplication submits an application and fails the test on error.
func createTestApplication(t *testing.T, db *DB, jobID, applicantID string) *model.Application {
	t.Helper()
	app := &model.Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		Resume:      "Ten years of relevant experience in the field",
		CoverLetter: "I would be a great fit for this position",
	}
	if err := db.CreateApplication(context.Background(), app); err != nil {
		t.Fatalf("failed to create test application: %v", err)
	}
	return app
}
