package model

import (
	"slices"
	"time"
)

// Application status enum. Every application starts as pending; an admin
// may set any of the five states at any time afterwards (no forward-only
// enforcement, no terminal lock on rejected/hired).
const (
	ApplicationPending     = "pending"
	ApplicationReviewed    = "reviewed"
	ApplicationShortlisted = "shortlisted"
	ApplicationRejected    = "rejected"
	ApplicationHired       = "hired"
)

var applicationStatuses = []string{
	ApplicationPending,
	ApplicationReviewed,
	ApplicationShortlisted,
	ApplicationRejected,
	ApplicationHired,
}

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s string) bool {
	return slices.Contains(applicationStatuses, s)
}

// Application is a candidate's submission against one Job.
//
// The (JobID, ApplicantID) pair is unique — enforced by a UNIQUE constraint
// in storage, so a user can apply to a given job at most once regardless of
// request timing.
//
// Notes is admin-only free text attached during review; it is also
// serialised on the seeker's own listing, so applicants see reviewer notes.
type Application struct {
	ID          string       `json:"id"`
	JobID       string       `json:"jobId"`
	ApplicantID string       `json:"applicantId"`
	Resume      string       `json:"resume"`
	CoverLetter string       `json:"coverLetter"`
	Status      string       `json:"status"`
	Notes       string       `json:"notes,omitempty"`
	Job         *JobSummary  `json:"job,omitempty"`
	Applicant   *UserSummary `json:"applicant,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
