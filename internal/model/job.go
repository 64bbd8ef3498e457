package model

import (
	"slices"
	"time"
)

// Job type enum — how the position is contracted.
const (
	JobTypeFullTime   = "full-time"
	JobTypePartTime   = "part-time"
	JobTypeContract   = "contract"
	JobTypeInternship = "internship"
)

// Experience level enum.
const (
	ExperienceEntry     = "entry"
	ExperienceMid       = "mid"
	ExperienceSenior    = "senior"
	ExperienceExecutive = "executive"
)

// Job status enum. There is no enforced state machine between these —
// an admin may move a posting between any of the three states freely.
const (
	JobStatusActive = "active"
	JobStatusClosed = "closed"
	JobStatusDraft  = "draft"
)

// Salary currency enum.
const (
	CurrencyUSD = "USD"
	CurrencyEGP = "EGP"
	CurrencyEUR = "EUR"
	CurrencySAR = "SAR"
)

var (
	jobTypes    = []string{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship}
	experiences = []string{ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceExecutive}
	jobStatuses = []string{JobStatusActive, JobStatusClosed, JobStatusDraft}
	currencies  = []string{CurrencyUSD, CurrencyEGP, CurrencyEUR, CurrencySAR}
)

// ValidJobType reports whether s is a known job type.
func ValidJobType(s string) bool { return slices.Contains(jobTypes, s) }

// ValidExperience reports whether s is a known experience level.
func ValidExperience(s string) bool { return slices.Contains(experiences, s) }

// ValidJobStatus reports whether s is a known job status.
func ValidJobStatus(s string) bool { return slices.Contains(jobStatuses, s) }

// ValidCurrency reports whether s is a known salary currency.
func ValidCurrency(s string) bool { return slices.Contains(currencies, s) }

// Salary is the advertised compensation range for a Job.
type Salary struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// Job represents a posting created and managed by an admin.
//
// PostedBy is a raw reference to the owning user's ID; Poster is the
// joined-in projection filled by list/read queries so the client gets the
// poster's name without a second round trip.
type Job struct {
	ID                  string       `json:"id"`
	Title               string       `json:"title"`
	Company             string       `json:"company"`
	Description         string       `json:"description"`
	Requirements        []string     `json:"requirements"`
	Location            string       `json:"location"`
	Type                string       `json:"type"`
	Salary              Salary       `json:"salary"`
	Skills              []string     `json:"skills"`
	Experience          string       `json:"experience"`
	Status              string       `json:"status"`
	PostedBy            string       `json:"postedBy"`
	Poster              *UserSummary `json:"poster,omitempty"`
	ApplicationDeadline *time.Time   `json:"applicationDeadline,omitempty"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// JobSummary is the denormalised projection of a Job embedded in
// application responses.
type JobSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location,omitempty"`
	Type     string `json:"type,omitempty"`
}
