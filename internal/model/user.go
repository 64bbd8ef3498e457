// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Roles a user account can hold. Role is assigned at registration and is
// immutable afterwards — there is no promotion endpoint.
const (
	RoleJobSeeker = "job_seeker"
	RoleAdmin     = "admin"
)

// ValidRole reports whether s is one of the known account roles.
func ValidRole(s string) bool {
	return s == RoleJobSeeker || s == RoleAdmin
}

// User represents a registered account.
//
// WHY PasswordHash WITH json:"-"?
// The bcrypt hash must never leave the server. Tagging the field with "-"
// means encoding/json skips it entirely, so no handler can leak it by
// accident — the sanitisation lives on the type, not in each handler.
//
// The profile fields (Phone, Location, Skills, Experience) are optional at
// registration. Empty string / nil slice are the zero values; omitempty
// keeps them out of JSON responses when unset.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Location     string    `json:"location,omitempty"`
	Skills       []string  `json:"skills,omitempty"`
	Experience   string    `json:"experience,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserSummary is the denormalised projection of a User embedded in other
// responses (the "populate" pattern of the API). Which fields are filled
// depends on the endpoint: public job listings only carry the poster's name,
// admin application reviews carry the full applicant profile.
type UserSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Location   string   `json:"location,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Experience string   `json:"experience,omitempty"`
}

// UserStats is the admin dashboard headcount breakdown.
type UserStats struct {
	Total      int `json:"total"`
	JobSeekers int `json:"jobSeekers"`
	Admins     int `json:"admins"`
}
