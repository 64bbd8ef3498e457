// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside your Go binary as a single
// file. No separate database server to install, configure, or manage. For a
// single-server job board that is plenty, and ":memory:" gives tests a free
// throwaway database.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
//
// REFERENCE FIELDS:
// The API exposes jobs and applications with their referenced user/job
// expanded into summary objects. Here that is plain SQL: list and read
// queries JOIN the referenced table and scan the summary columns alongside
// the entity. No second round trip, no ORM.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	// Side-effect import: the driver registers itself with database/sql
	// under the name "sqlite".
	_ "modernc.org/sqlite"

	"github.com/sakif/jobboard/internal/apperror"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces (user.go, job.go, application.go in this package).
type DB struct {
	conn *sql.DB
}

// New creates a SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/jobboard.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Force an immediate connection so a bad path or permissions problem
	// surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// important for a web server where many requests hit the DB at once.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. We want jobs.posted_by and
	// the application references enforced.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer Close() next to
// the New() call so the WAL is flushed and the file lock released.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every start.
//
// Array-valued fields (skills, requirements) are stored as JSON text —
// SQLite has no native array type and these columns are only ever read
// back whole, never queried element-wise.
//
// UNIQUE(job_id, applicant_id) is the authoritative guard against duplicate
// applications; the service-layer pre-check only exists to give a clean
// error message in the common case.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'job_seeker',
			phone         TEXT NOT NULL DEFAULT '',
			location      TEXT NOT NULL DEFAULT '',
			skills        TEXT NOT NULL DEFAULT '[]',
			experience    TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			id                   TEXT PRIMARY KEY,
			title                TEXT NOT NULL,
			company              TEXT NOT NULL,
			description          TEXT NOT NULL,
			requirements         TEXT NOT NULL DEFAULT '[]',
			location             TEXT NOT NULL,
			type                 TEXT NOT NULL,
			salary_min           INTEGER NOT NULL DEFAULT 0,
			salary_max           INTEGER NOT NULL DEFAULT 0,
			salary_currency      TEXT NOT NULL DEFAULT 'USD',
			skills               TEXT NOT NULL DEFAULT '[]',
			experience           TEXT NOT NULL,
			status               TEXT NOT NULL DEFAULT 'active',
			posted_by            TEXT NOT NULL REFERENCES users(id),
			application_deadline DATETIME,
			created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
		CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating jobs table: %w", err)
	}

	// ON DELETE CASCADE: deleting a job removes its applications instead of
	// either orphaning them or blocking the delete on the foreign key.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS applications (
			id           TEXT PRIMARY KEY,
			job_id       TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			applicant_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			resume       TEXT NOT NULL,
			cover_letter TEXT NOT NULL,
			status       TEXT NOT NULL DEFAULT 'pending',
			notes        TEXT NOT NULL DEFAULT '',
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(job_id, applicant_id)
		);
		CREATE INDEX IF NOT EXISTS idx_applications_job_id ON applications(job_id);
		CREATE INDEX IF NOT EXISTS idx_applications_applicant_id ON applications(applicant_id);
	`)
	if err != nil {
		return fmt.Errorf("creating applications table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. The modernc driver doesn't export a sentinel for this, so we
// match on the canonical message ("UNIQUE constraint failed: table.column").
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// conflictOnUnique translates a UNIQUE violation into the domain Conflict
// error; any other error is returned unchanged.
func conflictOnUnique(err error, message string) error {
	if isUniqueViolation(err) {
		return apperror.Conflict(message)
	}
	return err
}

// marshalStrings encodes a string slice as the JSON stored in TEXT columns.
// nil encodes as "[]" so columns never hold SQL NULL.
func marshalStrings(ss []string) string {
	if len(ss) == 0 {
		return "[]"
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// unmarshalStrings decodes a JSON TEXT column back into a slice. Malformed
// data (which only a manual edit could produce) decodes as empty.
func unmarshalStrings(s string) []string {
	if s == "" || s == "[]" {
		return nil
	}
	var ss []string
	if err := json.Unmarshal([]byte(s), &ss); err != nil {
		return nil
	}
	return ss
}
