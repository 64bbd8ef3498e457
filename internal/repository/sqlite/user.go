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

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, name, email, password_hash, role, phone, location, skills, experience, created_at, updated_at`

// CreateUser inserts a new user. The email column is UNIQUE (case-insensitive),
// so registering an address twice surfaces as apperror.ErrConflict here even
// if two requests race past the service-layer lookup.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Phone,
		user.Location,
		marshalStrings(user.Skills),
		user.Experience,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("an account with this email already exists")
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email (case-insensitive, matching the
// UNIQUE COLLATE NOCASE constraint). Used by login and the registration
// duplicate pre-check.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)

	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}

	return user, nil
}

// ListUsers returns users newest-first with optional role filtering.
func (db *DB) ListUsers(ctx context.Context, filter repository.UserFilter, opts repository.ListOptions) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []any{}

	if filter.Role != "" {
		query += ` WHERE role = ?`
		args = append(args, filter.Role)
	}

	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, opts.Offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, opts.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// CountUsers returns the number of users matching the filter. Called once per
// stats bucket and once per listed page for the pagination envelope.
func (db *DB) CountUsers(ctx context.Context, filter repository.UserFilter) (int, error) {
	query := `SELECT COUNT(*) FROM users`
	args := []any{}

	if filter.Role != "" {
		query += ` WHERE role = ?`
		args = append(args, filter.Role)
	}

	var count int
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: counting users: %w", err)
	}
	return count, nil
}

// rowScanner covers both *sql.Row and *sql.Rows so the scan logic is
// written once.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	var skills string

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Phone,
		&u.Location,
		&skills,
		&u.Experience,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.Skills = unmarshalStrings(skills)
	return &u, nil
}
