package store

import (
	"context"
	"database/sql"
	"time"
)

// User is an account that can own records. Accounts are provisioned from
// the CLI; there is no self-service signup.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name,omitempty"`
	PasswordHash string    `json:"-"`
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"created_at"`
}

const userCols = "u.id, u.username, u.display_name, u.password_hash, u.disabled, u.created_at"

// CreateUser inserts a user. Username uniqueness surfaces as a
// unique-constraint error.
func (s *Store) CreateUser(ctx context.Context, u *User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, display_name, password_hash, disabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, nullIfEmpty(u.DisplayName), u.PasswordHash, u.Disabled, formatTime(u.CreatedAt))
	return err
}

// GetUser returns one user by ID, or nil.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userCols+`
		FROM users u
		WHERE u.id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByUsername returns one user by normalized username, or nil.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userCols+`
		FROM users u
		WHERE u.username = ?`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns all users by username.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userCols+`
		FROM users u
		ORDER BY u.username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// SetUserDisabled toggles the disabled flag. Disabled users keep their data
// but can no longer act.
func (s *Store) SetUserDisabled(ctx context.Context, id string, disabled bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET disabled = ? WHERE id = ?", disabled, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(scanner interface{ Scan(...any) error }) (*User, error) {
	var u User
	var displayName sql.NullString
	var created string
	if err := scanner.Scan(&u.ID, &u.Username, &displayName, &u.PasswordHash, &u.Disabled, &created); err != nil {
		return nil, err
	}
	u.DisplayName = displayName.String
	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}
