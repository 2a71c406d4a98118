package store

import (
	"context"
	"fmt"
	"time"

	"github.com/brahmand/brahmand/internal/model"
)

const userColumns = `id, email, password_hash, role, name, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetUserByID fetches a user by id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetUserByEmail fetches a user by email address.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// CreateUserParams describe a new user account.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Role         string
	Name         string
	Now          time.Time
}

// CreateUser inserts a user and returns its id.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, role, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Email, arg.PasswordHash, arg.Role, arg.Name, arg.Now, arg.Now)
	if err != nil {
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	return res.LastInsertId()
}

// CountUsers returns the number of user accounts.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// UpdateUserPassword replaces a user's password hash. Used to upgrade
// hashes whose argon2 parameters have drifted from the current cost.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string, now time.Time) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, now, id)
	if err != nil {
		return fmt.Errorf("updating user %d password: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
