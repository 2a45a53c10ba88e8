package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/amirk1998/project-tracker/internal/database"
	"github.com/amirk1998/project-tracker/internal/models"
	"github.com/amirk1998/project-tracker/pkg/errors"
)

type UserRepository struct {
	db  *sql.DB
	txm *database.TransactionManager
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{
		db:  db,
		txm: database.NewTransactionManager(db),
	}
}

// Create inserts a new user. The uniqueness check and the insert run in
// one serializable transaction so two concurrent registrations cannot
// both claim the same username or email.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()

	err := r.txm.Execute(ctx, func(tx *sql.Tx) error {
		var count int
		err := tx.QueryRow(
			`SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`,
			user.Username, user.Email,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check existing users: %w", err)
		}
		if count > 0 {
			return errors.ErrUserAlreadyExists
		}

		result, err := tx.Exec(`
            INSERT INTO users (firstname, lastname, username, email, password_hash, created_at, updated_at)
            VALUES (?, ?, ?, ?, ?, ?, ?)
        `,
			user.FirstName,
			user.LastName,
			user.Username,
			user.Email,
			user.PasswordHash,
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get user ID: %w", err)
		}

		user.ID = int(id)
		return nil
	})
	if err != nil {
		return err
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

const userColumns = `uid, firstname, lastname, username, email, password_hash,
               failed_attempts, last_attempt, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FailedAttempts,
		&user.LastAttempt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

// RecordFailedAttempt increments the failed-login counter and stamps
// the failure time. The increment itself is atomic per statement, but
// the lockout check reads the counter separately; see DESIGN.md.
func (r *UserRepository) RecordFailedAttempt(ctx context.Context, userID int) error {
	query := `
        UPDATE users
        SET failed_attempts = failed_attempts + 1, last_attempt = ?
        WHERE uid = ?
    `

	_, err := r.db.ExecContext(ctx, query, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to record failed attempt: %w", err)
	}

	return nil
}

// ResetFailedAttempts clears the failed-login counter
func (r *UserRepository) ResetFailedAttempts(ctx context.Context, userID int) error {
	query := `
        UPDATE users
        SET failed_attempts = 0
        WHERE uid = ?
    `

	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to reset failed attempts: %w", err)
	}

	return nil
}

// UpdatePasswordHash persists a freshly hashed credential, both for the
// change-password flow and for transparent hash migration on login.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID int, hash string) error {
	query := `
        UPDATE users
        SET password_hash = ?, updated_at = ?
        WHERE uid = ?
    `

	result, err := r.db.ExecContext(ctx, query, hash, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return errors.ErrUserNotFound
	}

	return nil
}
