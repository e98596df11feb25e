// Package auth_repo provides PostgreSQL implementations for auth repositories.
package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rentware/internal/core/apperror"
	"rentware/internal/core/id"
	"rentware/internal/domain/auth"
	"rentware/internal/infrastructure/storage/postgres"
)

var _ auth.UserRepository = (*UserRepo)(nil)

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txm *postgres.TxManager
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txm *postgres.TxManager) *UserRepo {
	return &UserRepo{txm: txm}
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	q := r.txm.GetQuerier(ctx)

	query := `
		INSERT INTO users (
			id, email, password_hash, full_name, role,
			is_active, created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Role,
		user.IsActive, user.CreatedAt, user.UpdatedAt, user.Version,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("user", "email", user.Email).WithCause(err)
		}
		return fmt.Errorf("insert user: %w", postgres.MapError(err))
	}

	return nil
}

const userSelect = `
	SELECT id, email, password_hash, full_name, role,
		   is_active, last_login_at, failed_login_attempts, locked_until,
		   created_at, updated_at, version
	FROM users
`

func scanUser(row pgx.Row, user *auth.User) error {
	return row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role,
		&user.IsActive, &user.LastLoginAt, &user.FailedLoginAttempts, &user.LockedUntil,
		&user.CreatedAt, &user.UpdatedAt, &user.Version,
	)
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	q := r.txm.GetQuerier(ctx)

	var user auth.User
	err := scanUser(q.QueryRow(ctx, userSelect+` WHERE id = $1`, userID), &user)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", postgres.MapError(err))
	}

	return &user, nil
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	q := r.txm.GetQuerier(ctx)

	var user auth.User
	err := scanUser(q.QueryRow(ctx, userSelect+` WHERE LOWER(email) = LOWER($1)`, email), &user)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("user", email)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", postgres.MapError(err))
	}

	return &user, nil
}

// Update persists user changes with an optimistic version check.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	q := r.txm.GetQuerier(ctx)

	query := `
		UPDATE users SET
			full_name = $2,
			role = $3,
			is_active = $4,
			last_login_at = $5,
			failed_login_attempts = $6,
			locked_until = $7,
			updated_at = now(),
			version = version + 1
		WHERE id = $1 AND version = $8
	`

	result, err := q.Exec(ctx, query,
		user.ID, user.FullName, user.Role, user.IsActive,
		user.LastLoginAt, user.FailedLoginAttempts, user.LockedUntil,
		user.Version,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", postgres.MapError(err))
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("user", user.ID.String())
	}

	user.Version++
	return nil
}

// SetActive enables or disables a user account.
func (r *UserRepo) SetActive(ctx context.Context, userID id.ID, active bool) error {
	q := r.txm.GetQuerier(ctx)

	query := `UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`
	result, err := q.Exec(ctx, query, userID, active)
	if err != nil {
		return fmt.Errorf("set user active: %w", postgres.MapError(err))
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID.String())
	}

	return nil
}

// List retrieves users with filtering and pagination.
func (r *UserRepo) List(ctx context.Context, filter auth.UserFilter) ([]auth.User, int64, error) {
	q := r.txm.GetQuerier(ctx)

	where := " WHERE 1=1"
	var args []any
	argIdx := 1

	if filter.Search != "" {
		where += fmt.Sprintf(" AND (email ILIKE $%d OR full_name ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.IsActive != nil {
		where += fmt.Sprintf(" AND is_active = $%d", argIdx)
		args = append(args, *filter.IsActive)
		argIdx++
	}
	if filter.Role != nil {
		where += fmt.Sprintf(" AND role = $%d", argIdx)
		args = append(args, *filter.Role)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", postgres.MapError(err))
	}

	query := userSelect + where + " ORDER BY email ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query users: %w", postgres.MapError(err))
	}
	defer rows.Close()

	var users []auth.User
	for rows.Next() {
		var user auth.User
		if err := scanUser(rows, &user); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, total, rows.Err()
}

// ExistsByEmail checks whether a user with the given email exists.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := r.txm.GetQuerier(ctx)

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`

	var exists bool
	if err := q.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email exists: %w", postgres.MapError(err))
	}

	return exists, nil
}
