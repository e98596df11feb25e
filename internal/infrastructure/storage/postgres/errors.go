package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"rentware/internal/core/apperror"
)

// PostgreSQL error codes the storage layer translates.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeDeadlockDetected    = "40P01"
	codeLockNotAvailable    = "55P03"
	codeSerializationFail   = "40001"
	codeQueryCanceled       = "57014"
)

// MapError translates low-level pgx errors into the application error
// taxonomy. AppErrors pass through untouched. Deadlock aborts and lock
// timeouts become transient errors the caller may retry.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeDeadlockDetected, codeLockNotAvailable, codeSerializationFail, codeQueryCanceled:
			return apperror.NewTransient(err)
		case codeUniqueViolation:
			return apperror.NewDuplicate("record", "unique field", pgErr.ConstraintName).
				WithCause(err)
		case codeForeignKeyViolation:
			return apperror.NewConflict("record is referenced by other data").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		}
	}

	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation
}
