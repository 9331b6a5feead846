package errors

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	msgTimeout     = "Request timed out. Please try again."
	msgNotMigrated = "Analytics data is not available yet."
	msgDBDown      = "Analytics database is unavailable. Please try again."
)

// MapDBError turns errors from the analytics read path into AppErrors.
// Errors it does not recognise are returned unchanged.
func MapDBError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, msgTimeout)
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, pgx.ErrNoRows):
		return Wrap(err, ErrCodeNotFound, "Resource not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fromPgError(pgErr)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return Wrap(err, ErrCodeUnavailable, "Analytics database is unreachable.")
	}
	return err
}

func fromPgError(pgErr *pgconn.PgError) error {
	code := pgErr.Code
	switch {
	// The bot creates its tables lazily, so a fresh install has none.
	case code == pgerrcode.UndefinedTable, code == pgerrcode.UndefinedColumn:
		return Wrap(pgErr, ErrCodeUnavailable, msgNotMigrated)
	case code == pgerrcode.QueryCanceled:
		return Wrap(pgErr, ErrCodeTimeout, msgTimeout)
	case pgerrcode.IsConnectionException(code),
		pgerrcode.IsOperatorIntervention(code),
		pgerrcode.IsInsufficientResources(code):
		return Wrap(pgErr, ErrCodeUnavailable, msgDBDown)
	case pgerrcode.IsDataException(code):
		return &AppError{Code: ErrCodeValidation, Message: "Invalid query parameters.", Field: pgErr.ColumnName, Cause: pgErr}
	}
	return Wrap(pgErr, ErrCodeInternal, "A database error occurred. Please try again.")
}
