package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError_NonPg(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout},
		{"wrapped deadline", fmt.Errorf("query overview: %w", context.DeadlineExceeded), ErrCodeTimeout},
		{"canceled", context.Canceled, ErrCodeCanceled},
		{"no rows", pgx.ErrNoRows, ErrCodeNotFound},
		{"connect", &pgconn.ConnectError{}, ErrCodeUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.err)
			assert.Equal(t, tt.want, GetCode(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestMapDBError_PassThrough(t *testing.T) {
	assert.NoError(t, MapDBError(nil))

	original := errors.New("scan: unexpected type")
	assert.Same(t, original, MapDBError(original))
}

func TestMapDBError_PgCodes(t *testing.T) {
	tests := []struct {
		code string
		want ErrorCode
	}{
		{pgerrcode.UndefinedTable, ErrCodeUnavailable},
		{pgerrcode.UndefinedColumn, ErrCodeUnavailable},
		{pgerrcode.QueryCanceled, ErrCodeTimeout},
		{pgerrcode.ConnectionFailure, ErrCodeUnavailable},
		{pgerrcode.AdminShutdown, ErrCodeUnavailable},
		{pgerrcode.TooManyConnections, ErrCodeUnavailable},
		{pgerrcode.InvalidDatetimeFormat, ErrCodeValidation},
		{pgerrcode.SyntaxError, ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: tt.code}
			err := MapDBError(fmt.Errorf("query: %w", pgErr))

			assert.Equal(t, tt.want, GetCode(err))
			var got *pgconn.PgError
			require.ErrorAs(t, err, &got)
			assert.Same(t, pgErr, got)
		})
	}
}

func TestMapDBError_MissingTableHidesRelationName(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.UndefinedTable, Message: `relation "command_logs" does not exist`}

	msg := GetMessage(MapDBError(pgErr))
	assert.Equal(t, "Analytics data is not available yet.", msg)
	assert.NotContains(t, msg, "command_logs")
}
