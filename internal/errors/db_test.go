package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError_Nil(t *testing.T) {
	assert.NoError(t, MapDBError(nil))
}

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(pgx.ErrNoRows)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMapDBError_ContextErrors(t *testing.T) {
	assert.True(t, IsUpstream(MapDBError(context.DeadlineExceeded)))
	assert.True(t, IsUpstream(MapDBError(context.Canceled)))
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:   pgerrcode.UniqueViolation,
		Detail: "Key (email)=(jan@example.com) already exists.",
	}

	err := MapDBError(pgErr)
	require.True(t, IsConflict(err))
	assert.Equal(t, "email", GetField(err))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Email already exists.", appErr.Message)
}

func TestMapDBError_UniqueViolationConstraintFallback(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "users_email_key",
	}

	err := MapDBError(pgErr)
	require.True(t, IsConflict(err))
	assert.Equal(t, "email", GetField(err))
}

func TestMapDBError_ForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
	assert.True(t, IsValidation(MapDBError(pgErr)))
}

func TestMapDBError_NotNullViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "name"}
	err := MapDBError(pgErr)
	require.True(t, IsValidation(err))
	assert.Equal(t, "name", GetField(err))
}

func TestMapDBError_UnknownPgError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.DivisionByZero}
	err := MapDBError(pgErr)
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrCodeInternal, appErr.Code)
}

func TestMapDBError_Unrecognized(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, plain, MapDBError(plain))
}

func TestInferFieldFromConstraint(t *testing.T) {
	assert.Equal(t, "email", inferFieldFromConstraint("users_email_key"))
	assert.Equal(t, "", inferFieldFromConstraint("users_pkey"))
	assert.Equal(t, "", inferFieldFromConstraint(""))
}
