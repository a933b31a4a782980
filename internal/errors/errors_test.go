package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := NotFound("course not found")
		assert.Equal(t, "course not found", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("row missing")
		err := Wrap(cause, ErrCodeNotFound, "course not found")
		assert.Equal(t, "course not found: row missing", err.Error())
	})
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(cause, ErrCodeUpstream, "store unavailable")
	assert.True(t, errors.Is(err, cause))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"unauthenticated", Unauthenticated("login required"), ErrCodeUnauthenticated},
		{"forbidden", Forbidden("admin only"), ErrCodeForbidden},
		{"not found", NotFound("missing"), ErrCodeNotFound},
		{"conflict", Conflict("duplicate"), ErrCodeConflict},
		{"validation", Validation("bad input"), ErrCodeValidation},
		{"upstream", Upstream("store down"), ErrCodeUpstream},
		{"internal", Internal("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsUnauthenticated(Unauthenticated("x")))
	assert.True(t, IsForbidden(Forbiddenf("role %s is not allowed", "user")))
	assert.True(t, IsNotFound(NotFoundf("course %s not found", "c1")))
	assert.True(t, IsConflict(Conflict("x")))
	assert.True(t, IsValidation(ValidationField("email", "invalid email")))
	assert.True(t, IsUpstream(Upstream("x")))

	assert.False(t, IsNotFound(Conflict("x")))
	assert.False(t, IsConflict(errors.New("plain")))
}

func TestPredicates_WrappedChain(t *testing.T) {
	inner := NotFound("user not found")
	wrapped := fmt.Errorf("load profile: %w", inner)
	assert.True(t, IsNotFound(wrapped))
}

func TestGetCodeAndField(t *testing.T) {
	err := ValidationField("password", "password too short")
	assert.Equal(t, ErrCodeValidation, GetCode(err))
	assert.Equal(t, "password", GetField(err))

	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
	assert.Equal(t, "", GetField(errors.New("plain")))
}

func TestWrap_NilError(t *testing.T) {
	require.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	require.Nil(t, Wrapf(nil, ErrCodeInternal, "ignored %d", 1))
}
