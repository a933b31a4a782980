package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlearn/lms-api/internal/domain/auth"
	apperrors "github.com/openlearn/lms-api/internal/errors"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("jan@example.com"))
	assert.True(t, ValidEmail("a.b+c@sub.domain.io"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("spaces in@example.com"))
	assert.False(t, ValidEmail("missing@tld"))
	assert.False(t, ValidEmail(""))
}

func TestRegisterRequest_Validate(t *testing.T) {
	valid := RegisterRequest{Name: "Jan", Email: "jan@example.com", Password: "secret1"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		req   RegisterRequest
		field string
	}{
		{"missing name", RegisterRequest{Email: "jan@example.com", Password: "secret1"}, "name"},
		{"bad email", RegisterRequest{Name: "Jan", Email: "nope", Password: "secret1"}, "email"},
		{"short password", RegisterRequest{Name: "Jan", Email: "jan@example.com", Password: "abc"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.field, apperrors.GetField(err))
		})
	}
}

func TestUpdateProfileRequest_Validate(t *testing.T) {
	name := "Jan"
	email := "jan@example.com"
	empty := "  "
	bad := "nope"

	assert.NoError(t, (&UpdateProfileRequest{Name: &name}).Validate())
	assert.NoError(t, (&UpdateProfileRequest{Email: &email}).Validate())
	assert.Error(t, (&UpdateProfileRequest{}).Validate())
	assert.Error(t, (&UpdateProfileRequest{Name: &empty}).Validate())
	assert.Error(t, (&UpdateProfileRequest{Email: &bad}).Validate())
}

func TestUpdateRoleRequest_Validate(t *testing.T) {
	assert.NoError(t, (&UpdateRoleRequest{Email: "jan@example.com", Role: auth.RoleAdmin}).Validate())
	assert.Error(t, (&UpdateRoleRequest{Email: "jan@example.com", Role: "superuser"}).Validate())
	assert.Error(t, (&UpdateRoleRequest{Email: "nope", Role: auth.RoleUser}).Validate())
}

func TestUser_Identity(t *testing.T) {
	u := User{
		ID:         "u1",
		Name:       "Jan",
		Email:      "jan@example.com",
		Role:       auth.RoleUser,
		IsVerified: true,
		AvatarURL:  "https://cdn/avatar.png",
		CourseIDs:  []string{"c1"},
	}

	id := u.Identity()
	assert.Equal(t, "u1", id.ID)
	assert.Equal(t, auth.RoleUser, id.Role)
	assert.True(t, id.IsVerified)
	assert.True(t, id.Owns("c1"))
	assert.True(t, u.Owns("c1"))
	assert.False(t, u.Owns("c2"))
}
