package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/openlearn/lms-api/internal/domain/auth"
	apperrors "github.com/openlearn/lms-api/internal/errors"
)

const (
	maxNameLen  = 120
	minPassword = 6
)

// emailPattern matches a minimal "local@domain.tld" shape.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User is the canonical account record.
// PasswordHash is never serialized; social-auth accounts may have none.
type User struct {
	ID           string    `json:"id"                   db:"id"`
	Name         string    `json:"name"                 db:"name"`
	Email        string    `json:"email"                db:"email"`
	PasswordHash string    `json:"-"                    db:"password_hash"`
	AvatarURL    string    `json:"avatar_url,omitempty" db:"avatar_url"`
	Role         auth.Role `json:"role"                 db:"role"`
	IsVerified   bool      `json:"is_verified"          db:"is_verified"`
	CourseIDs    []string  `json:"course_ids"           db:"course_ids"`
	CreatedAt    time.Time `json:"created_at"           db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"           db:"updated_at"`
}

// Identity builds the session-cache snapshot for this user.
func (u *User) Identity() auth.Identity {
	return auth.Identity{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		AvatarURL:  u.AvatarURL,
		CourseIDs:  u.CourseIDs,
	}
}

// Owns reports whether the user has purchased the given course.
func (u *User) Owns(courseID string) bool {
	for _, id := range u.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// ValidEmail reports whether the value looks like an email address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail lowercases and trims an email address. All lookups and
// writes go through the normalized form so the unique index catches
// case-variant duplicates.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterRequest carries a new registration. The account is not persisted
// until the activation code is confirmed.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates RegisterRequest.
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.ValidationField("name", "Please enter your name")
	}
	if len(r.Name) > maxNameLen {
		return apperrors.ValidationField("name", "Name is too long")
	}
	if !ValidEmail(r.Email) {
		return apperrors.ValidationField("email", "Please enter a valid email")
	}
	if len(r.Password) < minPassword {
		return apperrors.ValidationField("password", "Password must be at least 6 characters")
	}
	return nil
}

// ActivateRequest exchanges an activation token plus the mailed code for a
// persisted account.
type ActivateRequest struct {
	ActivationToken string `json:"activation_token"`
	ActivationCode  string `json:"activation_code"`
}

// Validate validates ActivateRequest.
func (r *ActivateRequest) Validate() error {
	if r.ActivationToken == "" {
		return apperrors.ValidationField("activation_token", "Activation token is required")
	}
	if r.ActivationCode == "" {
		return apperrors.ValidationField("activation_code", "Activation code is required")
	}
	return nil
}

// LoginRequest carries credentials for password login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates LoginRequest.
func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return apperrors.Validation("Please enter email and password")
	}
	return nil
}

// SocialAuthRequest carries a provider-issued ID token for social login.
type SocialAuthRequest struct {
	IDToken string `json:"id_token"`
}

// Validate validates SocialAuthRequest.
func (r *SocialAuthRequest) Validate() error {
	if r.IDToken == "" {
		return apperrors.ValidationField("id_token", "ID token is required")
	}
	return nil
}

// UpdateProfileRequest updates name and/or email.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Validate validates UpdateProfileRequest.
func (r *UpdateProfileRequest) Validate() error {
	if r.Name == nil && r.Email == nil {
		return apperrors.Validation("Nothing to update")
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return apperrors.ValidationField("name", "Name cannot be empty")
	}
	if r.Email != nil && !ValidEmail(*r.Email) {
		return apperrors.ValidationField("email", "Please enter a valid email")
	}
	return nil
}

// UpdatePasswordRequest changes the account password.
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Validate validates UpdatePasswordRequest.
func (r *UpdatePasswordRequest) Validate() error {
	if r.OldPassword == "" || r.NewPassword == "" {
		return apperrors.Validation("Please enter old and new password")
	}
	if len(r.NewPassword) < minPassword {
		return apperrors.ValidationField("new_password", "Password must be at least 6 characters")
	}
	return nil
}

// UpdateAvatarRequest replaces the avatar reference.
type UpdateAvatarRequest struct {
	AvatarURL string `json:"avatar_url"`
}

// Validate validates UpdateAvatarRequest.
func (r *UpdateAvatarRequest) Validate() error {
	if strings.TrimSpace(r.AvatarURL) == "" {
		return apperrors.ValidationField("avatar_url", "Avatar reference is required")
	}
	return nil
}

// UpdateRoleRequest changes a user's role (admin operation).
type UpdateRoleRequest struct {
	Email string    `json:"email"`
	Role  auth.Role `json:"role"`
}

// Validate validates UpdateRoleRequest.
func (r *UpdateRoleRequest) Validate() error {
	if !ValidEmail(r.Email) {
		return apperrors.ValidationField("email", "Please enter a valid email")
	}
	switch r.Role {
	case auth.RoleAdmin, auth.RoleUser:
		return nil
	default:
		return apperrors.ValidationField("role", "Unknown role")
	}
}
