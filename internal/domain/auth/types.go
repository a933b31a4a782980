package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

// Role represents an application's authorization role.
// Roles are plain strings for easy persistence and cookie transport.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// TokenKind distinguishes the token classes the token service mints.
type TokenKind string

const (
	TokenAccess     TokenKind = "access"
	TokenRefresh    TokenKind = "refresh"
	TokenActivation TokenKind = "activation"
)

// Identity is the serialized snapshot of an authenticated user that the
// session cache stores per subject. The canonical store remains
// authoritative; any identity mutation must re-put this snapshot.
type Identity struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Role       Role     `json:"role"`
	IsVerified bool     `json:"is_verified"`
	AvatarURL  string   `json:"avatar_url,omitempty"`
	CourseIDs  []string `json:"course_ids,omitempty"`
}

// IsAdmin returns true if the identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Owns reports whether the identity owns (has purchased) the given course.
func (i Identity) Owns(courseID string) bool {
	for _, id := range i.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// Candidate is a not-yet-persisted registration carried inside a signed
// activation token. PasswordHash is the bcrypt hash; the raw password is
// never embedded in a token.
type Candidate struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}
