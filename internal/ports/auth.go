package ports

// Package ports defines interfaces (hexagonal ports) for auth-related
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service.

import (
	"context"

	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
)

// TokenPair bundles the access/refresh tokens minted for a subject.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ActivationToken bundles the signed pending-registration token and the
// 4-digit code mailed to the candidate. The candidate payload lives inside
// the token; nothing is persisted server-side until activation.
type ActivationToken struct {
	Token string
	Code  string
}

// TokenService mints and verifies the signed credentials.
// Verification errors distinguish expired from malformed tokens
// (see the adapter's sentinel errors); callers surface both as
// Unauthenticated but log them distinctly.
type TokenService interface {
	IssueAccessToken(subjectID string) (string, error)
	IssueRefreshToken(subjectID string) (string, error)
	// IssuePair mints a fresh access/refresh pair with expiries computed
	// from the time of issuance.
	IssuePair(subjectID string) (TokenPair, error)
	Verify(token string, kind domainauth.TokenKind) (subjectID string, err error)
	IssueActivationToken(candidate domainauth.Candidate) (ActivationToken, error)
	VerifyActivationToken(token string) (domainauth.Candidate, string, error)
}

// SessionCache maps a subject id to its cached identity snapshot. It is the
// system of record for "session still active": deleting an entry revokes
// every outstanding token for that subject.
type SessionCache interface {
	// Put overwrites any existing entry and re-arms the session TTL.
	Put(ctx context.Context, identity domainauth.Identity) error
	Get(ctx context.Context, subjectID string) (domainauth.Identity, error)
	// Delete is idempotent; deleting an absent key is not an error.
	Delete(ctx context.Context, subjectID string) error
}

// SocialIdentity is the verified principal extracted from a provider ID token.
type SocialIdentity struct {
	Email     string
	Name      string
	AvatarURL string
}

// SocialVerifier validates a provider-issued ID token for social login.
type SocialVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (SocialIdentity, error)
}

// Mail describes one outbound message. Template names a registered mail
// template; Data feeds its rendering.
type Mail struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

// Mailer delivers mail. Fire-and-forget from the caller's perspective:
// failures surface as errors but never roll back prior canonical writes.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}
