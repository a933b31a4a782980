package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"strings"
	"sync"

	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
	apperrors "github.com/openlearn/lms-api/internal/errors"
	"github.com/openlearn/lms-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.TokenService   = (*FakeTokenService)(nil)
	_ ports.SessionCache   = (*MemorySessionCache)(nil)
	_ ports.SocialVerifier = (*StaticSocialVerifier)(nil)
	_ ports.Mailer         = (*RecordingMailer)(nil)
)

// FakeTokenService mints deterministic tokens of the form
// "<kind>:<subject>:<counter>" and verifies them by parsing that shape.
// Override the Func fields for error injection.
type FakeTokenService struct {
	IssueFunc  func(subjectID string, kind domainauth.TokenKind) (string, error)
	VerifyFunc func(token string, kind domainauth.TokenKind) (string, error)

	// ActivationCode is returned for every minted activation token.
	ActivationCode string

	mu      sync.Mutex
	counter int
	// candidates records minted activation tokens by token string.
	candidates map[string]domainauth.Candidate
}

// NewFakeTokenService creates a FakeTokenService with sensible defaults.
func NewFakeTokenService() *FakeTokenService {
	return &FakeTokenService{
		ActivationCode: "1234",
		candidates:     make(map[string]domainauth.Candidate),
	}
}

func (f *FakeTokenService) issue(subjectID string, kind domainauth.TokenKind) (string, error) {
	if f.IssueFunc != nil {
		return f.IssueFunc(subjectID, kind)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter++
	return fmt.Sprintf("%s:%s:%d", kind, subjectID, f.counter), nil
}

func (f *FakeTokenService) IssueAccessToken(subjectID string) (string, error) {
	return f.issue(subjectID, domainauth.TokenAccess)
}

func (f *FakeTokenService) IssueRefreshToken(subjectID string) (string, error) {
	return f.issue(subjectID, domainauth.TokenRefresh)
}

func (f *FakeTokenService) IssuePair(subjectID string) (ports.TokenPair, error) {
	access, err := f.IssueAccessToken(subjectID)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := f.IssueRefreshToken(subjectID)
	if err != nil {
		return ports.TokenPair{}, err
	}
	return ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (f *FakeTokenService) Verify(token string, kind domainauth.TokenKind) (string, error) {
	if f.VerifyFunc != nil {
		return f.VerifyFunc(token, kind)
	}
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed token %q", token)
	}
	if parts[0] != string(kind) {
		return "", fmt.Errorf("token kind mismatch: got %q, want %q", parts[0], kind)
	}
	return parts[1], nil
}

func (f *FakeTokenService) IssueActivationToken(candidate domainauth.Candidate) (ports.ActivationToken, error) {
	token, err := f.issue(candidate.Email, domainauth.TokenActivation)
	if err != nil {
		return ports.ActivationToken{}, err
	}
	f.mu.Lock()
	f.candidates[token] = candidate
	f.mu.Unlock()
	return ports.ActivationToken{Token: token, Code: f.ActivationCode}, nil
}

func (f *FakeTokenService) VerifyActivationToken(token string) (domainauth.Candidate, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	candidate, ok := f.candidates[token]
	if !ok {
		return domainauth.Candidate{}, "", fmt.Errorf("unknown activation token")
	}
	return candidate, f.ActivationCode, nil
}

// MemorySessionCache is an in-memory ports.SessionCache.
type MemorySessionCache struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Identity

	// PutErr, GetErr, DeleteErr inject failures when non-nil.
	PutErr    error
	GetErr    error
	DeleteErr error
}

// NewMemorySessionCache creates an empty MemorySessionCache.
func NewMemorySessionCache() *MemorySessionCache {
	return &MemorySessionCache{sessions: make(map[string]domainauth.Identity)}
}

func (m *MemorySessionCache) Put(ctx context.Context, identity domainauth.Identity) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[identity.ID] = identity
	return nil
}

func (m *MemorySessionCache) Get(ctx context.Context, subjectID string) (domainauth.Identity, error) {
	if m.GetErr != nil {
		return domainauth.Identity{}, m.GetErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	identity, ok := m.sessions[subjectID]
	if !ok {
		return domainauth.Identity{}, apperrors.NotFound("session not found")
	}
	return identity, nil
}

func (m *MemorySessionCache) Delete(ctx context.Context, subjectID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, subjectID)
	return nil
}

// Len returns the number of active sessions.
func (m *MemorySessionCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Has reports whether a session exists for the subject.
func (m *MemorySessionCache) Has(subjectID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[subjectID]
	return ok
}

// StaticSocialVerifier returns a fixed identity for any token, or Err.
type StaticSocialVerifier struct {
	Identity ports.SocialIdentity
	Err      error
}

func (s *StaticSocialVerifier) Verify(ctx context.Context, rawIDToken string) (ports.SocialIdentity, error) {
	if s.Err != nil {
		return ports.SocialIdentity{}, s.Err
	}
	return s.Identity, nil
}

// RecordingMailer captures sent mail for assertions.
type RecordingMailer struct {
	mu   sync.Mutex
	sent []ports.Mail

	// Err injects a delivery failure when non-nil.
	Err error
}

func (r *RecordingMailer) Send(ctx context.Context, m ports.Mail) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, m)
	return nil
}

// Sent returns a copy of the captured mail.
func (r *RecordingMailer) Sent() []ports.Mail {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.Mail, len(r.sent))
	copy(out, r.sent)
	return out
}
