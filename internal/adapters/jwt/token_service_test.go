package jwt

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
)

func newTestService(t *testing.T, now func() time.Time) *Service {
	t.Helper()
	svc, err := NewService(Options{
		AccessSecret:     "access-secret",
		RefreshSecret:    "refresh-secret",
		ActivationSecret: "activation-secret",
		Now:              now,
	})
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresSecrets(t *testing.T) {
	_, err := NewService(Options{AccessSecret: "a", RefreshSecret: "r"})
	require.Error(t, err)

	_, err = NewService(Options{})
	require.Error(t, err)
}

func TestService_IssueAndVerify(t *testing.T) {
	svc := newTestService(t, nil)

	access, err := svc.IssueAccessToken("user-1")
	require.NoError(t, err)

	subject, err := svc.Verify(access, domainauth.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)

	refresh, err := svc.IssueRefreshToken("user-1")
	require.NoError(t, err)

	subject, err = svc.Verify(refresh, domainauth.TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

func TestService_VerifyRejectsWrongKind(t *testing.T) {
	svc := newTestService(t, nil)

	access, err := svc.IssueAccessToken("user-1")
	require.NoError(t, err)

	// An access token must not pass refresh verification: the kinds sign
	// with different secrets.
	_, err = svc.Verify(access, domainauth.TokenRefresh)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestService_VerifyExpired(t *testing.T) {
	issuedAt := time.Now().Add(-time.Hour)
	svc := newTestService(t, func() time.Time { return issuedAt })

	token, err := svc.IssueAccessToken("user-1")
	require.NoError(t, err)

	// Move the clock past expiry.
	svc.now = time.Now

	_, err = svc.Verify(token, domainauth.TokenAccess)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestService_VerifyMalformed(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Verify("not-a-token", domainauth.TokenAccess)
	require.ErrorIs(t, err, ErrTokenInvalid)
	require.NotErrorIs(t, err, ErrTokenExpired)
}

func TestService_IssuePair(t *testing.T) {
	svc := newTestService(t, nil)

	pair, err := svc.IssuePair("user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
}

func TestService_IssueRequiresSubject(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.IssueAccessToken("")
	require.Error(t, err)
}

func TestService_ActivationRoundTrip(t *testing.T) {
	svc := newTestService(t, nil)

	candidate := domainauth.Candidate{
		Name:         "Ada Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}

	issued, err := svc.IssueActivationToken(candidate)
	require.NoError(t, err)
	require.Len(t, issued.Code, 4)

	code, err := strconv.Atoi(issued.Code)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, code, 1000)
	assert.LessOrEqual(t, code, 9999)

	got, gotCode, err := svc.VerifyActivationToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, candidate, got)
	assert.Equal(t, issued.Code, gotCode)
}

func TestService_ActivationExpired(t *testing.T) {
	issuedAt := time.Now().Add(-time.Hour)
	svc := newTestService(t, func() time.Time { return issuedAt })

	issued, err := svc.IssueActivationToken(domainauth.Candidate{Email: "ada@example.com"})
	require.NoError(t, err)

	svc.now = time.Now

	_, _, err = svc.VerifyActivationToken(issued.Token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestService_ActivationRejectsOtherKinds(t *testing.T) {
	svc := newTestService(t, nil)

	access, err := svc.IssueAccessToken("user-1")
	require.NoError(t, err)

	_, _, err = svc.VerifyActivationToken(access)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestService_DefaultTTLs(t *testing.T) {
	svc := newTestService(t, nil)
	assert.Equal(t, 5*time.Minute, svc.AccessTTL())
	assert.Equal(t, 3*24*time.Hour, svc.RefreshTTL())
}
