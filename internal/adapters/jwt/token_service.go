// Package jwt provides the HMAC-signed token service used for access,
// refresh, and activation credentials.
package jwt

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
	"github.com/openlearn/lms-api/internal/ports"
)

var (
	// ErrTokenExpired is returned for structurally valid tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for malformed tokens or bad signatures.
	ErrTokenInvalid = errors.New("token invalid")
)

// Options configures the token service. Each token kind signs with its own
// secret so a leaked refresh token can never pass as an access token.
type Options struct {
	AccessSecret     string
	RefreshSecret    string
	ActivationSecret string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	ActivationTTL    time.Duration

	// Now overrides the clock (tests). Defaults to time.Now.
	Now func() time.Time
}

// Service implements ports.TokenService with HS256 signing.
type Service struct {
	opts Options
	now  func() time.Time
}

var _ ports.TokenService = (*Service)(nil)

// NewService constructs the token service. An empty signing secret is a
// misconfiguration and fails construction; it is never retried.
func NewService(opts Options) (*Service, error) {
	if opts.AccessSecret == "" || opts.RefreshSecret == "" || opts.ActivationSecret == "" {
		return nil, errors.New("token signing secrets are required")
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 5 * time.Minute
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 3 * 24 * time.Hour
	}
	if opts.ActivationTTL <= 0 {
		opts.ActivationTTL = 5 * time.Minute
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{opts: opts, now: now}, nil
}

// AccessTTL returns the configured access token lifetime.
func (s *Service) AccessTTL() time.Duration { return s.opts.AccessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (s *Service) RefreshTTL() time.Duration { return s.opts.RefreshTTL }

// IssueAccessToken signs a short-lived access token for the subject.
func (s *Service) IssueAccessToken(subjectID string) (string, error) {
	return s.sign(subjectID, s.opts.AccessSecret, s.opts.AccessTTL)
}

// IssueRefreshToken signs a long-lived refresh token for the subject.
func (s *Service) IssueRefreshToken(subjectID string) (string, error) {
	return s.sign(subjectID, s.opts.RefreshSecret, s.opts.RefreshTTL)
}

// IssuePair mints a fresh access/refresh pair. Expiries are computed from
// the time of issuance, never extended from an earlier pair.
func (s *Service) IssuePair(subjectID string) (ports.TokenPair, error) {
	access, err := s.IssueAccessToken(subjectID)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := s.IssueRefreshToken(subjectID)
	if err != nil {
		return ports.TokenPair{}, err
	}
	return ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify checks signature and expiry for the given token kind and returns
// the subject id. Expired and malformed tokens return distinct sentinel
// errors so callers can log them separately.
func (s *Service) Verify(token string, kind domainauth.TokenKind) (string, error) {
	secret, err := s.secretFor(kind)
	if err != nil {
		return "", err
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFunc(secret),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

// activationClaims embeds the candidate registration and its 4-digit code
// inside the activation token so nothing is persisted server-side.
type activationClaims struct {
	jwt.RegisteredClaims
	Candidate domainauth.Candidate `json:"candidate"`
	Code      string               `json:"code"`
}

// IssueActivationToken signs the candidate payload together with a freshly
// generated 4-digit code, uniform in [1000, 9999].
func (s *Service) IssueActivationToken(candidate domainauth.Candidate) (ports.ActivationToken, error) {
	code, err := activationCode()
	if err != nil {
		return ports.ActivationToken{}, fmt.Errorf("generate activation code: %w", err)
	}

	now := s.now()
	claims := activationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   candidate.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.ActivationTTL)),
		},
		Candidate: candidate,
		Code:      code,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.opts.ActivationSecret))
	if err != nil {
		return ports.ActivationToken{}, fmt.Errorf("sign activation token: %w", err)
	}
	return ports.ActivationToken{Token: token, Code: code}, nil
}

// VerifyActivationToken returns the embedded candidate and code.
func (s *Service) VerifyActivationToken(token string) (domainauth.Candidate, string, error) {
	claims := &activationClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFunc(s.opts.ActivationSecret),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domainauth.Candidate{}, "", ErrTokenExpired
		}
		return domainauth.Candidate{}, "", fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.Candidate.Email == "" {
		return domainauth.Candidate{}, "", ErrTokenInvalid
	}
	return claims.Candidate, claims.Code, nil
}

func (s *Service) sign(subjectID, secret string, ttl time.Duration) (string, error) {
	if subjectID == "" {
		return "", errors.New("subject id is required")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (s *Service) secretFor(kind domainauth.TokenKind) (string, error) {
	switch kind {
	case domainauth.TokenAccess:
		return s.opts.AccessSecret, nil
	case domainauth.TokenRefresh:
		return s.opts.RefreshSecret, nil
	case domainauth.TokenActivation:
		return s.opts.ActivationSecret, nil
	default:
		return "", fmt.Errorf("unknown token kind %q", kind)
	}
}

func (s *Service) keyFunc(secret string) jwt.Keyfunc {
	return func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}
}

// activationCode draws a 4-digit code uniform in [1000, 9999] from crypto/rand.
func activationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", 1000+n.Int64()), nil
}
