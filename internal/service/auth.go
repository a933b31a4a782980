package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/openlearn/lms-api/internal/core"
	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
	"github.com/openlearn/lms-api/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users    core.UserRepository  // Required: user repository
	Tokens   ports.TokenService   // Required: token minting/verification
	Sessions ports.SessionCache   // Required: session cache
	Social   ports.SocialVerifier // Optional: social login verifier
	Mailer   ports.Mailer         // Optional: outbound mail
	Logger   *slog.Logger         // Optional: structured logger
}

// AuthService orchestrates registration, activation, login, social login,
// logout, and token refresh.
//
// Registration persists nothing: the candidate account rides inside a signed
// activation token until the mailed code is confirmed. The session cache is
// authoritative for revocation, so every login overwrites the subject's
// session and every logout deletes it.
type AuthService struct {
	users    core.UserRepository
	tokens   ports.TokenService
	sessions ports.SessionCache
	social   ports.SocialVerifier
	mailer   ports.Mailer
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Users == nil {
		return nil, errors.New("UserRepository is required")
	}
	if opts.Tokens == nil {
		return nil, errors.New("TokenService is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("SessionCache is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &AuthService{
		users:    opts.Users,
		tokens:   opts.Tokens,
		sessions: opts.Sessions,
		social:   opts.Social,
		mailer:   opts.Mailer,
		logger:   opts.Logger.With("component", "auth_service"),
	}, nil
}

// Register validates a new registration, mints an activation token carrying
// the candidate account, and mails the activation code. Returns the signed
// token the client must present together with the mailed code.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	email := model.NormalizeEmail(req.Email)

	// Reject early so the candidate learns about the conflict before
	// checking their inbox. Activation re-checks under the unique index.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", apperrors.Conflict("Email already exists")
	} else if !apperrors.IsNotFound(err) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	activation, err := s.tokens.IssueActivationToken(domainauth.Candidate{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return "", fmt.Errorf("issue activation token: %w", err)
	}

	if err := s.sendActivationMail(ctx, req.Name, email, activation.Code); err != nil {
		s.logger.ErrorContext(ctx, "activation mail failed", "email", email, "error", err)
		return "", apperrors.Upstream("Could not send activation email")
	}

	return activation.Token, nil
}

// Activate exchanges an activation token plus the mailed code for a
// persisted, verified account.
func (s *AuthService) Activate(ctx context.Context, req *model.ActivateRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	candidate, code, err := s.tokens.VerifyActivationToken(req.ActivationToken)
	if err != nil {
		return nil, apperrors.Unauthenticated("Activation token is invalid or expired")
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(req.ActivationCode)) != 1 {
		return nil, apperrors.Validation("Invalid activation code")
	}

	user, err := s.users.Create(ctx, &model.User{
		Name:         candidate.Name,
		Email:        candidate.Email,
		PasswordHash: candidate.PasswordHash,
		Role:         domainauth.RoleUser,
		IsVerified:   true,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "account activated", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials, mints a token pair, and caches the session.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, ports.TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, ports.TokenPair{}, err
	}

	user, err := s.users.GetByEmail(ctx, model.NormalizeEmail(req.Email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ports.TokenPair{}, apperrors.Unauthenticated("Invalid email or password")
		}
		return nil, ports.TokenPair{}, err
	}

	// Social-only accounts carry no password hash and cannot password-login.
	if user.PasswordHash == "" {
		return nil, ports.TokenPair{}, apperrors.Unauthenticated("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ports.TokenPair{}, apperrors.Unauthenticated("Invalid email or password")
	}

	pair, err := s.startSession(ctx, user)
	if err != nil {
		return nil, ports.TokenPair{}, err
	}

	return user, pair, nil
}

// SocialAuth verifies a provider ID token and logs the user in, creating a
// verified account on first sight of the email.
func (s *AuthService) SocialAuth(ctx context.Context, req *model.SocialAuthRequest) (*model.User, ports.TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, ports.TokenPair{}, err
	}
	if s.social == nil {
		return nil, ports.TokenPair{}, apperrors.Upstream("Social login is not configured")
	}

	identity, err := s.social.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, ports.TokenPair{}, apperrors.Unauthenticated("Invalid social credential")
	}

	user, err := s.users.GetByEmail(ctx, identity.Email)
	if apperrors.IsNotFound(err) {
		user, err = s.users.Create(ctx, &model.User{
			Name:       identity.Name,
			Email:      identity.Email,
			AvatarURL:  identity.AvatarURL,
			Role:       domainauth.RoleUser,
			IsVerified: true,
		})
	}
	if err != nil {
		return nil, ports.TokenPair{}, err
	}

	pair, err := s.startSession(ctx, user)
	if err != nil {
		return nil, ports.TokenPair{}, err
	}

	return user, pair, nil
}

// Logout revokes the subject's session. Every outstanding token for the
// subject stops authenticating once the session is gone.
func (s *AuthService) Logout(ctx context.Context, subjectID string) error {
	return s.sessions.Delete(ctx, subjectID)
}

// Refresh exchanges a valid refresh token for a fresh token pair and
// re-arms the session TTL. A revoked or expired session refuses the
// refresh even when the token itself still verifies.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (ports.TokenPair, error) {
	subjectID, err := s.tokens.Verify(refreshToken, domainauth.TokenRefresh)
	if err != nil {
		return ports.TokenPair{}, apperrors.Unauthenticated("Could not refresh token")
	}

	identity, err := s.sessions.Get(ctx, subjectID)
	if err != nil {
		return ports.TokenPair{}, apperrors.Unauthenticated("Session expired, please log in")
	}

	pair, err := s.tokens.IssuePair(subjectID)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("issue token pair: %w", err)
	}

	if err := s.sessions.Put(ctx, identity); err != nil {
		return ports.TokenPair{}, fmt.Errorf("refresh session: %w", err)
	}

	return pair, nil
}

func (s *AuthService) startSession(ctx context.Context, user *model.User) (ports.TokenPair, error) {
	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("issue token pair: %w", err)
	}

	if err := s.sessions.Put(ctx, user.Identity()); err != nil {
		return ports.TokenPair{}, fmt.Errorf("cache session: %w", err)
	}

	return pair, nil
}

func (s *AuthService) sendActivationMail(ctx context.Context, name, email, code string) error {
	if s.mailer == nil {
		s.logger.WarnContext(ctx, "mailer not configured, skipping activation mail", "email", email)
		return nil
	}
	return s.mailer.Send(ctx, ports.Mail{
		To:       email,
		Subject:  "Activate your account",
		Template: "activation",
		Data: map[string]any{
			"Name":           name,
			"ActivationCode": code,
		},
	})
}
