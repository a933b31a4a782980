package service

import (
	"context"
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

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Users    core.UserRepository // Required: user repository
	Sessions ports.SessionCache  // Required: session cache
	Logger   *slog.Logger        // Optional: structured logger
}

// UserService manages profiles and the admin user operations.
//
// Every mutation that changes the identity snapshot re-puts the session so
// middleware sees the change on the next request. Deleting a user revokes
// their session immediately.
type UserService struct {
	users    core.UserRepository
	sessions ports.SessionCache
	logger   *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) (*UserService, error) {
	if opts.Users == nil {
		return nil, errors.New("UserRepository is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("SessionCache is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &UserService{
		users:    opts.Users,
		sessions: opts.Sessions,
		logger:   opts.Logger.With("component", "user_service"),
	}, nil
}

// Profile returns the subject's identity snapshot, session cache first.
// A cache miss falls through to the canonical store and repopulates the
// session.
func (s *UserService) Profile(ctx context.Context, subjectID string) (domainauth.Identity, error) {
	identity, err := s.sessions.Get(ctx, subjectID)
	if err == nil {
		return identity, nil
	}

	user, err := s.users.GetByID(ctx, subjectID)
	if err != nil {
		return domainauth.Identity{}, err
	}

	identity = user.Identity()
	if err := s.sessions.Put(ctx, identity); err != nil {
		return domainauth.Identity{}, fmt.Errorf("recache session: %w", err)
	}
	return identity, nil
}

// UpdateProfile updates name and/or email and refreshes the session snapshot.
func (s *UserService) UpdateProfile(ctx context.Context, subjectID string, req model.UpdateProfileRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfile(ctx, subjectID, req)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Put(ctx, user.Identity()); err != nil {
		return nil, fmt.Errorf("recache session: %w", err)
	}
	return user, nil
}

// UpdatePassword verifies the old password, stores the new hash.
// Social-only accounts have no password to change.
func (s *UserService) UpdatePassword(ctx context.Context, subjectID string, req model.UpdatePasswordRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, apperrors.Validation("This account has no password; use social login")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return nil, apperrors.Unauthenticated("Old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, subjectID, string(hash))
}

// UpdateAvatar replaces the avatar reference and refreshes the session.
func (s *UserService) UpdateAvatar(ctx context.Context, subjectID string, req model.UpdateAvatarRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateAvatar(ctx, subjectID, req.AvatarURL)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Put(ctx, user.Identity()); err != nil {
		return nil, fmt.Errorf("recache session: %w", err)
	}
	return user, nil
}

// List returns a page of users, newest first (admin operation).
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, limit, offset)
}

// UpdateRole changes a user's role by email (admin operation). If the user
// has an active session its snapshot is refreshed so the new role applies
// without re-login.
func (s *UserService) UpdateRole(ctx context.Context, req model.UpdateRoleRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	target, err := s.users.GetByEmail(ctx, model.NormalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateRole(ctx, target.ID, string(req.Role))
	if err != nil {
		return nil, err
	}

	if _, sessErr := s.sessions.Get(ctx, user.ID); sessErr == nil {
		if err := s.sessions.Put(ctx, user.Identity()); err != nil {
			return nil, fmt.Errorf("recache session: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "user role updated", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Delete removes a user and revokes their session (admin operation).
func (s *UserService) Delete(ctx context.Context, id string) error {
	ok, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("User not found")
	}

	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}
