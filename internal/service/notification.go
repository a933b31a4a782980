package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/openlearn/lms-api/internal/core"
	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
)

// NotificationServiceOptions groups dependencies for NotificationService.
type NotificationServiceOptions struct {
	Repo   core.NotificationRepository // Required: notification repository
	Logger *slog.Logger                // Optional: structured logger
}

// NotificationService serves the admin notification feed.
type NotificationService struct {
	repo   core.NotificationRepository
	logger *slog.Logger
}

// NewNotificationService constructs a new NotificationService.
func NewNotificationService(opts NotificationServiceOptions) (*NotificationService, error) {
	if opts.Repo == nil {
		return nil, errors.New("NotificationRepository is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &NotificationService{
		repo:   opts.Repo,
		logger: opts.Logger.With("component", "notification_service"),
	}, nil
}

// List returns notifications newest first.
func (s *NotificationService) List(ctx context.Context, limit, offset int) ([]*model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// MarkRead flips an unread notification to read. Marking an already-read
// notification is a no-op that returns the current record.
func (s *NotificationService) MarkRead(ctx context.Context, id string) (*model.Notification, error) {
	if id == "" {
		return nil, apperrors.ValidationField("id", "Notification id is required")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == model.NotificationRead {
		return current, nil
	}

	updated, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "notification marked read", "notification_id", id)
	return updated, nil
}
