package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/openlearn/lms-api/internal/core"
	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
)

// LayoutServiceOptions groups dependencies for LayoutService.
type LayoutServiceOptions struct {
	Repo   core.LayoutRepository // Required: layout repository
	Logger *slog.Logger          // Optional: structured logger
}

// LayoutService manages the singleton-per-type page fragments (banner,
// FAQ, categories).
type LayoutService struct {
	repo   core.LayoutRepository
	logger *slog.Logger
}

// NewLayoutService constructs a new LayoutService.
func NewLayoutService(opts LayoutServiceOptions) (*LayoutService, error) {
	if opts.Repo == nil {
		return nil, errors.New("LayoutRepository is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &LayoutService{
		repo:   opts.Repo,
		logger: opts.Logger.With("component", "layout_service"),
	}, nil
}

// Upsert creates or replaces the layout of the request's type. Only the
// variant payload matching the type is persisted.
func (s *LayoutService) Upsert(ctx context.Context, req model.UpsertLayoutRequest) (*model.Layout, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, _ := model.ParseLayoutType(req.Type)
	layout := model.Layout{Type: t}
	switch t {
	case model.LayoutBanner:
		layout.Banner = req.Banner
	case model.LayoutFAQ:
		layout.FAQ = req.FAQ
	case model.LayoutCategories:
		layout.Categories = req.Categories
	}

	saved, err := s.repo.Upsert(ctx, layout)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "layout updated", "type", t)
	return saved, nil
}

// GetByType returns the layout of the given type.
func (s *LayoutService) GetByType(ctx context.Context, typeName string) (*model.Layout, error) {
	t, ok := model.ParseLayoutType(typeName)
	if !ok {
		return nil, apperrors.ValidationField("type", "Unknown layout type")
	}
	return s.repo.GetByType(ctx, t)
}
