package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/openlearn/lms-api/internal/core"
	"github.com/openlearn/lms-api/internal/domain/model"
)

// DashboardAnalytics bundles the three last-12-months series for the admin
// dashboard.
type DashboardAnalytics struct {
	Users   []model.MonthlyCount `json:"users"`
	Courses []model.MonthlyCount `json:"courses"`
	Orders  []model.MonthlyCount `json:"orders"`
}

// AnalyticsServiceOptions groups dependencies for AnalyticsService.
type AnalyticsServiceOptions struct {
	Repo   core.AnalyticsRepository // Required: analytics repository
	Logger *slog.Logger             // Optional: structured logger
}

// AnalyticsService serves time-bucketed growth counts.
type AnalyticsService struct {
	repo   core.AnalyticsRepository
	logger *slog.Logger
}

// NewAnalyticsService constructs a new AnalyticsService.
func NewAnalyticsService(opts AnalyticsServiceOptions) (*AnalyticsService, error) {
	if opts.Repo == nil {
		return nil, errors.New("AnalyticsRepository is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &AnalyticsService{
		repo:   opts.Repo,
		logger: opts.Logger.With("component", "analytics_service"),
	}, nil
}

// Users returns the user signup series for the last 12 months.
func (s *AnalyticsService) Users(ctx context.Context) ([]model.MonthlyCount, error) {
	return s.repo.UsersLast12Months(ctx)
}

// Courses returns the course creation series for the last 12 months.
func (s *AnalyticsService) Courses(ctx context.Context) ([]model.MonthlyCount, error) {
	return s.repo.CoursesLast12Months(ctx)
}

// Orders returns the purchase series for the last 12 months.
func (s *AnalyticsService) Orders(ctx context.Context) ([]model.MonthlyCount, error) {
	return s.repo.OrdersLast12Months(ctx)
}

// Dashboard fetches all three series concurrently. Any failure cancels the
// remaining queries and fails the whole call.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*DashboardAnalytics, error) {
	var result DashboardAnalytics
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		series, err := s.repo.UsersLast12Months(gctx)
		if err != nil {
			return err
		}
		result.Users = series
		return nil
	})
	g.Go(func() error {
		series, err := s.repo.CoursesLast12Months(gctx)
		if err != nil {
			return err
		}
		result.Courses = series
		return nil
	})
	g.Go(func() error {
		series, err := s.repo.OrdersLast12Months(gctx)
		if err != nil {
			return err
		}
		result.Orders = series
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}
