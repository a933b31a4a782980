package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/openlearn/lms-api/config"
	"github.com/openlearn/lms-api/internal/core"
	"github.com/openlearn/lms-api/internal/data"
)

// SweeperServiceOptions groups dependencies for SweeperService.
type SweeperServiceOptions struct {
	Repo         core.NotificationRepository // Required: notification repository
	Config       config.SweeperConfig        // Required: sweeper configuration
	Logger       *slog.Logger                // Optional: structured logger
	TimeProvider data.TimeProvider           // Optional: time source for cutoff computation
}

// SweeperService deletes read notifications that have aged past the
// configured retention window. Unread notifications are never touched.
type SweeperService struct {
	repo   core.NotificationRepository
	config config.SweeperConfig
	logger *slog.Logger
	time   data.TimeProvider
}

// NewSweeperService constructs a new SweeperService.
func NewSweeperService(opts SweeperServiceOptions) (*SweeperService, error) {
	if opts.Repo == nil {
		return nil, errors.New("NotificationRepository is required")
	}
	if opts.TimeProvider == nil {
		opts.TimeProvider = &data.RealTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "sweeper_service")
		logger.Debug("SweeperService initialized",
			"interval", opts.Config.Interval,
			"read_retention", opts.Config.ReadRetention,
		)
	}

	return &SweeperService{
		repo:   opts.Repo,
		config: opts.Config,
		logger: logger,
		time:   opts.TimeProvider,
	}, nil
}

// Run starts the sweep loop and runs until the context is cancelled.
// It performs a sweep at the configured interval.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *SweeperService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting sweeper service", "interval", s.config.Interval)
	}

	// Add jitter to prevent thundering herd if multiple instances start together
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// Sweep immediately after jitter
	if err := s.Sweep(ctx); err != nil {
		s.logSweepError(err, "initial sweep")
	}

	return s.runLoop(ctx, ticker)
}

// waitWithJitter adds a random delay up to 10% of the interval to prevent thundering herd.
func (s *SweeperService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// If crypto/rand fails, skip jitter rather than failing startup
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		}
		return
	}

	// Use modulo on uint64 before converting to avoid overflow
	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
		// Graceful shutdown during jitter
	}
}

// runLoop runs the sweep loop until context is cancelled.
func (s *SweeperService) runLoop(ctx context.Context, ticker *time.Ticker) error {
	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "sweeper service stopping", "reason", ctx.Err())
			}
			// Return nil on graceful shutdown to avoid treating it as a failure
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logSweepError(err, "sweep")
				// Continue running despite errors
			}
		}
	}
}

// Sweep deletes read notifications older than the retention window and
// reports the outcome. Exposed so a single pass can be triggered directly.
func (s *SweeperService) Sweep(ctx context.Context) error {
	cutoff := s.time.Now().Add(-s.config.ReadRetention)

	count, err := s.repo.DeleteReadOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	if count > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "deleted expired read notifications",
			"count", count,
			"cutoff", cutoff,
		)
	}

	return nil
}

func (s *SweeperService) logSweepError(err error, label string) {
	if err == nil || s.logger == nil {
		return
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Debug(label+" cancelled by context", "error", err)
		return
	}

	s.logger.Error(label+" failed", "error", err)
}
