package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlearn/lms-api/config"
	"github.com/openlearn/lms-api/internal/data"
	"github.com/openlearn/lms-api/internal/domain/model"
)

// mockNotificationRepo records DeleteReadOlderThan calls for sweeper tests.
type mockNotificationRepo struct {
	deleteCalled  int
	deleteCutoffs []time.Time
	deleteCount   int64
	deleteError   error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	return n, nil
}

func (m *mockNotificationRepo) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	return nil, errors.New("not implemented")
}

func (m *mockNotificationRepo) List(ctx context.Context, limit, offset int) ([]*model.Notification, error) {
	return nil, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id string) (*model.Notification, error) {
	return nil, errors.New("not implemented")
}

func (m *mockNotificationRepo) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.deleteCalled++
	m.deleteCutoffs = append(m.deleteCutoffs, cutoff)
	if m.deleteError != nil {
		return 0, m.deleteError
	}
	return m.deleteCount, nil
}

func TestNewSweeperService(t *testing.T) {
	t.Run("creates service with valid options", func(t *testing.T) {
		svc, err := NewSweeperService(SweeperServiceOptions{
			Repo: &mockNotificationRepo{},
			Config: config.SweeperConfig{
				Interval:      24 * time.Hour,
				ReadRetention: 30 * 24 * time.Hour,
			},
			Logger: slog.Default(),
		})

		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("returns error when repo is nil", func(t *testing.T) {
		_, err := NewSweeperService(SweeperServiceOptions{
			Config: config.SweeperConfig{Interval: 24 * time.Hour},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "NotificationRepository is required")
	})
}

func TestSweeperService_Sweep(t *testing.T) {
	t.Run("computes cutoff from retention window", func(t *testing.T) {
		now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
		repo := &mockNotificationRepo{deleteCount: 3}

		svc, err := NewSweeperService(SweeperServiceOptions{
			Repo: repo,
			Config: config.SweeperConfig{
				Interval:      24 * time.Hour,
				ReadRetention: 30 * 24 * time.Hour,
			},
			TimeProvider: data.NewFixedTimeProvider(now),
		})
		require.NoError(t, err)

		require.NoError(t, svc.Sweep(context.Background()))

		require.Equal(t, 1, repo.deleteCalled)
		assert.Equal(t, now.Add(-30*24*time.Hour), repo.deleteCutoffs[0])
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := &mockNotificationRepo{deleteError: errors.New("boom")}

		svc, err := NewSweeperService(SweeperServiceOptions{
			Repo:   repo,
			Config: config.SweeperConfig{Interval: 24 * time.Hour, ReadRetention: 24 * time.Hour},
		})
		require.NoError(t, err)

		require.Error(t, svc.Sweep(context.Background()))
	})
}

func TestSweeperService_Run(t *testing.T) {
	t.Run("stops on context cancellation", func(t *testing.T) {
		repo := &mockNotificationRepo{}

		svc, err := NewSweeperService(SweeperServiceOptions{
			Repo: repo,
			Config: config.SweeperConfig{
				Interval:      100 * time.Millisecond,
				ReadRetention: 24 * time.Hour,
			},
		})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- svc.Run(ctx)
		}()

		// Wait long enough for the startup jitter and at least one sweep
		time.Sleep(150 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			// Should return nil on graceful shutdown
			require.NoError(t, err)
		case <-time.After(1 * time.Second):
			t.Fatal("Run did not stop after context cancellation")
		}

		assert.GreaterOrEqual(t, repo.deleteCalled, 1)
	})

	t.Run("continues running despite sweep errors", func(t *testing.T) {
		repo := &mockNotificationRepo{deleteError: errors.New("test error")}

		svc, err := NewSweeperService(SweeperServiceOptions{
			Repo: repo,
			Config: config.SweeperConfig{
				Interval:      50 * time.Millisecond,
				ReadRetention: 24 * time.Hour,
			},
		})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		err = svc.Run(ctx)

		// Should return context deadline exceeded, not the sweep error
		require.Error(t, err)
		require.ErrorIs(t, err, context.DeadlineExceeded)

		assert.GreaterOrEqual(t, repo.deleteCalled, 2)
	})
}
