package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/openlearn/lms-api/internal/data/database"
	"github.com/openlearn/lms-api/internal/data/pgxutil"
	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
)

// NotificationRepo provides database operations for admin notifications.
type NotificationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewNotificationRepo creates a new NotificationRepo with real time provider.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewNotificationRepoWithTimeProvider creates a new NotificationRepo with a custom time provider (useful for tests).
func NewNotificationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *NotificationRepo {
	return &NotificationRepo{DB: db, timeProvider: tp}
}

// Create inserts a new notification. Status defaults to unread.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	if n == nil {
		return nil, errors.New("notification is required")
	}
	if strings.TrimSpace(n.Title) == "" || strings.TrimSpace(n.Message) == "" {
		return nil, apperrors.Validation("Notification title and message are required")
	}

	status := n.Status
	if status == "" {
		status = model.NotificationUnread
	}
	if !status.Valid() {
		return nil, apperrors.ValidationField("status", "Unknown notification status")
	}

	var out model.Notification
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO notifications (user_id, title, message, status, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+notificationColumnList,
			n.UserID,
			n.Title,
			n.Message,
			status,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Notification])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a notification by ID.
func (r *NotificationRepo) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	var out model.Notification
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+notificationColumnList+`
			FROM notifications
			WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Notification])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Notification not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves notifications with pagination, newest first.
func (r *NotificationRepo) List(ctx context.Context, limit, offset int) ([]*model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	offset = max(offset, 0)

	query, args := database.BuildListQuery(database.NewListQueryOptions("notifications",
		database.WithColumns(notificationColumns()...),
		database.WithOrderBy("created_at", "DESC"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	))

	var rowsOut []model.Notification
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Notification])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	res := make([]*model.Notification, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// MarkRead transitions a notification to read. Marking an already-read
// notification is a no-op and returns the record unchanged.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) (*model.Notification, error) {
	var out model.Notification
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE notifications SET status = $2
			WHERE id = $1
			RETURNING `+notificationColumnList,
			id, model.NotificationRead)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Notification])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Notification not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// DeleteReadOlderThan hard-deletes read notifications created before the
// cutoff and returns how many rows were removed. Unread notifications are
// never touched regardless of age.
func (r *NotificationRepo) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			DELETE FROM notifications
			WHERE status = $1 AND created_at < $2`,
			model.NotificationRead, cutoff.UTC())
		if err != nil {
			return err
		}
		deleted = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete read notifications: %w", err)
	}
	return deleted, nil
}

const notificationColumnList = `id, user_id, title, message, status, created_at`

func notificationColumns() []string {
	return []string{"id", "user_id", "title", "message", "status", "created_at"}
}
