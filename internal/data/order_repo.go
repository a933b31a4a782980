package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openlearn/lms-api/internal/data/database"
	"github.com/openlearn/lms-api/internal/data/pgxutil"
	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
)

// OrderRepo provides database operations for purchase orders.
type OrderRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewOrderRepo creates a new OrderRepo with real time provider.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewOrderRepoWithTimeProvider creates a new OrderRepo with a custom time provider (useful for tests).
func NewOrderRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *OrderRepo {
	return &OrderRepo{DB: db, timeProvider: tp}
}

// Create inserts a new order. A second order for the same user and course
// maps to a conflict error via the unique constraint.
func (r *OrderRepo) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if order == nil {
		return nil, errors.New("order is required")
	}
	if order.UserID == "" || order.CourseID == "" {
		return nil, apperrors.Validation("User and course are required")
	}

	paymentInfo := order.PaymentInfo
	if len(paymentInfo) == 0 {
		paymentInfo = []byte("{}")
	}

	var out model.Order
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO orders (course_id, user_id, payment_info, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING `+orderColumnList,
			order.CourseID,
			order.UserID,
			[]byte(paymentInfo),
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Order])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves orders with pagination, newest first.
func (r *OrderRepo) List(ctx context.Context, limit, offset int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	offset = max(offset, 0)

	query, args := database.BuildListQuery(database.NewListQueryOptions("orders",
		database.WithColumns(orderColumns()...),
		database.WithOrderBy("created_at", "DESC"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	))

	var rowsOut []model.Order
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Order])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	res := make([]*model.Order, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// ExistsForUserCourse reports whether the user already ordered the course.
func (r *OrderRepo) ExistsForUserCourse(ctx context.Context, userID, courseID string) (bool, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("orders",
		database.WithCountOnly(),
		database.WithCondition("user_id", userID),
		database.WithCondition("course_id", courseID),
	))

	var count int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query, args...).Scan(&count)
	})
	if err != nil {
		return false, fmt.Errorf("failed to check order existence: %w", err)
	}
	return count > 0, nil
}

const orderColumnList = `id, course_id, user_id, payment_info, created_at`

func orderColumns() []string {
	return []string{"id", "course_id", "user_id", "payment_info", "created_at"}
}
