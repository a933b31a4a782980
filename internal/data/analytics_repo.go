package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openlearn/lms-api/internal/data/pgxutil"
	"github.com/openlearn/lms-api/internal/domain/model"
)

// AnalyticsRepo provides month-bucketed count queries for the admin
// dashboard. Each series covers the current month and the 11 before it,
// with empty months present as zero counts.
type AnalyticsRepo struct {
	DB *sql.DB
}

// NewAnalyticsRepo creates a new AnalyticsRepo.
func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo {
	return &AnalyticsRepo{DB: db}
}

// UsersLast12Months returns monthly registration counts.
func (r *AnalyticsRepo) UsersLast12Months(ctx context.Context) ([]model.MonthlyCount, error) {
	return r.monthlyCounts(ctx, "users")
}

// CoursesLast12Months returns monthly course creation counts.
func (r *AnalyticsRepo) CoursesLast12Months(ctx context.Context) ([]model.MonthlyCount, error) {
	return r.monthlyCounts(ctx, "courses")
}

// OrdersLast12Months returns monthly order counts.
func (r *AnalyticsRepo) OrdersLast12Months(ctx context.Context) ([]model.MonthlyCount, error) {
	return r.monthlyCounts(ctx, "orders")
}

// monthlyCounts buckets rows of the given table by creation month. The
// table name comes from the fixed callers above, never user input.
func (r *AnalyticsRepo) monthlyCounts(ctx context.Context, table string) ([]model.MonthlyCount, error) {
	query := fmt.Sprintf(`
		SELECT to_char(months.month, 'YYYY-MM') AS month,
		       COUNT(t.id) AS count
		FROM generate_series(
			date_trunc('month', now()) - interval '11 months',
			date_trunc('month', now()),
			interval '1 month') AS months(month)
		LEFT JOIN %s t ON date_trunc('month', t.created_at) = months.month
		GROUP BY months.month
		ORDER BY months.month`, table)

	var out []model.MonthlyCount
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.MonthlyCount])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to count %s by month: %w", table, err)
	}
	return out, nil
}
