package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openlearn/lms-api/internal/data/pgxutil"
	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
)

// LayoutRepo provides database operations for page layout fragments.
// One row exists per layout type; Upsert replaces the variant payload.
type LayoutRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewLayoutRepo creates a new LayoutRepo with real time provider.
func NewLayoutRepo(db *sql.DB) *LayoutRepo {
	return &LayoutRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewLayoutRepoWithTimeProvider creates a new LayoutRepo with a custom time provider (useful for tests).
func NewLayoutRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *LayoutRepo {
	return &LayoutRepo{DB: db, timeProvider: tp}
}

// Upsert creates or replaces the layout of the given type.
func (r *LayoutRepo) Upsert(ctx context.Context, layout model.Layout) (*model.Layout, error) {
	if !layout.Type.Valid() {
		return nil, apperrors.ValidationField("type", "Unknown layout type")
	}

	var banner []byte
	if layout.Banner != nil {
		doc, err := json.Marshal(layout.Banner)
		if err != nil {
			return nil, fmt.Errorf("marshal banner: %w", err)
		}
		banner = doc
	}
	faq, err := marshalJSONList(layout.FAQ)
	if err != nil {
		return nil, fmt.Errorf("marshal faq: %w", err)
	}
	categories, err := marshalJSONList(layout.Categories)
	if err != nil {
		return nil, fmt.Errorf("marshal categories: %w", err)
	}

	now := r.timeProvider.Now().UTC()
	var out model.Layout
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO layouts (type, banner, faq, categories, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (type) DO UPDATE SET
				banner = EXCLUDED.banner,
				faq = EXCLUDED.faq,
				categories = EXCLUDED.categories,
				updated_at = EXCLUDED.updated_at
			RETURNING `+layoutColumnList,
			layout.Type,
			banner,
			faq,
			categories,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Layout])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByType retrieves the layout of the given type.
func (r *LayoutRepo) GetByType(ctx context.Context, t model.LayoutType) (*model.Layout, error) {
	var out model.Layout
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+layoutColumnList+`
			FROM layouts
			WHERE type = $1`, t)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Layout])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Layout not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

const layoutColumnList = `id, type, banner, faq, categories, created_at, updated_at`

// marshalJSONList encodes a slice as a JSONB document, normalizing nil to an
// empty list.
func marshalJSONList[T any](values []T) ([]byte, error) {
	if values == nil {
		values = []T{}
	}
	return json.Marshal(values)
}
