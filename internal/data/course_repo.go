package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/openlearn/lms-api/internal/data/pgxutil"
	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
)

// CourseRepo provides database operations for courses. Sections and reviews
// are JSONB documents replaced wholesale; callers resolve concurrent edits
// last-write-wins.
type CourseRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCourseRepo creates a new CourseRepo with real time provider.
func NewCourseRepo(db *sql.DB) *CourseRepo {
	return &CourseRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewCourseRepoWithTimeProvider creates a new CourseRepo with a custom time provider (useful for tests).
func NewCourseRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *CourseRepo {
	return &CourseRepo{DB: db, timeProvider: tp}
}

// Create inserts a new course. Sections without ids are assigned one.
func (r *CourseRepo) Create(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	if req == nil {
		return nil, errors.New("create course request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sections := req.Sections
	for i := range sections {
		if sections[i].ID == "" {
			sections[i].ID = uuid.NewString()
		}
	}

	benefits, err := marshalStringList(req.Benefits)
	if err != nil {
		return nil, fmt.Errorf("marshal benefits: %w", err)
	}
	prerequisites, err := marshalStringList(req.Prerequisites)
	if err != nil {
		return nil, fmt.Errorf("marshal prerequisites: %w", err)
	}
	sectionsDoc, err := marshalSections(sections)
	if err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.Course
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO courses (
				name, description, category, price, estimated_price, thumbnail_url,
				tags, level, demo_url, benefits, prerequisites, sections,
				reviews, ratings, purchased, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, '[]'::jsonb, 0, 0, $13, $13
			) RETURNING `+courseColumnList,
			strings.TrimSpace(req.Name),
			req.Description,
			req.Category,
			req.Price,
			req.EstimatedPrice,
			req.ThumbnailURL,
			req.Tags,
			req.Level,
			req.DemoURL,
			benefits,
			prerequisites,
			sectionsDoc,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Course])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a course by ID.
func (r *CourseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, courseGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		course, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Course])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Course not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &course, nil
}

// List retrieves all courses, newest first.
func (r *CourseRepo) List(ctx context.Context) ([]*model.Course, error) {
	var rowsOut []model.Course
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, courseListQuery)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Course])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	res := make([]*model.Course, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates scalar fields and optional document replacements.
func (r *CourseRepo) Update(ctx context.Context, id string, req model.UpdateCourseRequest) (*model.Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setClause, args, err := r.buildUpdateClause(req)
	if err != nil {
		return nil, err
	}
	if setClause == "" {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := "UPDATE courses SET " + setClause +
		" WHERE id = $" + strconv.Itoa(len(args)) + " RETURNING " + courseColumnList

	return r.returningOne(ctx, query, args...)
}

// buildUpdateClause builds the SQL SET clause and args for updating a course based on the request.
func (r *CourseRepo) buildUpdateClause(req model.UpdateCourseRequest) (string, []any, error) {
	setParts := make([]string, 0, 13)
	args := make([]any, 0, 14)
	nextIdx := func() int { return len(args) + 1 }
	set := func(col string, val any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, nextIdx()))
		args = append(args, val)
	}

	if req.Name != nil {
		set("name", strings.TrimSpace(*req.Name))
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.Category != nil {
		set("category", *req.Category)
	}
	if req.Price != nil {
		set("price", *req.Price)
	}
	if req.EstimatedPrice != nil {
		set("estimated_price", *req.EstimatedPrice)
	}
	if req.ThumbnailURL != nil {
		set("thumbnail_url", *req.ThumbnailURL)
	}
	if req.Tags != nil {
		set("tags", *req.Tags)
	}
	if req.Level != nil {
		set("level", *req.Level)
	}
	if req.DemoURL != nil {
		set("demo_url", *req.DemoURL)
	}
	if req.Benefits != nil {
		doc, err := marshalStringList(*req.Benefits)
		if err != nil {
			return "", nil, fmt.Errorf("marshal benefits: %w", err)
		}
		set("benefits", doc)
	}
	if req.Prerequisites != nil {
		doc, err := marshalStringList(*req.Prerequisites)
		if err != nil {
			return "", nil, fmt.Errorf("marshal prerequisites: %w", err)
		}
		set("prerequisites", doc)
	}
	if req.Sections != nil {
		sections := *req.Sections
		for i := range sections {
			if sections[i].ID == "" {
				sections[i].ID = uuid.NewString()
			}
		}
		doc, err := marshalSections(sections)
		if err != nil {
			return "", nil, err
		}
		set("sections", doc)
	}

	if len(setParts) == 0 {
		return "", nil, nil
	}
	set("updated_at", r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args, nil
}

// ReplaceSections replaces the sections document, question threads included.
func (r *CourseRepo) ReplaceSections(ctx context.Context, id string, sections []model.Section) (*model.Course, error) {
	doc, err := marshalSections(sections)
	if err != nil {
		return nil, err
	}
	return r.returningOne(ctx, `
		UPDATE courses SET sections = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+courseColumnList,
		id, doc, r.timeProvider.Now().UTC())
}

// ReplaceReviews replaces the reviews document and the derived average rating.
func (r *CourseRepo) ReplaceReviews(ctx context.Context, id string, reviews []model.Review, ratings float64) (*model.Course, error) {
	if reviews == nil {
		reviews = []model.Review{}
	}
	doc, err := json.Marshal(reviews)
	if err != nil {
		return nil, fmt.Errorf("marshal reviews: %w", err)
	}
	return r.returningOne(ctx, `
		UPDATE courses SET reviews = $2, ratings = $3, updated_at = $4
		WHERE id = $1
		RETURNING `+courseColumnList,
		id, doc, ratings, r.timeProvider.Now().UTC())
}

// IncrementPurchased bumps the purchase counter.
func (r *CourseRepo) IncrementPurchased(ctx context.Context, id string) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			UPDATE courses SET purchased = purchased + 1, updated_at = $2
			WHERE id = $1`,
			id, r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("Course not found")
		}
		return apperrors.MapDBError(err)
	}
	return nil
}

// Delete deletes a course by ID.
func (r *CourseRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete course: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

const courseColumnList = `id, name, description, category, price, estimated_price, thumbnail_url,
		tags, level, demo_url, benefits, prerequisites, sections, reviews, ratings, purchased,
		created_at, updated_at`

const (
	courseGetByIDQuery = `
		SELECT ` + courseColumnList + `
		FROM courses
		WHERE id = $1`

	courseListQuery = `
		SELECT ` + courseColumnList + `
		FROM courses
		ORDER BY created_at DESC`
)

func (r *CourseRepo) returningOne(ctx context.Context, query string, args ...any) (*model.Course, error) {
	var out model.Course
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Course])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Course not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

func marshalSections(sections []model.Section) ([]byte, error) {
	if sections == nil {
		sections = []model.Section{}
	}
	doc, err := json.Marshal(sections)
	if err != nil {
		return nil, fmt.Errorf("marshal sections: %w", err)
	}
	return doc, nil
}
