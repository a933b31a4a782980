package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/openlearn/lms-api/internal/data/database"
	"github.com/openlearn/lms-api/internal/data/pgxutil"
	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
)

// UserRepo provides database operations for user accounts.
// Purchased course ids live in a JSONB column so membership checks never
// need a join.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

// Create inserts a new user. A duplicate email maps to a conflict error.
func (r *UserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if user == nil {
		return nil, errors.New("user is required")
	}
	if !model.ValidEmail(user.Email) {
		return nil, apperrors.ValidationField("email", "Please enter a valid email")
	}

	role := user.Role
	if role == "" {
		role = "user"
	}
	courseIDs, err := marshalStringList(user.CourseIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal course ids: %w", err)
	}

	now := r.timeProvider.Now().UTC()
	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (
				name, email, password_hash, avatar_url, role, is_verified, course_ids, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $8
			) RETURNING `+userColumnList,
			strings.TrimSpace(user.Name),
			strings.ToLower(strings.TrimSpace(user.Email)),
			user.PasswordHash,
			user.AvatarURL,
			role,
			user.IsVerified,
			courseIDs,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getByQuery(ctx, userGetByIDQuery, id)
}

// GetByEmail retrieves a user by email. Lookups are case-insensitive.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getByQuery(ctx, userGetByEmailQuery, strings.ToLower(strings.TrimSpace(email)))
}

// List retrieves users with pagination, newest first.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	if limit <= 0 {
		limit = 50
	}
	offset = max(offset, 0)

	query, args := database.BuildListQuery(database.NewListQueryOptions("users",
		database.WithColumns(userColumns()...),
		database.WithOrderBy("created_at", "DESC"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	))

	var rowsOut []model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	res := make([]*model.User, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// UpdateProfile updates name and/or email.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setParts := make([]string, 0, 3)
	args := make([]any, 0, 4)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, strings.ToLower(strings.TrimSpace(*req.Email)))
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE users SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) + " RETURNING " + userColumnList

	return r.returningOne(ctx, query, args...)
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) (*model.User, error) {
	return r.returningOne(ctx, `
		UPDATE users SET password_hash = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+userColumnList,
		id, passwordHash, r.timeProvider.Now().UTC())
}

// UpdateAvatar replaces the avatar reference.
func (r *UserRepo) UpdateAvatar(ctx context.Context, id, avatarURL string) (*model.User, error) {
	return r.returningOne(ctx, `
		UPDATE users SET avatar_url = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+userColumnList,
		id, avatarURL, r.timeProvider.Now().UTC())
}

// UpdateRole changes the user's role.
func (r *UserRepo) UpdateRole(ctx context.Context, id string, role string) (*model.User, error) {
	return r.returningOne(ctx, `
		UPDATE users SET role = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+userColumnList,
		id, role, r.timeProvider.Now().UTC())
}

// AddCourse appends a course id to the user's purchased list. Adding a
// course the user already owns is a no-op. The row is locked for the
// read-modify-write so concurrent purchases cannot drop entries.
func (r *UserRepo) AddCourse(ctx context.Context, id, courseID string) (*model.User, error) {
	if courseID == "" {
		return nil, apperrors.Validation("Course id is required")
	}

	var out model.User
	err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		var raw []byte
		if err := tx.QueryRow(ctx,
			`SELECT course_ids FROM users WHERE id = $1 FOR UPDATE`, id,
		).Scan(&raw); err != nil {
			return err
		}

		var courseIDs []string
		if err := json.Unmarshal(raw, &courseIDs); err != nil {
			return fmt.Errorf("unmarshal course ids: %w", err)
		}

		owned := false
		for _, existing := range courseIDs {
			if existing == courseID {
				owned = true
				break
			}
		}
		if !owned {
			courseIDs = append(courseIDs, courseID)
		}

		updated, err := marshalStringList(courseIDs)
		if err != nil {
			return fmt.Errorf("marshal course ids: %w", err)
		}

		rows, err := tx.Query(ctx, `
			UPDATE users SET course_ids = $2, updated_at = $3
			WHERE id = $1
			RETURNING `+userColumnList,
			id, updated, r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Delete deletes a user by ID. Orders referencing the user cascade.
func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

const userColumnList = `id, name, email, password_hash, avatar_url, role, is_verified, course_ids, created_at, updated_at`

const (
	userGetByIDQuery = `
		SELECT ` + userColumnList + `
		FROM users
		WHERE id = $1`

	userGetByEmailQuery = `
		SELECT ` + userColumnList + `
		FROM users
		WHERE email = $1`
)

func userColumns() []string {
	return []string{
		"id",
		"name",
		"email",
		"password_hash",
		"avatar_url",
		"role",
		"is_verified",
		"course_ids",
		"created_at",
		"updated_at",
	}
}

func (r *UserRepo) getByQuery(ctx context.Context, q string, args ...any) (*model.User, error) {
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &user, nil
}

func (r *UserRepo) returningOne(ctx context.Context, query string, args ...any) (*model.User, error) {
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// marshalStringList encodes a string slice as a JSONB document, normalizing
// nil to an empty list.
func marshalStringList(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}
