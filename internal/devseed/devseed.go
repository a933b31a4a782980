// Package devseed populates a development database with a known admin
// account, sample courses, and home page layouts so a fresh checkout is
// immediately usable. It never runs outside development mode.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/openlearn/lms-api/internal/data"
	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
)

// Services bundles the repositories needed for development seeding.
type Services struct {
	DB      *sql.DB
	users   *data.UserRepo
	courses *data.CourseRepo
	layouts *data.LayoutRepo
}

// NewServices constructs the repositories for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:      db,
		users:   data.NewUserRepo(db),
		courses: data.NewCourseRepo(db),
		layouts: data.NewLayoutRepo(db),
	}
}

// Run executes the full development seeding workflow against the provided DB.
// Seeding is idempotent: records that already exist are left alone.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	failures := 0
	failures += seedUsers(ctx, svcs.users, logger)
	failures += seedCourses(ctx, svcs.courses, logger)
	failures += seedLayouts(ctx, svcs.layouts, logger)
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

type seedUser struct {
	Name     string
	Email    string
	Password string
	Role     domainauth.Role
}

func defaultUsers() []seedUser {
	return []seedUser{
		{Name: "Dev Admin", Email: "admin@localhost", Password: "admin123", Role: domainauth.RoleAdmin},
		{Name: "Dev Learner", Email: "learner@localhost", Password: "learner123", Role: domainauth.RoleUser},
	}
}

func seedUsers(ctx context.Context, repo *data.UserRepo, logger *slog.Logger) int {
	failures := 0
	for _, seed := range defaultUsers() {
		created, err := createUser(ctx, repo, seed)
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed user", "email", seed.Email, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			msg := "user already exists"
			if created {
				msg = "created user"
			}
			logger.InfoContext(ctx, msg, "email", seed.Email, "role", seed.Role)
		}
	}
	return failures
}

func createUser(ctx context.Context, repo *data.UserRepo, seed seedUser) (bool, error) {
	if _, err := repo.GetByEmail(ctx, seed.Email); err == nil {
		return false, nil
	} else if !apperrors.IsNotFound(err) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         seed.Name,
		Email:        seed.Email,
		PasswordHash: string(hash),
		Role:         seed.Role,
		IsVerified:   true,
	}
	if _, err := repo.Create(ctx, user); err != nil {
		if apperrors.IsConflict(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func defaultCourses() []*model.CreateCourseRequest {
	return []*model.CreateCourseRequest{
		{
			Name:          "Go for Backend Developers",
			Description:   "Build production HTTP services in Go, from routing to graceful shutdown.",
			Category:      "Programming",
			Price:         49,
			Level:         "Intermediate",
			Tags:          "go,backend,http",
			Benefits:      []string{"Ship a complete REST API", "Understand context and cancellation"},
			Prerequisites: []string{"Basic programming experience"},
			Sections: []model.Section{
				{Title: "Getting Started", Description: "Tooling and project layout", VideoURL: "dev/go-01.mp4", VideoLength: 540},
				{Title: "HTTP Services", Description: "Handlers, middleware, errors", VideoURL: "dev/go-02.mp4", VideoLength: 780},
			},
		},
		{
			Name:        "PostgreSQL Fundamentals",
			Description: "Schema design, indexing, and query tuning for application developers.",
			Category:    "Databases",
			Price:       29,
			Level:       "Beginner",
			Tags:        "postgres,sql",
			Sections: []model.Section{
				{Title: "Relational Basics", VideoURL: "dev/pg-01.mp4", VideoLength: 600},
			},
		},
	}
}

func seedCourses(ctx context.Context, repo *data.CourseRepo, logger *slog.Logger) int {
	existing, err := repo.List(ctx)
	if err != nil {
		if logger != nil {
			logger.ErrorContext(ctx, "failed to list courses for seeding", "error", err)
		}
		return 1
	}
	byName := make(map[string]bool, len(existing))
	for _, c := range existing {
		byName[c.Name] = true
	}

	failures := 0
	for _, req := range defaultCourses() {
		if byName[req.Name] {
			if logger != nil {
				logger.InfoContext(ctx, "course already exists", "name", req.Name)
			}
			continue
		}
		if _, err := repo.Create(ctx, req); err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed course", "name", req.Name, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "created course", "name", req.Name)
		}
	}
	return failures
}

func defaultLayouts() []model.Layout {
	return []model.Layout{
		{
			Type: model.LayoutBanner,
			Banner: &model.Banner{
				ImageURL: "dev/banner.png",
				Title:    "Learn something new today",
				Subtitle: "Development environment",
			},
		},
		{
			Type: model.LayoutFAQ,
			FAQ: []model.FAQItem{
				{Question: "Is this real data?", Answer: "No, this environment is seeded for development."},
			},
		},
		{
			Type: model.LayoutCategories,
			Categories: []model.CategoryItem{
				{Title: "Programming"},
				{Title: "Databases"},
			},
		},
	}
}

func seedLayouts(ctx context.Context, repo *data.LayoutRepo, logger *slog.Logger) int {
	failures := 0
	for _, layout := range defaultLayouts() {
		if existing, err := repo.GetByType(ctx, layout.Type); err == nil && existing != nil {
			if logger != nil {
				logger.InfoContext(ctx, "layout already exists", "type", layout.Type)
			}
			continue
		} else if err != nil && !apperrors.IsNotFound(err) {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to check layout", "type", layout.Type, "error", err)
			}
			failures++
			continue
		}
		if _, err := repo.Upsert(ctx, layout); err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed layout", "type", layout.Type, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "created layout", "type", layout.Type)
		}
	}
	return failures
}
