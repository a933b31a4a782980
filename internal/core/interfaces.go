// Package core defines the contracts between the service layer and the data
// layer (ports in hexagonal architecture). Services depend on these
// interfaces, never on concrete repositories.
package core

import (
	"context"
	"time"

	"github.com/openlearn/lms-api/internal/domain/model"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByEmail returns NotFound when no account exists for the email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]*model.User, error)
	UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) (*model.User, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) (*model.User, error)
	UpdateRole(ctx context.Context, id string, role string) (*model.User, error)
	// AddCourse appends a course to the user's owned list and returns the
	// updated record. Adding an already-owned course is a no-op.
	AddCourse(ctx context.Context, id, courseID string) (*model.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CourseRepository defines the interface for course data operations.
type CourseRepository interface {
	Create(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error)
	GetByID(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context) ([]*model.Course, error)
	Update(ctx context.Context, id string, req model.UpdateCourseRequest) (*model.Course, error)
	// ReplaceSections and ReplaceReviews persist mutated JSONB documents
	// after a question/answer/review mutation.
	ReplaceSections(ctx context.Context, id string, sections []model.Section) (*model.Course, error)
	ReplaceReviews(ctx context.Context, id string, reviews []model.Review, ratings float64) (*model.Course, error)
	IncrementPurchased(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) (bool, error)
}

// OrderRepository defines the interface for order data operations.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	List(ctx context.Context, limit, offset int) ([]*model.Order, error)
	// ExistsForUserCourse reports whether the user already purchased the course.
	ExistsForUserCourse(ctx context.Context, userID, courseID string) (bool, error)
}

// NotificationRepository defines the interface for notification data operations.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
	GetByID(ctx context.Context, id string) (*model.Notification, error)
	// List returns notifications newest first.
	List(ctx context.Context, limit, offset int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id string) (*model.Notification, error)
	// DeleteReadOlderThan hard-deletes read notifications created before the
	// cutoff and returns the number of rows removed. Unread rows are never
	// touched regardless of age.
	DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// LayoutRepository defines the interface for layout data operations.
type LayoutRepository interface {
	// Upsert replaces the singleton record for the layout's type.
	Upsert(ctx context.Context, layout model.Layout) (*model.Layout, error)
	GetByType(ctx context.Context, t model.LayoutType) (*model.Layout, error)
}

// AnalyticsRepository defines the interface for time-bucketed count queries.
type AnalyticsRepository interface {
	UsersLast12Months(ctx context.Context) ([]model.MonthlyCount, error)
	CoursesLast12Months(ctx context.Context) ([]model.MonthlyCount, error)
	OrdersLast12Months(ctx context.Context) ([]model.MonthlyCount, error)
}
