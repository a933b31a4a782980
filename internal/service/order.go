package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openlearn/lms-api/internal/core"
	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
	"github.com/openlearn/lms-api/internal/ports"
)

// OrderServiceOptions groups dependencies for OrderService.
type OrderServiceOptions struct {
	Orders        core.OrderRepository        // Required: order repository
	Courses       core.CourseRepository       // Required: course lookup and purchase counter
	Users         core.UserRepository         // Required: ownership grant
	Sessions      ports.SessionCache          // Required: session snapshot refresh
	Cache         core.CacheRepository        // Required: course projection invalidation
	Notifications core.NotificationRepository // Optional: admin notification records
	Mailer        ports.Mailer                // Optional: order confirmation mail
	Logger        *slog.Logger                // Optional: structured logger
}

// OrderService handles course purchases. A purchase persists the order,
// grants the course to the buyer, refreshes their session snapshot so the
// new ownership is visible without re-login, and bumps the purchase counter.
type OrderService struct {
	orders        core.OrderRepository
	courses       core.CourseRepository
	users         core.UserRepository
	sessions      ports.SessionCache
	cache         core.CacheRepository
	notifications core.NotificationRepository
	mailer        ports.Mailer
	logger        *slog.Logger
}

// NewOrderService constructs a new OrderService.
func NewOrderService(opts OrderServiceOptions) (*OrderService, error) {
	if opts.Orders == nil {
		return nil, errors.New("OrderRepository is required")
	}
	if opts.Courses == nil {
		return nil, errors.New("CourseRepository is required")
	}
	if opts.Users == nil {
		return nil, errors.New("UserRepository is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("SessionCache is required")
	}
	if opts.Cache == nil {
		return nil, errors.New("CacheRepository is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &OrderService{
		orders:        opts.Orders,
		courses:       opts.Courses,
		users:         opts.Users,
		sessions:      opts.Sessions,
		cache:         opts.Cache,
		notifications: opts.Notifications,
		mailer:        opts.Mailer,
		logger:        opts.Logger.With("component", "order_service"),
	}, nil
}

// Create records a purchase for the authenticated user.
func (s *OrderService) Create(ctx context.Context, identity domainauth.Identity, req model.CreateOrderRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	exists, err := s.orders.ExistsForUserCourse(ctx, identity.ID, course.ID)
	if err != nil {
		return nil, err
	}
	if exists || identity.Owns(course.ID) {
		return nil, apperrors.Conflict("You have already purchased this course")
	}

	order, err := s.orders.Create(ctx, &model.Order{
		CourseID:    course.ID,
		UserID:      identity.ID,
		PaymentInfo: req.PaymentInfo,
	})
	if err != nil {
		return nil, err
	}

	user, err := s.users.AddCourse(ctx, identity.ID, course.ID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, user.Identity()); err != nil {
		s.logger.ErrorContext(ctx, "session refresh after purchase failed",
			"user_id", identity.ID, "error", err)
	}

	if err := s.courses.IncrementPurchased(ctx, course.ID); err != nil {
		s.logger.ErrorContext(ctx, "purchase counter update failed",
			"course_id", course.ID, "error", err)
	}
	s.invalidateCourseCache(ctx, course.ID)

	s.sendConfirmation(ctx, user, order, course)
	s.recordNotification(ctx, identity, course)

	s.logger.InfoContext(ctx, "order created",
		"order_id", order.ID, "user_id", identity.ID, "course_id", course.ID)
	return order, nil
}

// List returns orders for the admin dashboard, newest first.
func (s *OrderService) List(ctx context.Context, limit, offset int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.orders.List(ctx, limit, offset)
}

// invalidateCourseCache drops the cached projections so the purchase count
// shows up on the next read. Best effort: the canonical write already
// succeeded and a stale counter is harmless.
func (s *OrderService) invalidateCourseCache(ctx context.Context, courseID string) {
	for _, key := range []string{courseCacheKey(courseID), courseCatalogCacheKey} {
		if _, err := s.cache.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "course cache invalidation failed", "key", key, "error", err)
		}
	}
}

func (s *OrderService) sendConfirmation(ctx context.Context, user *model.User, order *model.Order, course *model.Course) {
	if s.mailer == nil {
		return
	}

	err := s.mailer.Send(ctx, ports.Mail{
		To:       user.Email,
		Subject:  "Order confirmation",
		Template: "order_confirmation",
		Data: map[string]any{
			"Name":       user.Name,
			"OrderID":    order.ID,
			"CourseName": course.Name,
			"Price":      course.Price,
			"Date":       order.CreatedAt.Format("January 2, 2006"),
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "order confirmation mail failed",
			"order_id", order.ID, "error", err)
	}
}

func (s *OrderService) recordNotification(ctx context.Context, identity domainauth.Identity, course *model.Course) {
	if s.notifications == nil {
		return
	}

	n := &model.Notification{
		UserID:  identity.ID,
		Title:   "New Order",
		Message: fmt.Sprintf("%s purchased %s", identity.Name, course.Name),
	}
	if _, err := s.notifications.Create(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "order notification record failed", "error", err)
	}
}
