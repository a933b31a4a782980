package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
	"github.com/openlearn/lms-api/internal/ports"
	"github.com/openlearn/lms-api/internal/service"
)

// RouterServices holds the services and auth collaborators the router needs.
type RouterServices struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Courses       *service.CourseService
	Orders        *service.OrderService
	Notifications *service.NotificationService
	Layouts       *service.LayoutService
	Analytics     *service.AnalyticsService

	Tokens   ports.TokenService
	Sessions ports.SessionCache
	Cookies  CookieSettings
	Logger   *slog.Logger
}

// NewRouter builds the API mux. All routes mount under /api/v1; the guard
// middleware handles 401/403 before any handler runs.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	guard := &Guard{
		Tokens:   services.Tokens,
		Sessions: services.Sessions,
		Logger:   logger.With("component", "auth_guard"),
	}
	auth := guard.RequireAuth
	admin := guard.RequireRole(domainauth.RoleAdmin)

	authHandlers := &AuthHandlers{Svc: services.Auth, Cookies: services.Cookies, Logger: logger}
	userHandlers := &UserHandlers{Svc: services.Users}
	courseHandlers := &CourseHandlers{Svc: services.Courses}
	orderHandlers := &OrderHandlers{Svc: services.Orders}
	notificationHandlers := &NotificationHandlers{Svc: services.Notifications}
	layoutHandlers := &LayoutHandlers{Svc: services.Layouts}
	analyticsHandlers := &AnalyticsHandlers{Svc: services.Analytics}

	mux := http.NewServeMux()

	// Auth
	mux.Handle("POST /api/v1/registration", http.HandlerFunc(authHandlers.Register))
	mux.Handle("POST /api/v1/activate-user", http.HandlerFunc(authHandlers.Activate))
	mux.Handle("POST /api/v1/login", http.HandlerFunc(authHandlers.Login))
	mux.Handle("POST /api/v1/social-auth", http.HandlerFunc(authHandlers.SocialAuth))
	mux.Handle("GET /api/v1/logout", auth(http.HandlerFunc(authHandlers.Logout)))
	mux.Handle("GET /api/v1/refresh", http.HandlerFunc(authHandlers.Refresh))

	// Users
	mux.Handle("GET /api/v1/me", auth(http.HandlerFunc(userHandlers.Me)))
	mux.Handle("PUT /api/v1/update-user-info", auth(http.HandlerFunc(userHandlers.UpdateInfo)))
	mux.Handle("PUT /api/v1/update-user-password", auth(http.HandlerFunc(userHandlers.UpdatePassword)))
	mux.Handle("PUT /api/v1/update-user-avatar", auth(http.HandlerFunc(userHandlers.UpdateAvatar)))
	mux.Handle("GET /api/v1/users", admin(http.HandlerFunc(userHandlers.List)))
	mux.Handle("PUT /api/v1/update-user-role", admin(http.HandlerFunc(userHandlers.UpdateRole)))
	mux.Handle("DELETE /api/v1/users/{id}", admin(http.HandlerFunc(userHandlers.Delete)))

	// Courses
	mux.Handle("POST /api/v1/create-course", admin(http.HandlerFunc(courseHandlers.Create)))
	mux.Handle("PUT /api/v1/edit-course/{id}", admin(http.HandlerFunc(courseHandlers.Update)))
	mux.Handle("GET /api/v1/courses/{id}", http.HandlerFunc(courseHandlers.GetView))
	mux.Handle("GET /api/v1/courses", http.HandlerFunc(courseHandlers.ListViews))
	mux.Handle("GET /api/v1/course-content/{id}", auth(http.HandlerFunc(courseHandlers.GetContent)))
	mux.Handle("PUT /api/v1/add-question", auth(http.HandlerFunc(courseHandlers.AddQuestion)))
	mux.Handle("PUT /api/v1/add-answer", auth(http.HandlerFunc(courseHandlers.AddAnswer)))
	mux.Handle("PUT /api/v1/add-review/{id}", auth(http.HandlerFunc(courseHandlers.AddReview)))
	mux.Handle("PUT /api/v1/add-review-reply", admin(http.HandlerFunc(courseHandlers.AddReviewReply)))
	mux.Handle("GET /api/v1/all-courses", admin(http.HandlerFunc(courseHandlers.ListAll)))
	mux.Handle("DELETE /api/v1/courses/{id}", admin(http.HandlerFunc(courseHandlers.Delete)))

	// Orders
	mux.Handle("POST /api/v1/create-order", auth(http.HandlerFunc(orderHandlers.Create)))
	mux.Handle("GET /api/v1/orders", admin(http.HandlerFunc(orderHandlers.List)))

	// Notifications
	mux.Handle("GET /api/v1/notifications", admin(http.HandlerFunc(notificationHandlers.List)))
	mux.Handle("PUT /api/v1/notifications/{id}", admin(http.HandlerFunc(notificationHandlers.MarkRead)))

	// Layouts
	mux.Handle("POST /api/v1/layout", admin(http.HandlerFunc(layoutHandlers.Upsert)))
	mux.Handle("PUT /api/v1/layout", admin(http.HandlerFunc(layoutHandlers.Upsert)))
	mux.Handle("GET /api/v1/layout/{type}", http.HandlerFunc(layoutHandlers.GetByType))

	// Analytics
	mux.Handle("GET /api/v1/analytics/users", admin(http.HandlerFunc(analyticsHandlers.Users)))
	mux.Handle("GET /api/v1/analytics/courses", admin(http.HandlerFunc(analyticsHandlers.Courses)))
	mux.Handle("GET /api/v1/analytics/orders", admin(http.HandlerFunc(analyticsHandlers.Orders)))
	mux.Handle("GET /api/v1/analytics/dashboard", admin(http.HandlerFunc(analyticsHandlers.Dashboard)))

	// Health
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}
