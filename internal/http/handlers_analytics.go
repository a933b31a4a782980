package httpx

import (
	"net/http"

	"github.com/openlearn/lms-api/internal/service"
)

// AnalyticsHandlers provides HTTP handlers for the admin growth series.
type AnalyticsHandlers struct {
	Svc *service.AnalyticsService
}

// Users handles GET /analytics/users (admin).
func (h *AnalyticsHandlers) Users(w http.ResponseWriter, r *http.Request) {
	series, err := h.Svc.Users(r.Context())
	if err != nil {
		RenderError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"users": series})
}

// Courses handles GET /analytics/courses (admin).
func (h *AnalyticsHandlers) Courses(w http.ResponseWriter, r *http.Request) {
	series, err := h.Svc.Courses(r.Context())
	if err != nil {
		RenderError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"courses": series})
}

// Orders handles GET /analytics/orders (admin).
func (h *AnalyticsHandlers) Orders(w http.ResponseWriter, r *http.Request) {
	series, err := h.Svc.Orders(r.Context())
	if err != nil {
		RenderError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"orders": series})
}

// Dashboard handles GET /analytics/dashboard (admin): all three series
// fetched concurrently.
func (h *AnalyticsHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.Dashboard(r.Context())
	if err != nil {
		RenderError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
