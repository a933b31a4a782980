package httpx

import (
	"net/http"

	apperrors "github.com/openlearn/lms-api/internal/errors"
	"github.com/openlearn/lms-api/internal/service"
)

const maxNotificationListLimit = 100

// NotificationHandlers provides HTTP handlers for the admin notification feed.
type NotificationHandlers struct {
	Svc *service.NotificationService
}

// List handles GET /notifications (admin). Newest first.
func (h *NotificationHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxNotificationListLimit)

	notifications, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"limit":         limit,
		"offset":        offset,
	})
}

// MarkRead handles PUT /notifications/{id} (admin). A no-op on rows that are
// already read.
func (h *NotificationHandlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		RenderError(w, r, apperrors.ValidationField("id", "Notification id is required"))
		return
	}

	notification, err := h.Svc.MarkRead(r.Context(), id)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"notification": notification})
}
