package httpx

import (
	"net/http"

	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
	"github.com/openlearn/lms-api/internal/service"
)

// LayoutHandlers provides HTTP handlers for the singleton page fragments.
type LayoutHandlers struct {
	Svc *service.LayoutService
}

// Upsert handles POST /layout and PUT /layout (admin). Both create and edit
// replace the record for the request's type.
func (h *LayoutHandlers) Upsert(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertLayoutRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	layout, err := h.Svc.Upsert(r.Context(), req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	WriteJSON(w, status, map[string]any{"layout": layout})
}

// GetByType handles GET /layout/{type}.
func (h *LayoutHandlers) GetByType(w http.ResponseWriter, r *http.Request) {
	typeName := r.PathValue("type")
	if typeName == "" {
		RenderError(w, r, apperrors.ValidationField("type", "Layout type is required"))
		return
	}

	layout, err := h.Svc.GetByType(r.Context(), typeName)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"layout": layout})
}
