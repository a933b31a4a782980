package httpx

import (
	"net/http"

	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
	"github.com/openlearn/lms-api/internal/service"
)

const maxOrderListLimit = 100

// OrderHandlers provides HTTP handlers for purchases.
type OrderHandlers struct {
	Svc *service.OrderService
}

// Create handles POST /create-order.
func (h *OrderHandlers) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		RenderError(w, r, apperrors.Unauthenticated("Please log in to access this resource"))
		return
	}

	var req model.CreateOrderRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	order, err := h.Svc.Create(r.Context(), identity, req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"order": order})
}

// List handles GET /orders (admin).
func (h *OrderHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxOrderListLimit)

	orders, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}
