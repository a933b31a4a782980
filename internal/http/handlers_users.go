package httpx

import (
	"net/http"

	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
	"github.com/openlearn/lms-api/internal/service"
)

const maxUserListLimit = 100

// UserHandlers provides HTTP handlers for profile and admin user operations.
type UserHandlers struct {
	Svc *service.UserService
}

// Me handles GET /me. The profile is served from the session cache when a
// live snapshot exists.
func (h *UserHandlers) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		RenderError(w, r, apperrors.Unauthenticated("Please log in to access this resource"))
		return
	}

	profile, err := h.Svc.Profile(r.Context(), identity.ID)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"user": profile})
}

// UpdateInfo handles PUT /update-user-info.
func (h *UserHandlers) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		RenderError(w, r, apperrors.Unauthenticated("Please log in to access this resource"))
		return
	}

	var req model.UpdateProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.UpdateProfile(r.Context(), identity.ID, req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

// UpdatePassword handles PUT /update-user-password.
func (h *UserHandlers) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		RenderError(w, r, apperrors.Unauthenticated("Please log in to access this resource"))
		return
	}

	var req model.UpdatePasswordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.UpdatePassword(r.Context(), identity.ID, req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

// UpdateAvatar handles PUT /update-user-avatar.
func (h *UserHandlers) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		RenderError(w, r, apperrors.Unauthenticated("Please log in to access this resource"))
		return
	}

	var req model.UpdateAvatarRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.UpdateAvatar(r.Context(), identity.ID, req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

// List handles GET /users (admin).
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxUserListLimit)

	users, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateRole handles PUT /update-user-role (admin).
func (h *UserHandlers) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateRoleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.UpdateRole(r.Context(), req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Delete handles DELETE /users/{id} (admin).
func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		RenderError(w, r, apperrors.ValidationField("id", "User id is required"))
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
