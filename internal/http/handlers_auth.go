package httpx

import (
	"log/slog"
	"net/http"

	"github.com/openlearn/lms-api/internal/domain/model"
	apperrors "github.com/openlearn/lms-api/internal/errors"
	"github.com/openlearn/lms-api/internal/service"
)

// AuthHandlers provides HTTP handlers for registration, login, social auth,
// logout, and token refresh.
type AuthHandlers struct {
	Svc     *service.AuthService
	Cookies CookieSettings
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Register handles POST /registration. Nothing is persisted: the candidate
// rides inside the returned activation token until the code is confirmed.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	token, err := h.Svc.Register(r.Context(), &req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"message":          "Check your email for the activation code",
		"activation_token": token,
	})
}

// Activate handles POST /activate-user.
func (h *AuthHandlers) Activate(w http.ResponseWriter, r *http.Request) {
	var req model.ActivateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.Activate(r.Context(), &req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// Login handles POST /login. On success both token cookies are set and the
// access token is echoed in the body.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, pair, err := h.Svc.Login(r.Context(), &req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	SetAuthCookies(w, pair, h.Cookies)
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":         user,
		"access_token": pair.AccessToken,
	})
}

// SocialAuth handles POST /social-auth. First-sight identities get an
// account created before the session starts.
func (h *AuthHandlers) SocialAuth(w http.ResponseWriter, r *http.Request) {
	var req model.SocialAuthRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, pair, err := h.Svc.SocialAuth(r.Context(), &req)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	SetAuthCookies(w, pair, h.Cookies)
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":         user,
		"access_token": pair.AccessToken,
	})
}

// Logout handles GET /logout. Deleting the session entry revokes every
// outstanding token for the subject.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		RenderError(w, r, apperrors.Unauthenticated("Please log in to access this resource"))
		return
	}

	if err := h.Svc.Logout(r.Context(), identity.ID); err != nil {
		RenderError(w, r, err)
		return
	}

	ClearAuthCookies(w, h.Cookies)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Refresh handles GET /refresh. It runs outside the guard: the access token
// may be long expired, only the refresh cookie and a live session entry
// matter. A new pair is minted with expiries computed from now.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		RenderError(w, r, apperrors.Unauthenticated("Could not refresh token"))
		return
	}

	pair, err := h.Svc.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.logger().DebugContext(r.Context(), "token refresh rejected", "error", err)
		RenderError(w, r, err)
		return
	}

	SetAuthCookies(w, pair, h.Cookies)
	WriteJSON(w, http.StatusOK, map[string]string{"access_token": pair.AccessToken})
}
