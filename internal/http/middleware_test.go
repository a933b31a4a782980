package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
)

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGuard_RequireAuth(t *testing.T) {
	t.Run("missing cookie is unauthorized", func(t *testing.T) {
		f := newRouterFixture(t)

		rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthenticated", decodeErrorBody(t, rec)["error"])
	})

	t.Run("malformed token is unauthorized", func(t *testing.T) {
		f := newRouterFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "garbage"})
		rec := f.do(req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token cannot pass as access token", func(t *testing.T) {
		f := newRouterFixture(t)
		f.loginAs(t, domainauth.Identity{ID: "user-1", Role: domainauth.RoleUser})
		refresh, err := f.tokens.IssueRefreshToken("user-1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: refresh})
		rec := f.do(req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token with deleted session is revoked", func(t *testing.T) {
		f := newRouterFixture(t)
		cookie := f.loginAs(t, domainauth.Identity{ID: "user-1", Role: domainauth.RoleUser})
		require.NoError(t, f.sessions.Delete(t.Context(), "user-1"))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.AddCookie(cookie)
		rec := f.do(req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, decodeErrorBody(t, rec)["message"], "Session expired")
	})
}

func TestGuard_RequireRole(t *testing.T) {
	t.Run("user role on an admin route is forbidden, not unauthorized", func(t *testing.T) {
		f := newRouterFixture(t)
		cookie := f.loginAs(t, domainauth.Identity{ID: "user-1", Role: domainauth.RoleUser})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		req.AddCookie(cookie)
		rec := f.do(req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeErrorBody(t, rec)
		assert.Equal(t, "forbidden", body["error"])
		assert.Contains(t, body["message"], `"user"`)
	})

	t.Run("missing credential on an admin route is unauthorized, never forbidden", func(t *testing.T) {
		f := newRouterFixture(t)

		rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin role passes", func(t *testing.T) {
		f := newRouterFixture(t)
		cookie := f.loginAs(t, domainauth.Identity{ID: "admin-1", Role: domainauth.RoleAdmin})
		f.users.EXPECT().List(gomock.Any(), 50, 0).Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		req.AddCookie(cookie)
		rec := f.do(req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
