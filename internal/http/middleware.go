package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	jwtadapter "github.com/openlearn/lms-api/internal/adapters/jwt"
	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
	apperrors "github.com/openlearn/lms-api/internal/errors"
	"github.com/openlearn/lms-api/internal/ports"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Guard authenticates requests from the access-token cookie. The session
// cache is authoritative: a structurally valid token whose session entry is
// gone is rejected as revoked.
type Guard struct {
	Tokens   ports.TokenService
	Sessions ports.SessionCache
	Logger   *slog.Logger
}

func (g *Guard) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// RequireAuth returns a middleware that rejects unauthenticated requests
// with 401 and attaches the identity snapshot to the request context.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := g.authenticate(r)
		if err != nil {
			RenderError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(SetIdentityInContext(r.Context(), identity)))
	})
}

// RequireRole returns a middleware that additionally checks role membership.
// An unauthenticated request is 401, never 403; an authenticated request
// without the role is 403 naming the missing role.
func (g *Guard) RequireRole(roles ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := g.authenticate(r)
			if err != nil {
				RenderError(w, r, err)
				return
			}

			if !roleAllowed(identity.Role, roles) {
				RenderError(w, r, apperrors.Forbiddenf(
					"Role %q is not allowed to access this resource", identity.Role))
				return
			}

			next.ServeHTTP(w, r.WithContext(SetIdentityInContext(r.Context(), identity)))
		})
	}
}

// authenticate verifies the access cookie and loads the live session entry.
func (g *Guard) authenticate(r *http.Request) (domainauth.Identity, error) {
	cookie, err := r.Cookie(accessTokenCookie)
	if err != nil {
		return domainauth.Identity{}, apperrors.Unauthenticated("Please log in to access this resource")
	}

	subjectID, err := g.Tokens.Verify(cookie.Value, domainauth.TokenAccess)
	if err != nil {
		if errors.Is(err, jwtadapter.ErrTokenExpired) {
			g.logger().DebugContext(r.Context(), "access token expired")
		} else {
			g.logger().WarnContext(r.Context(), "access token rejected", "error", err)
		}
		return domainauth.Identity{}, apperrors.Unauthenticated("Access token is not valid")
	}

	identity, err := g.Sessions.Get(r.Context(), subjectID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			g.logger().ErrorContext(r.Context(), "session lookup failed", "error", err)
		}
		return domainauth.Identity{}, apperrors.Unauthenticated("Session expired, please log in")
	}

	return identity, nil
}

func roleAllowed(role domainauth.Role, allowed []domainauth.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
