package httpx

import (
	"net/http"
	"time"

	"github.com/openlearn/lms-api/internal/ports"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// CookieSettings carries the knobs shared by every auth cookie.
type CookieSettings struct {
	Domain     string
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// SetAuthCookies writes the access and refresh token cookies. MaxAge tracks
// the token lifetime so the browser drops them alongside expiry.
func SetAuthCookies(w http.ResponseWriter, pair ports.TokenPair, settings CookieSettings) {
	http.SetCookie(w, authCookie(accessTokenCookie, pair.AccessToken, settings.AccessTTL, settings))
	http.SetCookie(w, authCookie(refreshTokenCookie, pair.RefreshToken, settings.RefreshTTL, settings))
}

// ClearAuthCookies expires both token cookies.
func ClearAuthCookies(w http.ResponseWriter, settings CookieSettings) {
	http.SetCookie(w, authCookie(accessTokenCookie, "", -time.Second, settings))
	http.SetCookie(w, authCookie(refreshTokenCookie, "", -time.Second, settings))
}

func authCookie(name, value string, ttl time.Duration, settings CookieSettings) *http.Cookie {
	maxAge := int(ttl.Seconds())
	if value == "" {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   settings.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   settings.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
