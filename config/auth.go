package config

import "time"

// SocialConfig contains OIDC configuration for social login.
// ID tokens obtained by the frontend are verified server-side against the
// issuer's published keys.
type SocialConfig struct {
	ClientID  string `env:"CLIENT_ID"`
	IssuerURL string `env:"ISSUER_URL" envDefault:"https://accounts.google.com"`
}

// Enabled reports whether social login is configured.
func (s SocialConfig) Enabled() bool {
	return s.ClientID != ""
}

// AuthConfig groups all authentication-related configuration.
//
// Each token kind signs with its own secret so a leaked access secret
// cannot mint refresh or activation tokens.
type AuthConfig struct {
	// AccessTokenSecret signs short-lived access tokens.
	AccessTokenSecret string `env:"ACCESS_TOKEN_SECRET,required"`

	// RefreshTokenSecret signs refresh tokens.
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET,required"`

	// ActivationTokenSecret signs account activation tokens.
	ActivationTokenSecret string `env:"ACTIVATION_TOKEN_SECRET,required"`

	// AccessTokenTTL is the lifetime of an access token.
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"5m"`

	// RefreshTokenTTL is the lifetime of a refresh token.
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"72h"`

	// ActivationTokenTTL is the lifetime of an activation token and its code.
	ActivationTokenTTL time.Duration `env:"ACTIVATION_TOKEN_TTL" envDefault:"5m"`

	// SessionTTL is the Redis session lifetime. It must outlive the refresh
	// token so a valid refresh token always finds its session.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// Social login configuration.
	Social SocialConfig `envPrefix:"SOCIAL_"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.AccessTokenTTL < time.Minute {
		a.AccessTokenTTL = time.Minute
	}
	if a.RefreshTokenTTL < time.Hour {
		a.RefreshTokenTTL = time.Hour
	}
	if a.ActivationTokenTTL < time.Minute {
		a.ActivationTokenTTL = time.Minute
	}
	// Sessions shorter than the refresh token would strand valid tokens.
	if a.SessionTTL < a.RefreshTokenTTL {
		a.SessionTTL = a.RefreshTokenTTL
	}
}
