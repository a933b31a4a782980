package oidc

// Package oidc verifies provider-issued ID tokens for social login.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/openlearn/lms-api/internal/ports"
)

// Verifier implements ports.SocialVerifier against one OIDC issuer
// (Google by default). The client obtains the ID token; the API only
// verifies it and reads the profile claims.
type Verifier struct {
	verifier *gooidc.IDTokenVerifier
}

// VerifierConfig holds configuration for the social token verifier.
type VerifierConfig struct {
	// ClientID is the OAuth client the ID token must be issued for.
	ClientID string
	// IssuerURL is the OIDC issuer; a discovery document URL is accepted
	// and normalized.
	IssuerURL string
	// HTTPClient is optional and defaults to a 30s-timeout client. It is
	// used for the discovery and JWKS fetches.
	HTTPClient *http.Client
}

// NewVerifier creates a social token verifier. Discovery runs once at
// construction.
func NewVerifier(ctx context.Context, config VerifierConfig) (*Verifier, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.IssuerURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	provider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Verifier{
		verifier: provider.Verifier(&gooidc.Config{ClientID: config.ClientID}),
	}, nil
}

var _ ports.SocialVerifier = (*Verifier)(nil)

// profileClaims is the subset of standard OIDC claims social login reads.
type profileClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// Verify checks signature, audience, issuer, and expiry of the raw ID
// token and returns the profile it asserts.
func (v *Verifier) Verify(ctx context.Context, rawIDToken string) (ports.SocialIdentity, error) {
	if rawIDToken == "" {
		return ports.SocialIdentity{}, errors.New("id token is required")
	}

	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return ports.SocialIdentity{}, fmt.Errorf("verify id token: %w", err)
	}

	var claims profileClaims
	if claimsErr := idToken.Claims(&claims); claimsErr != nil {
		return ports.SocialIdentity{}, fmt.Errorf("parse id token claims: %w", claimsErr)
	}
	if claims.Email == "" {
		return ports.SocialIdentity{}, errors.New("id token carries no email claim")
	}

	name := claims.Name
	if name == "" {
		name = strings.TrimSpace(claims.GivenName + " " + claims.FamilyName)
	}

	return ports.SocialIdentity{
		Email:     strings.ToLower(claims.Email),
		Name:      name,
		AvatarURL: claims.Picture,
	}, nil
}
