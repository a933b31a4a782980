package httpx

import (
	"context"

	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
)

// identityKey is an unexported context key type to avoid collisions across
// packages. Centralized here so all handlers and middleware use the same key.
type identityKey struct{}

// SetIdentityInContext returns a child context carrying the authenticated
// identity snapshot.
func SetIdentityInContext(ctx context.Context, identity domainauth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity attached by RequireAuth and a
// boolean indicating presence.
func IdentityFromContext(ctx context.Context) (domainauth.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(domainauth.Identity)
	return identity, ok
}
