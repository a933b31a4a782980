package redis

// Package redis provides Redis-based adapters for the learning platform.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/openlearn/lms-api/internal/domain/auth"
	apperrors "github.com/openlearn/lms-api/internal/errors"
)

// defaultSessionTTL outlives the refresh token so a refresh can never find
// its session evicted before the token itself expires.
const defaultSessionTTL = 7 * 24 * time.Hour

// SessionCache stores identity snapshots in Redis keyed by user id. An
// entry here is the source of truth for "logged in": deleting it revokes
// every outstanding token for that user.
type SessionCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewSessionCache creates a session cache with the default prefix and TTL.
func NewSessionCache(client redis.UniversalClient) *SessionCache {
	return &SessionCache{
		client: client,
		prefix: "session:",
		ttl:    defaultSessionTTL,
	}
}

// NewSessionCacheWithOptions creates a session cache with a custom key
// prefix and TTL. Zero values fall back to the defaults.
func NewSessionCacheWithOptions(client redis.UniversalClient, prefix string, ttl time.Duration) *SessionCache {
	if prefix == "" {
		prefix = "session:"
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionCache{client: client, prefix: prefix, ttl: ttl}
}

// Put overwrites any existing snapshot for the user and re-arms the TTL.
func (s *SessionCache) Put(ctx context.Context, identity domainauth.Identity) error {
	if identity.ID == "" {
		return errors.New("identity ID cannot be empty")
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	key := s.prefix + identity.ID
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

// Get returns the identity snapshot for the subject. A revoked or expired
// session returns ErrNotFound; any other error is a Redis failure, not a
// miss.
func (s *SessionCache) Get(ctx context.Context, subjectID string) (domainauth.Identity, error) {
	if subjectID == "" {
		return domainauth.Identity{}, ErrNotFound
	}

	key := s.prefix + subjectID
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Identity{}, ErrNotFound
		}
		return domainauth.Identity{}, fmt.Errorf("redis get: %w", err)
	}

	var identity domainauth.Identity
	if unmarshalErr := json.Unmarshal([]byte(data), &identity); unmarshalErr != nil {
		return domainauth.Identity{}, fmt.Errorf("unmarshal identity: %w", unmarshalErr)
	}
	return identity, nil
}

// Delete removes the session snapshot. Deleting an absent key is not an
// error, so logout stays idempotent.
func (s *SessionCache) Delete(ctx context.Context, subjectID string) error {
	if subjectID == "" {
		return nil // Nothing to delete
	}

	key := s.prefix + subjectID
	return s.client.Del(ctx, key).Err()
}

// ErrNotFound is returned when a session is not found. It carries the
// not-found error kind so callers can classify a miss without importing
// this package.
var ErrNotFound error = apperrors.NotFound("session not found")
