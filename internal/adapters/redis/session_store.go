package redis

// Package redis provides the Redis-backed session store for the dashboard.

import (
	"context"
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
)

// DefaultPrefix namespaces session keys.
const DefaultPrefix = "dashboard:session:"

// ErrNotFound is returned when a session is missing or already expired.
var ErrNotFound = errors.New("session not found")

// SessionStore keeps sessions server side. The token handed to the browser is the session ID,
// and the key's TTL follows the session's ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	clock  clock.Clock
}

// Option configures a SessionStore.
type Option func(*SessionStore)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *SessionStore) { s.prefix = prefix }
}

// WithClock sets the clock used for expiry checks.
func WithClock(c clock.Clock) Option {
	return func(s *SessionStore) { s.clock = c }
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient, opts ...Option) *SessionStore {
	s := &SessionStore{
		client: client,
		prefix: DefaultPrefix,
		clock:  clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stores sess under its ID and returns the ID as the browser token.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) (string, error) {
	if sess.ID == "" {
		return "", errors.New("session ID cannot be empty")
	}

	ttl := sess.ExpiresAt.Sub(s.clock.Now())
	if ttl <= 0 {
		return "", errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set: %w", err)
	}
	return sess.ID, nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (domainauth.Session, error) {
	if token == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	// Key TTL and ExpiresAt can drift apart under clock skew.
	if sess.Expired(s.clock.Now()) {
		if err := s.Delete(ctx, token); err != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", err)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+token).Err()
}
