// Package jwtsession provides a stateless session store: the session claim travels in a signed JWT cookie.
package jwtsession

import (
	"context"
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
)

// Issuer is set on every token and required on parse.
const Issuer = "discord-bot-dashboard"

// minSecretLen matches the HS256 key size.
const minSecretLen = 32

var (
	// ErrInvalidToken is returned for tokens that fail signature, issuer or claim checks.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrExpired is returned for well-formed tokens past their expiry.
	ErrExpired = errors.New("session token expired")
)

// Claims is the JWT payload for a dashboard session.
type Claims struct {
	Username     string `json:"username,omitempty"`
	DisplayName  string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	AvatarURL    string `json:"picture,omitempty"`
	IsAuthorized bool   `json:"is_authorized"`
	jwt.RegisteredClaims
}

// Store implements ports.SessionStore with HS256-signed tokens.
// Delete is a no-op: a token stays valid until it expires, and logout clears the cookie.
type Store struct {
	secret []byte
	clock  clock.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for issuing and validating tokens.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// NewStore creates a Store. secret must be at least 32 bytes.
func NewStore(secret string, opts ...Option) (*Store, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("session secret must be at least %d bytes", minSecretLen)
	}
	s := &Store{secret: []byte(secret), clock: clock.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save signs sess and returns the token.
func (s *Store) Save(_ context.Context, sess domainauth.Session) (string, error) {
	if sess.ID == "" {
		return "", errors.New("session ID cannot be empty")
	}
	if sess.UserID == "" {
		return "", errors.New("session user ID cannot be empty")
	}
	if !sess.ExpiresAt.After(s.clock.Now()) {
		return "", errors.New("session is expired")
	}

	issued := sess.IssuedAt
	if issued.IsZero() {
		issued = s.clock.Now()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username:     sess.Username,
		DisplayName:  sess.DisplayName,
		Email:        sess.Email,
		AvatarURL:    sess.AvatarURL,
		IsAuthorized: sess.IsAuthorized,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   sess.UserID,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Get verifies token and rebuilds the session from its claims.
func (s *Store) Get(_ context.Context, token string) (domainauth.Session, error) {
	if token == "" {
		return domainauth.Session{}, ErrInvalidToken
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domainauth.Session{}, ErrExpired
		}
		return domainauth.Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return domainauth.Session{}, ErrInvalidToken
	}

	sess := domainauth.Session{
		ID:           claims.ID,
		UserID:       claims.Subject,
		Username:     claims.Username,
		DisplayName:  claims.DisplayName,
		Email:        claims.Email,
		AvatarURL:    claims.AvatarURL,
		IsAuthorized: claims.IsAuthorized,
		ExpiresAt:    claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	return sess, nil
}

func (s *Store) Delete(context.Context, string) error { return nil }
