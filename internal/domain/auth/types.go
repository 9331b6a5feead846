package auth

// Package auth contains domain-level types for authentication, authorization and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"fmt"
	"time"
)

// Identity represents the authenticated Discord account returned by the OAuth provider.
// Adapters map provider-specific payloads into this shape.
type Identity struct {
	UserID      string // stable Discord snowflake
	Username    string
	DisplayName string
	Email       string
	AvatarURL   string
}

// Grant is the OAuth account grant produced by a completed code exchange.
// It is used once, synchronously, by the authorization gate and never persisted.
type Grant struct {
	ProviderAccountID string
	AccessToken       string
	ExpiresAt         time.Time
}

// Valid reports whether the grant carries both an access token and a provider account id.
func (g Grant) Valid() bool {
	return g.AccessToken != "" && g.ProviderAccountID != ""
}

// Session is the claim issued to an authorized user.
// ID is an opaque token understood by the session store that issued it.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email"`
	AvatarURL    string    `json:"avatar_url"`
	IsAuthorized bool      `json:"is_authorized"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Member is the subset of a guild member record the gate consumes.
type Member struct {
	Roles []string `json:"roles"`
}

// LookupError describes a failed guild member lookup.
// StatusCode is 0 when the request never produced a response.
type LookupError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *LookupError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("member lookup failed: %v", e.Err)
	}
	return fmt.Sprintf("member lookup failed: %d %s", e.StatusCode, e.Status)
}

func (e *LookupError) Unwrap() error { return e.Err }
