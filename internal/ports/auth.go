package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
}

// ExchangeResult is the outcome of a completed OAuth handshake.
type ExchangeResult struct {
	Identity domainauth.Identity
	Grant    domainauth.Grant
}

// AuthProvider initiates and completes an authentication flow against Discord.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL and an opaque state.
	Begin(ctx context.Context, in BeginInput) (authURL, state string, err error)

	// Exchange completes the login flow and returns the identity and its account grant.
	Exchange(ctx context.Context, in ExchangeInput) (ExchangeResult, error)
}

// GuildMemberLookup fetches the caller's own member record in a guild,
// authenticated with the caller's bearer token.
type GuildMemberLookup interface {
	// LookupMember returns the member record. Failures are returned as *domainauth.LookupError.
	LookupMember(ctx context.Context, guildID, accessToken string) (domainauth.Member, error)
}

// SessionStore issues and resolves session tokens.
type SessionStore interface {
	// Save persists sess and returns the token to hand to the browser.
	Save(ctx context.Context, sess domainauth.Session) (string, error)
	Get(ctx context.Context, token string) (domainauth.Session, error)
	Delete(ctx context.Context, token string) error
}
