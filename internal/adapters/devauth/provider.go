package devauth

// Package devauth provides a config-driven AuthProvider and member lookup for local development.
// The authorization gate still runs against the configured roles.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
	"github.com/EZLFP/discord-bot-dashboard/internal/ports"
)

// Config controls the dev auth provider behavior.
// UserID is required. Roles may be empty, in which case an enforced policy denies sign-in.
type Config struct {
	UserID      string
	Username    string
	DisplayName string
	Email       string
	Roles       []string
}

// Provider implements ports.AuthProvider for local development.
// Begin redirects straight back to our own callback and Exchange ignores the code.
type Provider struct {
	identity domainauth.Identity
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	username := cfg.Username
	if username == "" {
		username = "dev"
	}
	display := cfg.DisplayName
	if display == "" {
		display = username
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID:      cfg.UserID,
			Username:    username,
			DisplayName: display,
			Email:       cfg.Email,
		},
	}, nil
}

// Begin returns a local callback URL and a cryptographically secure state.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", fmt.Errorf("generate state: %w", err)
	}
	// Our standard handler expects GET /auth/callback?code=...&state=...
	return "/auth/callback?code=dev&state=" + state, state, nil
}

// Exchange returns the dev identity with a synthetic grant.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (ports.ExchangeResult, error) {
	return ports.ExchangeResult{
		Identity: p.identity,
		Grant: domainauth.Grant{
			ProviderAccountID: p.identity.UserID,
			AccessToken:       "dev-token",
			ExpiresAt:         time.Now().Add(time.Hour),
		},
	}, nil
}

// MemberLookup implements ports.GuildMemberLookup with a fixed role set.
type MemberLookup struct {
	roles []string
}

// NewMemberLookup returns a lookup that reports roles for every guild.
func NewMemberLookup(roles []string) *MemberLookup {
	return &MemberLookup{roles: append([]string{}, roles...)}
}

func (l *MemberLookup) LookupMember(ctx context.Context, _, _ string) (domainauth.Member, error) {
	if err := ctx.Err(); err != nil {
		return domainauth.Member{}, &domainauth.LookupError{Err: err}
	}
	return domainauth.Member{Roles: append([]string{}, l.roles...)}, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, (n*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < n {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
