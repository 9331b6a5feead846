package discord

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
	"github.com/EZLFP/discord-bot-dashboard/internal/ports"
)

// DefaultScope requests the identity plus read access to the user's own guild membership.
const DefaultScope = "identify email guilds guilds.members.read"

// Endpoint is Discord's OAuth2 endpoint.
//
//nolint:gochecknoglobals // static read-only endpoint definition, mirrors golang.org/x/oauth2/endpoints.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  "https://discord.com/api/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

var _ ports.AuthProvider = (*Provider)(nil)

// ProviderConfig holds configuration for the Discord OAuth provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	// Endpoint overrides the Discord OAuth2 endpoint (tests).
	Endpoint *oauth2.Endpoint
	// API is used to resolve the identity after the exchange.
	API *Client
	// HTTPClient is used for the token exchange. Optional.
	HTTPClient *http.Client
}

// Provider implements ports.AuthProvider using Discord's OAuth2 authorization code flow.
type Provider struct {
	config     *oauth2.Config
	api        *Client
	httpClient *http.Client
}

// NewProvider creates a Discord OAuth provider.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if cfg.API == nil {
		return nil, errors.New("discord api client is required")
	}

	scope := cfg.Scope
	if strings.TrimSpace(scope) == "" {
		scope = DefaultScope
	}
	endpoint := Endpoint
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(scope),
			Endpoint:     endpoint,
		},
		api:        cfg.API,
		httpClient: hc,
	}, nil
}

// Begin returns the Discord authorize URL and a fresh state value.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, error) {
	if in.RedirectURL == "" {
		return "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(32)
	if err != nil {
		return "", "", fmt.Errorf("generate state: %w", err)
	}

	// redirect_uri comes from the configured RedirectURL and must match the application settings exactly.
	authURL := p.config.AuthCodeURL(state)
	return authURL, state, nil
}

// Exchange swaps the authorization code for a token and resolves the Discord user behind it.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (ports.ExchangeResult, error) {
	if in.Code == "" {
		return ports.ExchangeResult{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return ports.ExchangeResult{}, errors.New("state is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return ports.ExchangeResult{}, fmt.Errorf("exchange code for token: %w", err)
	}

	identity, err := p.api.CurrentUser(ctx, token.AccessToken)
	if err != nil {
		return ports.ExchangeResult{}, fmt.Errorf("get current user: %w", err)
	}

	return ports.ExchangeResult{
		Identity: identity,
		Grant: domainauth.Grant{
			ProviderAccountID: identity.UserID,
			AccessToken:       token.AccessToken,
			ExpiresAt:         token.Expiry,
		},
	}, nil
}

// generateRandomString generates a cryptographically secure URL-safe random string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}
