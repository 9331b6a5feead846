package discord

// Package discord provides adapters for the Discord REST API and its OAuth2 flow.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
	"github.com/EZLFP/discord-bot-dashboard/internal/ports"
)

// DefaultAPIBase is the versioned Discord REST API root.
const DefaultAPIBase = "https://discord.com/api/v10"

// defaultLookupTimeout bounds a single member lookup when no HTTP client is supplied.
const defaultLookupTimeout = 5 * time.Second

// maxErrorBody caps how much of an error response is read for diagnostics.
const maxErrorBody = 4 << 10

var _ ports.GuildMemberLookup = (*Client)(nil)

// ClientConfig configures the Discord REST client.
type ClientConfig struct {
	// BaseURL defaults to DefaultAPIBase.
	BaseURL string
	// HTTPClient is optional; a client with Timeout is built when nil.
	HTTPClient *http.Client
	// Timeout applies when HTTPClient is nil. Defaults to 5s.
	Timeout time.Duration
}

// Client calls the Discord REST API on behalf of a user, authenticated with their bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client.
func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultAPIBase
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid discord api base %q: %w", base, err)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultLookupTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: base, httpClient: hc}, nil
}

// LookupMember fetches GET {base}/users/@me/guilds/{guildID}/member.
// Transport failures and non-2xx responses are returned as *domainauth.LookupError.
func (c *Client) LookupMember(ctx context.Context, guildID, accessToken string) (domainauth.Member, error) {
	endpoint := c.baseURL + "/users/@me/guilds/" + url.PathEscape(guildID) + "/member"

	var member domainauth.Member
	if err := c.getJSON(ctx, endpoint, accessToken, &member); err != nil {
		return domainauth.Member{}, err
	}
	if member.Roles == nil {
		member.Roles = []string{}
	}
	return member, nil
}

// user mirrors the fields of GET /users/@me the dashboard uses.
type user struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
}

// CurrentUser fetches GET {base}/users/@me.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (domainauth.Identity, error) {
	var u user
	if err := c.getJSON(ctx, c.baseURL+"/users/@me", accessToken, &u); err != nil {
		return domainauth.Identity{}, err
	}
	if u.ID == "" {
		return domainauth.Identity{}, errors.New("discord user response missing id")
	}
	return domainauth.Identity{
		UserID:      u.ID,
		Username:    u.Username,
		DisplayName: firstNonEmpty(u.GlobalName, u.Username),
		Email:       u.Email,
		AvatarURL:   avatarURL(u.ID, u.Avatar),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, accessToken string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &domainauth.LookupError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domainauth.LookupError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domainauth.LookupError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Err:        fmt.Errorf("discord api: %s", strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &domainauth.LookupError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

func avatarURL(userID, hash string) string {
	if hash == "" {
		return ""
	}
	return "https://cdn.discordapp.com/avatars/" + userID + "/" + hash + ".png"
}

// firstNonEmpty returns the first non-empty string from vals, or empty string if none.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
