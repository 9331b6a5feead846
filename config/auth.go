package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth signs users in with Discord.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses a fixed local identity (development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// DiscordConfig contains the Discord OAuth application settings.
type DiscordConfig struct {
	ClientID     string `env:"AUTH_DISCORD_ID"`
	ClientSecret string `env:"AUTH_DISCORD_SECRET"`
	RedirectURL  string `env:"AUTH_DISCORD_REDIRECT_URL" envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"AUTH_DISCORD_SCOPE"        envDefault:"identify email guilds guilds.members.read"`
	APIBase      string `env:"DISCORD_API_BASE"          envDefault:"https://discord.com/api/v10"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock. Roles feed the static member lookup so the gate still runs.
type DevAuthConfig struct {
	UserID      string   `env:"USER_ID"      envDefault:"100000000000000001"`
	Username    string   `env:"USERNAME"     envDefault:"dev"`
	DisplayName string   `env:"DISPLAY_NAME" envDefault:"Dev User"`
	Email       string   `env:"EMAIL"        envDefault:"dev@example.com"`
	Roles       []string `env:"ROLES"        envSeparator:","`
}

// AuthConfig groups sign-in configuration.
type AuthConfig struct {
	Mode    AuthMode      `env:"AUTH_MODE" envDefault:"oauth"`
	Discord DiscordConfig
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// MaxAuthzInitialDelay caps AUTHZ_INITIAL_DELAY. With at most 10 attempts the
// doubling schedule then stays well inside time.Duration.
const MaxAuthzInitialDelay = time.Minute

// AuthzConfig configures the sign-in authorization gate.
// The policy is read once here and injected into the gate; nothing reads the environment later.
type AuthzConfig struct {
	// ServerID is the guild a user must belong to.
	ServerID string `env:"DISCORD_SERVER_ID"`
	// LegacyServerID is the older name for ServerID, honored when DISCORD_SERVER_ID is unset.
	LegacyServerID string   `env:"REQUIRED_SERVER_ID"`
	AdminRoleIDs   []string `env:"ADMIN_ROLE_IDS"      envSeparator:","`

	MaxAttempts   int           `env:"AUTHZ_MAX_ATTEMPTS"   envDefault:"3"`
	InitialDelay  time.Duration `env:"AUTHZ_INITIAL_DELAY"  envDefault:"1s"`
	LookupTimeout time.Duration `env:"AUTHZ_LOOKUP_TIMEOUT" envDefault:"5s"`
}

// Sanitize resolves the server id alias and applies retry guardrails.
func (c *AuthzConfig) Sanitize() {
	c.ServerID = strings.TrimSpace(c.ServerID)
	if c.ServerID == "" {
		c.ServerID = strings.TrimSpace(c.LegacyServerID)
	}
	c.MaxAttempts = min(max(c.MaxAttempts, 1), 10)
	c.InitialDelay = min(clampDuration(c.InitialDelay, time.Second), MaxAuthzInitialDelay)
	c.LookupTimeout = clampDuration(c.LookupTimeout, 5*time.Second)
}

// Enforced reports whether both halves of the policy are configured.
func (c AuthzConfig) Enforced() bool {
	if c.ServerID == "" {
		return false
	}
	for _, r := range c.AdminRoleIDs {
		if strings.TrimSpace(r) != "" {
			return true
		}
	}
	return false
}

// SessionStoreKind selects where sessions live.
type SessionStoreKind string

const (
	// SessionStoreRedis keeps sessions server side; the cookie holds an opaque id.
	SessionStoreRedis SessionStoreKind = "redis"
	// SessionStoreJWT keeps sessions in a signed cookie.
	SessionStoreJWT SessionStoreKind = "jwt"
)

// MinSessionSecretLen is the shortest accepted HS256 signing secret.
const MinSessionSecretLen = 32

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreKind.
func (k *SessionStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "jwt":
		*k = SessionStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStore: %q (valid options: redis, jwt)", v)
	}
}

// SessionConfig configures session persistence.
type SessionConfig struct {
	Store  SessionStoreKind `env:"SESSION_STORE"  envDefault:"redis"`
	TTL    time.Duration    `env:"SESSION_TTL"    envDefault:"24h"`
	Secret string           `env:"SESSION_SECRET"`
}

// Sanitize bounds the session lifetime.
func (c *SessionConfig) Sanitize() {
	c.TTL = clampDuration(c.TTL, 24*time.Hour)
	if c.TTL > 30*24*time.Hour {
		c.TTL = 30 * 24 * time.Hour
	}
}
