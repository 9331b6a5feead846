package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/EZLFP/discord-bot-dashboard/config"
	"github.com/EZLFP/discord-bot-dashboard/internal/adapters/devauth"
	"github.com/EZLFP/discord-bot-dashboard/internal/adapters/discord"
	"github.com/EZLFP/discord-bot-dashboard/internal/adapters/jwtsession"
	redisadapter "github.com/EZLFP/discord-bot-dashboard/internal/adapters/redis"
	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
	"github.com/EZLFP/discord-bot-dashboard/internal/observability/metrics"
	"github.com/EZLFP/discord-bot-dashboard/internal/ports"
	"github.com/EZLFP/discord-bot-dashboard/internal/retry"
	"github.com/EZLFP/discord-bot-dashboard/internal/service"
)

// AuthConfig contains configuration for the auth service and its authorization gate.
type AuthConfig struct {
	Auth        config.AuthConfig
	Authz       config.AuthzConfig
	Session     config.SessionConfig
	RedisClient redis.UniversalClient
	Metrics     *metrics.AuthzMetrics
	Logger      *slog.Logger
}

// BuildAuthService creates the auth service for the configured auth mode.
// Unlike a missing feature, a broken auth setup is fatal: the dashboard has nothing to show signed-out users.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sessions, err := buildSessionStore(cfg.Session, cfg.RedisClient)
	if err != nil {
		return nil, err
	}

	var (
		provider ports.AuthProvider
		lookup   ports.GuildMemberLookup
	)
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		provider, lookup, err = buildDevAuth(cfg.Auth.DevAuth)
		logger.Warn("dev auth enabled; every sign-in uses the configured local identity",
			"user_id", cfg.Auth.DevAuth.UserID)
	case config.AuthModeOAuth:
		provider, lookup, err = buildDiscordAuth(cfg.Auth.Discord, cfg.Authz)
	default:
		err = fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
	if err != nil {
		return nil, err
	}

	gate, err := BuildAuthzService(cfg.Authz, lookup, cfg.Metrics, logger)
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:   provider,
		Sessions:   sessions,
		Gate:       gate,
		SessionTTL: cfg.Session.TTL,
		Logger:     logger,
	}), nil
}

// BuildAuthzService builds the sign-in gate from the policy read at startup.
func BuildAuthzService(
	cfg config.AuthzConfig,
	lookup ports.GuildMemberLookup,
	m *metrics.AuthzMetrics,
	logger *slog.Logger,
) (*service.AuthzService, error) {
	policy := domainauth.NewPolicy(cfg.ServerID, cfg.AdminRoleIDs)
	if !policy.Enforced() && logger != nil {
		logger.Warn("authorization policy incomplete; every authenticated user will be allowed",
			"server_id_set", policy.RequiredGuildID != "",
			"role_ids", len(policy.AllowedRoleIDs),
		)
	}

	gate, err := service.NewAuthzService(service.AuthzServiceOptions{
		Policy: policy,
		Lookup: lookup,
		Backoff: retry.Backoff{
			MaxAttempts:  cfg.MaxAttempts,
			InitialDelay: cfg.InitialDelay,
		},
		Logger:  logger,
		Metrics: m,
	})
	if err != nil {
		return nil, fmt.Errorf("create authorization gate: %w", err)
	}
	return gate, nil
}

//nolint:ireturn // the store kind is chosen from config.
func buildSessionStore(cfg config.SessionConfig, client redis.UniversalClient) (ports.SessionStore, error) {
	switch cfg.Store {
	case config.SessionStoreJWT:
		store, err := jwtsession.NewStore(cfg.Secret)
		if err != nil {
			return nil, fmt.Errorf("create jwt session store: %w", err)
		}
		return store, nil
	case config.SessionStoreRedis, "":
		if client == nil {
			return nil, errors.New("redis session store requires a redis client")
		}
		return redisadapter.NewSessionStore(client), nil
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.Store)
	}
}

func buildDevAuth(cfg config.DevAuthConfig) (ports.AuthProvider, ports.GuildMemberLookup, error) {
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:      cfg.UserID,
		Username:    cfg.Username,
		DisplayName: cfg.DisplayName,
		Email:       cfg.Email,
		Roles:       cfg.Roles,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create dev auth provider: %w", err)
	}
	return prov, devauth.NewMemberLookup(cfg.Roles), nil
}

func buildDiscordAuth(cfg config.DiscordConfig, authz config.AuthzConfig) (ports.AuthProvider, ports.GuildMemberLookup, error) {
	api, err := discord.NewClient(discord.ClientConfig{
		BaseURL: cfg.APIBase,
		Timeout: authz.LookupTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create discord client: %w", err)
	}

	prov, err := discord.NewProvider(discord.ProviderConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scope:        cfg.Scope,
		API:          api,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create discord provider: %w", err)
	}
	return prov, api, nil
}
