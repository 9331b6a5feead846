package bootstrap

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EZLFP/discord-bot-dashboard/config"
	"github.com/EZLFP/discord-bot-dashboard/internal/adapters/jwtsession"
	redisadapter "github.com/EZLFP/discord-bot-dashboard/internal/adapters/redis"
	"github.com/EZLFP/discord-bot-dashboard/internal/observability/metrics"
	"github.com/EZLFP/discord-bot-dashboard/internal/service"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// redis.NewClient does not dial until the first command.
func lazyRedis(t *testing.T) *redis.Client {
	t.Helper()
	c := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestBuildAuthService(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AuthConfig
		wantErr string
	}{
		{
			name: "dev auth with redis sessions",
			cfg: AuthConfig{
				Auth: config.AuthConfig{
					Mode:    config.AuthModeMock,
					DevAuth: config.DevAuthConfig{UserID: "1", Roles: []string{"10"}},
				},
				Authz:   config.AuthzConfig{ServerID: "42", AdminRoleIDs: []string{"10"}},
				Session: config.SessionConfig{Store: config.SessionStoreRedis},
			},
		},
		{
			name: "discord oauth with jwt sessions",
			cfg: AuthConfig{
				Auth: config.AuthConfig{
					Mode: config.AuthModeOAuth,
					Discord: config.DiscordConfig{
						ClientID:     "client",
						ClientSecret: "secret",
						RedirectURL:  "https://dash.example.com/auth/callback",
						APIBase:      "https://discord.com/api/v10",
					},
				},
				Authz:   config.AuthzConfig{ServerID: "42", AdminRoleIDs: []string{"10"}},
				Session: config.SessionConfig{Store: config.SessionStoreJWT, Secret: strings.Repeat("s", 32)},
			},
		},
		{
			name: "oauth without client secret",
			cfg: AuthConfig{
				Auth: config.AuthConfig{
					Mode:    config.AuthModeOAuth,
					Discord: config.DiscordConfig{ClientID: "client", RedirectURL: "https://x/cb"},
				},
				Session: config.SessionConfig{Store: config.SessionStoreRedis},
			},
			wantErr: "client secret is required",
		},
		{
			name: "dev auth without user id",
			cfg: AuthConfig{
				Auth:    config.AuthConfig{Mode: config.AuthModeMock},
				Session: config.SessionConfig{Store: config.SessionStoreRedis},
			},
			wantErr: "UserID is required",
		},
		{
			name: "jwt store with short secret",
			cfg: AuthConfig{
				Auth:    config.AuthConfig{Mode: config.AuthModeMock, DevAuth: config.DevAuthConfig{UserID: "1"}},
				Session: config.SessionConfig{Store: config.SessionStoreJWT, Secret: "short"},
			},
			wantErr: "jwt session store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.RedisClient = lazyRedis(t)
			cfg.Logger = quietLogger()
			cfg.Metrics = metrics.NewAuthzMetrics(prometheus.NewRegistry())

			svc, err := BuildAuthService(cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, svc)
			assert.Equal(t, service.DefaultSessionTTL, svc.SessionTTL())
		})
	}
}

func TestBuildSessionStore(t *testing.T) {
	store, err := buildSessionStore(config.SessionConfig{Store: config.SessionStoreRedis}, lazyRedis(t))
	require.NoError(t, err)
	assert.IsType(t, &redisadapter.SessionStore{}, store)

	store, err = buildSessionStore(config.SessionConfig{Store: config.SessionStoreJWT, Secret: strings.Repeat("k", 32)}, nil)
	require.NoError(t, err)
	assert.IsType(t, &jwtsession.Store{}, store)

	_, err = buildSessionStore(config.SessionConfig{Store: config.SessionStoreRedis}, nil)
	require.Error(t, err)
}

func TestBuildAuthzService_UnenforcedPolicyNeedsNoLookup(t *testing.T) {
	gate, err := BuildAuthzService(config.AuthzConfig{MaxAttempts: 3}, nil, nil, quietLogger())
	require.NoError(t, err)
	assert.False(t, gate.Policy().Enforced())

	_, err = BuildAuthzService(config.AuthzConfig{ServerID: "42", AdminRoleIDs: []string{"1"}}, nil, nil, quietLogger())
	require.Error(t, err)
}
