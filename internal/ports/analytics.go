package ports

import (
	"context"
	"time"

	"github.com/EZLFP/discord-bot-dashboard/internal/domain/analytics"
)

// AnalyticsReader reads aggregate analytics from the bot's data store.
// Every method is read-only; the bot owns the schema.
type AnalyticsReader interface {
	Overview(ctx context.Context) (analytics.Overview, error)
	Users(ctx context.Context, p analytics.Period) (analytics.Users, error)
	Commands(ctx context.Context, p analytics.Period) (analytics.Commands, error)
	CommandLog(ctx context.Context, p analytics.Period) (analytics.CommandLog, error)
	Queues(ctx context.Context, p analytics.Period) (analytics.Queues, error)
	QueuePlayers(ctx context.Context) (analytics.QueuePlayers, error)
	QueueLog(ctx context.Context, p analytics.Period) (analytics.QueueLog, error)
	Matches(ctx context.Context, p analytics.Period) (analytics.Matches, error)
	MatchingQuality(ctx context.Context, p analytics.Period) (analytics.MatchingQuality, error)
	Events(ctx context.Context, p analytics.Period) (analytics.Events, error)
	DailyMetrics(ctx context.Context, p analytics.Period) (analytics.DailyMetrics, error)
	Guilds(ctx context.Context) (analytics.Guilds, error)
}

// Cache stores short-lived serialized query results.
type Cache interface {
	// Get returns nil, nil when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
}
