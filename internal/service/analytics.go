package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/EZLFP/discord-bot-dashboard/internal/domain/analytics"
	apperrors "github.com/EZLFP/discord-bot-dashboard/internal/errors"
	"github.com/EZLFP/discord-bot-dashboard/internal/ports"
)

// DefaultAnalyticsCacheTTL matches how often the bot refreshes its rollups.
const DefaultAnalyticsCacheTTL = 60 * time.Second

var (
	periodValidator     *validator.Validate
	periodValidatorOnce sync.Once
)

func getPeriodValidator() *validator.Validate {
	periodValidatorOnce.Do(func() {
		periodValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return periodValidator
}

// NewPeriod applies defaults to zero values and validates the bounds.
// Out-of-range values are rejected rather than clamped.
func NewPeriod(days, limit int) (analytics.Period, error) {
	p := analytics.Period{Days: days, Limit: limit}
	if p.Days == 0 {
		p.Days = analytics.DefaultDays
	}
	if p.Limit == 0 {
		p.Limit = analytics.DefaultLimit
	}

	if err := getPeriodValidator().Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Days":
				return p, apperrors.ValidationField("days",
					fmt.Sprintf("days must be between 1 and %d", analytics.MaxDays))
			case "Limit":
				return p, apperrors.ValidationField("limit",
					fmt.Sprintf("limit must be between 1 and %d", analytics.MaxLimit))
			}
		}
		return p, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid period")
	}
	return p, nil
}

// AnalyticsServiceOptions groups dependencies for AnalyticsService.
type AnalyticsServiceOptions struct {
	Reader ports.AnalyticsReader
	// Cache is optional. Results are cached for CacheTTL when set.
	Cache    ports.Cache
	CacheTTL time.Duration
	// QueryTimeout bounds each reader call. Zero means no extra bound.
	QueryTimeout time.Duration
	Logger       *slog.Logger
}

// AnalyticsService serves read-only analytics, optionally through a short-lived cache.
type AnalyticsService struct {
	reader   ports.AnalyticsReader
	cache    ports.Cache
	cacheTTL time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(opts AnalyticsServiceOptions) *AnalyticsService {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultAnalyticsCacheTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		reader:   opts.Reader,
		cache:    opts.Cache,
		cacheTTL: ttl,
		timeout:  opts.QueryTimeout,
		logger:   logger.With("component", "analytics"),
	}
}

// cached serves key from the cache or computes it with fetch.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, s *AnalyticsService, key string, fetch func(context.Context) (T, error)) (T, error) {
	fetch = bounded(s, fetch)
	if s.cache == nil {
		return fetch(ctx)
	}

	if raw, err := s.cache.Get(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "analytics cache read failed", "key", key, "error", err)
	} else if raw != nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		s.logger.WarnContext(ctx, "analytics cache entry corrupt", "key", key)
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.WarnContext(ctx, "analytics cache encode failed", "key", key, "error", err)
		return v, nil
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "analytics cache write failed", "key", key, "error", err)
	}
	return v, nil
}

func (s *AnalyticsService) boundedCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func bounded[T any](s *AnalyticsService, fetch func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		ctx, cancel := s.boundedCtx(ctx)
		defer cancel()
		return fetch(ctx)
	}
}

func periodKey(name string, p analytics.Period) string {
	return fmt.Sprintf("%s:%d:%d", name, p.Days, p.Limit)
}

// Overview returns the headline counters.
func (s *AnalyticsService) Overview(ctx context.Context) (analytics.Overview, error) {
	return cached(ctx, s, "overview", s.reader.Overview)
}

// Users returns user growth and activity for p.
func (s *AnalyticsService) Users(ctx context.Context, p analytics.Period) (analytics.Users, error) {
	return cached(ctx, s, periodKey("users", p), func(ctx context.Context) (analytics.Users, error) {
		return s.reader.Users(ctx, p)
	})
}

// Commands returns per-command usage for p.
func (s *AnalyticsService) Commands(ctx context.Context, p analytics.Period) (analytics.Commands, error) {
	return cached(ctx, s, periodKey("commands", p), func(ctx context.Context) (analytics.Commands, error) {
		return s.reader.Commands(ctx, p)
	})
}

// CommandLog returns recent command invocations for p.
func (s *AnalyticsService) CommandLog(ctx context.Context, p analytics.Period) (analytics.CommandLog, error) {
	return cached(ctx, s, periodKey("command-log", p), func(ctx context.Context) (analytics.CommandLog, error) {
		return s.reader.CommandLog(ctx, p)
	})
}

// Queues returns queue stats for p and the live queue state.
func (s *AnalyticsService) Queues(ctx context.Context, p analytics.Period) (analytics.Queues, error) {
	return cached(ctx, s, periodKey("queues", p), func(ctx context.Context) (analytics.Queues, error) {
		return s.reader.Queues(ctx, p)
	})
}

// QueuePlayers is always read live.
func (s *AnalyticsService) QueuePlayers(ctx context.Context) (analytics.QueuePlayers, error) {
	return bounded(s, s.reader.QueuePlayers)(ctx)
}

// QueueLog returns recent queue actions for p.
func (s *AnalyticsService) QueueLog(ctx context.Context, p analytics.Period) (analytics.QueueLog, error) {
	return cached(ctx, s, periodKey("queue-log", p), func(ctx context.Context) (analytics.QueueLog, error) {
		return s.reader.QueueLog(ctx, p)
	})
}

// Matches returns the match proposal breakdown for p.
func (s *AnalyticsService) Matches(ctx context.Context, p analytics.Period) (analytics.Matches, error) {
	return cached(ctx, s, periodKey("matches", p), func(ctx context.Context) (analytics.Matches, error) {
		return s.reader.Matches(ctx, p)
	})
}

// MatchingQuality returns the matchmaking quality metrics for p.
func (s *AnalyticsService) MatchingQuality(ctx context.Context, p analytics.Period) (analytics.MatchingQuality, error) {
	return cached(ctx, s, periodKey("matching-quality", p), func(ctx context.Context) (analytics.MatchingQuality, error) {
		return s.reader.MatchingQuality(ctx, p)
	})
}

// Events returns event counts and recent events for p.
func (s *AnalyticsService) Events(ctx context.Context, p analytics.Period) (analytics.Events, error) {
	return cached(ctx, s, periodKey("events", p), func(ctx context.Context) (analytics.Events, error) {
		return s.reader.Events(ctx, p)
	})
}

// DailyMetrics returns daily rollups for p.
func (s *AnalyticsService) DailyMetrics(ctx context.Context, p analytics.Period) (analytics.DailyMetrics, error) {
	return cached(ctx, s, periodKey("daily-metrics", p), func(ctx context.Context) (analytics.DailyMetrics, error) {
		return s.reader.DailyMetrics(ctx, p)
	})
}

// Guilds returns every guild the bot has joined.
func (s *AnalyticsService) Guilds(ctx context.Context) (analytics.Guilds, error) {
	return cached(ctx, s, "guilds", s.reader.Guilds)
}

// DashboardPage is everything the overview page renders.
type DashboardPage struct {
	Period       analytics.Period
	Overview     analytics.Overview
	Users        analytics.Users
	Commands     analytics.Commands
	Queues       analytics.Queues
	Matches      analytics.Matches
	Events       analytics.Events
	DailyMetrics analytics.DailyMetrics
}

// QueuePage is everything the live queue page renders.
type QueuePage struct {
	Players analytics.QueuePlayers
	Log     analytics.QueueLog
}

// CommandsPage is everything the command log page renders.
type CommandsPage struct {
	Commands analytics.Commands
	Log      analytics.CommandLog
	Guilds   analytics.Guilds
}

// fetchInto runs fn in g and stores its result in dst.
func fetchInto[T any](ctx context.Context, g *errgroup.Group, dst *T, fn func(context.Context) (T, error)) {
	g.Go(func() error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	})
}

func withPeriod[T any](p analytics.Period, fn func(context.Context, analytics.Period) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) { return fn(ctx, p) }
}

// Dashboard loads the overview page concurrently. The first failure cancels the rest.
func (s *AnalyticsService) Dashboard(ctx context.Context, p analytics.Period) (*DashboardPage, error) {
	page := &DashboardPage{Period: p}
	g, gctx := errgroup.WithContext(ctx)

	fetchInto(gctx, g, &page.Overview, s.Overview)
	fetchInto(gctx, g, &page.Users, withPeriod(p, s.Users))
	fetchInto(gctx, g, &page.Commands, withPeriod(p, s.Commands))
	fetchInto(gctx, g, &page.Queues, withPeriod(p, s.Queues))
	fetchInto(gctx, g, &page.Matches, withPeriod(p, s.Matches))
	fetchInto(gctx, g, &page.Events, withPeriod(p, s.Events))
	fetchInto(gctx, g, &page.DailyMetrics, withPeriod(p, s.DailyMetrics))

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dashboard: %w", err)
	}
	return page, nil
}

// Queue loads the live queue page.
func (s *AnalyticsService) Queue(ctx context.Context, p analytics.Period) (*QueuePage, error) {
	page := &QueuePage{}
	g, gctx := errgroup.WithContext(ctx)

	fetchInto(gctx, g, &page.Players, s.QueuePlayers)
	fetchInto(gctx, g, &page.Log, withPeriod(p, s.QueueLog))

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load queue page: %w", err)
	}
	return page, nil
}

// CommandsOverview loads the command log page.
func (s *AnalyticsService) CommandsOverview(ctx context.Context, p analytics.Period) (*CommandsPage, error) {
	page := &CommandsPage{}
	g, gctx := errgroup.WithContext(ctx)

	fetchInto(gctx, g, &page.Commands, withPeriod(p, s.Commands))
	fetchInto(gctx, g, &page.Log, withPeriod(p, s.CommandLog))
	fetchInto(gctx, g, &page.Guilds, s.Guilds)

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load commands page: %w", err)
	}
	return page, nil
}
