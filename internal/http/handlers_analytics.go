package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/EZLFP/discord-bot-dashboard/internal/domain/analytics"
	apperrors "github.com/EZLFP/discord-bot-dashboard/internal/errors"
	"github.com/EZLFP/discord-bot-dashboard/internal/service"
)

// AnalyticsServiceInterface is the read side the analytics API and pages depend on.
type AnalyticsServiceInterface interface {
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

	Dashboard(ctx context.Context, p analytics.Period) (*service.DashboardPage, error)
	Queue(ctx context.Context, p analytics.Period) (*service.QueuePage, error)
	CommandsOverview(ctx context.Context, p analytics.Period) (*service.CommandsPage, error)
}

// AnalyticsHandlers serves /api/analytics/*.
type AnalyticsHandlers struct {
	Svc    AnalyticsServiceInterface
	Logger *slog.Logger
}

// parsePeriod reads ?days= and ?limit=. Absent values take the defaults.
func parsePeriod(r *http.Request) (analytics.Period, error) {
	return parsePeriodDefault(r, 0)
}

// parsePeriodDefault is parsePeriod with a page-specific default for an absent ?days=.
func parsePeriodDefault(r *http.Request, defaultDays int) (analytics.Period, error) {
	q := r.URL.Query()
	days, err := parseIntParam(q.Get("days"), "days")
	if err != nil {
		return analytics.Period{}, err
	}
	if days == 0 {
		days = defaultDays
	}
	limit, err := parseIntParam(q.Get("limit"), "limit")
	if err != nil {
		return analytics.Period{}, err
	}
	return service.NewPeriod(days, limit)
}

func parseIntParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ValidationField(name, name+" must be an integer")
	}
	if n == 0 {
		// Explicit zero is out of range, not a request for the default.
		return -1, nil
	}
	return n, nil
}

// serve writes the result of fetch, or the mapped error.
func serve[T any](h *AnalyticsHandlers, w http.ResponseWriter, r *http.Request, name string, fetch func() (T, error)) {
	v, err := fetch()
	if err != nil {
		h.logError(r, name, err)
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, v)
}

func servePeriod[T any](
	h *AnalyticsHandlers,
	w http.ResponseWriter,
	r *http.Request,
	name string,
	fetch func(context.Context, analytics.Period) (T, error),
) {
	p, err := parsePeriod(r)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	serve(h, w, r, name, func() (T, error) { return fetch(r.Context(), p) })
}

func (h *AnalyticsHandlers) logError(r *http.Request, endpoint string, err error) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.ErrorContext(r.Context(), "analytics query failed",
		"endpoint", endpoint,
		"error_code", apperrors.GetCode(err),
		"error", err,
	)
}

// Overview handles GET /api/analytics/overview.
func (h *AnalyticsHandlers) Overview(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "overview", func() (analytics.Overview, error) { return h.Svc.Overview(r.Context()) })
}

// Users handles GET /api/analytics/users.
func (h *AnalyticsHandlers) Users(w http.ResponseWriter, r *http.Request) {
	servePeriod(h, w, r, "users", h.Svc.Users)
}

// Commands handles GET /api/analytics/commands.
func (h *AnalyticsHandlers) Commands(w http.ResponseWriter, r *http.Request) {
	servePeriod(h, w, r, "commands", h.Svc.Commands)
}

// CommandLog handles GET /api/analytics/command-log.
func (h *AnalyticsHandlers) CommandLog(w http.ResponseWriter, r *http.Request) {
	servePeriod(h, w, r, "command-log", h.Svc.CommandLog)
}

// Queues handles GET /api/analytics/queues.
func (h *AnalyticsHandlers) Queues(w http.ResponseWriter, r *http.Request) {
	servePeriod(h, w, r, "queues", h.Svc.Queues)
}

// QueuePlayers handles GET /api/analytics/queue-players.
func (h *AnalyticsHandlers) QueuePlayers(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "queue-players", func() (analytics.QueuePlayers, error) { return h.Svc.QueuePlayers(r.Context()) })
}

// QueueLog handles GET /api/analytics/queue-log.
func (h *AnalyticsHandlers) QueueLog(w http.ResponseWriter, r *http.Request) {
	servePeriod(h, w, r, "queue-log", h.Svc.QueueLog)
}

// Matches handles GET /api/analytics/matches.
func (h *AnalyticsHandlers) Matches(w http.ResponseWriter, r *http.Request) {
	servePeriod(h, w, r, "matches", h.Svc.Matches)
}

// MatchingQuality handles GET /api/analytics/matching-quality.
func (h *AnalyticsHandlers) MatchingQuality(w http.ResponseWriter, r *http.Request) {
	servePeriod(h, w, r, "matching-quality", h.Svc.MatchingQuality)
}

// Events handles GET /api/analytics/events.
func (h *AnalyticsHandlers) Events(w http.ResponseWriter, r *http.Request) {
	servePeriod(h, w, r, "events", h.Svc.Events)
}

// DailyMetrics handles GET /api/analytics/daily-metrics.
func (h *AnalyticsHandlers) DailyMetrics(w http.ResponseWriter, r *http.Request) {
	servePeriod(h, w, r, "daily-metrics", h.Svc.DailyMetrics)
}

// Guilds handles GET /api/analytics/guilds.
func (h *AnalyticsHandlers) Guilds(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "guilds", func() (analytics.Guilds, error) { return h.Svc.Guilds(r.Context()) })
}
