package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5"

	"github.com/EZLFP/discord-bot-dashboard/internal/data/pgxutil"
	"github.com/EZLFP/discord-bot-dashboard/internal/domain/analytics"
	apperrors "github.com/EZLFP/discord-bot-dashboard/internal/errors"
	"github.com/EZLFP/discord-bot-dashboard/internal/ports"
)

// Queue entry and match proposal statuses written by the bot.
const (
	queueStatusWaiting = "waiting"
	queueStatusMatched = "matched"

	proposalStatusPending  = "pending"
	proposalStatusMatched  = "matched"
	proposalStatusDeclined = "declined"
	proposalStatusTimedOut = "timed_out"

	eventQueueRequeue = "queue_requeue"
	eventQueueLeave   = "queue_leave"
)

var _ ports.AnalyticsReader = (*AnalyticsRepo)(nil)

// AnalyticsRepo reads aggregate analytics from the bot's Postgres tables.
type AnalyticsRepo struct {
	DB    *sql.DB
	clock clock.Clock
}

// NewAnalyticsRepo creates a new AnalyticsRepo instance with the given database connection.
func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo {
	return &AnalyticsRepo{DB: db, clock: clock.New()}
}

// WithClock replaces the clock used to compute period windows.
func (r *AnalyticsRepo) WithClock(c clock.Clock) *AnalyticsRepo {
	r.clock = c
	return r
}

func (r *AnalyticsRepo) since(p analytics.Period) time.Time {
	return p.Since(r.clock.Now())
}

// queryRows runs query and collects every row into T by column name.
func queryRows[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	if db == nil {
		return nil, ErrDatabaseRequired
	}
	var out []T
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[T])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// queryOne runs query and collects exactly one row into T by column name.
func queryOne[T any](ctx context.Context, db *sql.DB, query string, args ...any) (T, error) {
	var out T
	if db == nil {
		return out, ErrDatabaseRequired
	}
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
		return err
	})
	if err != nil {
		return out, apperrors.MapDBError(err)
	}
	return out, nil
}

type countRow struct {
	Total int64 `db:"total"`
}

type overviewRow struct {
	TotalUsers        int64 `db:"total_users"`
	TotalMatches      int64 `db:"total_matches"`
	TotalQueueEntries int64 `db:"total_queue_entries"`
	TotalCommands     int64 `db:"total_commands"`
	SuccessfulMatches int64 `db:"successful_matches"`
	NewUsers          int64 `db:"new_users"`
}

// Overview returns all-time counters plus new users in the last 7 days.
func (r *AnalyticsRepo) Overview(ctx context.Context) (analytics.Overview, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM match_proposals) AS total_matches,
			(SELECT COUNT(*) FROM queue_entries) AS total_queue_entries,
			(SELECT COUNT(*) FROM command_logs) AS total_commands,
			(SELECT COUNT(*) FROM match_proposals WHERE status = $1) AS successful_matches,
			(SELECT COUNT(*) FROM users WHERE created_at >= $2) AS new_users`

	row, err := queryOne[overviewRow](ctx, r.DB, query,
		proposalStatusMatched, r.since(analytics.Period{Days: analytics.DefaultDays}))
	if err != nil {
		return analytics.Overview{}, fmt.Errorf("query overview: %w", err)
	}

	return analytics.Overview{
		TotalUsers:        row.TotalUsers,
		TotalMatches:      row.TotalMatches,
		TotalQueueEntries: row.TotalQueueEntries,
		TotalCommands:     row.TotalCommands,
		SuccessfulMatches: row.SuccessfulMatches,
		MatchSuccessRate:  analytics.Rate(row.SuccessfulMatches, row.TotalMatches),
		NewUsersLast7Days: row.NewUsers,
	}, nil
}

type userCountsRow struct {
	TotalUsers  int64 `db:"total_users"`
	NewUsers    int64 `db:"new_users"`
	ActiveUsers int64 `db:"active_users"`
	LOL         int64 `db:"lol"`
	VAL         int64 `db:"val"`
	Unknown     int64 `db:"unknown"`
}

// Users returns user totals, growth and activity over the period, split by preferred game.
func (r *AnalyticsRepo) Users(ctx context.Context, p analytics.Period) (analytics.Users, error) {
	const query = `
		SELECT
			COUNT(*) AS total_users,
			COUNT(*) FILTER (WHERE created_at >= $1) AS new_users,
			COUNT(*) FILTER (WHERE last_active_at >= $1) AS active_users,
			COUNT(*) FILTER (WHERE preferred_game = 'LOL') AS lol,
			COUNT(*) FILTER (WHERE preferred_game = 'VAL') AS val,
			COUNT(*) FILTER (WHERE preferred_game IS NULL OR preferred_game NOT IN ('LOL', 'VAL')) AS unknown
		FROM users`

	row, err := queryOne[userCountsRow](ctx, r.DB, query, r.since(p))
	if err != nil {
		return analytics.Users{}, fmt.Errorf("query users: %w", err)
	}

	return analytics.Users{
		TotalUsers:  row.TotalUsers,
		NewUsers:    row.NewUsers,
		ActiveUsers: row.ActiveUsers,
		UsersByGame: analytics.UsersByGame{LOL: row.LOL, VAL: row.VAL, Unknown: row.Unknown},
		Period:      p.Label(),
	}, nil
}

// Commands returns per-command usage over the period, most used first.
func (r *AnalyticsRepo) Commands(ctx context.Context, p analytics.Period) (analytics.Commands, error) {
	const query = `
		SELECT
			command_name,
			COUNT(*) AS total_usage,
			COUNT(*) FILTER (WHERE success) AS success_count,
			COUNT(*) FILTER (WHERE NOT success) AS failure_count,
			COALESCE(AVG(execution_time_ms), 0)::float8 AS avg_execution_time_ms
		FROM command_logs
		WHERE created_at >= $1
		GROUP BY command_name
		ORDER BY total_usage DESC, command_name ASC`

	stats, err := queryRows[analytics.CommandStats](ctx, r.DB, query, r.since(p))
	if err != nil {
		return analytics.Commands{}, fmt.Errorf("query commands: %w", err)
	}
	for i := range stats {
		stats[i].SuccessRate = analytics.Rate(stats[i].SuccessCount, stats[i].TotalUsage)
	}

	return analytics.Commands{Commands: stats, Period: p.Label()}, nil
}

// CommandLog returns the most recent command invocations in the period and the period total.
func (r *AnalyticsRepo) CommandLog(ctx context.Context, p analytics.Period) (analytics.CommandLog, error) {
	const listQuery = `
		SELECT id, user_id, username, command_name, success, execution_time_ms, guild_id, created_at
		FROM command_logs
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2`
	const countQuery = `SELECT COUNT(*) AS total FROM command_logs WHERE created_at >= $1`

	since := r.since(p)
	entries, err := queryRows[analytics.CommandLogEntry](ctx, r.DB, listQuery, since, p.Limit)
	if err != nil {
		return analytics.CommandLog{}, fmt.Errorf("query command log: %w", err)
	}
	total, err := queryOne[countRow](ctx, r.DB, countQuery, since)
	if err != nil {
		return analytics.CommandLog{}, fmt.Errorf("count command log: %w", err)
	}

	return analytics.CommandLog{Entries: entries, Total: total.Total, Period: p.Label()}, nil
}

// Queues returns per-mode queue outcomes over the period plus the live waiting counts.
func (r *AnalyticsRepo) Queues(ctx context.Context, p analytics.Period) (analytics.Queues, error) {
	const statsQuery = `
		SELECT
			game,
			mode,
			COUNT(*) AS total_entries,
			COUNT(*) FILTER (WHERE status = $2) AS successful_matches,
			COALESCE(AVG(EXTRACT(EPOCH FROM (matched_at - joined_at)) / 60)
				FILTER (WHERE matched_at IS NOT NULL), 0)::float8 AS avg_wait_time_minutes
		FROM queue_entries
		WHERE joined_at >= $1
		GROUP BY game, mode
		ORDER BY game, mode`

	stats, err := queryRows[analytics.QueueModeStats](ctx, r.DB, statsQuery, r.since(p), queueStatusMatched)
	if err != nil {
		return analytics.Queues{}, fmt.Errorf("query queue stats: %w", err)
	}
	for i := range stats {
		stats[i].MatchRate = analytics.Rate(stats[i].SuccessfulMatches, stats[i].TotalEntries)
	}

	current, err := r.currentQueueState(ctx)
	if err != nil {
		return analytics.Queues{}, err
	}

	return analytics.Queues{ModeStats: stats, CurrentQueueState: current, Period: p.Label()}, nil
}

func (r *AnalyticsRepo) currentQueueState(ctx context.Context) ([]analytics.QueueState, error) {
	const query = `
		SELECT game, mode, COUNT(*) AS waiting_players
		FROM queue_entries
		WHERE status = $1
		GROUP BY game, mode
		ORDER BY game, mode`

	state, err := queryRows[analytics.QueueState](ctx, r.DB, query, queueStatusWaiting)
	if err != nil {
		return nil, fmt.Errorf("query queue state: %w", err)
	}
	return state, nil
}

// QueuePlayers lists every player currently waiting, longest wait first.
func (r *AnalyticsRepo) QueuePlayers(ctx context.Context) (analytics.QueuePlayers, error) {
	const query = `
		SELECT game, mode, user_id, username, COALESCE(rank, '') AS rank, joined_at
		FROM queue_entries
		WHERE status = $1
		ORDER BY joined_at ASC`

	players, err := queryRows[analytics.QueuePlayer](ctx, r.DB, query, queueStatusWaiting)
	if err != nil {
		return analytics.QueuePlayers{}, fmt.Errorf("query queue players: %w", err)
	}
	return analytics.QueuePlayers{Players: players}, nil
}

// QueueLog returns the most recently updated queue entries in the period.
func (r *AnalyticsRepo) QueueLog(ctx context.Context, p analytics.Period) (analytics.QueueLog, error) {
	const query = `
		SELECT id, user_id, username, game, mode, status, joined_at, matched_at, updated_at
		FROM queue_entries
		WHERE updated_at >= $1
		ORDER BY updated_at DESC
		LIMIT $2`

	actions, err := queryRows[analytics.QueueAction](ctx, r.DB, query, r.since(p), p.Limit)
	if err != nil {
		return analytics.QueueLog{}, fmt.Errorf("query queue log: %w", err)
	}
	return analytics.QueueLog{Actions: actions, Period: p.Label()}, nil
}

// Matches returns the match proposal outcome breakdown over the period.
func (r *AnalyticsRepo) Matches(ctx context.Context, p analytics.Period) (analytics.Matches, error) {
	const query = `
		SELECT
			COUNT(*) AS total_proposals,
			COUNT(*) FILTER (WHERE status = $2) AS matched,
			COUNT(*) FILTER (WHERE status = $3) AS declined,
			COUNT(*) FILTER (WHERE status = $4) AS timed_out,
			COUNT(*) FILTER (WHERE status = $5) AS pending,
			COALESCE(AVG(match_score), 0)::float8 AS avg_match_score
		FROM match_proposals
		WHERE created_at >= $1`

	b, err := queryOne[analytics.MatchStatusBreakdown](ctx, r.DB, query, r.since(p),
		proposalStatusMatched, proposalStatusDeclined, proposalStatusTimedOut, proposalStatusPending)
	if err != nil {
		return analytics.Matches{}, fmt.Errorf("query matches: %w", err)
	}
	b.AcceptanceRate = analytics.Rate(b.Matched, b.Decided())

	return analytics.Matches{MatchStatusBreakdown: b, Period: p.Label()}, nil
}

// MatchingQuality evaluates matchmaking over the period: proposal outcomes, post-match
// feedback, what players did after a match, /lf request outcomes, wait times and repeat pairs.
func (r *AnalyticsRepo) MatchingQuality(ctx context.Context, p analytics.Period) (analytics.MatchingQuality, error) {
	const countsQuery = `
		WITH proposals AS (
			SELECT
				COUNT(*) AS total_proposals,
				COUNT(*) FILTER (WHERE status = $2) AS matched_proposals,
				COUNT(*) FILTER (WHERE status = $3) AS declined_proposals,
				COUNT(*) FILTER (WHERE status = $4) AS timed_out_proposals
			FROM match_proposals
			WHERE created_at >= $1
		), feedback AS (
			SELECT
				COUNT(*) FILTER (WHERE positive) AS positive_feedback,
				COUNT(*) FILTER (WHERE NOT positive) AS negative_feedback,
				COUNT(*) AS total_feedback
			FROM match_feedback
			WHERE created_at >= $1
		), exits AS (
			SELECT
				COUNT(*) FILTER (WHERE event_type = $5) AS requeues,
				COUNT(*) FILTER (WHERE event_type = $6) AS leaves
			FROM analytics_events
			WHERE created_at >= $1
		), lf AS (
			SELECT
				COUNT(*) FILTER (WHERE status = 'accepted') AS lf_accepted,
				COUNT(*) FILTER (WHERE status = 'declined') AS lf_declined,
				COUNT(*) FILTER (WHERE status = 'expired') AS lf_expired,
				COUNT(*) AS lf_total
			FROM lf_requests
			WHERE created_at >= $1
		)
		SELECT * FROM proposals, feedback, exits, lf`
	const waitQuery = `
		SELECT
			COALESCE(AVG(minutes), 0)::float8 AS avg_minutes,
			COALESCE(percentile_cont(0.5) WITHIN GROUP (ORDER BY minutes), 0)::float8 AS median_minutes,
			COALESCE(percentile_cont(0.95) WITHIN GROUP (ORDER BY minutes), 0)::float8 AS p95_minutes
		FROM (
			SELECT (EXTRACT(EPOCH FROM (matched_at - joined_at)) / 60)::float8 AS minutes
			FROM queue_entries
			WHERE matched_at IS NOT NULL AND joined_at >= $1
		) waits`
	const repeatQuery = `
		WITH pairs AS (
			SELECT a.user_id AS first_user, b.user_id AS second_user, COUNT(*) AS matches
			FROM match_participants a
			JOIN match_participants b ON b.proposal_id = a.proposal_id AND a.user_id < b.user_id
			JOIN match_proposals mp ON mp.id = a.proposal_id
			WHERE mp.status = $2 AND mp.created_at >= $1
			GROUP BY a.user_id, b.user_id
			HAVING COUNT(*) > 1
		)
		SELECT COUNT(*) AS repeat_pair_count, COALESCE(SUM(matches - 1), 0)::bigint AS total_repeat_matches
		FROM pairs`

	since := r.since(p)
	counts, err := queryOne[analytics.MatchingCounts](ctx, r.DB, countsQuery, since,
		proposalStatusMatched, proposalStatusDeclined, proposalStatusTimedOut,
		eventQueueRequeue, eventQueueLeave)
	if err != nil {
		return analytics.MatchingQuality{}, fmt.Errorf("query matching counts: %w", err)
	}
	wait, err := queryOne[analytics.TimeToMatch](ctx, r.DB, waitQuery, since)
	if err != nil {
		return analytics.MatchingQuality{}, fmt.Errorf("query time to match: %w", err)
	}
	repeat, err := queryOne[analytics.RepeatMatching](ctx, r.DB, repeatQuery, since, proposalStatusMatched)
	if err != nil {
		return analytics.MatchingQuality{}, fmt.Errorf("query repeat matching: %w", err)
	}

	return analytics.NewMatchingQuality(counts, wait, repeat, p.Label()), nil
}

// Events returns per-type event counts over the period and the most recent events.
func (r *AnalyticsRepo) Events(ctx context.Context, p analytics.Period) (analytics.Events, error) {
	const countQuery = `
		SELECT event_type, COUNT(*) AS count
		FROM analytics_events
		WHERE created_at >= $1
		GROUP BY event_type
		ORDER BY count DESC, event_type ASC`
	const recentQuery = `
		SELECT id, event_type, user_id, metadata, created_at
		FROM analytics_events
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2`

	since := r.since(p)
	counts, err := queryRows[analytics.EventCount](ctx, r.DB, countQuery, since)
	if err != nil {
		return analytics.Events{}, fmt.Errorf("query event counts: %w", err)
	}
	recent, err := queryRows[analytics.Event](ctx, r.DB, recentQuery, since, p.Limit)
	if err != nil {
		return analytics.Events{}, fmt.Errorf("query recent events: %w", err)
	}

	return analytics.Events{EventCounts: counts, RecentEvents: recent, Period: p.Label()}, nil
}

// DailyMetrics returns the bot's daily rollups for the period, oldest first.
func (r *AnalyticsRepo) DailyMetrics(ctx context.Context, p analytics.Period) (analytics.DailyMetrics, error) {
	const query = `
		SELECT id, date, total_users, new_users, active_users, total_queue_joins, total_matches,
			total_match_declines, total_match_timeouts, average_wait_time_min::float8 AS average_wait_time_min,
			total_commands, total_lfg_posts, total_lfg_completions, total_ten_mans_matches,
			created_at, updated_at
		FROM daily_metrics
		WHERE date >= $1::date
		ORDER BY date ASC`

	metrics, err := queryRows[analytics.DailyMetric](ctx, r.DB, query, r.since(p))
	if err != nil {
		return analytics.DailyMetrics{}, fmt.Errorf("query daily metrics: %w", err)
	}
	return analytics.DailyMetrics{DailyMetrics: metrics, Period: p.Label()}, nil
}

// Guilds lists every guild the bot has joined, active ones first.
func (r *AnalyticsRepo) Guilds(ctx context.Context) (analytics.Guilds, error) {
	const query = `
		SELECT id, name, member_count, icon_hash, owner_id, is_active, joined_at, left_at, updated_at
		FROM bot_guilds
		ORDER BY is_active DESC, member_count DESC, name ASC`

	guilds, err := queryRows[analytics.Guild](ctx, r.DB, query)
	if err != nil {
		return analytics.Guilds{}, fmt.Errorf("query guilds: %w", err)
	}
	return analytics.Guilds{Guilds: guilds, Summary: analytics.Summarize(guilds)}, nil
}
