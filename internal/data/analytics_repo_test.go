package data

import (
	"context"
	"database/sql"
	_ "embed"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EZLFP/discord-bot-dashboard/internal/domain/analytics"
	apperrors "github.com/EZLFP/discord-bot-dashboard/internal/errors"
	"github.com/EZLFP/discord-bot-dashboard/internal/testutil"
)

//go:embed testdata/bot_schema.sql
var botSchema string

var week = analytics.Period{Days: analytics.DefaultDays, Limit: analytics.DefaultLimit}

func setupAnalyticsRepo(t *testing.T) (*AnalyticsRepo, *sql.DB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db := testutil.SetupSchemaDB(t, botSchema)
	clk := clock.NewMock()
	clk.Set(testutil.TestTime())
	repo := NewAnalyticsRepo(db).WithClock(clk)
	return repo, db
}

func TestAnalyticsRepo_NoDatabase(t *testing.T) {
	repo := NewAnalyticsRepo(nil)
	ctx := context.Background()

	_, err := repo.Overview(ctx)
	require.ErrorIs(t, err, ErrDatabaseRequired)

	_, err = repo.Commands(ctx, week)
	require.ErrorIs(t, err, ErrDatabaseRequired)

	_, err = repo.Guilds(ctx)
	require.ErrorIs(t, err, ErrDatabaseRequired)

	_, err = repo.MatchingQuality(ctx, week)
	require.ErrorIs(t, err, ErrDatabaseRequired)
}

func TestAnalyticsRepo_Overview(t *testing.T) {
	repo, _ := setupAnalyticsRepo(t)

	o, err := repo.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), o.TotalUsers)
	assert.Equal(t, int64(5), o.TotalMatches)
	assert.Equal(t, int64(3), o.TotalQueueEntries)
	assert.Equal(t, int64(4), o.TotalCommands)
	assert.Equal(t, int64(2), o.SuccessfulMatches)
	assert.InDelta(t, 40.0, o.MatchSuccessRate, 0.001)
	assert.Equal(t, int64(2), o.NewUsersLast7Days)
}

func TestAnalyticsRepo_Users(t *testing.T) {
	repo, _ := setupAnalyticsRepo(t)

	u, err := repo.Users(context.Background(), week)
	require.NoError(t, err)

	assert.Equal(t, int64(3), u.TotalUsers)
	assert.Equal(t, int64(2), u.NewUsers)
	assert.Equal(t, int64(1), u.ActiveUsers)
	assert.Equal(t, analytics.UsersByGame{LOL: 1, VAL: 1, Unknown: 1}, u.UsersByGame)
	assert.Equal(t, "7 days", u.Period)
}

func TestAnalyticsRepo_Commands(t *testing.T) {
	repo, _ := setupAnalyticsRepo(t)
	ctx := context.Background()

	c, err := repo.Commands(ctx, week)
	require.NoError(t, err)
	require.Len(t, c.Commands, 2)

	queue := c.Commands[0]
	assert.Equal(t, "queue", queue.CommandName)
	assert.Equal(t, int64(2), queue.TotalUsage)
	assert.Equal(t, int64(1), queue.SuccessCount)
	assert.Equal(t, int64(1), queue.FailureCount)
	assert.InDelta(t, 50.0, queue.SuccessRate, 0.001)
	assert.InDelta(t, 100.0, queue.AvgExecutionTimeMs, 0.001)

	assert.Equal(t, "stats", c.Commands[1].CommandName)
	assert.InDelta(t, 100.0, c.Commands[1].SuccessRate, 0.001)

	cl, err := repo.CommandLog(ctx, analytics.Period{Days: 7, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), cl.Total)
	require.Len(t, cl.Entries, 2)
	assert.Equal(t, "c2", cl.Entries[0].ID)
	assert.Nil(t, cl.Entries[0].ExecutionTimeMs)
	assert.Equal(t, "c1", cl.Entries[1].ID)
	require.NotNil(t, cl.Entries[1].ExecutionTimeMs)
	assert.Equal(t, int64(100), *cl.Entries[1].ExecutionTimeMs)
}

func TestAnalyticsRepo_Queues(t *testing.T) {
	repo, _ := setupAnalyticsRepo(t)
	ctx := context.Background()

	q, err := repo.Queues(ctx, week)
	require.NoError(t, err)
	require.Len(t, q.ModeStats, 2)

	lol := q.ModeStats[0]
	assert.Equal(t, analytics.GameLOL, lol.Game)
	assert.Equal(t, int64(1), lol.TotalEntries)
	assert.Zero(t, lol.MatchRate)

	val := q.ModeStats[1]
	assert.Equal(t, analytics.GameVAL, val.Game)
	assert.Equal(t, int64(2), val.TotalEntries)
	assert.Equal(t, int64(1), val.SuccessfulMatches)
	assert.InDelta(t, 50.0, val.MatchRate, 0.001)
	assert.InDelta(t, 30.0, val.AvgWaitTimeMinutes, 0.001)

	assert.Equal(t, []analytics.QueueState{
		{Game: analytics.GameLOL, Mode: "ranked", WaitingPlayers: 1},
		{Game: analytics.GameVAL, Mode: "competitive", WaitingPlayers: 1},
	}, q.CurrentQueueState)

	players, err := repo.QueuePlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players.Players, 2)
	assert.Equal(t, "lurker", players.Players[0].Username)
	assert.Empty(t, players.Players[0].Rank)
	assert.Equal(t, "Gold", players.Players[1].Rank)

	ql, err := repo.QueueLog(ctx, week)
	require.NoError(t, err)
	require.Len(t, ql.Actions, 3)
	assert.Equal(t, []string{"q1", "q3", "q2"}, []string{ql.Actions[0].ID, ql.Actions[1].ID, ql.Actions[2].ID})
	assert.NotNil(t, ql.Actions[2].MatchedAt)
}

func TestAnalyticsRepo_Matches(t *testing.T) {
	repo, _ := setupAnalyticsRepo(t)

	m, err := repo.Matches(context.Background(), week)
	require.NoError(t, err)

	b := m.MatchStatusBreakdown
	assert.Equal(t, int64(4), b.TotalProposals)
	assert.Equal(t, int64(1), b.Matched)
	assert.Equal(t, int64(1), b.Declined)
	assert.Equal(t, int64(1), b.TimedOut)
	assert.Equal(t, int64(1), b.Pending)
	assert.InDelta(t, 100.0/3, b.AcceptanceRate, 0.001)
	assert.InDelta(t, 70.0, b.AvgMatchScore, 0.001)
}

func TestAnalyticsRepo_MatchingQuality(t *testing.T) {
	repo, _ := setupAnalyticsRepo(t)

	q, err := repo.MatchingQuality(context.Background(), analytics.Period{Days: 365, Limit: analytics.DefaultLimit})
	require.NoError(t, err)

	assert.Equal(t, analytics.MatchingCounts{
		TotalProposals:    5,
		MatchedProposals:  2,
		DeclinedProposals: 1,
		TimedOutProposals: 1,
		PositiveFeedback:  2,
		NegativeFeedback:  1,
		TotalFeedback:     3,
		Requeues:          1,
		Leaves:            2,
		LfAccepted:        1,
		LfDeclined:        1,
		LfExpired:         1,
		LfTotal:           4,
	}, q.Counts)
	assert.InDelta(t, 50.0, q.AcceptanceRate, 0.001)
	assert.InDelta(t, 200.0/3, q.PositiveFeedbackRatio, 0.001)
	assert.InDelta(t, 100.0/3, q.ReQueueRate, 0.001)
	assert.InDelta(t, 75.0, q.FeedbackSubmissionRate, 0.001)
	assert.InDelta(t, 25.0, q.LfRequestAcceptanceRate, 0.001)
	assert.InDelta(t, 30.0, q.TimeToMatch.AvgMinutes, 0.001)
	assert.InDelta(t, 30.0, q.TimeToMatch.MedianMinutes, 0.001)
	assert.InDelta(t, 30.0, q.TimeToMatch.P95Minutes, 0.001)
	// u1 and u2 were matched in m1 and m5; the declined m2 does not count.
	assert.Equal(t, analytics.RepeatMatching{RepeatPairCount: 1, TotalRepeatMatches: 1}, q.RepeatMatching)
	assert.Equal(t, "365 days", q.Period)
}

func TestAnalyticsRepo_MatchingQuality_WeekWindow(t *testing.T) {
	repo, _ := setupAnalyticsRepo(t)

	q, err := repo.MatchingQuality(context.Background(), week)
	require.NoError(t, err)

	assert.Equal(t, int64(1), q.Counts.MatchedProposals)
	assert.Equal(t, int64(2), q.Counts.TotalFeedback)
	assert.Zero(t, q.Counts.Requeues+q.Counts.Leaves)
	assert.Zero(t, q.ReQueueRate)
	assert.Equal(t, analytics.RepeatMatching{}, q.RepeatMatching)
}

func TestAnalyticsRepo_Events(t *testing.T) {
	repo, _ := setupAnalyticsRepo(t)

	e, err := repo.Events(context.Background(), week)
	require.NoError(t, err)

	assert.Equal(t, []analytics.EventCount{
		{EventType: "queue_join", Count: 2},
		{EventType: "match_found", Count: 1},
	}, e.EventCounts)
	require.Len(t, e.RecentEvents, 3)
	assert.Equal(t, "e1", e.RecentEvents[0].ID)
	assert.JSONEq(t, `{"game":"LOL"}`, string(e.RecentEvents[0].Metadata))
	assert.Nil(t, e.RecentEvents[2].UserID)
}

func TestAnalyticsRepo_DailyMetrics(t *testing.T) {
	repo, _ := setupAnalyticsRepo(t)

	d, err := repo.DailyMetrics(context.Background(), week)
	require.NoError(t, err)
	require.Len(t, d.DailyMetrics, 2)
	assert.Equal(t, "d1", d.DailyMetrics[0].ID)
	assert.Equal(t, "d2", d.DailyMetrics[1].ID)
	assert.InDelta(t, 30.5, d.DailyMetrics[1].AverageWaitTimeMin, 0.001)
}

func TestAnalyticsRepo_Guilds(t *testing.T) {
	repo, _ := setupAnalyticsRepo(t)

	g, err := repo.Guilds(context.Background())
	require.NoError(t, err)
	require.Len(t, g.Guilds, 3)
	assert.Equal(t, "Gamma", g.Guilds[0].Name)
	assert.Equal(t, "Alpha", g.Guilds[1].Name)
	assert.Equal(t, "Beta", g.Guilds[2].Name)
	assert.NotNil(t, g.Guilds[2].LeftAt)
	assert.Equal(t, analytics.GuildSummary{Total: 3, Active: 2, TotalMembers: 300}, g.Summary)
}

func TestAnalyticsRepo_MissingTable(t *testing.T) {
	repo, db := setupAnalyticsRepo(t)

	_, err := db.ExecContext(context.Background(), "DROP TABLE bot_guilds")
	require.NoError(t, err)

	_, err = repo.Guilds(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))
}
