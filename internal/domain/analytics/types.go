// Package analytics holds the read models served by the dashboard's analytics API.
package analytics

import (
	"encoding/json"
	"strconv"
	"time"
)

// Game is the title a queue or user is associated with.
type Game string

const (
	GameLOL Game = "LOL"
	GameVAL Game = "VAL"
)

// Query bounds for period and page size parameters.
const (
	DefaultDays  = 7
	MaxDays      = 365
	DefaultLimit = 100
	MaxLimit     = 500
)

// Period is the look-back window of a query.
type Period struct {
	Days  int `validate:"min=1,max=365"`
	Limit int `validate:"min=1,max=500"`
}

// Label renders the period the way API responses report it, e.g. "7 days".
func (p Period) Label() string {
	if p.Days == 1 {
		return "1 day"
	}
	return strconv.Itoa(p.Days) + " days"
}

// Since returns the start of the window ending at now.
func (p Period) Since(now time.Time) time.Time {
	return now.AddDate(0, 0, -p.Days)
}

// Overview is the headline counters card.
type Overview struct {
	TotalUsers        int64   `json:"totalUsers"`
	TotalMatches      int64   `json:"totalMatches"`
	TotalQueueEntries int64   `json:"totalQueueEntries"`
	TotalCommands     int64   `json:"totalCommands"`
	SuccessfulMatches int64   `json:"successfulMatches"`
	MatchSuccessRate  float64 `json:"matchSuccessRate"`
	NewUsersLast7Days int64   `json:"newUsersLast7Days"`
}

// UsersByGame splits user counts by preferred game.
type UsersByGame struct {
	LOL     int64 `json:"LOL"`
	VAL     int64 `json:"VAL"`
	Unknown int64 `json:"unknown"`
}

// Users summarises user growth and activity in a period.
type Users struct {
	TotalUsers  int64       `json:"totalUsers"`
	NewUsers    int64       `json:"newUsers"`
	ActiveUsers int64       `json:"activeUsers"`
	UsersByGame UsersByGame `json:"usersByGame"`
	Period      string      `json:"period"`
}

// CommandStats aggregates usage of one slash command.
type CommandStats struct {
	CommandName        string  `json:"commandName" db:"command_name"`
	TotalUsage         int64   `json:"totalUsage" db:"total_usage"`
	SuccessCount       int64   `json:"successCount" db:"success_count"`
	FailureCount       int64   `json:"failureCount" db:"failure_count"`
	SuccessRate        float64 `json:"successRate" db:"-"`
	AvgExecutionTimeMs float64 `json:"avgExecutionTimeMs" db:"avg_execution_time_ms"`
}

// Commands lists command usage ordered by total usage.
type Commands struct {
	Commands []CommandStats `json:"commands"`
	Period   string         `json:"period"`
}

// CommandLogEntry is one recorded command invocation.
type CommandLogEntry struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"userId" db:"user_id"`
	Username        string    `json:"username" db:"username"`
	CommandName     string    `json:"commandName" db:"command_name"`
	Success         bool      `json:"success" db:"success"`
	ExecutionTimeMs *int64    `json:"executionTimeMs" db:"execution_time_ms"`
	GuildID         *string   `json:"guildId" db:"guild_id"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// CommandLog is a page of recent command invocations.
type CommandLog struct {
	Entries []CommandLogEntry `json:"entries"`
	Total   int64             `json:"total"`
	Period  string            `json:"period"`
}

// QueueModeStats aggregates queue outcomes per game and mode.
type QueueModeStats struct {
	Game               Game    `json:"game" db:"game"`
	Mode               string  `json:"mode" db:"mode"`
	TotalEntries       int64   `json:"totalEntries" db:"total_entries"`
	SuccessfulMatches  int64   `json:"successfulMatches" db:"successful_matches"`
	MatchRate          float64 `json:"matchRate" db:"-"`
	AvgWaitTimeMinutes float64 `json:"avgWaitTimeMinutes" db:"avg_wait_time_minutes"`
}

// QueueState is the number of players waiting in one queue right now.
type QueueState struct {
	Game           Game   `json:"game" db:"game"`
	Mode           string `json:"mode" db:"mode"`
	WaitingPlayers int64  `json:"waitingPlayers" db:"waiting_players"`
}

// Queues combines historical queue stats with the live queue state.
type Queues struct {
	ModeStats         []QueueModeStats `json:"modeStats"`
	CurrentQueueState []QueueState     `json:"currentQueueState"`
	Period            string           `json:"period"`
}

// QueuePlayer is a player currently waiting in a queue.
type QueuePlayer struct {
	Game     Game      `json:"game" db:"game"`
	Mode     string    `json:"mode" db:"mode"`
	UserID   string    `json:"userId" db:"user_id"`
	Username string    `json:"username" db:"username"`
	Rank     string    `json:"rank" db:"rank"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`
}

// QueuePlayers lists every waiting player.
type QueuePlayers struct {
	Players []QueuePlayer `json:"players"`
}

// QueueAction is one queue entry and its current status.
type QueueAction struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"userId" db:"user_id"`
	Username  string     `json:"username" db:"username"`
	Game      Game       `json:"game" db:"game"`
	Mode      string     `json:"mode" db:"mode"`
	Status    string     `json:"status" db:"status"`
	JoinedAt  time.Time  `json:"joinedAt" db:"joined_at"`
	MatchedAt *time.Time `json:"matchedAt" db:"matched_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// QueueLog is a page of recent queue actions.
type QueueLog struct {
	Actions []QueueAction `json:"actions"`
	Period  string        `json:"period"`
}

// MatchStatusBreakdown counts match proposals by outcome.
type MatchStatusBreakdown struct {
	TotalProposals int64   `json:"totalProposals" db:"total_proposals"`
	Matched        int64   `json:"matched" db:"matched"`
	Declined       int64   `json:"declined" db:"declined"`
	TimedOut       int64   `json:"timedOut" db:"timed_out"`
	Pending        int64   `json:"pending" db:"pending"`
	AcceptanceRate float64 `json:"acceptanceRate" db:"-"`
	AvgMatchScore  float64 `json:"avgMatchScore" db:"avg_match_score"`
}

// Decided is the number of proposals that reached a final outcome.
func (b MatchStatusBreakdown) Decided() int64 {
	return b.Matched + b.Declined + b.TimedOut
}

// Matches wraps the proposal breakdown for a period.
type Matches struct {
	MatchStatusBreakdown MatchStatusBreakdown `json:"matchStatusBreakdown"`
	Period               string               `json:"period"`
}

// MatchingCounts are the raw numbers behind the matching-quality rates.
type MatchingCounts struct {
	TotalProposals    int64 `json:"totalProposals" db:"total_proposals"`
	MatchedProposals  int64 `json:"matchedProposals" db:"matched_proposals"`
	DeclinedProposals int64 `json:"declinedProposals" db:"declined_proposals"`
	TimedOutProposals int64 `json:"timedOutProposals" db:"timed_out_proposals"`
	PositiveFeedback  int64 `json:"positiveFeedback" db:"positive_feedback"`
	NegativeFeedback  int64 `json:"negativeFeedback" db:"negative_feedback"`
	TotalFeedback     int64 `json:"totalFeedback" db:"total_feedback"`
	Requeues          int64 `json:"requeues" db:"requeues"`
	Leaves            int64 `json:"leaves" db:"leaves"`
	LfAccepted        int64 `json:"lfAccepted" db:"lf_accepted"`
	LfDeclined        int64 `json:"lfDeclined" db:"lf_declined"`
	LfExpired         int64 `json:"lfExpired" db:"lf_expired"`
	LfTotal           int64 `json:"lfTotal" db:"lf_total"`
}

// Resolved is the number of proposals that were matched, declined or timed out.
func (c MatchingCounts) Resolved() int64 {
	return c.MatchedProposals + c.DeclinedProposals + c.TimedOutProposals
}

// PossibleFeedback assumes two players per match, each allowed one rating.
func (c MatchingCounts) PossibleFeedback() int64 {
	return c.MatchedProposals * 2
}

// TimeToMatch summarises how long matched queue entries waited.
type TimeToMatch struct {
	AvgMinutes    float64 `json:"avgMinutes" db:"avg_minutes"`
	MedianMinutes float64 `json:"medianMinutes" db:"median_minutes"`
	P95Minutes    float64 `json:"p95Minutes" db:"p95_minutes"`
}

// RepeatMatching counts player pairs matched together more than once.
// TotalRepeatMatches counts the matches beyond each pair's first.
type RepeatMatching struct {
	RepeatPairCount    int64 `json:"repeatPairCount" db:"repeat_pair_count"`
	TotalRepeatMatches int64 `json:"totalRepeatMatches" db:"total_repeat_matches"`
}

// MatchingQuality evaluates the matchmaker over a period. Rates are percentages.
type MatchingQuality struct {
	AcceptanceRate          float64        `json:"acceptanceRate"`
	PositiveFeedbackRatio   float64        `json:"positiveFeedbackRatio"`
	ReQueueRate             float64        `json:"reQueueRate"`
	FeedbackSubmissionRate  float64        `json:"feedbackSubmissionRate"`
	TimeToMatch             TimeToMatch    `json:"timeToMatch"`
	RepeatMatching          RepeatMatching `json:"repeatMatching"`
	LfRequestAcceptanceRate float64        `json:"lfRequestAcceptanceRate"`
	Counts                  MatchingCounts `json:"counts"`
	Period                  string         `json:"period"`
}

// NewMatchingQuality derives the rates from the raw counts.
// Re-queue rate is the share of post-match exits that went back into a queue.
func NewMatchingQuality(c MatchingCounts, ttm TimeToMatch, repeat RepeatMatching, period string) MatchingQuality {
	return MatchingQuality{
		AcceptanceRate:          Rate(c.MatchedProposals, c.Resolved()),
		PositiveFeedbackRatio:   Rate(c.PositiveFeedback, c.TotalFeedback),
		ReQueueRate:             Rate(c.Requeues, c.Requeues+c.Leaves),
		FeedbackSubmissionRate:  Rate(c.TotalFeedback, c.PossibleFeedback()),
		TimeToMatch:             ttm,
		RepeatMatching:          repeat,
		LfRequestAcceptanceRate: Rate(c.LfAccepted, c.LfTotal),
		Counts:                  c,
		Period:                  period,
	}
}

// EventCount is the number of events of one type.
type EventCount struct {
	EventType string `json:"eventType" db:"event_type"`
	Count     int64  `json:"count" db:"count"`
}

// Event is one raw analytics event emitted by the bot.
type Event struct {
	ID        string          `json:"id" db:"id"`
	EventType string          `json:"eventType" db:"event_type"`
	UserID    *string         `json:"userId" db:"user_id"`
	Metadata  json.RawMessage `json:"metadata" db:"metadata"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// Events combines per-type counts with the most recent events.
type Events struct {
	EventCounts  []EventCount `json:"eventCounts"`
	RecentEvents []Event      `json:"recentEvents"`
	Period       string       `json:"period"`
}

// DailyMetric is one row of the bot's daily rollup.
type DailyMetric struct {
	ID                  string    `json:"id" db:"id"`
	Date                time.Time `json:"date" db:"date"`
	TotalUsers          int64     `json:"totalUsers" db:"total_users"`
	NewUsers            int64     `json:"newUsers" db:"new_users"`
	ActiveUsers         int64     `json:"activeUsers" db:"active_users"`
	TotalQueueJoins     int64     `json:"totalQueueJoins" db:"total_queue_joins"`
	TotalMatches        int64     `json:"totalMatches" db:"total_matches"`
	TotalMatchDeclines  int64     `json:"totalMatchDeclines" db:"total_match_declines"`
	TotalMatchTimeouts  int64     `json:"totalMatchTimeouts" db:"total_match_timeouts"`
	AverageWaitTimeMin  float64   `json:"averageWaitTimeMin" db:"average_wait_time_min"`
	TotalCommands       int64     `json:"totalCommands" db:"total_commands"`
	TotalLfgPosts       int64     `json:"totalLfgPosts" db:"total_lfg_posts"`
	TotalLfgCompletions int64     `json:"totalLfgCompletions" db:"total_lfg_completions"`
	TotalTenMansMatches int64     `json:"totalTenMansMatches" db:"total_ten_mans_matches"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}

// DailyMetrics lists daily rollups in ascending date order.
type DailyMetrics struct {
	DailyMetrics []DailyMetric `json:"dailyMetrics"`
	Period       string        `json:"period"`
}

// Guild is a Discord server the bot has joined.
type Guild struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	MemberCount int64      `json:"memberCount" db:"member_count"`
	IconHash    *string    `json:"iconHash" db:"icon_hash"`
	OwnerID     *string    `json:"ownerId" db:"owner_id"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	JoinedAt    time.Time  `json:"joinedAt" db:"joined_at"`
	LeftAt      *time.Time `json:"leftAt" db:"left_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// GuildSummary totals the guild list.
type GuildSummary struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	TotalMembers int64 `json:"totalMembers"`
}

// Guilds lists every guild with summary totals.
type Guilds struct {
	Guilds  []Guild      `json:"guilds"`
	Summary GuildSummary `json:"summary"`
}

// Summarize computes the totals over guilds. Member counts only include active guilds.
func Summarize(guilds []Guild) GuildSummary {
	s := GuildSummary{Total: int64(len(guilds))}
	for _, g := range guilds {
		if g.IsActive {
			s.Active++
			s.TotalMembers += g.MemberCount
		}
	}
	return s
}

// Rate returns part/total as a percentage, 0 when total is 0.
func Rate(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
