package httpx

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/EZLFP/discord-bot-dashboard/internal/domain/analytics"
	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
	"github.com/EZLFP/discord-bot-dashboard/internal/service"
	"github.com/EZLFP/discord-bot-dashboard/internal/testutil"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Now:        testutil.TestTime,
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

func testSession() *domainauth.Session {
	now := testutil.TestTime()
	return &domainauth.Session{
		ID:           "test-session-id",
		UserID:       "1001",
		Username:     "modkat",
		DisplayName:  "Mod Kat",
		Email:        "kat@example.com",
		AvatarURL:    "https://cdn.discordapp.com/avatars/1001/abc.png",
		IsAuthorized: true,
		IssuedAt:     now,
		ExpiresAt:    now.Add(24 * time.Hour),
	}
}

// mockAuthService is a test double for service.AuthService.
type mockAuthService struct {
	beginLoginFunc    func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeLoginFunc func(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	getSessionFunc    func(ctx context.Context, token string) (*domainauth.Session, error)
	logoutFunc        func(ctx context.Context, token string) error
}

func (m *mockAuthService) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if m.beginLoginFunc != nil {
		return m.beginLoginFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{
		AuthURL: "https://discord.com/oauth2/authorize?state=test-state",
		State:   "test-state",
	}, nil
}

func (m *mockAuthService) CompleteLogin(
	ctx context.Context,
	input service.CompleteLoginInput,
) (*service.CompleteLoginResult, error) {
	if m.completeLoginFunc != nil {
		return m.completeLoginFunc(ctx, input)
	}
	return &service.CompleteLoginResult{Session: *testSession(), Token: "test-token"}, nil
}

// GetSession accepts only "valid-token" unless overridden.
func (m *mockAuthService) GetSession(ctx context.Context, token string) (*domainauth.Session, error) {
	if m.getSessionFunc != nil {
		return m.getSessionFunc(ctx, token)
	}
	if token != "valid-token" {
		return nil, errors.New("session not found")
	}
	return testSession(), nil
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, token)
	}
	return nil
}

func withSessionCookie(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	return req
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// fakeAnalytics serves canned read models and records the periods it was asked for.
type fakeAnalytics struct {
	err     error
	periods []analytics.Period
}

func (f *fakeAnalytics) record(p analytics.Period) error {
	f.periods = append(f.periods, p)
	return f.err
}

func (f *fakeAnalytics) Overview(context.Context) (analytics.Overview, error) {
	return analytics.Overview{TotalUsers: 1234, TotalMatches: 56, MatchSuccessRate: 41.7}, f.err
}

func (f *fakeAnalytics) Users(_ context.Context, p analytics.Period) (analytics.Users, error) {
	return analytics.Users{TotalUsers: 3, Period: p.Label()}, f.record(p)
}

func (f *fakeAnalytics) Commands(_ context.Context, p analytics.Period) (analytics.Commands, error) {
	return analytics.Commands{
		Commands: []analytics.CommandStats{{CommandName: "queue", TotalUsage: 2, SuccessRate: 50}},
		Period:   p.Label(),
	}, f.record(p)
}

func (f *fakeAnalytics) CommandLog(_ context.Context, p analytics.Period) (analytics.CommandLog, error) {
	ms := int64(120)
	guild := "g1"
	return analytics.CommandLog{
		Entries: []analytics.CommandLogEntry{{
			ID:              "c1",
			Username:        "alice",
			CommandName:     "queue",
			Success:         true,
			ExecutionTimeMs: &ms,
			GuildID:         &guild,
			CreatedAt:       testutil.TestTime().Add(-5 * time.Minute),
		}},
		Total:  1,
		Period: p.Label(),
	}, f.record(p)
}

func (f *fakeAnalytics) Queues(_ context.Context, p analytics.Period) (analytics.Queues, error) {
	return analytics.Queues{Period: p.Label()}, f.record(p)
}

func (f *fakeAnalytics) QueuePlayers(context.Context) (analytics.QueuePlayers, error) {
	return analytics.QueuePlayers{Players: []analytics.QueuePlayer{{
		Game:     analytics.GameVAL,
		Mode:     "competitive",
		Username: "lurker",
		Rank:     "Gold",
		JoinedAt: testutil.TestTime().Add(-2 * time.Minute),
	}}}, f.err
}

func (f *fakeAnalytics) QueueLog(_ context.Context, p analytics.Period) (analytics.QueueLog, error) {
	return analytics.QueueLog{Period: p.Label()}, f.record(p)
}

func (f *fakeAnalytics) Matches(_ context.Context, p analytics.Period) (analytics.Matches, error) {
	return analytics.Matches{Period: p.Label()}, f.record(p)
}

func (f *fakeAnalytics) MatchingQuality(_ context.Context, p analytics.Period) (analytics.MatchingQuality, error) {
	counts := analytics.MatchingCounts{
		TotalProposals:    12,
		MatchedProposals:  6,
		DeclinedProposals: 3,
		TimedOutProposals: 3,
		PositiveFeedback:  5,
		NegativeFeedback:  1,
		TotalFeedback:     6,
		Requeues:          2,
		Leaves:            2,
		LfAccepted:        1,
		LfTotal:           4,
	}
	ttm := analytics.TimeToMatch{AvgMinutes: 12, MedianMinutes: 9, P95Minutes: 45}
	repeat := analytics.RepeatMatching{RepeatPairCount: 2, TotalRepeatMatches: 3}
	return analytics.NewMatchingQuality(counts, ttm, repeat, p.Label()), f.record(p)
}

func (f *fakeAnalytics) Events(_ context.Context, p analytics.Period) (analytics.Events, error) {
	return analytics.Events{Period: p.Label()}, f.record(p)
}

func (f *fakeAnalytics) DailyMetrics(_ context.Context, p analytics.Period) (analytics.DailyMetrics, error) {
	return analytics.DailyMetrics{Period: p.Label()}, f.record(p)
}

func (f *fakeAnalytics) Guilds(context.Context) (analytics.Guilds, error) {
	return analytics.Guilds{
		Guilds:  []analytics.Guild{{ID: "g1", Name: "EZLFP Main", MemberCount: 1500, IsActive: true}},
		Summary: analytics.GuildSummary{Total: 1, Active: 1, TotalMembers: 1500},
	}, f.err
}

func (f *fakeAnalytics) Dashboard(ctx context.Context, p analytics.Period) (*service.DashboardPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := &service.DashboardPage{Period: p}
	page.Overview, _ = f.Overview(ctx)
	page.Users, _ = f.Users(ctx, p)
	page.Commands, _ = f.Commands(ctx, p)
	page.Queues, _ = f.Queues(ctx, p)
	page.Matches, _ = f.Matches(ctx, p)
	page.Events, _ = f.Events(ctx, p)
	page.DailyMetrics, _ = f.DailyMetrics(ctx, p)
	return page, nil
}

func (f *fakeAnalytics) Queue(ctx context.Context, p analytics.Period) (*service.QueuePage, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := &service.QueuePage{}
	page.Players, _ = f.QueuePlayers(ctx)
	page.Log, _ = f.QueueLog(ctx, p)
	return page, nil
}

func (f *fakeAnalytics) CommandsOverview(ctx context.Context, p analytics.Period) (*service.CommandsPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := &service.CommandsPage{}
	page.Commands, _ = f.Commands(ctx, p)
	page.Log, _ = f.CommandLog(ctx, p)
	page.Guilds, _ = f.Guilds(ctx)
	return page, nil
}
