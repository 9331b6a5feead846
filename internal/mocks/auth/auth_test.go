package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
	"github.com/EZLFP/discord-bot-dashboard/internal/ports"
)

func TestMockAuthProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"}
	authURL, state, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-discord/oauth2/authorize", authURL)
	assert.Equal(t, "state-1", state)

	// Second call should increment counters
	_, state2, err := provider.Begin(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "state-2", state2)
}

func TestMockAuthProvider_Exchange_Defaults(t *testing.T) {
	provider := &MockAuthProvider{}

	res, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c", State: "s"})

	require.NoError(t, err)
	assert.Equal(t, "100000000000000001", res.Identity.UserID)
	assert.True(t, res.Grant.Valid())
	assert.Equal(t, res.Identity.UserID, res.Grant.ProviderAccountID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.Grant.ExpiresAt, 5*time.Second)
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	_, err := store.Save(ctx, domainauth.Session{})
	require.Error(t, err)

	token, err := store.Save(ctx, domainauth.Session{ID: "s1", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "s1", token)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestScriptedMemberLookup(t *testing.T) {
	boom := errors.New("boom")
	lookup := &ScriptedMemberLookup{Responses: []LookupResponse{
		{Err: boom},
		{Roles: []string{"111"}},
	}}
	ctx := context.Background()

	_, err := lookup.LookupMember(ctx, "g", "t")
	require.ErrorIs(t, err, boom)

	m, err := lookup.LookupMember(ctx, "g", "t")
	require.NoError(t, err)
	assert.Equal(t, []string{"111"}, m.Roles)

	// last response repeats
	m, err = lookup.LookupMember(ctx, "g", "t")
	require.NoError(t, err)
	assert.Equal(t, []string{"111"}, m.Roles)

	assert.Len(t, lookup.Calls(), 3)
	assert.Equal(t, LookupCall{GuildID: "g", AccessToken: "t"}, lookup.Calls()[0])
}

func TestSleepRecorder(t *testing.T) {
	var r SleepRecorder
	require.NoError(t, r.Sleep(context.Background(), time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, r.Sleep(ctx, 2*time.Second), context.Canceled)

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, r.Delays())
}
