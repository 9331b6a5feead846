package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
	"github.com/EZLFP/discord-bot-dashboard/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider      = (*MockAuthProvider)(nil)
	_ ports.SessionStore      = (*MemorySessionStore)(nil)
	_ ports.GuildMemberLookup = (*ScriptedMemberLookup)(nil)
)

// MockAuthProvider simulates Discord OAuth for tests with deterministic state handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (ports.ExchangeResult, error)

	// Deterministic values for predictable testing
	AuthURL     string
	StatePrefix string
	DefaultUser domainauth.Identity
	AccessToken string

	mu        sync.Mutex
	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-discord/oauth2/authorize",
		StatePrefix: "state",
		AccessToken: "mock-access-token",
		DefaultUser: defaultIdentity(),
	}
}

func defaultIdentity() domainauth.Identity {
	return domainauth.Identity{
		UserID:      "100000000000000001",
		Username:    "mockuser",
		DisplayName: "Mock User",
		Email:       "mock.user@example.com",
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()

	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-discord/oauth2/authorize"
	}
	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}

	return authURL, fmt.Sprintf("%s-%d", statePrefix, n), nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (ports.ExchangeResult, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	user := m.DefaultUser
	if user.UserID == "" {
		user = defaultIdentity()
	}
	token := m.AccessToken
	if token == "" {
		token = "mock-access-token"
	}

	return ports.ExchangeResult{
		Identity: user,
		Grant: domainauth.Grant{
			ProviderAccountID: user.UserID,
			AccessToken:       token,
			ExpiresAt:         time.Now().Add(time.Hour),
		},
	}, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) (string, error) {
	if sess.ID == "" {
		return "", errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return sess.ID, nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok || id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// LookupResponse is one scripted reply of ScriptedMemberLookup.
type LookupResponse struct {
	Roles []string
	Err   error
}

// ScriptedMemberLookup replays Responses in order; the last one repeats once the script runs out.
type ScriptedMemberLookup struct {
	Responses []LookupResponse

	mu    sync.Mutex
	calls []LookupCall
}

// LookupCall records the arguments of one LookupMember call.
type LookupCall struct {
	GuildID     string
	AccessToken string
}

func (s *ScriptedMemberLookup) LookupMember(_ context.Context, guildID, accessToken string) (domainauth.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, LookupCall{GuildID: guildID, AccessToken: accessToken})

	if len(s.Responses) == 0 {
		return domainauth.Member{Roles: []string{}}, nil
	}
	idx := min(len(s.calls)-1, len(s.Responses)-1)
	r := s.Responses[idx]
	if r.Err != nil {
		return domainauth.Member{}, r.Err
	}
	return domainauth.Member{Roles: r.Roles}, nil
}

// Calls returns a copy of the recorded calls.
func (s *ScriptedMemberLookup) Calls() []LookupCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LookupCall(nil), s.calls...)
}

// SleepRecorder is a retry.SleepFunc double that returns immediately and records each delay.
type SleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

// Sleep records d and returns ctx.Err().
func (r *SleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}

// Delays returns a copy of the recorded delays.
func (r *SleepRecorder) Delays() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}
