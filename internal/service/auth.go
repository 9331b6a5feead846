package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
	"github.com/EZLFP/discord-bot-dashboard/internal/ports"
)

// DefaultSessionTTL bounds how long an authorization decision is trusted after sign-in.
const DefaultSessionTTL = 24 * time.Hour

// ErrAccessDenied is returned by CompleteLogin when the authorization gate rejects the sign-in.
// It carries no detail about why.
var ErrAccessDenied = errors.New("access denied")

var errSessionExpired = errors.New("session expired")

// Authorizer decides whether a completed OAuth grant may produce a session.
type Authorizer interface {
	Authorize(ctx context.Context, grant domainauth.Grant) bool
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Gate     Authorizer
	// SessionTTL defaults to DefaultSessionTTL.
	SessionTTL time.Duration
	Logger     *slog.Logger
	// Now is optional and used by tests.
	Now func() time.Time
}

// AuthService orchestrates sign-in by coordinating the provider, the authorization gate, and session persistence.
type AuthService struct {
	provider   ports.AuthProvider
	sessions   ports.SessionStore
	gate       Authorizer
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		provider:   opts.Provider,
		sessions:   opts.Sessions,
		gate:       opts.Gate,
		sessionTTL: ttl,
		logger:     logger,
		now:        now,
	}
}

// SessionTTL returns the effective session lifetime.
func (s *AuthService) SessionTTL() time.Duration { return s.sessionTTL }

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
	// Token is what the browser presents on later requests.
	Token string
}

// CompleteLogin exchanges the code, runs the authorization gate on the resulting grant,
// and issues a session only when the gate allows it. A denied sign-in returns ErrAccessDenied.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}

	res, err := s.provider.Exchange(ctx, ports.ExchangeInput{Code: input.Code, State: input.State})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	if s.gate == nil || !s.gate.Authorize(ctx, res.Grant) {
		return nil, ErrAccessDenied
	}

	now := s.now()
	session := domainauth.Session{
		ID:           generateSessionID(),
		UserID:       res.Identity.UserID,
		Username:     res.Identity.Username,
		DisplayName:  res.Identity.DisplayName,
		Email:        res.Identity.Email,
		AvatarURL:    res.Identity.AvatarURL,
		IsAuthorized: true,
		IssuedAt:     now,
		ExpiresAt:    now.Add(s.sessionTTL),
	}

	token, err := s.sessions.Save(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.InfoContext(ctx, "session issued",
		"user_id", session.UserID,
		"expires_at", session.ExpiresAt,
	)

	return &CompleteLoginResult{Session: session, Token: token}, nil
}

// GetSession resolves a session token.
func (s *AuthService) GetSession(ctx context.Context, token string) (*domainauth.Session, error) {
	if token == "" {
		return nil, errors.New("session token is required")
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(s.now()) {
		// Clean up expired session
		if deleteErr := s.sessions.Delete(ctx, token); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// generateSessionID creates a random session ID.
func generateSessionID() string {
	return uuid.NewString()
}
