package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
	obserrors "github.com/EZLFP/discord-bot-dashboard/internal/observability/errors"
	"github.com/EZLFP/discord-bot-dashboard/internal/observability/metrics"
	"github.com/EZLFP/discord-bot-dashboard/internal/ports"
	"github.com/EZLFP/discord-bot-dashboard/internal/retry"
)

// AuthzServiceOptions groups dependencies for AuthzService.
type AuthzServiceOptions struct {
	Policy  domainauth.Policy
	Lookup  ports.GuildMemberLookup
	Backoff retry.Backoff
	Logger  *slog.Logger
	Metrics *metrics.AuthzMetrics
}

// AuthzService is the sign-in authorization gate. It checks a freshly granted identity's
// roles in the required guild against the configured allow-list.
// It holds no per-request state and is safe for concurrent use.
type AuthzService struct {
	policy  domainauth.Policy
	lookup  ports.GuildMemberLookup
	backoff retry.Backoff
	logger  *slog.Logger
	metrics *metrics.AuthzMetrics
}

// NewAuthzService constructs an AuthzService. A lookup is required only when the policy is enforced.
func NewAuthzService(opts AuthzServiceOptions) (*AuthzService, error) {
	if opts.Policy.Enforced() && opts.Lookup == nil {
		return nil, errors.New("guild member lookup is required when authorization is configured")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthzService{
		policy:  opts.Policy,
		lookup:  opts.Lookup,
		backoff: opts.Backoff,
		logger:  logger.With("component", "authz"),
		metrics: opts.Metrics,
	}, nil
}

// Policy returns the injected policy.
func (s *AuthzService) Policy() domainauth.Policy { return s.policy }

// Check performs a single authorization check for userID using accessToken.
// userID is passed through for logging only and is not matched against the token's owner.
func (s *AuthzService) Check(ctx context.Context, userID, accessToken string) domainauth.Decision {
	if !s.policy.Enforced() {
		s.logger.WarnContext(ctx, "authorization not configured, allowing all users",
			"user_id", userID,
			"guild_configured", s.policy.RequiredGuildID != "",
			"roles_configured", len(s.policy.AllowedRoleIDs) > 0,
		)
		d := domainauth.Authorized(nil)
		d.Unconfigured = true
		s.metrics.ObserveCheck(string(d.Kind), 0)
		return d
	}

	start := time.Now()
	member, err := s.lookup.LookupMember(ctx, s.policy.RequiredGuildID, accessToken)
	elapsed := time.Since(start)

	var d domainauth.Decision
	switch {
	case err != nil:
		d = lookupFailure(err)
	case s.policy.Permits(member.Roles):
		d = domainauth.Authorized(member.Roles)
	default:
		d = domainauth.RolesInsufficient(member.Roles)
	}

	s.metrics.ObserveCheck(string(d.Kind), elapsed)
	s.logger.DebugContext(ctx, "authorization check",
		"user_id", userID,
		"decision", d.String(),
		"duration", elapsed,
	)
	return d
}

// Authorize runs the gate for one sign-in. A malformed grant is denied without any lookup.
// Otherwise Check is retried with exponential backoff until it authorizes or the attempts run out.
// Every denial reason collapses to false; the reason is only logged.
func (s *AuthzService) Authorize(ctx context.Context, grant domainauth.Grant) bool {
	d, _ := s.Evaluate(ctx, grant)
	return d.Authorized()
}

// Evaluate is Authorize returning the final decision and the number of checks made.
func (s *AuthzService) Evaluate(ctx context.Context, grant domainauth.Grant) (domainauth.Decision, int) {
	if !grant.Valid() {
		d := domainauth.Decision{Kind: domainauth.DecisionMalformedGrant}
		s.metrics.ObserveDecision(string(d.Kind), 0)
		s.logger.WarnContext(ctx, "sign-in denied: malformed grant",
			"has_access_token", grant.AccessToken != "",
			"has_account_id", grant.ProviderAccountID != "",
		)
		return d, 0
	}

	check := func(ctx context.Context) domainauth.Decision {
		return s.Check(ctx, grant.ProviderAccountID, grant.AccessToken)
	}
	d, attempts, err := retry.Do(ctx, s.backoff, check, settled)
	s.metrics.ObserveDecision(string(d.Kind), attempts)

	attrs := []any{
		"user_id", grant.ProviderAccountID,
		"decision", d.String(),
		"attempts", attempts,
	}
	if len(d.Roles) > 0 {
		attrs = append(attrs, "roles", d.Roles)
	}
	if d.Cause != nil {
		attrs = append(attrs, "error_class", obserrors.Classify(d.Cause))
	}

	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "sign-in denied: authorization abandoned", append(attrs, "error", err)...)
		return d, attempts
	case d.Authorized():
		s.logger.InfoContext(ctx, "sign-in authorized", attrs...)
	default:
		s.logger.WarnContext(ctx, "sign-in denied", attrs...)
	}
	return d, attempts
}

// settled stops the retry loop on any decision the gate would not retry.
func settled(d domainauth.Decision) bool { return !d.Retryable() }

func lookupFailure(err error) domainauth.Decision {
	var le *domainauth.LookupError
	if errors.As(err, &le) {
		return domainauth.LookupFailed(le.StatusCode, le.Status, le)
	}
	return domainauth.LookupFailed(0, "", err)
}
