package auth

import (
	"fmt"
	"slices"
	"strings"
)

// DecisionKind is the closed set of authorization outcomes.
type DecisionKind string

const (
	// DecisionAuthorized means the identity may receive a session.
	DecisionAuthorized DecisionKind = "authorized"
	// DecisionLookupFailed means the guild member lookup failed in transport or returned non-2xx.
	DecisionLookupFailed DecisionKind = "lookup_failed"
	// DecisionRolesInsufficient means the lookup succeeded but no allow-listed role is held.
	DecisionRolesInsufficient DecisionKind = "roles_insufficient"
	// DecisionMalformedGrant means the OAuth grant lacked a token or provider account id.
	DecisionMalformedGrant DecisionKind = "malformed_grant"
)

// Decision is the outcome of one authorization check plus the evidence behind it.
// Decisions are computed fresh on every sign-in and never cached.
type Decision struct {
	Kind DecisionKind
	// Unconfigured is set when the policy is incomplete and every identity is allowed.
	Unconfigured bool
	// Roles are the role ids returned by the member lookup.
	Roles []string
	// StatusCode and Status describe a failed lookup. StatusCode is 0 for transport errors.
	StatusCode int
	Status     string
	// Cause is the underlying lookup error, if any. It is for operators only.
	Cause error
}

// Authorized reports whether the decision allows sign-in.
func (d Decision) Authorized() bool { return d.Kind == DecisionAuthorized }

// Retryable reports whether the gate should try the check again.
// Lookup failures and missing roles are retried alike: right after the OAuth grant,
// the guild's view of a member's roles can lag by a few seconds.
func (d Decision) Retryable() bool {
	return d.Kind == DecisionLookupFailed || d.Kind == DecisionRolesInsufficient
}

// String renders the decision for logs.
func (d Decision) String() string {
	switch d.Kind {
	case DecisionLookupFailed:
		if d.StatusCode == 0 {
			return fmt.Sprintf("%s: %v", d.Kind, d.Cause)
		}
		return fmt.Sprintf("%s: %d %s", d.Kind, d.StatusCode, d.Status)
	case DecisionAuthorized:
		if d.Unconfigured {
			return string(d.Kind) + " (authorization not configured)"
		}
	}
	return string(d.Kind)
}

// Authorized returns an Authorized decision with the given evidence.
func Authorized(roles []string) Decision {
	return Decision{Kind: DecisionAuthorized, Roles: roles}
}

// LookupFailed returns a LookupFailed decision.
func LookupFailed(statusCode int, status string, cause error) Decision {
	return Decision{Kind: DecisionLookupFailed, StatusCode: statusCode, Status: status, Cause: cause}
}

// RolesInsufficient returns a RolesInsufficient decision carrying the held roles.
func RolesInsufficient(roles []string) Decision {
	return Decision{Kind: DecisionRolesInsufficient, Roles: roles}
}

// Policy is the authorization configuration injected into the gate at construction.
type Policy struct {
	RequiredGuildID string
	AllowedRoleIDs  []string
}

// NewPolicy builds a Policy, dropping blank and duplicate role ids.
func NewPolicy(guildID string, roleIDs []string) Policy {
	roles := make([]string, 0, len(roleIDs))
	for _, r := range roleIDs {
		r = strings.TrimSpace(r)
		if r == "" || slices.Contains(roles, r) {
			continue
		}
		roles = append(roles, r)
	}
	return Policy{RequiredGuildID: strings.TrimSpace(guildID), AllowedRoleIDs: roles}
}

// Enforced reports whether the policy is complete. An incomplete policy fails open.
func (p Policy) Enforced() bool {
	return p.RequiredGuildID != "" && len(p.AllowedRoleIDs) > 0
}

// Permits reports whether any of held is in the allow-list.
func (p Policy) Permits(held []string) bool {
	for _, r := range held {
		if slices.Contains(p.AllowedRoleIDs, r) {
			return true
		}
	}
	return false
}
