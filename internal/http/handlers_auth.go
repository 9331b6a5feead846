package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
	"github.com/EZLFP/discord-bot-dashboard/internal/service"
)

// Auth error kinds shown on /auth/error. Every authorization denial maps to AccessDenied.
const (
	AuthErrorConfiguration = "Configuration"
	AuthErrorAccessDenied  = "AccessDenied"
	AuthErrorVerification  = "Verification"
	AuthErrorDefault       = "Default"
)

var authErrorMessages = map[string]string{
	AuthErrorConfiguration: "There is a problem with the server configuration.",
	AuthErrorAccessDenied:  "You do not have permission to access this dashboard. Only server admins and moderators are allowed.",
	AuthErrorVerification:  "The verification token has expired or has already been used.",
	AuthErrorDefault:       "An error occurred during authentication.",
}

// AuthErrorMessage returns the user-facing message for kind, falling back to Default.
func AuthErrorMessage(kind string) string {
	if msg, ok := authErrorMessages[kind]; ok {
		return msg
	}
	return authErrorMessages[AuthErrorDefault]
}

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, token string) (*domainauth.Session, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandlers provides HTTP handlers for the sign-in flow.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Pages        PageRenderer
	CookieDomain string
	Logger       *slog.Logger
	// Now is optional and used by tests.
	Now func() time.Time
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *AuthHandlers) cookies() cookieWriter { return cookieWriter{domain: h.CookieDomain} }

// SignIn renders the sign-in page. Users with a live session go straight to the dashboard.
// GET /auth/signin?redirect_uri=<optional>.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	if sessionFromRequest(r, h.Svc) != nil {
		http.Redirect(w, r, redirectURI, http.StatusFound)
		return
	}

	loginURL := url.URL{Path: "/auth/login", RawQuery: url.Values{"redirect_uri": {redirectURI}}.Encode()}
	h.render(w, r, http.StatusOK, PageData{
		Title: "Sign in",
		Page:  PageSignIn,
		Data:  map[string]string{"LoginURL": loginURL.String()},
	})
}

// Login starts the OAuth flow.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		redirectToAuthError(w, r, AuthErrorConfiguration)
		return
	}

	c := h.cookies()
	c.set(w, r, stateCookieName, result.State, oauthCookieMaxAge)
	c.set(w, r, redirectCookieName, redirectURI, oauthCookieMaxAge)

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes the OAuth flow. A session cookie is set only when the authorization gate allows the user.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := h.cookies()

	// Discord reports a cancelled consent screen as ?error=access_denied.
	if providerErr := q.Get("error"); providerErr != "" {
		c.clear(w, r, stateCookieName)
		h.logger().InfoContext(r.Context(), "sign-in cancelled at provider", "provider_error", providerErr)
		redirectToAuthError(w, r, AuthErrorAccessDenied)
		return
	}

	code := q.Get("code")
	state := q.Get("state")
	stateCookie, err := r.Cookie(stateCookieName)
	if code == "" || state == "" || err != nil || stateCookie.Value != state {
		c.clear(w, r, stateCookieName)
		h.logger().WarnContext(r.Context(), "sign-in rejected: invalid callback parameters",
			"has_code", code != "",
			"has_state", state != "",
			"has_state_cookie", err == nil,
		)
		redirectToAuthError(w, r, AuthErrorVerification)
		return
	}
	c.clear(w, r, stateCookieName)

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{Code: code, State: state})
	if err != nil {
		if errors.Is(err, service.ErrAccessDenied) {
			redirectToAuthError(w, r, AuthErrorAccessDenied)
			return
		}
		h.logger().ErrorContext(r.Context(), "complete login failed", "error", err)
		redirectToAuthError(w, r, AuthErrorDefault)
		return
	}

	c.set(w, r, SessionCookieName, result.Token, result.Session.ExpiresAt.Sub(h.now()))

	redirectURI := "/"
	if rc, err := r.Cookie(redirectCookieName); err == nil {
		redirectURI = safeRedirectPath(rc.Value)
		c.clear(w, r, redirectCookieName)
	}
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// Logout invalidates the session and returns to the sign-in page.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sc, err := r.Cookie(SessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sc.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	h.cookies().clear(w, r, SessionCookieName)

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "redirect_to": "/auth/signin"})
		return
	}
	http.Redirect(w, r, "/auth/signin", http.StatusSeeOther)
}

// Status reports whether the caller holds a live session.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	session := sessionFromRequest(r, h.Svc)
	if session == nil {
		if _, err := r.Cookie(SessionCookieName); err == nil {
			h.cookies().clear(w, r, SessionCookieName)
		}
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":            session.UserID,
			"name":          session.DisplayName,
			"username":      session.Username,
			"email":         session.Email,
			"image":         session.AvatarURL,
			"is_authorized": session.IsAuthorized,
		},
		"expires_at": session.ExpiresAt,
	})
}

// Error renders the authentication error page.
// GET /auth/error?error=<kind>.
func (h *AuthHandlers) Error(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("error")
	if _, ok := authErrorMessages[kind]; !ok {
		kind = AuthErrorDefault
	}
	status := http.StatusOK
	if kind == AuthErrorAccessDenied {
		status = http.StatusForbidden
	}
	h.render(w, r, status, PageData{
		Title: "Authentication Error",
		Page:  PageAuthError,
		Data:  map[string]string{"Kind": kind, "Message": AuthErrorMessage(kind)},
	})
}

func (h *AuthHandlers) render(w http.ResponseWriter, r *http.Request, status int, data PageData) {
	if h.Pages == nil {
		WriteJSON(w, status, data.Data)
		return
	}
	if err := h.Pages.Render(w, r, RenderOpts{Status: status, Data: data}); err != nil {
		h.logger().ErrorContext(r.Context(), "render auth page failed", "page", data.Page, "error", err)
	}
}

func redirectToAuthError(w http.ResponseWriter, r *http.Request, kind string) {
	u := url.URL{Path: "/auth/error", RawQuery: url.Values{"error": {kind}}.Encode()}
	http.Redirect(w, r, u.String(), http.StatusFound)
}
