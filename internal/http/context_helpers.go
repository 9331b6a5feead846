package httpx

import (
	"context"
	"net/http"
	"strings"

	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
)

type (
	sessionKey struct{}
	browserKey struct{}
)

// SetSessionInContext attaches session to ctx. A nil session leaves ctx untouched.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session RequireAuth or RequireAuthBrowser attached.
func GetSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*domainauth.Session)
	return s, ok && s != nil
}

// BrowserDetection records once per request whether the caller wants HTML.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserKey{}, wantsHTML(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest reports whether r came from a browser rather than an API client.
func IsBrowserRequest(r *http.Request) bool {
	if v, ok := r.Context().Value(browserKey{}).(bool); ok {
		return v
	}
	return wantsHTML(r)
}

// wantsHTML treats /api/ and /metrics as machine endpoints whatever the Accept header says.
func wantsHTML(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/metrics" {
		return false
	}
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html")
}
