package httpx

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// SessionCookieName carries the session token issued at sign-in.
	SessionCookieName  = "dashboard_session"
	stateCookieName    = "oauth_state"
	redirectCookieName = "post_login_redirect"
)

// oauthCookieMaxAge bounds how long a sign-in round trip may take.
const oauthCookieMaxAge = 10 * time.Minute

type cookieWriter struct {
	domain string
}

// isSecureRequest accounts for TLS terminated at a proxy. X-Forwarded-Proto may be a list.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

func (c cookieWriter) cookie(r *http.Request, name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

func (c cookieWriter) set(w http.ResponseWriter, r *http.Request, name, value string, maxAge time.Duration) {
	ck := c.cookie(r, name, value)
	ck.MaxAge = int(maxAge.Seconds())
	http.SetCookie(w, ck)
}

// clear must share Path and Domain with set or the browser keeps the original.
func (c cookieWriter) clear(w http.ResponseWriter, r *http.Request, name string) {
	ck := c.cookie(r, name, "")
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0).UTC()
	http.SetCookie(w, ck)
}

// safeRedirectPath returns candidate when it is a same-origin path, and "/" otherwise.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	// "//evil.example" parses as a path on some inputs; browsers treat it as scheme-relative.
	if strings.HasPrefix(candidate, "//") || strings.HasPrefix(candidate, "/\\") {
		return "/"
	}
	return candidate
}
