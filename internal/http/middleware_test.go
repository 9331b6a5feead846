package httpx

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EZLFP/discord-bot-dashboard/internal/observability/metrics"
)

func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSessionFromContext(r.Context())
		if ok {
			w.Header().Set("X-User", session.UserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	mw := RequireAuth(&mockAuthService{})(okHandler(t))

	t.Run("no cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analytics/overview", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"authentication_required","message":"Unauthorized"}`, w.Body.String())
	})

	t.Run("invalid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, withSessionCookie(httptest.NewRequest(http.MethodGet, "/api/analytics/overview", nil), "nope"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid session", func(t *testing.T) {
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, withSessionCookie(httptest.NewRequest(http.MethodGet, "/api/analytics/overview", nil), "valid-token"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1001", w.Header().Get("X-User"))
	})
}

func TestRequireAuth_NilResolver(t *testing.T) {
	w := httptest.NewRecorder()
	RequireAuth(nil)(okHandler(t)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthBrowser(t *testing.T) {
	mw := BrowserDetection()(RequireAuthBrowser(&mockAuthService{})(okHandler(t)))

	t.Run("browser is redirected to sign-in", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/queue?days=30", nil)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)

		require.Equal(t, http.StatusSeeOther, w.Code)
		u, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/auth/signin", u.Path)
		assert.Equal(t, "/queue?days=30", u.Query().Get("redirect_uri"))
	})

	t.Run("api client gets 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/queue", nil)
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("signed in", func(t *testing.T) {
		req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/queue", nil), "valid-token")
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestIsBrowserRequest(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		accept string
		want   bool
	}{
		{"html page", "/", "text/html", true},
		{"no accept header", "/commands", "", true},
		{"json accept", "/commands", "application/json", false},
		{"api path", "/api/analytics/users", "text/html", false},
		{"metrics", "/metrics", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			assert.Equal(t, tt.want, IsBrowserRequest(req))
		})
	}
}

func TestRecover(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, logs.String(), `"msg":"panic"`)
	assert.Contains(t, logs.String(), "boom")
}

func TestLogging_RecordsStatus(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Contains(t, logs.String(), `"status":418`)
	assert.Contains(t, logs.String(), `"path":"/healthz"`)
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/analytics/{name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := Metrics(m)(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/analytics/users", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/analytics/guilds", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 2, countRequests(t, reg, "GET /api/analytics/{name}", "2xx"))
	assert.Equal(t, 1, countRequests(t, reg, "unmatched", "4xx"))
}

func countRequests(t *testing.T, reg *prometheus.Registry, route, status string) int {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "dashboard_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["route"] == route && labels["status"] == status {
				return int(m.GetCounter().GetValue())
			}
		}
	}
	return 0
}

func TestMetrics_NilIsPassthrough(t *testing.T) {
	next := okHandler(t)
	w := httptest.NewRecorder()
	Metrics(nil)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
