package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/EZLFP/discord-bot-dashboard/internal/observability/metrics"
)

// Login rate limit defaults, per client IP.
const (
	DefaultLoginRateLimit  = 10
	DefaultLoginRateWindow = time.Minute
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      AuthServiceInterface
	Analytics AnalyticsServiceInterface
	// Pages is optional. Without it the HTML routes are not registered.
	Pages        PageRenderer
	CookieDomain string

	// HealthChecks are run by /healthz, keyed by dependency name.
	HealthChecks map[string]HealthCheck
	// Gatherer is optional. When set, /metrics exposes it.
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
	// Compression is optional. nil disables gzip.
	Compression *CompressionConfig

	LoginRateLimit  int
	LoginRateWindow time.Duration
	Logger          *slog.Logger
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	health := healthHandler(services.HealthChecks)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	if services.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(services.Gatherer, promhttp.HandlerOpts{}))
	}

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		Pages:        services.Pages,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	}
	registerAuthRoutes(mux, authHandlers, loginLimiter(services))

	requireAuth := RequireAuth(services.Auth)
	registerAnalyticsRoutes(mux, &AnalyticsHandlers{Svc: services.Analytics, Logger: logger}, requireAuth)

	ui := &UIHandlers{Analytics: services.Analytics, Pages: services.Pages, Logger: logger}
	if services.Pages != nil {
		registerUIRoutes(mux, ui, RequireAuthBrowser(services.Auth))
	} else {
		mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Message: "Not found"})
		}))
	}

	var handler http.Handler = Metrics(services.HTTPMetrics)(mux)
	if services.Compression != nil {
		handler = Compression(*services.Compression)(handler)
	}
	handler = BrowserDetection()(handler)
	handler = CSRFProtection(services.CookieDomain)(handler)
	handler = Logging(logger)(handler)
	return Recover(logger)(handler)
}

func loginLimiter(services RouterServices) func(http.Handler) http.Handler {
	limit := services.LoginRateLimit
	if limit <= 0 {
		limit = DefaultLoginRateLimit
	}
	window := services.LoginRateWindow
	if window <= 0 {
		window = DefaultLoginRateWindow
	}
	return httprate.LimitByIP(limit, window)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, limit func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /auth/signin", h.SignIn)
	mux.Handle("GET /auth/login", limit(http.HandlerFunc(h.Login)))
	mux.Handle("GET /auth/callback", limit(http.HandlerFunc(h.Callback)))
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("GET /auth/error", h.Error)
}

func registerAnalyticsRoutes(mux *http.ServeMux, h *AnalyticsHandlers, wrap func(http.Handler) http.Handler) {
	routes := map[string]http.HandlerFunc{
		"overview":         h.Overview,
		"users":            h.Users,
		"commands":         h.Commands,
		"command-log":      h.CommandLog,
		"queues":           h.Queues,
		"queue-players":    h.QueuePlayers,
		"queue-log":        h.QueueLog,
		"matches":          h.Matches,
		"matching-quality": h.MatchingQuality,
		"events":           h.Events,
		"daily-metrics":    h.DailyMetrics,
		"guilds":           h.Guilds,
	}
	for name, fn := range routes {
		mux.Handle("GET /api/analytics/"+name, wrap(fn))
	}
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, wrap func(http.Handler) http.Handler) {
	mux.Handle("GET /{$}", wrap(http.HandlerFunc(h.Dashboard)))
	mux.Handle("GET /queue", wrap(http.HandlerFunc(h.Queue)))
	mux.Handle("GET /commands", wrap(http.HandlerFunc(h.Commands)))
	mux.Handle("GET /matching-quality", wrap(http.HandlerFunc(h.MatchingQuality)))
	mux.Handle("/", http.HandlerFunc(h.NotFound))
}
