package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/EZLFP/discord-bot-dashboard/internal/domain/analytics"
	apperrors "github.com/EZLFP/discord-bot-dashboard/internal/errors"
	"github.com/EZLFP/discord-bot-dashboard/internal/service"
)

// UIHandlers serves the server-rendered dashboard pages.
type UIHandlers struct {
	Analytics AnalyticsServiceInterface
	Pages     PageRenderer
	Logger    *slog.Logger
}

func (h *UIHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// commandsView adds a guild id to name index to the command log page.
type commandsView struct {
	*service.CommandsPage
	GuildNames map[string]string
}

// errorView is rendered in place of a page whose data could not be loaded.
type errorView struct {
	Status  int
	Message string
}

// Dashboard renders GET /.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := h.period(w, r)
	if !ok {
		return
	}
	page, err := h.Analytics.Dashboard(r.Context(), p)
	if err != nil {
		h.renderLoadError(w, r, PageDashboard, err)
		return
	}
	h.render(w, r, http.StatusOK, PageData{Title: "Overview", Page: PageDashboard, Period: p, Data: page})
}

// Queue renders GET /queue.
func (h *UIHandlers) Queue(w http.ResponseWriter, r *http.Request) {
	p, ok := h.period(w, r)
	if !ok {
		return
	}
	page, err := h.Analytics.Queue(r.Context(), p)
	if err != nil {
		h.renderLoadError(w, r, PageQueue, err)
		return
	}
	h.render(w, r, http.StatusOK, PageData{Title: "Live Queue", Page: PageQueue, Period: p, Data: page})
}

// Commands renders GET /commands.
func (h *UIHandlers) Commands(w http.ResponseWriter, r *http.Request) {
	p, ok := h.period(w, r)
	if !ok {
		return
	}
	page, err := h.Analytics.CommandsOverview(r.Context(), p)
	if err != nil {
		h.renderLoadError(w, r, PageCommands, err)
		return
	}
	names := make(map[string]string, len(page.Guilds.Guilds))
	for _, g := range page.Guilds.Guilds {
		names[g.ID] = g.Name
	}
	h.render(w, r, http.StatusOK, PageData{
		Title:  "Commands",
		Page:   PageCommands,
		Period: p,
		Data:   commandsView{CommandsPage: page, GuildNames: names},
	})
}

// matchingQualityDays is the window /matching-quality shows without ?days=.
const matchingQualityDays = 30

// MatchingQuality renders GET /matching-quality.
func (h *UIHandlers) MatchingQuality(w http.ResponseWriter, r *http.Request) {
	p, ok := h.periodOr(w, r, matchingQualityDays)
	if !ok {
		return
	}
	q, err := h.Analytics.MatchingQuality(r.Context(), p)
	if err != nil {
		h.renderLoadError(w, r, PageMatchingQuality, err)
		return
	}
	h.render(w, r, http.StatusOK, PageData{Title: "Matching Quality", Page: PageMatchingQuality, Period: p, Data: q})
}

// NotFound renders a 404 page for browsers and a JSON 404 otherwise.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) || strings.HasPrefix(r.URL.Path, "/api/") {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Message: "Not found"})
		return
	}
	h.render(w, r, http.StatusNotFound, PageData{Title: "Page not found", Page: PageNotFound})
}

func (h *UIHandlers) period(w http.ResponseWriter, r *http.Request) (analytics.Period, bool) {
	return h.periodOr(w, r, 0)
}

func (h *UIHandlers) periodOr(w http.ResponseWriter, r *http.Request, defaultDays int) (analytics.Period, bool) {
	p, err := parsePeriodDefault(r, defaultDays)
	if err != nil {
		h.render(w, r, http.StatusBadRequest, PageData{
			Title: "Invalid request",
			Page:  PageError,
			Data:  errorView{Status: http.StatusBadRequest, Message: apperrors.GetMessage(err)},
		})
		return p, false
	}
	return p, true
}

func (h *UIHandlers) renderLoadError(w http.ResponseWriter, r *http.Request, page string, err error) {
	h.logger().ErrorContext(r.Context(), "page load failed", "page", page, "error", err)
	status := http.StatusInternalServerError
	if apperrors.IsUnavailable(err) {
		status = http.StatusServiceUnavailable
	}
	h.render(w, r, status, PageData{
		Title: "Error",
		Page:  PageError,
		Data:  errorView{Status: status, Message: "Failed to fetch analytics data"},
	})
}

func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, status int, data PageData) {
	if session, ok := GetSessionFromContext(r.Context()); ok {
		data.User = session
	}
	data.CSRFToken = CSRFToken(r.Context())
	if err := h.Pages.Render(w, r, RenderOpts{Status: status, Data: data}); err != nil {
		h.logger().ErrorContext(r.Context(), "render page failed", "page", data.Page, "error", err)
	}
}
