package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/EZLFP/discord-bot-dashboard/internal/domain/analytics"
	domainauth "github.com/EZLFP/discord-bot-dashboard/internal/domain/auth"
	"github.com/EZLFP/discord-bot-dashboard/internal/util"
)

// PageData is the root value every page template receives.
type PageData struct {
	Title string
	Page  string
	// User is nil on signed-out pages.
	User *domainauth.Session
	// CSRFToken is echoed by the sign-out form.
	CSRFToken string
	Period    analytics.Period
	Data      any
}

// RenderOpts groups parameters for PageRenderer.Render.
type RenderOpts struct {
	// Status defaults to 200.
	Status int
	Data   PageData
}

// PageRenderer renders full HTML pages.
type PageRenderer interface {
	Render(w http.ResponseWriter, r *http.Request, opts RenderOpts) error
}

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
	now    func() time.Time
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS // required
	Logger     *slog.Logger
	// Now drives relative timestamps; defaults to time.Now.
	Now func() time.Time
}

// NewTemplateRenderer parses every *.tmpl in cfg.TemplateFS.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	r := &TemplateRenderer{logger: logger, now: now}
	t, err := template.New("root").Funcs(r.funcs()).ParseFS(cfg.TemplateFS, "*.tmpl")
	if err != nil {
		logger.Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"),
		)
		return nil, err
	}
	r.t = t
	return r, nil
}

// Render executes the layout into a buffer so a failing template never leaves a half-written page.
func (r *TemplateRenderer) Render(w http.ResponseWriter, _ *http.Request, opts RenderOpts) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, "layout", opts.Data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("page", opts.Data.Page),
			slog.Any("error", err),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return err
	}

	status := opts.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (r *TemplateRenderer) funcs() template.FuncMap {
	return template.FuncMap{
		"renderSection": func(data PageData) (template.HTML, error) {
			var buf bytes.Buffer
			if err := r.t.ExecuteTemplate(&buf, ContentTemplateFor(data.Page), data); err != nil {
				return "", err
			}
			// #nosec G203 -- output of html/template execution is already escaped.
			return template.HTML(buf.String()), nil
		},
		"chromeless":    chromeless,
		"formatNumber":  formatNumberAny,
		"formatPercent": util.FormatPercentage,
		"formatMinutes": util.FormatMinutes,
		"millis":        util.FormatMillis,
		"ago": func(t time.Time) string {
			return util.FormatAgo(t, r.now())
		},
		"orDash": func(s *string) string {
			if s == nil || *s == "" {
				return "—"
			}
			return *s
		},
		"guildName": func(id *string, names map[string]string) string {
			if id == nil || *id == "" {
				return "—"
			}
			if name, ok := names[*id]; ok {
				return name
			}
			return *id
		},
		"rate": analytics.Rate,
	}
}

func formatNumberAny(v any) string {
	switch n := v.(type) {
	case int:
		return util.FormatNumber(n)
	case int64:
		return util.FormatNumber(n)
	case float64:
		return util.FormatNumber(n)
	default:
		return ""
	}
}
