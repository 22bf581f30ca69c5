package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/aulaplus/aula-ui/internal/http/templates"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates; defaults to the embedded set
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	templateFS := cfg.TemplateFS
	if templateFS == nil {
		templateFS = templates.FS
	}

	t, err := template.New("root").ParseFS(templateFS,
		"*.tmpl",
		"pages/*.tmpl",
	)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("template parsing failed",
				slog.Any("error", err),
				slog.String("phase", "initialization"),
			)
		}
		return nil, err
	}
	return &TemplateRenderer{t: t, logger: cfg.Logger}, nil
}

// RenderPage renders a named page inside the layout template. Each page
// template defines a "page-<name>" block; the layout wraps it with chrome.
func (r *TemplateRenderer) RenderPage(w http.ResponseWriter, name string, data any) error {
	if r == nil || r.t == nil {
		return errors.New("template renderer not configured")
	}

	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, "page-"+name, data); err != nil {
		r.logTemplateError(name, err)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		// Client disconnects surface here; nothing left to do.
		return err
	}
	return nil
}

// RenderError renders the error page with the given status code.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, status int, data ErrorPageData) {
	if r == nil || r.t == nil {
		http.Error(w, http.StatusText(status), status)
		return
	}

	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, "page-error", data); err != nil {
		r.logTemplateError("error", err)
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// logTemplateError logs a template execution error with context.
func (r *TemplateRenderer) logTemplateError(templateName string, err error) {
	if r.logger == nil || err == nil {
		return
	}
	r.logger.Error("template execution failed",
		slog.String("template", templateName),
		slog.Any("error", err),
	)
}
