package httpx

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/util"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// TemplateData is the payload every page template receives.
type TemplateData struct {
	Title    string
	Identity *domainauth.Identity
	Nav      []NavEntry
	Data     any
	Notice   string
	Error    string
}

// Renderer renders the server-side views from the embedded template set.
type Renderer struct {
	t      *template.Template
	logger *slog.Logger
}

// NewRenderer parses the embedded templates.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	funcs := template.FuncMap{
		"money": util.FormatMoney,
		"date":  util.FormatDate,
	}
	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{t: t, logger: logger.With("component", "renderer")}, nil
}

// Render writes the named template. The output is buffered so a template
// error never leaks a half-written page; it falls back to a plain 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data TemplateData) {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("template render failed", "template", name, "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		return
	}
}
