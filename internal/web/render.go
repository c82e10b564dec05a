package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/hpungsan/acta/internal/errors"
	"github.com/hpungsan/acta/internal/logging"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "home", "help"
}

// IndexPageData is the template data for the upload form.
type IndexPageData struct {
	PageData
	Documents    string
	AudioFormats string
	MaxAudioMB   int64
}

// MarkdownPageData is the template data for pages whose body is rendered
// from Markdown (help page, HTML previews).
type MarkdownPageData struct {
	PageData
	Body template.HTML
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	log       logging.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string, log logging.Logger) *Renderer {
	if log == nil {
		log = logging.Nop()
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"index": "index.html",
		"page":  "page.html",
		"error": "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
		log:       log,
	}
}

func (r *Renderer) pageData(title, nav string) PageData {
	return PageData{Title: title, Version: r.version, Nav: nav}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, name string, data any) {
	r.renderPageStatus(w, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		r.log.Error("web.template_missing", logging.F("template", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.log.Error("web.template_failed", logging.F("template", name), logging.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation. API
// clients get the JSON error body; browsers get the error page.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	aErr := errors.As(err)
	r.logError(req, aErr)

	if wantsHTML(req) {
		r.renderPageStatus(w, aErr.Status, "error", ErrorPageData{
			PageData:   r.pageData(fmt.Sprintf("Error %d", aErr.Status), ""),
			StatusCode: aErr.Status,
			Message:    aErr.Message,
		})
		return
	}

	renderJSON(w, aErr.Status, errorBody(aErr))
}

func (r *Renderer) logError(req *http.Request, aErr *errors.ActaError) {
	log := r.log.WithContext(req.Context())
	fields := []logging.Field{
		logging.F("code", string(aErr.Code)),
		logging.F("status", aErr.Status),
		logging.F("route", req.URL.Path),
	}
	if aErr.Cause != nil {
		fields = append(fields, logging.Err(aErr.Cause))
	}
	if aErr.Status >= 500 {
		log.Error("http.error", fields...)
		return
	}
	log.Warn("http.error", fields...)
}

// errorBody is the JSON shape of every API error.
func errorBody(aErr *errors.ActaError) map[string]any {
	body := map[string]any{
		"code":    string(aErr.Code),
		"message": aErr.Message,
		"status":  aErr.Status,
	}
	if aErr.Details != nil {
		body["details"] = aErr.Details
	}
	return map[string]any{"success": false, "error": body}
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// wantsHTML reports whether the client prefers an HTML page over JSON.
// Form posts from the upload page send Accept: text/html.
func wantsHTML(req *http.Request) bool {
	accept := req.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
