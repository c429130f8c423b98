package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/radr/internal/errors"
	"github.com/hpungsan/radr/internal/ops"
	"github.com/hpungsan/radr/internal/radar"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "blips", "adrs", "stats"
}

// BlipsPageData is the template data for the blip list page.
type BlipsPageData struct {
	PageData
	Items    []radar.Blip
	Quadrant string
	Ring     string
	Total    int
}

// BlipDetailPageData is the template data for the blip detail page.
type BlipDetailPageData struct {
	PageData
	Blip         *radar.Blip
	Adrs         []radar.AdrEntry
	RenderedHTML template.HTML
	DocPath      string
	DocMissing   bool
}

// AdrsPageData is the template data for the ADR log page.
type AdrsPageData struct {
	PageData
	Items    []radar.AdrEntry
	BlipName string
	Total    int
}

// AdrDetailPageData is the template data for the ADR detail page.
type AdrDetailPageData struct {
	PageData
	Adr          *radar.AdrEntry
	RenderedHTML template.HTML
	DocPath      string
	DocMissing   bool
}

// StatsPageData is the template data for the stats page.
type StatsPageData struct {
	PageData
	Stats *ops.StatsOutput
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
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"deref":    deref,
		"hasValue": hasValue,
		"label":    enumLabel,
		"percent":  percent,
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"blips":       "blips.html",
		"blip_detail": "blip_detail.html",
		"adrs":        "adrs.html",
		"adr_detail":  "adr_detail.html",
		"stats":       "stats.html",
		"error":       "error.html",
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
	}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("template %q not found", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("template execution error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var rErr *errors.RadrError
	if !stderrors.As(err, &rErr) {
		rErr = errors.NewInternal(err)
	}

	status := rErr.Status
	message := rErr.Message

	if strings.Contains(req.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    string(rErr.Code),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	r.renderPageStatus(w, req, status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", status),
			Version: r.version,
		},
		StatusCode: status,
		Message:    message,
	})
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// enumLabel renders a nullable ring or quadrant as its display label.
func enumLabel(v any) string {
	switch e := v.(type) {
	case *radar.Ring:
		if e == nil {
			return ""
		}
		return e.Label()
	case *radar.Quadrant:
		if e == nil {
			return ""
		}
		return e.Label()
	case radar.Ring:
		return e.Label()
	case radar.Quadrant:
		return e.Label()
	case radar.AdrStatus:
		return e.Label()
	}
	return fmt.Sprintf("%v", v)
}

// percent formats a nullable percentage for display.
func percent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", *v)
}

// deref dereferences a pointer, returning the zero value if nil.
func deref(v any) any {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Zero(rv.Type().Elem()).Interface()
		}
		return rv.Elem().Interface()
	}
	return v
}

// hasValue checks if a pointer value is non-nil.
func hasValue(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		return !rv.IsNil()
	}
	return true
}
