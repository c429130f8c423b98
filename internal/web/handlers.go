package web

import (
	"database/sql"
	"html/template"
	"net/http"
	"os"
	"strconv"

	"github.com/hpungsan/radr/internal/config"
	"github.com/hpungsan/radr/internal/db"
	"github.com/hpungsan/radr/internal/docwriter"
	"github.com/hpungsan/radr/internal/errors"
	"github.com/hpungsan/radr/internal/ops"
	"github.com/hpungsan/radr/internal/radar"
)

// Handlers contains HTTP route handlers for the web view.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer

	// Resolved document directories; the detail pages read the Markdown
	// record straight off disk.
	adrDir  string
	blipDir string
}

// HandleBlips handles GET /blips, with optional quadrant/ring filters.
func (h *Handlers) HandleBlips(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ListBlips(h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	quadrant := r.URL.Query().Get("quadrant")
	ring := r.URL.Query().Get("ring")
	items := filterBlips(result.Items, quadrant, ring)

	h.renderer.renderPage(w, r, "blips", BlipsPageData{
		PageData: PageData{
			Title:   "Blips",
			Version: h.renderer.version,
			Nav:     "blips",
		},
		Items:    items,
		Quadrant: quadrant,
		Ring:     ring,
		Total:    result.Total,
	})
}

// HandleBlipDetail handles GET /blips/{id}. The rendered body comes from the
// Markdown document; a missing document is shown, not treated as an error,
// since the row is what makes the blip exist.
func (h *Handlers) HandleBlipDetail(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	blip, err := db.GetBlipByID(h.db, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	adrs, err := db.ListAdrsByBlip(h.db, blip.Name)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	path := docwriter.DocumentPath(h.blipDir, blip.Created, blip.Name)
	rendered, missing := h.renderDocument(path)

	h.renderer.renderPage(w, r, "blip_detail", BlipDetailPageData{
		PageData: PageData{
			Title:   blip.Name,
			Version: h.renderer.version,
			Nav:     "blips",
		},
		Blip:         blip,
		Adrs:         adrs,
		RenderedHTML: rendered,
		DocPath:      path,
		DocMissing:   missing,
	})
}

// HandleAdrs handles GET /adrs, with an optional blip filter.
func (h *Handlers) HandleAdrs(w http.ResponseWriter, r *http.Request) {
	blipName := r.URL.Query().Get("blip")

	result, err := ops.ListAdrs(h.db, ops.ListAdrsInput{BlipName: blipName})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "adrs", AdrsPageData{
		PageData: PageData{
			Title:   "Decision log",
			Version: h.renderer.version,
			Nav:     "adrs",
		},
		Items:    result.Items,
		BlipName: blipName,
		Total:    result.Total,
	})
}

// HandleAdrDetail handles GET /adrs/{id}.
func (h *Handlers) HandleAdrDetail(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	adr, err := db.GetAdrByID(h.db, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	path := docwriter.DocumentPath(h.adrDir, adr.Timestamp, adr.Title)
	rendered, missing := h.renderDocument(path)

	h.renderer.renderPage(w, r, "adr_detail", AdrDetailPageData{
		PageData: PageData{
			Title:   adr.Title,
			Version: h.renderer.version,
			Nav:     "adrs",
		},
		Adr:          adr,
		RenderedHTML: rendered,
		DocPath:      path,
		DocMissing:   missing,
	})
}

// HandleStats handles GET /stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := ops.Stats(h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "stats", StatsPageData{
		PageData: PageData{
			Title:   "Stats",
			Version: h.renderer.version,
			Nav:     "stats",
		},
		Stats: stats,
	})
}

// renderDocument reads a Markdown document and renders its body (front
// matter stripped) to HTML. Returns missing=true when the file is gone,
// which the pages surface as a divergence notice.
func (h *Handlers) renderDocument(path string) (template.HTML, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", true
	}
	_, body, err := docwriter.ParseDocument(string(data))
	if err != nil {
		// No front matter; render the raw file.
		return renderMarkdown(string(data)), false
	}
	return renderMarkdown(body), false
}

func filterBlips(items []radar.Blip, quadrant, ring string) []radar.Blip {
	if quadrant == "" && ring == "" {
		return items
	}
	out := make([]radar.Blip, 0, len(items))
	for _, b := range items {
		if quadrant != "" && (b.Quadrant == nil || string(*b.Quadrant) != quadrant) {
			continue
		}
		if ring != "" && (b.Ring == nil || string(*b.Ring) != ring) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func parseID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidRequest("id must be a positive integer")
	}
	return id, nil
}
