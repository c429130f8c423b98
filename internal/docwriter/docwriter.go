// Package docwriter turns validated records into Markdown documents with
// structured front matter. The documents are the long-lived record of truth;
// the SQLite rows written by the store are the queryable index over them.
package docwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hpungsan/radr/internal/errors"
	"github.com/hpungsan/radr/internal/radar"
)

// AdrDocument carries everything an ADR Markdown document needs. ID and date
// come from the already-committed row so the file embeds the row's identity.
type AdrDocument struct {
	ID       int64
	Title    string
	BlipName string
	Date     string
	Status   radar.AdrStatus
	Quadrant *radar.Quadrant
	Ring     *radar.Ring

	// Body sections; empty sections get a writing prompt placeholder.
	Context      string
	Decision     string
	Consequences string
	References   string
}

// BlipDocument carries everything a blip Markdown document needs.
type BlipDocument struct {
	ID          int64
	Name        string
	Date        string
	Quadrant    *radar.Quadrant
	Ring        *radar.Ring
	Tag         string
	Description string
	Author      string
}

// adrFrontMatter is the ADR front-matter schema. Field names and casing are
// fixed for round-trip compatibility; do not rename.
type adrFrontMatter struct {
	Title    string `yaml:"title"`
	Date     string `yaml:"date"`
	Status   string `yaml:"status"`
	Quadrant string `yaml:"quadrant"`
	Ring     string `yaml:"ring"`
}

// blipFrontMatter is the blip front-matter schema: the ADR schema minus status.
type blipFrontMatter struct {
	Title    string `yaml:"title"`
	Date     string `yaml:"date"`
	Quadrant string `yaml:"quadrant"`
	Ring     string `yaml:"ring"`
}

// Writer writes ADR and blip documents into externally configured directories.
type Writer struct {
	AdrDir  string
	BlipDir string
}

// New creates a Writer for the given output directories.
func New(adrDir, blipDir string) *Writer {
	return &Writer{AdrDir: adrDir, BlipDir: blipDir}
}

// WriteADR writes the ADR document and returns the file path written.
func (w *Writer) WriteADR(doc *AdrDocument) (string, error) {
	fm := adrFrontMatter{
		Title:    doc.Title,
		Date:     doc.Date,
		Status:   string(doc.Status),
		Quadrant: quadrantString(doc.Quadrant),
		Ring:     ringString(doc.Ring),
	}

	var body strings.Builder
	fmt.Fprintf(&body, "# %s\n\n", doc.Title)
	fmt.Fprintf(&body, "Decision record for blip %q (row %d).\n\n", doc.BlipName, doc.ID)
	writeSection(&body, "Context", doc.Context,
		"[Describe the context and problem statement in two to three sentences.]")
	writeSection(&body, "Decision", doc.Decision,
		"[Describe the decision that was made.]")
	writeSection(&body, "Consequences", doc.Consequences,
		"[Describe the resulting context after applying the decision, positive and negative.]")
	writeSection(&body, "References", doc.References, "[Links and related records.]")

	return writeDocument(w.AdrDir, doc.Date, doc.Title, fm, body.String())
}

// RewriteADR re-writes an existing ADR document with updated front matter,
// preserving the body that was written since creation. previousTitle names
// the file on disk before the update; when the title changes the document is
// renamed to match. A missing document is recreated from the record alone,
// which is how a failed write at creation gets repaired.
func (w *Writer) RewriteADR(previousTitle string, doc *AdrDocument) (string, error) {
	oldPath := DocumentPath(w.AdrDir, doc.Date, previousTitle)
	content, err := os.ReadFile(oldPath)
	if err != nil {
		return w.WriteADR(doc)
	}

	_, body, parseErr := ParseDocument(string(content))
	if parseErr != nil {
		// Unparseable documents keep their full content as the body; the
		// record of truth is never discarded here.
		body = string(content)
	}

	oldHeading := "# " + previousTitle + "\n"
	if doc.Title != previousTitle && strings.HasPrefix(body, oldHeading) {
		body = "# " + doc.Title + "\n" + body[len(oldHeading):]
	}

	fm := adrFrontMatter{
		Title:    doc.Title,
		Date:     doc.Date,
		Status:   string(doc.Status),
		Quadrant: quadrantString(doc.Quadrant),
		Ring:     ringString(doc.Ring),
	}

	newPath, err := writeDocument(w.AdrDir, doc.Date, doc.Title, fm, body)
	if err != nil {
		return "", err
	}
	if newPath != oldPath {
		os.Remove(oldPath)
	}
	return newPath, nil
}

// WriteBlip writes the blip document and returns the file path written.
func (w *Writer) WriteBlip(doc *BlipDocument) (string, error) {
	fm := blipFrontMatter{
		Title:    doc.Name,
		Date:     doc.Date,
		Quadrant: quadrantString(doc.Quadrant),
		Ring:     ringString(doc.Ring),
	}

	var body strings.Builder
	fmt.Fprintf(&body, "# %s\n\n", doc.Name)
	fmt.Fprintf(&body, "**Ring**: %s\n", ringString(doc.Ring))
	fmt.Fprintf(&body, "**Quadrant**: %s\n", quadrantString(doc.Quadrant))
	if doc.Tag != "" {
		fmt.Fprintf(&body, "**Tag**: %s\n", doc.Tag)
	}
	if doc.Author != "" {
		fmt.Fprintf(&body, "**Author**: %s\n", doc.Author)
	}
	fmt.Fprintf(&body, "**Index row**: %d\n", doc.ID)
	if doc.Description != "" {
		fmt.Fprintf(&body, "\n%s\n", doc.Description)
	}

	return writeDocument(w.BlipDir, doc.Date, doc.Name, fm, body.String())
}

// DocumentPath returns the path a record's document is (or would be) written
// to, without touching the filesystem.
func DocumentPath(dir, date, name string) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.md", date, radar.Slug(name)))
}

// FrontMatter is the parsed front-matter block of a written document.
type FrontMatter struct {
	Title    string `yaml:"title"`
	Date     string `yaml:"date"`
	Status   string `yaml:"status"`
	Quadrant string `yaml:"quadrant"`
	Ring     string `yaml:"ring"`
}

// ParseDocument splits a written document into its front matter and body.
func ParseDocument(content string) (*FrontMatter, string, error) {
	rest, found := strings.CutPrefix(content, "---\n")
	if !found {
		return nil, "", errors.NewInvalidRequest("document has no front matter")
	}
	block, body, found := strings.Cut(rest, "\n---\n")
	if !found {
		return nil, "", errors.NewInvalidRequest("unterminated front matter")
	}

	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return nil, "", errors.NewInvalidRequest(fmt.Sprintf("malformed front matter: %v", err))
	}
	return &fm, strings.TrimPrefix(body, "\n"), nil
}

func writeDocument(dir, date, name string, frontMatter any, body string) (string, error) {
	fmBytes, err := yaml.Marshal(frontMatter)
	if err != nil {
		return "", errors.NewInternal(err)
	}

	content := "---\n" + string(fmBytes) + "---\n\n" + body

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.NewIO(err)
	}

	path := DocumentPath(dir, date, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", errors.NewIO(err)
	}
	return path, nil
}

func writeSection(b *strings.Builder, heading, content, placeholder string) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	if content == "" {
		content = placeholder
	}
	fmt.Fprintf(b, "%s\n\n", content)
}

func quadrantString(q *radar.Quadrant) string {
	if q == nil {
		return ""
	}
	return string(*q)
}

func ringString(r *radar.Ring) string {
	if r == nil {
		return ""
	}
	return string(*r)
}
