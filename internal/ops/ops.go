// Package ops implements the operations behind every surface (TUI, CLI, MCP,
// web) and the sync protocol that keeps the Markdown store and the SQLite
// index coherent. The protocol is an ordered write with named partial-failure
// conditions, not a cross-store transaction: the row is always written before
// the file so the file can embed the row's identity, and on divergence the
// row is kept.
package ops

import (
	"time"

	"github.com/hpungsan/radr/internal/docwriter"
)

// DocWriter is the document-writer contract the sync protocol consumes.
// *docwriter.Writer satisfies it; tests substitute failing writers.
type DocWriter interface {
	WriteADR(doc *docwriter.AdrDocument) (string, error)
	RewriteADR(previousTitle string, doc *docwriter.AdrDocument) (string, error)
	WriteBlip(doc *docwriter.BlipDocument) (string, error)
}

// today returns the current date in the format used for created/timestamp
// columns and document front matter.
func today() string {
	return time.Now().UTC().Format("2006-01-02")
}
