package radar

import (
	"regexp"
	"strings"
)

// Blip is a technology or practice entry plotted on the radar.
// The relational row is the queryable index; the Markdown document written
// alongside it is the long-lived record.
type Blip struct {
	// ID is assigned by the store on creation and immutable thereafter
	ID int64 `json:"id"`

	// Name is non-empty and unique across all blips
	Name string `json:"name"`

	// Ring is the maturity classification (nullable until set)
	Ring *Ring `json:"ring"`

	// Quadrant is the categorical classification (nullable until set)
	Quadrant *Quadrant `json:"quadrant"`

	// Tag is optional free text
	Tag *string `json:"tag,omitempty"`

	// Description is optional free text
	Description *string `json:"description,omitempty"`

	// Created is the creation date, YYYY-MM-DD, set once
	Created string `json:"created"`

	// HasAdr is true once an ADR has been linked; always equals AdrID != nil
	HasAdr bool `json:"has_adr"`

	// AdrID is a weak back-reference to the linked ADR row (nullable)
	AdrID *int64 `json:"adr_id"`
}

// Classified reports whether the blip carries both classifications and can
// therefore be plotted. Unclassified blips still appear in list views.
func (b *Blip) Classified() bool {
	return b.Ring != nil && b.Quadrant != nil
}

// AdrEntry is one row of the ADR log. Identity is the (Title, Timestamp)
// pair; ID is an independent numeric key. Body sections live only in the
// Markdown document.
type AdrEntry struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	BlipName string    `json:"blip_name"`
	Status   AdrStatus `json:"status"`

	// Quadrant and Ring are carried for context; the primary classification
	// is inherited from the linked blip.
	Quadrant *Quadrant `json:"quadrant"`
	Ring     *Ring     `json:"ring"`

	// Timestamp is the creation date, YYYY-MM-DD
	Timestamp string `json:"timestamp"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug converts a record name into a file-name-safe fragment.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ValidName reports whether a record name passes wizard-level validation:
// non-empty after trimming.
func ValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}
