package ops

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/hpungsan/radr/internal/db"
	"github.com/hpungsan/radr/internal/docwriter"
	"github.com/hpungsan/radr/internal/errors"
	"github.com/hpungsan/radr/internal/radar"
)

// CreateAdrInput contains parameters for the CreateAdr operation.
type CreateAdrInput struct {
	Title    string // required
	BlipName string // required; the blip this decision justifies
	Status   string // optional; defaults to proposed

	// Body sections, persisted to the document only.
	Context      string
	Decision     string
	Consequences string
	References   string
}

// CreateAdrOutput contains the result of the CreateAdr operation.
// Warning carries PARTIAL_WRITE or ORPHAN_ADR; the ADR row exists either way.
type CreateAdrOutput struct {
	ID      int64             `json:"id"`
	Title   string            `json:"title"`
	Path    string            `json:"path,omitempty"`
	BlipID  *int64            `json:"blip_id,omitempty"`
	Warning *errors.RadrError `json:"warning,omitempty"`
}

// CreateAdr runs the ADR half of the sync protocol:
//
//  1. insert the adr_log row; a DuplicateAdr conflict stops here;
//  2. write the Markdown document; failure becomes a PartialWrite warning,
//     the row is kept, and the protocol continues;
//  3. link the row to the named blip; a missing blip becomes an OrphanAdr
//     warning; steps 1 and 2 are never rolled back.
//
// The ADR inherits the blip's classification for context when the blip
// exists; an orphan ADR carries none.
func CreateAdr(database *sql.DB, w DocWriter, input CreateAdrInput) (*CreateAdrOutput, error) {
	title := strings.TrimSpace(input.Title)
	if !radar.ValidName(title) {
		return nil, errors.NewInvalidRequest("ADR title must not be empty")
	}
	blipName := strings.TrimSpace(input.BlipName)
	if !radar.ValidName(blipName) {
		return nil, errors.NewInvalidRequest("ADR must name the blip it belongs to")
	}

	status := radar.StatusProposed
	if input.Status != "" {
		s, ok := radar.ParseAdrStatus(input.Status)
		if !ok {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown status %q", input.Status))
		}
		status = s
	}

	// Read-only lookup; classification context is inherited from the blip.
	blip, lookupErr := db.GetBlipByName(database, blipName)
	if lookupErr != nil && !errors.Is(lookupErr, errors.ErrNotFound) {
		return nil, lookupErr
	}

	entry := &radar.AdrEntry{
		Title:     title,
		BlipName:  blipName,
		Status:    status,
		Timestamp: today(),
	}
	if blip != nil {
		entry.Quadrant = blip.Quadrant
		entry.Ring = blip.Ring
	}

	id, err := db.InsertAdr(database, entry)
	if err != nil {
		return nil, err
	}

	out := &CreateAdrOutput{ID: id, Title: title}

	path, err := w.WriteADR(&docwriter.AdrDocument{
		ID:           id,
		Title:        title,
		BlipName:     blipName,
		Date:         entry.Timestamp,
		Status:       status,
		Quadrant:     entry.Quadrant,
		Ring:         entry.Ring,
		Context:      input.Context,
		Decision:     input.Decision,
		Consequences: input.Consequences,
		References:   input.References,
	})
	if err != nil {
		out.Warning = errors.NewPartialWrite("adr", id, err)
	} else {
		out.Path = path
	}

	if blip == nil {
		if out.Warning == nil {
			out.Warning = errors.NewOrphanAdr(id, blipName)
		}
		return out, nil
	}

	if err := db.LinkAdrToBlip(database, blip.ID, id); err != nil {
		if out.Warning == nil {
			out.Warning = errors.NewOrphanAdr(id, blipName)
		}
		return out, nil
	}

	out.BlipID = &blip.ID
	return out, nil
}
