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

// UpdateAdrInput contains parameters for the UpdateAdr operation.
// nil leaves a field unchanged. Both fields may be nil: the operation still
// re-writes the document and re-runs the link step, which is the repair path
// for a PARTIAL_WRITE or ORPHAN_ADR left behind by creation.
type UpdateAdrInput struct {
	ID     int64
	Title  *string
	Status *string
}

// UpdateAdrOutput contains the result of the UpdateAdr operation.
type UpdateAdrOutput struct {
	ID      int64             `json:"id"`
	Title   string            `json:"title"`
	Status  string            `json:"status"`
	Path    string            `json:"path,omitempty"`
	BlipID  *int64            `json:"blip_id,omitempty"`
	Warning *errors.RadrError `json:"warning,omitempty"`
}

// UpdateAdr edits an ADR in the same row-before-file order as creation:
// the log row is updated first, the document is re-written from the merged
// record (renamed when the title changed, recreated when missing), and the
// link step re-runs. An ADR orphaned at creation gets linked here once its
// blip exists; a blip already pointing at a newer decision keeps that link.
func UpdateAdr(database *sql.DB, w DocWriter, input UpdateAdrInput) (*UpdateAdrOutput, error) {
	current, err := db.GetAdrByID(database, input.ID)
	if err != nil {
		return nil, err
	}

	update := db.AdrUpdate{ID: input.ID}

	title := current.Title
	if input.Title != nil {
		title = strings.TrimSpace(*input.Title)
		if !radar.ValidName(title) {
			return nil, errors.NewInvalidRequest("ADR title must not be empty")
		}
		update.Title = &title
	}

	status := current.Status
	if input.Status != nil {
		s, ok := radar.ParseAdrStatus(*input.Status)
		if !ok {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown status %q", *input.Status))
		}
		status = s
		v := string(s)
		update.Status = &v
	}

	if update.Title != nil || update.Status != nil {
		if err := db.UpdateAdr(database, update); err != nil {
			return nil, err
		}
	}

	out := &UpdateAdrOutput{ID: current.ID, Title: title, Status: string(status)}

	path, err := w.RewriteADR(current.Title, &docwriter.AdrDocument{
		ID:       current.ID,
		Title:    title,
		BlipName: current.BlipName,
		Date:     current.Timestamp,
		Status:   status,
		Quadrant: current.Quadrant,
		Ring:     current.Ring,
	})
	if err != nil {
		out.Warning = errors.NewPartialWrite("adr", current.ID, err)
	} else {
		out.Path = path
	}

	blip, err := db.GetBlipByName(database, current.BlipName)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			if out.Warning == nil {
				out.Warning = errors.NewOrphanAdr(current.ID, current.BlipName)
			}
			return out, nil
		}
		return nil, err
	}

	if blip.AdrID == nil {
		if err := db.LinkAdrToBlip(database, blip.ID, current.ID); err != nil {
			return nil, err
		}
		out.BlipID = &blip.ID
	} else if *blip.AdrID == current.ID {
		out.BlipID = &blip.ID
	}

	return out, nil
}
