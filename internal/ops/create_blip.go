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

// CreateBlipInput contains parameters for the CreateBlip operation.
type CreateBlipInput struct {
	Name        string // required
	Ring        string // optional; must parse if set
	Quadrant    string // optional; must parse if set
	Tag         string
	Description string
	Author      string // recorded in the document only
}

// CreateBlipOutput contains the result of the CreateBlip operation.
// Warning carries a recoverable divergence condition (PARTIAL_WRITE); the
// row named by ID exists either way.
type CreateBlipOutput struct {
	ID      int64             `json:"id"`
	Name    string            `json:"name"`
	Path    string            `json:"path,omitempty"`
	Warning *errors.RadrError `json:"warning,omitempty"`
}

// CreateBlip runs the blip half of the sync protocol:
//
//  1. insert the row; a DuplicateName conflict stops here, before any file
//     exists, so the two stores still agree;
//  2. write the Markdown document; failure is reported as a PartialWrite
//     warning and the row is kept.
func CreateBlip(database *sql.DB, w DocWriter, input CreateBlipInput) (*CreateBlipOutput, error) {
	name := strings.TrimSpace(input.Name)
	if !radar.ValidName(name) {
		return nil, errors.NewInvalidRequest("blip name must not be empty")
	}

	var ring *radar.Ring
	if input.Ring != "" {
		r, ok := radar.ParseRing(input.Ring)
		if !ok {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown ring %q", input.Ring))
		}
		ring = &r
	}

	var quadrant *radar.Quadrant
	if input.Quadrant != "" {
		q, ok := radar.ParseQuadrant(input.Quadrant)
		if !ok {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown quadrant %q", input.Quadrant))
		}
		quadrant = &q
	}

	blip := &radar.Blip{
		Name:        name,
		Ring:        ring,
		Quadrant:    quadrant,
		Created:     today(),
		Tag:         optional(input.Tag),
		Description: optional(input.Description),
	}

	id, err := db.InsertBlip(database, blip)
	if err != nil {
		return nil, err
	}

	out := &CreateBlipOutput{ID: id, Name: name}

	path, err := w.WriteBlip(&docwriter.BlipDocument{
		ID:          id,
		Name:        name,
		Date:        blip.Created,
		Quadrant:    quadrant,
		Ring:        ring,
		Tag:         input.Tag,
		Description: input.Description,
		Author:      input.Author,
	})
	if err != nil {
		out.Warning = errors.NewPartialWrite("blip", id, err)
		return out, nil
	}

	out.Path = path
	return out, nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
