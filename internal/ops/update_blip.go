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

// UpdateBlipInput contains parameters for the UpdateBlip operation.
// nil leaves a field unchanged; a pointer to the empty string clears an
// optional field.
type UpdateBlipInput struct {
	ID          int64
	Name        *string
	Ring        *string
	Quadrant    *string
	Tag         *string
	Description *string
	Author      string
}

// UpdateBlipOutput contains the result of the UpdateBlip operation.
type UpdateBlipOutput struct {
	ID      int64             `json:"id"`
	Name    string            `json:"name"`
	Path    string            `json:"path,omitempty"`
	Warning *errors.RadrError `json:"warning,omitempty"`
}

// UpdateBlip applies a partial update to the row, then re-writes the Markdown
// document from the merged record. The row-before-file order matches
// creation, so on a file failure the index stays authoritative and a
// PartialWrite warning is surfaced.
func UpdateBlip(database *sql.DB, w DocWriter, input UpdateBlipInput) (*UpdateBlipOutput, error) {
	if input.Name == nil && input.Ring == nil && input.Quadrant == nil &&
		input.Tag == nil && input.Description == nil {
		return nil, errors.NewInvalidRequest("at least one editable field must be provided")
	}

	if input.Name != nil && !radar.ValidName(*input.Name) {
		return nil, errors.NewInvalidRequest("blip name must not be empty")
	}
	if input.Ring != nil && *input.Ring != "" {
		if _, ok := radar.ParseRing(*input.Ring); !ok {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown ring %q", *input.Ring))
		}
	}
	if input.Quadrant != nil && *input.Quadrant != "" {
		if _, ok := radar.ParseQuadrant(*input.Quadrant); !ok {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown quadrant %q", *input.Quadrant))
		}
	}

	update := db.BlipUpdate{
		ID:          input.ID,
		Ring:        input.Ring,
		Quadrant:    input.Quadrant,
		Tag:         input.Tag,
		Description: input.Description,
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		update.Name = &trimmed
	}

	if err := db.UpdateBlip(database, update); err != nil {
		return nil, err
	}

	merged, err := db.GetBlipByID(database, input.ID)
	if err != nil {
		return nil, err
	}

	out := &UpdateBlipOutput{ID: merged.ID, Name: merged.Name}

	path, err := w.WriteBlip(&docwriter.BlipDocument{
		ID:          merged.ID,
		Name:        merged.Name,
		Date:        merged.Created,
		Quadrant:    merged.Quadrant,
		Ring:        merged.Ring,
		Tag:         deref(merged.Tag),
		Description: deref(merged.Description),
		Author:      input.Author,
	})
	if err != nil {
		out.Warning = errors.NewPartialWrite("blip", merged.ID, err)
		return out, nil
	}

	out.Path = path
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
