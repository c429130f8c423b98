package ops

import (
	"database/sql"

	"github.com/hpungsan/radr/internal/db"
	"github.com/hpungsan/radr/internal/radar"
)

// ListBlipsOutput contains the result of the ListBlips operation.
type ListBlipsOutput struct {
	Items []radar.Blip `json:"items"`
	Total int          `json:"total"`
	Sort  string       `json:"sort"`
}

// ListBlips returns all blips in creation order. List views, radar geometry,
// export, and MCP all read the same ordered snapshot.
func ListBlips(database *sql.DB) (*ListBlipsOutput, error) {
	items, err := db.ListBlips(database)
	if err != nil {
		return nil, err
	}
	return &ListBlipsOutput{
		Items: items,
		Total: len(items),
		Sort:  "id_asc",
	}, nil
}

// ListAdrsInput contains parameters for the ListAdrs operation.
type ListAdrsInput struct {
	// BlipName filters to ADRs referencing this blip; empty means all.
	BlipName string
}

// ListAdrsOutput contains the result of the ListAdrs operation.
type ListAdrsOutput struct {
	Items []radar.AdrEntry `json:"items"`
	Total int              `json:"total"`
	Sort  string           `json:"sort"`
}

// ListAdrs returns ADR log entries in creation order.
func ListAdrs(database *sql.DB, input ListAdrsInput) (*ListAdrsOutput, error) {
	var items []radar.AdrEntry
	var err error
	if input.BlipName != "" {
		items, err = db.ListAdrsByBlip(database, input.BlipName)
	} else {
		items, err = db.ListAdrs(database)
	}
	if err != nil {
		return nil, err
	}
	return &ListAdrsOutput{
		Items: items,
		Total: len(items),
		Sort:  "id_asc",
	}, nil
}
