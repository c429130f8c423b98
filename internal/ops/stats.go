package ops

import (
	"database/sql"

	"github.com/hpungsan/radr/internal/db"
	"github.com/hpungsan/radr/internal/radar"
)

// StatsOutput summarizes the radar for the completion screen, the stats CLI
// command, and the web overview.
type StatsOutput struct {
	TotalBlips int `json:"total_blips"`
	TotalAdrs  int `json:"total_adrs"`

	// Coverage is ADRs per blip as a percentage; nil when there are no blips.
	Coverage *float64 `json:"coverage,omitempty"`

	ByQuadrant map[radar.Quadrant]int `json:"by_quadrant"`
	ByRing     map[radar.Ring]int     `json:"by_ring"`

	Recent []radar.Blip `json:"recent"`
}

// recentStatsLimit caps the recent-blips list on the stats surfaces.
const recentStatsLimit = 5

// Stats aggregates counts, ADR coverage, and the most recent blips.
func Stats(database *sql.DB) (*StatsOutput, error) {
	totalBlips, err := db.CountBlips(database)
	if err != nil {
		return nil, err
	}
	totalAdrs, err := db.CountAdrs(database)
	if err != nil {
		return nil, err
	}
	byQuadrant, err := db.CountBlipsByQuadrant(database)
	if err != nil {
		return nil, err
	}
	byRing, err := db.CountBlipsByRing(database)
	if err != nil {
		return nil, err
	}
	recent, err := db.RecentBlips(database, recentStatsLimit)
	if err != nil {
		return nil, err
	}

	out := &StatsOutput{
		TotalBlips: totalBlips,
		TotalAdrs:  totalAdrs,
		ByQuadrant: byQuadrant,
		ByRing:     byRing,
		Recent:     recent,
	}
	if totalBlips > 0 {
		coverage := float64(totalAdrs) / float64(totalBlips) * 100.0
		out.Coverage = &coverage
	}
	return out, nil
}
