// Package geometry maps classified blips onto the radar disc and computes
// the sweep-line angle. Everything here is a pure function of its inputs:
// placement uses a stable hash of the blip name, never a random source, so
// repeated renders put every point in exactly the same place.
package geometry

import (
	"math"
	"time"

	"github.com/hpungsan/radr/internal/radar"
)

// Sector and band tuning. The four quadrants split the disc into quarter
// sectors; each ring maps to a radius band with adopt innermost. Jitter
// spreads same-cell points across 60% of the sector and 10% of the band.
const (
	sectorSpan  = math.Pi / 2
	angleSpread = 0.6
	bandBase    = 0.20
	bandStep    = 0.18
	bandJitter  = 0.10
)

// Point is a placed blip in unit-disc coordinates. Angle is radians from the
// positive x axis; Radius is 0..1; X and Y are the cartesian equivalents.
type Point struct {
	Name     string
	Quadrant radar.Quadrant
	Ring     radar.Ring
	Angle    float64
	Radius   float64
	X        float64
	Y        float64
}

// Layout places every classified blip. Unclassified blips (missing quadrant
// or ring) are skipped; they belong in list views only. Input order is
// preserved, so a creation-ordered blip list yields a stable layout.
func Layout(blips []radar.Blip) []Point {
	points := make([]Point, 0, len(blips))
	for _, b := range blips {
		if !b.Classified() {
			continue
		}

		j := Jitter(b.Name)
		sector := float64(b.Quadrant.Index()) * sectorSpan
		angle := sector + (j-0.5)*(sectorSpan*angleSpread)

		// Ring index counts hold→adopt, but adopt is the innermost band:
		// distance from the center is distance from adoption.
		band := len(radar.Rings()) - 1 - b.Ring.Index()
		radius := bandBase + float64(band)*bandStep + j*bandJitter

		points = append(points, Point{
			Name:     b.Name,
			Quadrant: *b.Quadrant,
			Ring:     *b.Ring,
			Angle:    angle,
			Radius:   radius,
			X:        math.Cos(angle) * radius,
			Y:        math.Sin(angle) * radius,
		})
	}
	return points
}

// Jitter maps a name to a stable offset in [0, 1). Distinct names sharing a
// (quadrant, ring) cell land at distinct offsets, avoiding exact overlap.
func Jitter(name string) float64 {
	var acc uint64
	for _, b := range []byte(name) {
		acc = acc*31 + uint64(b)
	}
	return float64(acc%100) / 100.0
}

// SweepAngle returns the sweep-line angle in radians for the given elapsed
// time: one full rotation per period, monotonic non-decreasing modulo 2π.
// The sweep is a display overlay only and never affects point placement.
func SweepAngle(elapsed, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	frac := float64(elapsed%period) / float64(period)
	return frac * 2 * math.Pi
}
