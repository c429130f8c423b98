package radar

import "strings"

// Ring is the maturity axis of the radar. Stored lowercase in the database
// and in document front matter.
type Ring string

const (
	RingHold   Ring = "hold"
	RingAssess Ring = "assess"
	RingTrial  Ring = "trial"
	RingAdopt  Ring = "adopt"
)

// Rings lists all rings from the outermost band (hold) to the innermost
// (adopt). Radial distance from the center means distance from adoption.
func Rings() []Ring {
	return []Ring{RingHold, RingAssess, RingTrial, RingAdopt}
}

// ParseRing parses a ring from user or stored input.
// Returns false if the value is not one of the four rings.
func ParseRing(value string) (Ring, bool) {
	switch Ring(normalizeEnum(value)) {
	case RingHold:
		return RingHold, true
	case RingAssess:
		return RingAssess, true
	case RingTrial:
		return RingTrial, true
	case RingAdopt:
		return RingAdopt, true
	}
	return "", false
}

// Index returns the ring's position in the hold→adopt order, or -1.
func (r Ring) Index() int {
	for i, candidate := range Rings() {
		if r == candidate {
			return i
		}
	}
	return -1
}

// Label returns the human-readable form ("adopt" → "Adopt").
func (r Ring) Label() string {
	return titleCase(string(r))
}

func (r Ring) String() string { return string(r) }

// normalizeEnum lowercases and trims enum input before matching.
func normalizeEnum(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
