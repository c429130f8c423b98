package radar

// Quadrant is the categorical axis of the radar. Stored lowercase in the
// database and in document front matter.
type Quadrant string

const (
	QuadrantPlatforms  Quadrant = "platforms"
	QuadrantLanguages  Quadrant = "languages"
	QuadrantTools      Quadrant = "tools"
	QuadrantTechniques Quadrant = "techniques"
)

// Quadrants lists all quadrants in fixed display order. The order also fixes
// the angular sector each quadrant occupies on the radar.
func Quadrants() []Quadrant {
	return []Quadrant{QuadrantPlatforms, QuadrantLanguages, QuadrantTools, QuadrantTechniques}
}

// ParseQuadrant parses a quadrant from user or stored input.
// Returns false if the value is not one of the four quadrants.
func ParseQuadrant(value string) (Quadrant, bool) {
	switch Quadrant(normalizeEnum(value)) {
	case QuadrantPlatforms:
		return QuadrantPlatforms, true
	case QuadrantLanguages:
		return QuadrantLanguages, true
	case QuadrantTools:
		return QuadrantTools, true
	case QuadrantTechniques:
		return QuadrantTechniques, true
	}
	return "", false
}

// Index returns the quadrant's position in the fixed sector order, or -1.
func (q Quadrant) Index() int {
	for i, candidate := range Quadrants() {
		if q == candidate {
			return i
		}
	}
	return -1
}

// Label returns the human-readable form ("platforms" → "Platforms").
func (q Quadrant) Label() string {
	return titleCase(string(q))
}

func (q Quadrant) String() string { return string(q) }
