package radar

// AdrStatus describes the lifecycle of an architectural decision. The store
// does not constrain the column to these values; they are what the wizard
// offers and what well-formed documents carry.
type AdrStatus string

const (
	StatusProposed   AdrStatus = "proposed"
	StatusAccepted   AdrStatus = "accepted"
	StatusRejected   AdrStatus = "rejected"
	StatusDeprecated AdrStatus = "deprecated"
	StatusSuperseded AdrStatus = "superseded"
)

// AdrStatuses lists the wizard-selectable statuses in display order.
func AdrStatuses() []AdrStatus {
	return []AdrStatus{StatusProposed, StatusAccepted, StatusRejected, StatusDeprecated, StatusSuperseded}
}

// ParseAdrStatus parses a status from user input.
// Returns false for values outside the selectable set.
func ParseAdrStatus(value string) (AdrStatus, bool) {
	for _, s := range AdrStatuses() {
		if string(s) == normalizeEnum(value) {
			return s, true
		}
	}
	return "", false
}

// Label returns the human-readable form ("proposed" → "Proposed").
func (s AdrStatus) Label() string {
	return titleCase(string(s))
}

func (s AdrStatus) String() string { return string(s) }
