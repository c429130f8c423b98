package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/hpungsan/radr/internal/radar"
)

// wizardKind tags which entry flow the wizard is running.
type wizardKind int

const (
	wizardBlip wizardKind = iota
	wizardAdr
	wizardEdit
)

// Blip/edit wizard step order.
const (
	stepName = iota
	stepQuadrant
	stepRing
	stepTag
	stepDescription
	blipStepCount
)

// ADR wizard step order.
const (
	stepAdrTitle = iota
	stepAdrBlip
	stepAdrStatus
	adrStepCount
)

// wizard is the in-progress field buffer for one entry flow: kind + step
// index + fields. Cancel discards the whole struct; nothing is persisted
// until the final step hands the buffer to the sync protocol.
type wizard struct {
	kind wizardKind
	step int

	input textinput.Model // shared text buffer for the active text step

	name        string
	quadrantIdx int
	ringIdx     int
	tag         string
	description string

	blipName  string // ADR flow only
	statusIdx int    // ADR flow only

	targetID int64 // edit flow only
}

func newTextInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.CharLimit = 120
	ti.Focus()
	return ti
}

// newBlipWizard starts the new-blip flow at the name step.
func newBlipWizard() *wizard {
	return &wizard{
		kind:  wizardBlip,
		input: newTextInput("technology name", ""),
	}
}

// newAdrWizard starts the new-ADR flow at the title step. When started from
// a selected blip, the blip name is prefilled.
func newAdrWizard(blipName string) *wizard {
	return &wizard{
		kind:     wizardAdr,
		blipName: blipName,
		input:    newTextInput("decision title", ""),
	}
}

// newEditWizard starts the edit flow prefilled from an existing blip.
func newEditWizard(b *radar.Blip) *wizard {
	w := &wizard{
		kind:     wizardEdit,
		targetID: b.ID,
		name:     b.Name,
		input:    newTextInput("technology name", b.Name),
	}
	if b.Quadrant != nil {
		w.quadrantIdx = b.Quadrant.Index()
	}
	if b.Ring != nil {
		w.ringIdx = b.Ring.Index()
	}
	if b.Tag != nil {
		w.tag = *b.Tag
	}
	if b.Description != nil {
		w.description = *b.Description
	}
	return w
}

// stepCount returns the number of steps for the wizard's kind.
func (w *wizard) stepCount() int {
	if w.kind == wizardAdr {
		return adrStepCount
	}
	return blipStepCount
}

// textStep reports whether the current step edits free text.
func (w *wizard) textStep() bool {
	if w.kind == wizardAdr {
		return w.step == stepAdrTitle || w.step == stepAdrBlip
	}
	return w.step == stepName || w.step == stepTag || w.step == stepDescription
}

// options returns the enumerated choices for the current selection step.
func (w *wizard) options() []string {
	if w.kind == wizardAdr {
		statuses := radar.AdrStatuses()
		out := make([]string, len(statuses))
		for i, s := range statuses {
			out[i] = s.Label()
		}
		return out
	}
	if w.step == stepQuadrant {
		quadrants := radar.Quadrants()
		out := make([]string, len(quadrants))
		for i, q := range quadrants {
			out[i] = q.Label()
		}
		return out
	}
	rings := radar.Rings()
	out := make([]string, len(rings))
	for i, r := range rings {
		out[i] = r.Label()
	}
	return out
}

// selection returns a pointer to the index the current selection step cycles.
func (w *wizard) selection() *int {
	switch {
	case w.kind == wizardAdr:
		return &w.statusIdx
	case w.step == stepQuadrant:
		return &w.quadrantIdx
	default:
		return &w.ringIdx
	}
}

// cycle moves the current selection by delta, wrapping.
func (w *wizard) cycle(delta int) {
	sel := w.selection()
	n := len(w.options())
	*sel = ((*sel+delta)%n + n) % n
}

// commitText validates and stores the active text buffer, returning an error
// message for the status line when validation fails.
func (w *wizard) commitText() string {
	value := strings.TrimSpace(w.input.Value())

	switch {
	case w.kind == wizardAdr && w.step == stepAdrTitle:
		if !radar.ValidName(value) {
			return "Title must not be empty."
		}
		w.name = value
	case w.kind == wizardAdr && w.step == stepAdrBlip:
		if !radar.ValidName(value) {
			return "ADR must name a blip."
		}
		w.blipName = value
	case w.step == stepName:
		if !radar.ValidName(value) {
			return "Name must not be empty."
		}
		w.name = value
	case w.step == stepTag:
		w.tag = value // optional
	case w.step == stepDescription:
		w.description = value // optional
	}
	return ""
}

// advance moves to the next step, preparing its text buffer if needed.
// Returns true when the wizard has completed its last step.
func (w *wizard) advance() bool {
	w.step++
	if w.step >= w.stepCount() {
		return true
	}

	switch {
	case w.kind == wizardAdr && w.step == stepAdrBlip:
		w.input = newTextInput("blip this decision belongs to", w.blipName)
	case w.step == stepTag:
		w.input = newTextInput("optional tag", w.tag)
	case w.step == stepDescription:
		w.input = newTextInput("optional description", w.description)
	}
	return false
}

// backToName rewinds a completed-or-conflicted wizard to its name step so the
// user can retry with a different identifier. The other fields are kept.
func (w *wizard) backToName() {
	w.step = stepName
	w.input = newTextInput("technology name", w.name)
	if w.kind == wizardAdr {
		w.step = stepAdrTitle
		w.input = newTextInput("decision title", w.name)
	}
}

// quadrant returns the selected quadrant value.
func (w *wizard) quadrant() radar.Quadrant {
	return radar.Quadrants()[w.quadrantIdx]
}

// ring returns the selected ring value.
func (w *wizard) ring() radar.Ring {
	return radar.Rings()[w.ringIdx]
}

// status returns the selected ADR status value.
func (w *wizard) status() radar.AdrStatus {
	return radar.AdrStatuses()[w.statusIdx]
}

// stepTitle names the current step for the wizard header.
func (w *wizard) stepTitle() string {
	if w.kind == wizardAdr {
		switch w.step {
		case stepAdrTitle:
			return "Decision title"
		case stepAdrBlip:
			return "Blip"
		default:
			return "Status"
		}
	}
	switch w.step {
	case stepName:
		return "Name"
	case stepQuadrant:
		return "Quadrant"
	case stepRing:
		return "Ring"
	case stepTag:
		return "Tag"
	default:
		return "Description"
	}
}
