package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hpungsan/radr/internal/errors"
	"github.com/hpungsan/radr/internal/ops"
)

// Update is the single transition function from (state, input) to
// (new state, effects). Rendering never runs through here; no other path
// mutates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.paused {
			m.elapsed = time.Time(msg).Sub(m.start)
		} else {
			// Freeze the overlay: shift the epoch so elapsed stays put.
			m.start = time.Time(msg).Add(-m.elapsed)
		}
		return m, m.tick()

	case refreshMsg:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenBrowse:
		return m.handleBrowseKey(msg)
	case screenBlipWizard, screenAdrWizard, screenEditWizard:
		return m.handleWizardKey(msg)
	case screenConfirmDuplicate:
		return m.handleConfirmDuplicateKey(msg)
	case screenSettings:
		return m.handleSettingsKey(msg)
	case screenHelp:
		return m.handleHelpKey(msg)
	case screenDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

// handleBrowseKey handles the initial screen. Quit is reachable only from
// here.
func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "n":
		m.wiz = newBlipWizard()
		m.screen = screenBlipWizard
		m.setStatus("")

	case "a":
		prefill := ""
		if b := m.selectedBlip(); b != nil {
			prefill = b.Name
		}
		m.wiz = newAdrWizard(prefill)
		m.screen = screenAdrWizard
		m.setStatus("")

	case "e":
		b := m.selectedBlip()
		if b == nil {
			m.setStatus("Select a blip to edit.")
			break
		}
		m.wiz = newEditWizard(b)
		m.screen = screenEditWizard
		m.setStatus("")

	case "enter":
		if m.listLen() > 0 {
			m.screen = screenDetail
			m.setStatus("")
		}

	case "s":
		m.set = m.loadSettingsForm()
		m.screen = screenSettings

	case "?":
		m.screen = screenHelp

	case "tab":
		if m.tab == tabBlips {
			m.tab = tabAdrs
		} else {
			m.tab = tabBlips
		}
		m.selected = 0

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < m.listLen()-1 {
			m.selected++
		}

	case "p":
		m.paused = !m.paused
		if m.paused {
			m.setStatus("Sweep paused")
		} else {
			m.setStatus("Sweep resumed")
		}

	case "r":
		m.refresh()
		m.setStatus("Reloaded")
	}

	// Unhandled input is a no-op.
	return m, nil
}

func (m Model) handleWizardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Cancel discards the in-progress buffer entirely.
		m.wiz = nil
		m.screen = screenBrowse
		m.setStatus("Discarded.")
		return m, nil

	case "enter":
		if m.wiz.textStep() {
			if errMsg := m.wiz.commitText(); errMsg != "" {
				m.setStatus(errMsg)
				return m, nil
			}
		}
		if m.wiz.advance() {
			return m.submitWizard()
		}
		m.setStatus("")
		return m, nil

	case "up", "left", "shift+tab":
		if !m.wiz.textStep() {
			m.wiz.cycle(-1)
		}
		return m, nil

	case "down", "right", "tab":
		if !m.wiz.textStep() {
			m.wiz.cycle(1)
		}
		return m, nil
	}

	if m.wiz.textStep() {
		var cmd tea.Cmd
		m.wiz.input, cmd = m.wiz.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submitWizard hands the completed buffer to the sync protocol. The state
// machine stays put until the protocol returns; conflicts open the
// ConfirmDuplicate screen, warnings become status messages, anything else
// aborts back to browse.
func (m Model) submitWizard() (tea.Model, tea.Cmd) {
	var warning *errors.RadrError
	var err error
	var done string

	switch m.wiz.kind {
	case wizardBlip:
		var out *ops.CreateBlipOutput
		out, err = ops.CreateBlip(m.db, m.writer, ops.CreateBlipInput{
			Name:        m.wiz.name,
			Quadrant:    string(m.wiz.quadrant()),
			Ring:        string(m.wiz.ring()),
			Tag:         m.wiz.tag,
			Description: m.wiz.description,
			Author:      m.author,
		})
		if out != nil {
			warning = out.Warning
			done = fmt.Sprintf("Blip %q recorded (%s)", out.Name, out.Path)
		}

	case wizardAdr:
		var out *ops.CreateAdrOutput
		out, err = ops.CreateAdr(m.db, m.writer, ops.CreateAdrInput{
			Title:    m.wiz.name,
			BlipName: m.wiz.blipName,
			Status:   string(m.wiz.status()),
		})
		if out != nil {
			warning = out.Warning
			done = fmt.Sprintf("ADR %q recorded (%s)", out.Title, out.Path)
		}

	case wizardEdit:
		quadrant := string(m.wiz.quadrant())
		ring := string(m.wiz.ring())
		var out *ops.UpdateBlipOutput
		out, err = ops.UpdateBlip(m.db, m.writer, ops.UpdateBlipInput{
			ID:          m.wiz.targetID,
			Name:        &m.wiz.name,
			Quadrant:    &quadrant,
			Ring:        &ring,
			Tag:         &m.wiz.tag,
			Description: &m.wiz.description,
			Author:      m.author,
		})
		if out != nil {
			warning = out.Warning
			done = fmt.Sprintf("Blip %q updated", out.Name)
		}
	}

	if err != nil {
		if errors.Is(err, errors.ErrDuplicateName) || errors.Is(err, errors.ErrDuplicateAdr) {
			m.screen = screenConfirmDuplicate
			return m, nil
		}
		m.wiz = nil
		m.screen = screenBrowse
		m.setStatus(err.Error())
		return m, nil
	}

	m.wiz = nil
	m.screen = screenBrowse
	if warning != nil {
		m.setWarning(warning.Message)
	} else {
		m.setStatus(done)
	}
	m.refresh()
	return m, nil
}

// handleConfirmDuplicateKey resolves a name conflict: retry with a new
// identifier (back to the wizard's name step, other fields kept) or discard.
func (m Model) handleConfirmDuplicateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r", "n":
		m.wiz.backToName()
		switch m.wiz.kind {
		case wizardBlip:
			m.screen = screenBlipWizard
		case wizardAdr:
			m.screen = screenAdrWizard
		case wizardEdit:
			m.screen = screenEditWizard
		}
		m.setStatus("Pick a different name.")

	case "d", "esc":
		m.wiz = nil
		m.screen = screenBrowse
		m.setStatus("Discarded.")
	}
	return m, nil
}

// handleDetailKey closes the read-only record view. The cursor keeps moving
// under it so j/k page through records without leaving the screen.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.screen = screenBrowse
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < m.listLen()-1 {
			m.selected++
		}
	}
	return m, nil
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q":
		m.screen = screenBrowse
	}
	return m, nil
}

// refresh re-fetches both snapshots from the Record Store and clamps the
// browse cursor.
func (m *Model) refresh() {
	if blips, err := ops.ListBlips(m.db); err == nil {
		m.blips = blips.Items
	} else {
		m.setWarning(err.Error())
	}
	if adrs, err := ops.ListAdrs(m.db, ops.ListAdrsInput{}); err == nil {
		m.adrs = adrs.Items
	} else {
		m.setWarning(err.Error())
	}
	if m.selected >= m.listLen() {
		m.selected = max(0, m.listLen()-1)
	}
}

func (m Model) listLen() int {
	if m.tab == tabAdrs {
		return len(m.adrs)
	}
	return len(m.blips)
}
