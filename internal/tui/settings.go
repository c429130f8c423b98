package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hpungsan/radr/internal/db"
	"github.com/hpungsan/radr/internal/docwriter"
)

// Settings keys persisted in app_settings. They survive restarts and win
// over the config file on next launch.
const (
	settingAdrDir       = "ADR_DIR"
	settingBlipDir      = "BLIP_DIR"
	settingDatabaseName = "DATABASE_NAME"
)

type settingsField struct {
	key   string
	label string
	value string
}

// settingsForm edits the persisted app settings one field at a time.
type settingsForm struct {
	fields  []settingsField
	idx     int
	editing bool
	input   textinput.Model
}

// loadSettingsForm seeds the form from the live config; persisted overrides
// were already merged into cfg at startup.
func (m Model) loadSettingsForm() *settingsForm {
	return &settingsForm{
		fields: []settingsField{
			{key: settingAdrDir, label: "ADR directory", value: m.cfg.AdrDir},
			{key: settingBlipDir, label: "Blip directory", value: m.cfg.BlipDir},
			{key: settingDatabaseName, label: "Database name", value: m.cfg.DatabaseName},
		},
	}
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.set

	if f.editing {
		switch msg.String() {
		case "esc":
			f.editing = false
			return m, nil
		case "enter":
			value := f.input.Value()
			if value == "" {
				m.setStatus("Value cannot be empty.")
				return m, nil
			}
			f.fields[f.idx].value = value
			f.editing = false
			if err := db.SetSetting(m.db, f.fields[f.idx].key, value); err != nil {
				m.setWarning(err.Error())
				return m, nil
			}
			m.setStatus(m.applySetting(f.fields[f.idx].key, value))
			return m, nil
		}
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc", "q":
		m.set = nil
		m.screen = screenBrowse
	case "up", "k":
		if f.idx > 0 {
			f.idx--
		}
	case "down", "j":
		if f.idx < len(f.fields)-1 {
			f.idx++
		}
	case "enter":
		f.input = newTextInput(f.fields[f.idx].label, f.fields[f.idx].value)
		f.input.CursorEnd()
		f.editing = true
	}
	return m, nil
}

// applySetting takes a saved value live where possible and returns the status
// message to show. Relative directories resolve against the application base
// directory, the same way the next launch will read them back. The database
// name only matters on the next launch since the pool is already open.
func (m *Model) applySetting(key, value string) string {
	switch key {
	case settingAdrDir:
		m.cfg.AdrDir = value
		if w, ok := m.writer.(*docwriter.Writer); ok {
			w.AdrDir = m.cfg.ResolveAdrDir(m.baseDir)
		}
		return "Saved ADR directory."
	case settingBlipDir:
		m.cfg.BlipDir = value
		if w, ok := m.writer.(*docwriter.Writer); ok {
			w.BlipDir = m.cfg.ResolveBlipDir(m.baseDir)
		}
		return "Saved blip directory."
	case settingDatabaseName:
		m.cfg.DatabaseName = value
		return "Database name saved; takes effect on next launch."
	}
	return "Saved."
}
