// Package tui is the interactive session: a single bubbletea model owns all
// session state, input handling is the only mutation path, and View is a
// pure read of the current snapshot. One wizard at a time, one terminal, one
// user; the SQLite index is only touched through the ops layer.
package tui

import (
	"database/sql"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hpungsan/radr/internal/config"
	"github.com/hpungsan/radr/internal/ops"
	"github.com/hpungsan/radr/internal/radar"
)

// screen identifies the active top-level state.
type screen int

const (
	screenBrowse screen = iota
	screenBlipWizard
	screenAdrWizard
	screenEditWizard
	screenSettings
	screenHelp
	screenConfirmDuplicate
	screenDetail
)

// browseTab selects which table the browse screen lists.
type browseTab int

const (
	tabBlips browseTab = iota
	tabAdrs
)

// tickMsg drives the sweep-line clock. It never mutates records or
// placement, only the animation overlay.
type tickMsg time.Time

// Model is the complete session state. Exclusively mutated by Update;
// View and the geometry engine receive read-only snapshots.
type Model struct {
	db      *sql.DB
	cfg     *config.Config
	writer  ops.DocWriter
	author  string
	baseDir string

	screen screen
	wiz    *wizard
	set    *settingsForm

	// status is the last status or error message; statusIsWarn selects the
	// warning style.
	status       string
	statusIsWarn bool

	// Cached snapshots from the Record Store, refreshed after every
	// successful mutation. Creation order keeps radar placement stable.
	blips []radar.Blip
	adrs  []radar.AdrEntry

	tab      browseTab
	selected int

	// Sweep clock. elapsed advances on ticks; paused freezes the overlay.
	start   time.Time
	elapsed time.Duration
	paused  bool

	width  int
	height int

	err error // fatal init error, rendered and then quit
}

// New creates the session model. The initial screen is browse; snapshots are
// loaded on Init.
func New(database *sql.DB, cfg *config.Config, writer ops.DocWriter, author, baseDir string) Model {
	return Model{
		db:      database,
		cfg:     cfg,
		writer:  writer,
		author:  author,
		baseDir: baseDir,
		screen:  screenBrowse,
		start:   time.Now(),
	}
}

// Init loads the first snapshot and starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), func() tea.Msg { return refreshMsg{} })
}

// refreshMsg asks Update to re-fetch both snapshots from the Record Store.
type refreshMsg struct{}

func (m Model) tick() tea.Cmd {
	interval := time.Duration(m.cfg.TickMS) * time.Millisecond
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// sweepPeriod returns the configured rotation period.
func (m Model) sweepPeriod() time.Duration {
	if m.cfg.SweepPeriodMS <= 0 {
		return 4 * time.Second
	}
	return time.Duration(m.cfg.SweepPeriodMS) * time.Millisecond
}

// selectedBlip returns the blip under the browse cursor, or nil.
func (m Model) selectedBlip() *radar.Blip {
	if m.tab != tabBlips || m.selected < 0 || m.selected >= len(m.blips) {
		return nil
	}
	return &m.blips[m.selected]
}

// selectedAdr returns the ADR entry under the browse cursor, or nil.
func (m Model) selectedAdr() *radar.AdrEntry {
	if m.tab != tabAdrs || m.selected < 0 || m.selected >= len(m.adrs) {
		return nil
	}
	return &m.adrs[m.selected]
}

// setStatus records an informational status message.
func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusIsWarn = false
}

// setWarning records a recoverable warning message.
func (m *Model) setWarning(msg string) {
	m.status = msg
	m.statusIsWarn = true
}
