package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hpungsan/radr/internal/geometry"
	"github.com/hpungsan/radr/internal/radar"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	tabStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	tabActive    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")).Padding(0, 1)
	rowStyle     = lipgloss.NewStyle()
	rowSelected  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	promptStyle  = lipgloss.NewStyle().Bold(true)
	optionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	optionActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
)

// View renders the current snapshot. It never mutates the model.
func (m Model) View() string {
	if m.err != nil {
		return warnStyle.Render("radr: "+m.err.Error()) + "\n"
	}

	var body string
	switch m.screen {
	case screenBlipWizard, screenAdrWizard, screenEditWizard:
		body = m.viewWizard()
	case screenConfirmDuplicate:
		body = m.viewConfirmDuplicate()
	case screenSettings:
		body = m.viewSettings()
	case screenHelp:
		body = m.viewHelp()
	case screenDetail:
		body = m.viewDetail()
	default:
		body = m.viewBrowse()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(" radr ")+dimStyle.Render(" technology radar"),
		body,
		m.viewStatusBar(),
	)
}

func (m Model) viewBrowse() string {
	width := m.width
	if width <= 0 {
		width = 100
	}
	height := m.height
	if height <= 0 {
		height = 30
	}

	radarW := width * 55 / 100
	radarH := height - 7
	if radarH < 9 {
		radarH = 9
	}

	c := newCanvas(radarW-4, radarH)
	c.drawGrid()
	c.drawSweep(geometry.SweepAngle(m.elapsed, m.sweepPeriod()))
	selected := ""
	if b := m.selectedBlip(); b != nil {
		selected = b.Name
	}
	c.drawPoints(geometry.Layout(m.blips), selected)

	radarPanel := panelStyle.Render(c.render() + "\n" + dimStyle.Render(quadrantLegend()))
	listPanel := panelStyle.Width(width - radarW - 4).Render(m.viewList(radarH))

	return lipgloss.JoinHorizontal(lipgloss.Top, radarPanel, listPanel)
}

func quadrantLegend() string {
	names := make([]string, 0, 4)
	for _, q := range radar.Quadrants() {
		names = append(names, q.Label())
	}
	return strings.Join(names, " / ")
}

func (m Model) viewList(height int) string {
	var b strings.Builder

	blipsTab, adrsTab := tabStyle, tabStyle
	if m.tab == tabBlips {
		blipsTab = tabActive
	} else {
		adrsTab = tabActive
	}
	b.WriteString(blipsTab.Render(fmt.Sprintf("Blips (%d)", len(m.blips))))
	b.WriteString(adrsTab.Render(fmt.Sprintf("ADRs (%d)", len(m.adrs))))
	b.WriteString("\n\n")

	visible := height - 3
	if visible < 1 {
		visible = 1
	}
	top := 0
	if m.selected >= visible {
		top = m.selected - visible + 1
	}

	if m.tab == tabBlips {
		if len(m.blips) == 0 {
			b.WriteString(dimStyle.Render("No blips yet. Press n to add one."))
		}
		for i := top; i < len(m.blips) && i < top+visible; i++ {
			b.WriteString(m.blipRow(i))
			b.WriteByte('\n')
		}
	} else {
		if len(m.adrs) == 0 {
			b.WriteString(dimStyle.Render("No decisions yet. Press a to record one."))
		}
		for i := top; i < len(m.adrs) && i < top+visible; i++ {
			b.WriteString(m.adrRow(i))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) blipRow(i int) string {
	b := m.blips[i]
	ring, quadrant := "unclassified", ""
	if b.Ring != nil {
		ring = b.Ring.Label()
	}
	if b.Quadrant != nil {
		quadrant = " · " + b.Quadrant.Label()
	}
	adr := ""
	if b.HasAdr {
		adr = " [ADR]"
	}
	line := fmt.Sprintf("%3d  %-24s %s%s%s", b.ID, truncate(b.Name, 24), ring, quadrant, adr)
	if m.tab == tabBlips && i == m.selected {
		return rowSelected.Render("> " + line)
	}
	return rowStyle.Render("  " + line)
}

func (m Model) adrRow(i int) string {
	a := m.adrs[i]
	blip := a.BlipName
	if blip == "" {
		blip = dimStyle.Render("(unlinked)")
	}
	line := fmt.Sprintf("%3d  %-28s %-10s %s", a.ID, truncate(a.Title, 28), a.Status.Label(), blip)
	if m.tab == tabAdrs && i == m.selected {
		return rowSelected.Render("> " + line)
	}
	return rowStyle.Render("  " + line)
}

func (m Model) viewWizard() string {
	w := m.wiz
	var b strings.Builder

	heading := map[wizardKind]string{
		wizardBlip: "New blip",
		wizardAdr:  "New decision record",
		wizardEdit: "Edit blip",
	}[w.kind]
	b.WriteString(promptStyle.Render(heading))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  step %d/%d", w.step+1, w.stepCount())))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render(w.stepTitle()))
	b.WriteString("\n\n")

	if w.textStep() {
		b.WriteString(w.input.View())
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("enter confirm · esc cancel"))
	} else {
		sel := *w.selection()
		for i, opt := range w.options() {
			if i == sel {
				b.WriteString(optionActive.Render("  ▸ " + opt))
			} else {
				b.WriteString(optionStyle.Render("    " + opt))
			}
			b.WriteByte('\n')
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("↑/↓ choose · enter confirm · esc cancel"))
	}

	return panelStyle.Render(b.String())
}

func (m Model) viewConfirmDuplicate() string {
	var b strings.Builder
	b.WriteString(warnStyle.Render("Name already taken"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%q already exists. Records are never overwritten.\n\n", m.wiz.name))
	b.WriteString(dimStyle.Render("r rename and retry · d/esc discard"))
	return panelStyle.Render(b.String())
}

func (m Model) viewSettings() string {
	f := m.set
	var b strings.Builder
	b.WriteString(promptStyle.Render("Settings"))
	b.WriteString("\n\n")
	for i, field := range f.fields {
		marker := "  "
		if i == f.idx {
			marker = "> "
		}
		if f.editing && i == f.idx {
			b.WriteString(rowSelected.Render(marker+field.label+": ") + f.input.View())
		} else if i == f.idx {
			b.WriteString(rowSelected.Render(fmt.Sprintf("%s%s: %s", marker, field.label, field.value)))
		} else {
			b.WriteString(fmt.Sprintf("%s%s: %s", marker, field.label, field.value))
		}
		b.WriteByte('\n')
	}
	b.WriteString("\n")
	if f.editing {
		b.WriteString(dimStyle.Render("enter save · esc keep current"))
	} else {
		b.WriteString(dimStyle.Render("↑/↓ choose · enter edit · esc back"))
	}
	return panelStyle.Render(b.String())
}

// viewDetail shows the full record under the cursor.
func (m Model) viewDetail() string {
	var b strings.Builder

	if blip := m.selectedBlip(); blip != nil {
		b.WriteString(promptStyle.Render(blip.Name))
		b.WriteString("\n\n")
		ring, quadrant := "unclassified", "unclassified"
		if blip.Ring != nil {
			ring = blip.Ring.Label()
		}
		if blip.Quadrant != nil {
			quadrant = blip.Quadrant.Label()
		}
		fmt.Fprintf(&b, "Quadrant:    %s\n", quadrant)
		fmt.Fprintf(&b, "Ring:        %s\n", ring)
		if blip.Tag != nil {
			fmt.Fprintf(&b, "Tag:         %s\n", *blip.Tag)
		}
		fmt.Fprintf(&b, "Created:     %s\n", blip.Created)
		if blip.HasAdr && blip.AdrID != nil {
			link := fmt.Sprintf("#%d", *blip.AdrID)
			for _, a := range m.adrs {
				if a.ID == *blip.AdrID {
					link = fmt.Sprintf("%q (%s)", a.Title, a.Status.Label())
					break
				}
			}
			fmt.Fprintf(&b, "Decision:    %s\n", link)
		} else {
			b.WriteString("Decision:    " + dimStyle.Render("none recorded") + "\n")
		}
		if blip.Description != nil && *blip.Description != "" {
			b.WriteString("\n" + *blip.Description + "\n")
		}
	} else if adr := m.selectedAdr(); adr != nil {
		b.WriteString(promptStyle.Render(adr.Title))
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "Status:      %s\n", adr.Status.Label())
		fmt.Fprintf(&b, "Blip:        %s\n", adr.BlipName)
		if adr.Quadrant != nil {
			fmt.Fprintf(&b, "Quadrant:    %s\n", adr.Quadrant.Label())
		}
		if adr.Ring != nil {
			fmt.Fprintf(&b, "Ring:        %s\n", adr.Ring.Label())
		}
		fmt.Fprintf(&b, "Recorded:    %s\n", adr.Timestamp)
	} else {
		b.WriteString(dimStyle.Render("Nothing selected."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ next record · esc back"))
	return panelStyle.Render(b.String())
}

func (m Model) viewHelp() string {
	rows := []string{
		"n        new blip",
		"a        new decision record",
		"e        edit selected blip",
		"enter    view selected record",
		"tab      switch blips/ADRs list",
		"↑/↓ j/k  move selection",
		"p        pause/resume sweep",
		"r        reload from store",
		"s        settings",
		"?        this help",
		"q        quit",
	}
	return panelStyle.Render(promptStyle.Render("Keys") + "\n\n" + strings.Join(rows, "\n") + "\n\n" + dimStyle.Render("esc back"))
}

func (m Model) viewStatusBar() string {
	hints := dimStyle.Render(" n new · a adr · e edit · tab lists · ? help · q quit")
	if m.status == "" {
		return hints
	}
	if m.statusIsWarn {
		return warnStyle.Render(" ! " + m.status)
	}
	return statusStyle.Render(" " + m.status)
}

// truncate shortens s to n runes; byte slicing would split multibyte names.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
