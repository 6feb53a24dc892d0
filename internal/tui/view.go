package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	sc := m.screen()

	header := titleStyle.Render(" geoconv ─ geometry format inspector ")
	header = lipgloss.NewStyle().Width(sc.contentW).Render(header)

	var mapView string
	switch {
	case m.showFormats:
		mapView = lipgloss.Place(sc.mapW, sc.mapH, lipgloss.Center, lipgloss.Center, m.formatsView(sc))
	case m.pasteMode:
		m.ta.SetWidth(sc.mapW)
		m.ta.SetHeight(min(sc.mapH, 12))
		mapView = lipgloss.NewStyle().Width(sc.mapW).Height(sc.mapH).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(sc.mapW).Height(sc.mapH).Render(m.renderMap(sc.mapW, sc.mapH))
	}

	// inspect popup overlays the left edge, between header and body
	popup := ""
	if m.inspectPopup != "" && !m.showFormats {
		box := boxStyle.MaxWidth(max(20, min(48, sc.contentW/2))).Render(m.inspectPopup)
		popup = lipgloss.Place(sc.contentW, sc.contentH, lipgloss.Left, lipgloss.Center, box)
	}

	body := mapView
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, sc.contentH-2)
		sidebar := lipgloss.NewStyle().Width(sc.sidebarW).Render(m.l.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	ui := lipgloss.JoinVertical(lipgloss.Left, header, popup, body, m.footer(sc))
	return appStyle.Width(sc.contentW).Height(m.height).Render(ui)
}

func (m Model) formatsView(sc screen) string {
	colW := 0
	for _, c := range m.tbl.Columns() {
		colW += c.Width + 3
	}
	w := min(sc.mapW, max(32, colW))
	m.tbl.SetWidth(w - 4)
	m.tbl.SetHeight(min(sc.mapH-2, len(m.tbl.Rows())+2))
	return boxStyle.Width(w).Render(m.tbl.View())
}

// footer shows status and help on the left and the hovered position on
// the right.
func (m Model) footer(sc screen) string {
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, dimStyle.Render(" "+m.status+" "), m.renderHelp())
	coords := ""
	if m.hoverHasGeo {
		coords = dimStyle.Render(fmt.Sprintf("  x=%.5f y=%.5f  ", m.hoverX, m.hoverY))
	}
	spacerW := max(0, sc.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	return lipgloss.NewStyle().Width(sc.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"Tab files",
		"Enter open",
		"p paste",
		"a formats",
		"i inspect",
		"Esc close",
		"l layers",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
