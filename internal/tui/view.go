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

	// Layout sizes
	sidebarWidth := 0
	if m.showSidebar {
		sidebarWidth = 28
	}
	headerHeight := 1
	footerHeight := 2
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 4 {
		contentHeight = 4
	}
	contentWidth := max(10, m.width)

	// Update list size with accurate content height when sidebar visible
	if m.showSidebar {
		m.l.SetSize(28-2, contentHeight-2)
	}

	// Header
	header := titleStyle.Render(" kmlview ─ terminal kml viewer ")
	header = lipgloss.NewStyle().Width(contentWidth).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	// Main panel
	mapWidth := contentWidth - sidebarWidth - 1
	if mapWidth < 10 {
		mapWidth = 10
	}
	mapHeight := contentHeight
	// track map size for inspect (full area; the map canvas has no border)
	m.mapW = max(8, mapWidth)
	m.mapH = max(4, mapHeight)

	var panel string
	switch {
	case m.pasteMode:
		m.ta.SetWidth(m.mapW)
		m.ta.SetHeight(min(m.mapH, 12))
		panel = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.ta.View())
	case m.mode == modeSummary || m.mode == modeAttrs:
		m.tbl.SetHeight(min(mapHeight-2, 20))
		box := boxStyle.Render(m.tbl.View())
		panel = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, box)
	default:
		panel = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.renderMap(m.mapW, m.mapH))
	}

	// Inspect popup (map mode only)
	popup := ""
	if m.inspectPopup != "" && m.mode == modeMap && !m.pasteMode {
		maxPopupW := min(48, contentWidth/2)
		if maxPopupW < 20 {
			maxPopupW = 20
		}
		box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MaxWidth(maxPopupW).Render(m.inspectPopup)
		popup = lipgloss.Place(contentWidth, contentHeight, lipgloss.Left, lipgloss.Center, box)
	}

	// Body row
	body := panel
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", panel)
	}

	// Footer: status + help left, pointer coordinates right
	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hoverHasGeo {
		coords = dimStyle.Render(fmt.Sprintf("  lat=%.5f lon=%.5f  ", m.hoverLat, m.hoverLon))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, popup, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
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
		"s summary",
		"a attrs",
		"m map",
		"p paste",
		"i inspect",
		"1/2/3 layers",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
