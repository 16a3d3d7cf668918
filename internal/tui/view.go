package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// layout returns the map area's origin and size in cells. Mouse mapping and
// View both go through it so they always agree.
func (m Model) layout() (ox, oy, w, h int) {
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)
	if m.showSidebar {
		ox = sidebarWidth + 1
	}
	return ox, headerHeight, max(10, contentWidth-ox), contentHeight
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	_, _, mapWidth, mapHeight := m.layout()
	contentWidth := max(10, m.width)

	// Header
	header := titleStyle.Render(" cadterm ─ terminal drawing surface ")
	header = lipgloss.NewStyle().Width(contentWidth).Padding(0).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showTable:
		// infer a reasonable width from columns
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(mapHeight-2, 20))
		box := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, box)
	case m.pasteMode:
		m.ta.SetWidth(mapWidth)
		m.ta.SetHeight(min(mapHeight, 12))
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.ta.View())
	case m.inspectPopup != "":
		box := boxStyle.MaxWidth(min(64, mapWidth)).Render(m.inspectPopup)
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Left, lipgloss.Center, box)
	default:
		frame := m.frame
		if frame == "" {
			frame = m.renderFrame()
		}
		// plain map canvas: no border, no background highlight
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(frame)
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	footer := lipgloss.JoinVertical(lipgloss.Left, m.renderStatus(contentWidth), m.renderPrompt())
	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

// renderStatus is the mode line: tool, toggles, zoom and selection on the
// left, the pointer's world position on the right.
func (m Model) renderStatus(width int) string {
	s := m.surface
	toggle := func(name string, on bool) string {
		if on {
			return onStyle.Render(name)
		}
		return dimStyle.Render(name)
	}
	parts := []string{
		" " + titleStyle.Render(s.Tool().String()),
		toggle("snap", s.Snap()),
		toggle("ortho", s.Ortho()),
		dimStyle.Render(fmt.Sprintf("zoom %.3gx", s.View().Scale)),
		dimStyle.Render(fmt.Sprintf("shapes %d", s.Store().Len())),
	}
	if mode := s.Mode(); mode != "idle" {
		parts = append(parts, dimStyle.Render(mode))
	}
	if sel, ok := s.Selected(); ok {
		parts = append(parts, onStyle.Render(fmt.Sprintf("#%d %s", sel.ID, sel.Kind)))
	}
	left := strings.Join(parts, "  ")
	coords := ""
	if p, ok := s.Cursor(); ok {
		coords = dimStyle.Render(fmt.Sprintf("  x=%.2f y=%.2f  ", p.X, p.Y))
	}
	spacerW := max(0, width-lipgloss.Width(left)-lipgloss.Width(coords))
	return lipgloss.NewStyle().Width(width).Render(left + padRight("", spacerW) + coords)
}

func (m Model) renderPrompt() string {
	if m.textMode {
		return " " + m.ti.View()
	}
	status := dimStyle.Render(" " + m.status + " ")
	return lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"1-5 tool",
		"n snap",
		"o ortho",
		"u undo",
		"del delete",
		"↑↓←→ pan",
		"+/- zoom",
		"f fit",
		"Tab files",
		"p paste",
		"a shapes",
		"i inspect",
		"w save",
		"e pdf",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
