package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	previewFg = lipgloss.Color("#38BDF8")
	snapFg    = lipgloss.Color("#FFA500")
	borderCol = lipgloss.Color("#243141")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	onStyle    = lipgloss.NewStyle().Foreground(accentFg)

	inkStyles = map[ink]lipgloss.Style{
		inkGrid:         lipgloss.NewStyle().Foreground(borderCol),
		inkConstruction: lipgloss.NewStyle().Foreground(baseDimFg),
		inkShape:        lipgloss.NewStyle().Foreground(baseFg),
		inkPreview:      lipgloss.NewStyle().Foreground(previewFg),
		inkSelected:     lipgloss.NewStyle().Foreground(accentFg).Bold(true),
		inkSnap:         lipgloss.NewStyle().Foreground(snapFg),
	}
)

func inkStyle(k ink) lipgloss.Style {
	if s, ok := inkStyles[k]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
