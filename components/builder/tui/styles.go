package tui

import "github.com/charmbracelet/lipgloss"

// Theme colors.
const (
	ColorAccent    = "86"
	ColorHighlight = "205"
	ColorDanger    = "196"
	ColorMuted     = "241"
	ColorText      = "252"
	ColorSuccess   = "42"
)

// Styles holds the shared style definitions.
var Styles = struct {
	Title        lipgloss.Style
	TitleWarning lipgloss.Style
	Box          lipgloss.Style
	BoxDanger    lipgloss.Style
	Sidebar      lipgloss.Style
	Selected     lipgloss.Style
	Muted        lipgloss.Style
	Normal       lipgloss.Style
	Hint         lipgloss.Style
	Section      lipgloss.Style
	Empty        lipgloss.Style
	Success      lipgloss.Style
	Error        lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2),
	BoxDanger: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2),
	Sidebar: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(ColorMuted)).
		PaddingRight(1).
		Width(sidebarWidth),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Section: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Success: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSuccess)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
}

// cellStyle is the box drawn around a canvas element in its palette color.
func cellStyle(color string, selected bool) lipgloss.Style {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color))
	if selected {
		style = style.
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color(ColorHighlight))
	}
	return style
}
