package ui

import "github.com/charmbracelet/lipgloss"

const (
	Background = lipgloss.Color("#000")

	Primary   = lipgloss.Color("#fff")
	Secondary = lipgloss.Color("#888")
	Faded     = lipgloss.Color("#555")

	Blue   = lipgloss.Color("#4db7ff")
	Green  = lipgloss.Color("#00a352")
	Red    = lipgloss.Color("#c42912")
	Yellow = lipgloss.Color("#c4b810")
	Orange = lipgloss.Color("#c27510")
	Purple = lipgloss.Color("#9b87f5")
)

// Swatch renders text in a user chosen hex color, falling back to Secondary
// when none is set.
func Swatch(hex, text string) string {
	c := lipgloss.Color(hex)
	if hex == "" {
		c = Secondary
	}
	return lipgloss.NewStyle().Foreground(c).Render(text)
}
