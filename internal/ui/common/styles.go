package common

import "github.com/charmbracelet/lipgloss"

// Styles contains all the application styles
type Styles struct {
	// Strip chrome
	StripTitle lipgloss.Style
	StripMeta  lipgloss.Style

	// Status bar
	StatusBar     lipgloss.Style
	StatusRunning lipgloss.Style
	StatusPaused  lipgloss.Style

	// Help bar
	Help          lipgloss.Style
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	// Feedback
	Error lipgloss.Style
	Muted lipgloss.Style
}

// DefaultStyles returns the default application styles
func DefaultStyles() Styles {
	return Styles{
		StripTitle: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),
		StripMeta: lipgloss.NewStyle().
			Foreground(ColorMuted),

		StatusBar: lipgloss.NewStyle().
			Foreground(ColorForeground).
			Background(ColorSurface1),
		StatusRunning: lipgloss.NewStyle().
			Foreground(StateColor(true)).
			Bold(true),
		StatusPaused: lipgloss.NewStyle().
			Foreground(StateColor(false)).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(ColorMuted),
		HelpKey: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Background(ColorSurface2).
			Padding(0, 1),
		HelpDesc: lipgloss.NewStyle().
			Foreground(ColorMuted),
		HelpSeparator: lipgloss.NewStyle().
			Foreground(ColorBorder),

		Error: lipgloss.NewStyle().
			Foreground(ColorError),
		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// HelpItem renders one "key desc" pair.
func (s Styles) HelpItem(key, desc string) string {
	return s.HelpKey.Render(key) + " " + s.HelpDesc.Render(desc)
}
