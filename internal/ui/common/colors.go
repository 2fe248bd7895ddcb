package common

import "github.com/charmbracelet/lipgloss"

// Tokyo Night-inspired color palette
var (
	// Base palette
	ColorBackground = lipgloss.Color("#1a1b26") // Dark blue-gray
	ColorForeground = lipgloss.Color("#a9b1d6") // Soft lavender-white
	ColorMuted      = lipgloss.Color("#565f89") // Dimmed text
	ColorBorder     = lipgloss.Color("#292e42") // Subtle borders

	// Semantic colors
	ColorPrimary = lipgloss.Color("#7aa2f7") // Blue
	ColorSuccess = lipgloss.Color("#9ece6a") // Green - running
	ColorWarning = lipgloss.Color("#e0af68") // Yellow - paused
	ColorError   = lipgloss.Color("#f7768e") // Red

	// Surface colors for layering
	ColorSurface1 = lipgloss.Color("#1f2335")
	ColorSurface2 = lipgloss.Color("#24283b")
)

// tilePalette cycles through when an item has no color of its own.
var tilePalette = []lipgloss.Color{
	lipgloss.Color("#7aa2f7"),
	lipgloss.Color("#bb9af7"),
	lipgloss.Color("#9ece6a"),
	lipgloss.Color("#e0af68"),
	lipgloss.Color("#7dcfff"),
	lipgloss.Color("#f7768e"),
}

// TileColor returns the fallback color for the i-th source item.
func TileColor(i int) lipgloss.Color {
	if i < 0 {
		i = -i
	}
	return tilePalette[i%len(tilePalette)]
}

// StateColor returns the status color for a running or paused strip.
func StateColor(running bool) lipgloss.Color {
	if running {
		return ColorSuccess
	}
	return ColorWarning
}
