package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/andyrewlee/marquee/internal/perf"
	"github.com/andyrewlee/marquee/internal/ui/common"
)

// View implements tea.Model.
func (a *App) View() tea.View {
	defer perf.Time("view")()

	view := tea.View{
		AltScreen:       true,
		BackgroundColor: common.ColorBackground,
		ForegroundColor: common.ColorForeground,
	}

	if a.quitting {
		view.SetContent("")
		return view
	}
	if !a.ready {
		view.SetContent("Loading...")
		return view
	}

	view.SetContent(a.render())
	return view
}

// render stacks the strips and pins the status bar to the last row.
func (a *App) render() string {
	bodyHeight := max(0, a.height-1)
	lines := make([]string, 0, a.height)
	for i, s := range a.strips {
		if i > 0 {
			for g := 0; g < stripGap; g++ {
				lines = append(lines, "")
			}
		}
		lines = append(lines, strings.Split(s.View(), "\n")...)
	}
	lines = clampLines(lines, a.width, bodyHeight)
	for len(lines) < bodyHeight {
		lines = append(lines, "")
	}
	lines = append(lines, a.statusBar())
	return strings.Join(lines, "\n")
}

func (a *App) statusBar() string {
	state := a.styles.StatusRunning.Render("running")
	if a.paused {
		state = a.styles.StatusPaused.Render("paused")
	}

	parts := []string{state}
	for _, b := range a.keymap.ShortHelp() {
		h := b.Help()
		parts = append(parts, a.styles.HelpItem(h.Key, h.Desc))
	}
	if a.err != nil {
		parts = append(parts, a.styles.Error.Render(a.err.Error()))
	}
	sep := a.styles.HelpSeparator.Render(" │ ")
	bar := strings.Join(parts, sep)
	if ansi.StringWidth(bar) > a.width {
		bar = ansi.Truncate(bar, a.width, "…")
	}
	return a.styles.StatusBar.Width(a.width).Render(bar)
}

func clampLines(lines []string, width, maxLines int) []string {
	if maxLines >= 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return lines
}
