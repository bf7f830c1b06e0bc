package log

import (
	"fmt"

	"allocation-wallet-tui/helpers"
	"allocation-wallet-tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// Height returns the viewport height for a terminal of the given height.
// One third of the screen, at most 15 lines and at least 5.
func Height(height int) int {
	const reservedHeight = 10
	availableHeight := helpers.Max(5, height-reservedHeight)
	return helpers.Min(availableHeight, helpers.Min(height/3, 15))
}

// Render renders the log panel. Components write to it through their
// prefixed loggers.
func Render(width, height int, logReady bool, logSpinnerView string, vp viewport.Model) string {
	title := lipgloss.NewStyle().
		Foreground(styles.CAccent2).
		Bold(true).
		Render("Log")

	logPanelHeight := Height(height)
	vp.Height = logPanelHeight

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Padding(0, 1).
		Width(helpers.Max(0, width-2)).
		Height(logPanelHeight + 2) // +2 for title and spacing

	if !logReady {
		initMsg := "initializing...\n" + logSpinnerView
		return border.Render(title + "\n\n" + initMsg)
	}

	scrollInfo := ""
	if vp.TotalLineCount() > vp.Height {
		scrollInfo = lipgloss.NewStyle().
			Foreground(styles.CMuted).
			Render(fmt.Sprintf(" [%d%%] %d lines", int(vp.ScrollPercent()*100), vp.TotalLineCount()))
	}

	return border.Render(title + scrollInfo + "\n\n" + vp.View())
}
