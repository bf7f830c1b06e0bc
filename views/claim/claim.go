package claim

import (
	"strings"

	"allocation-wallet-tui/component"
	"allocation-wallet-tui/helpers"
	"allocation-wallet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

const (
	LabelAvailable   = "Claim allocation"
	LabelUnavailable = "Nothing to claim"
	LabelClaiming    = "Claiming…"
)

// State is the claim eligibility of the active account
type State struct {
	Claimable bool
}

// Button derives the label and disabled flag together so they never disagree.
// A claim in flight shows its own label and is not clickable.
func Button(s State, busy bool) (label string, disabled bool) {
	switch {
	case !s.Claimable:
		return LabelUnavailable, true
	case busy:
		return LabelClaiming, true
	default:
		return LabelAvailable, false
	}
}

// Nav returns the navigation bar for the claim view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("Enter") + " claim",
		styles.Key("r") + " refresh",
		styles.Key("tab") + " next",
		styles.Key("h/Esc") + " home",
		styles.Key("l") + " logger",
		styles.Key("q") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the claim view
func Render(s State, f component.Frame) (string, []component.Area) {
	lines := []string{
		styles.TitleStyle.Render("Claim"),
		styles.Muted("Transfer your pending allocation into the active account"),
		"",
	}

	label, disabled := Button(s, f.Busy)
	btn := styles.Button(label, disabled, f.Cursor == 0)
	var areas []component.Area
	if !disabled {
		areas = append(areas, component.Area{X: 0, Y: len(lines), Width: lipgloss.Width(btn), Height: 1, Event: component.Submit{}})
	}
	lines = append(lines, btn, "")

	switch {
	case f.Busy:
		lines = append(lines, f.Spinner+" waiting for confirmation…")
	case f.Loading:
		lines = append(lines, f.Spinner+" checking eligibility…")
	default:
		lines = append(lines, styles.Muted("checked "+helpers.LoadedAt(f.UpdatedAt, false)))
	}

	return strings.Join(lines, "\n"), areas
}
