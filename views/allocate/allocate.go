package allocate

import (
	"fmt"
	"strings"

	"allocation-wallet-tui/component"
	"allocation-wallet-tui/helpers"
	"allocation-wallet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// State is the pending allocation batch. Addresses and Amounts are zipped.
type State struct {
	Addresses []string
	Amounts   []float64
	Symbol    string
}

// Total sums the batch
func (s State) Total() float64 {
	var sum float64
	for _, a := range s.Amounts {
		sum += a
	}
	return sum
}

// addrWidth is the address column width, one cell wider than a hex address
const addrWidth = 44

// Button returns the submit label and whether it is disabled. An empty batch
// or one already being submitted cannot be clicked.
func Button(s State, busy bool) (label string, disabled bool) {
	switch {
	case len(s.Addresses) == 0:
		return "Submit allocations (0)", true
	case busy:
		return fmt.Sprintf("Submitting %d allocations…", len(s.Addresses)), true
	default:
		return fmt.Sprintf("Submit allocations (%d)", len(s.Addresses)), false
	}
}

// Nav returns the navigation bar for the allocate view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("Enter") + " submit batch",
		styles.Key("r") + " refresh",
		styles.Key("tab") + " next",
		styles.Key("h/Esc") + " home",
		styles.Key("l") + " logger",
		styles.Key("q") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the allocation batch and its submit button
func Render(s State, f component.Frame) (string, []component.Area) {
	lines := []string{
		styles.TitleStyle.Render("Allocate"),
		styles.Muted("Pending allocations recorded by the backend"),
		"",
	}

	if len(s.Addresses) == 0 {
		lines = append(lines, styles.Muted("No pending allocations."))
	} else {
		addrStyle := lipgloss.NewStyle().Foreground(styles.CText).Width(addrWidth)
		amtStyle := lipgloss.NewStyle().Foreground(styles.CAccent).Bold(true)
		for i, addr := range s.Addresses {
			amount := ""
			if i < len(s.Amounts) {
				amount = helpers.FormatAmount(s.Amounts[i], s.Symbol)
			}
			lines = append(lines, addrStyle.Render(addr)+" "+amtStyle.Render(amount))
		}
		lines = append(lines, "", styles.Muted(fmt.Sprintf("%d recipients, total %s", len(s.Addresses), helpers.FormatAmount(s.Total(), s.Symbol))))
	}
	lines = append(lines, "")

	label, disabled := Button(s, f.Busy)
	btn := styles.Button(label, disabled, f.Cursor == 0)
	var areas []component.Area
	if !disabled {
		areas = append(areas, component.Area{X: 0, Y: len(lines), Width: lipgloss.Width(btn), Height: 1, Event: component.Submit{}})
	}
	lines = append(lines, btn)

	switch {
	case f.Busy:
		lines = append(lines, "", f.Spinner+" submitting batch…")
	case f.Loading:
		lines = append(lines, "", f.Spinner+" loading allocations…")
	}

	return strings.Join(lines, "\n"), areas
}
