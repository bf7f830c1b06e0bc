package reclaim

import (
	"strings"

	"allocation-wallet-tui/component"
	"allocation-wallet-tui/helpers"
	"allocation-wallet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// State lists the addresses whose allocation can be revoked
type State struct {
	Addresses []string
}

// Nav returns the navigation bar for the reclaim view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " reclaim",
		styles.Key("r") + " refresh",
		styles.Key("tab") + " next",
		styles.Key("h/Esc") + " home",
		styles.Key("q") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders one reclaim entry per address. Each entry's area carries
// its own address.
func Render(s State, f component.Frame) (string, []component.Area) {
	lines := []string{
		styles.TitleStyle.Render("Reclaim"),
		styles.Muted("Revoke allocations back to the issuer"),
		"",
	}

	var areas []component.Area
	if len(s.Addresses) == 0 {
		lines = append(lines, styles.Muted("Nothing to reclaim."))
	}
	for i, addr := range s.Addresses {
		label := "Reclaim"
		if f.Busy {
			label = "Reclaiming…"
		}
		btn := styles.Button(label, f.Busy, i == f.Cursor)
		addrText := helpers.FadeString(addr, "#7D5AFC", "#FF87D7")
		if i == f.Cursor {
			addrText = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render(addr)
		}
		line := btn + "  " + addrText

		if !f.Busy {
			areas = append(areas, component.Area{
				X:      0,
				Y:      len(lines),
				Width:  lipgloss.Width(line),
				Height: 1,
				Event:  component.Pick{Address: addr},
			})
		}
		lines = append(lines, line)
	}

	switch {
	case f.Busy:
		lines = append(lines, "", f.Spinner+" reclaiming…")
	case f.Loading:
		lines = append(lines, "", f.Spinner+" loading reclaimable addresses…")
	}

	return strings.Join(lines, "\n"), areas
}
