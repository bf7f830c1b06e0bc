package network

import (
	"fmt"
	"math/big"
	"strings"

	"allocation-wallet-tui/component"
	"allocation-wallet-tui/config"
	"allocation-wallet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// State lists configured networks and the status of the active one
type State struct {
	Networks []config.Network
	Active   string
	ChainID  *big.Int
	Block    uint64
}

// Nav returns the navigation bar for the networks view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " switch",
		styles.Key("r") + " refresh",
		styles.Key("tab") + " next",
		styles.Key("h/Esc") + " home",
		styles.Key("l") + " logger",
		styles.Key("q") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the network list
func Render(s State, f component.Frame) (string, []component.Area) {
	lines := []string{styles.TitleStyle.Render("Networks"), ""}

	switch {
	case f.Loading:
		lines = append(lines, f.Spinner+" reading chain status…")
	case s.ChainID != nil:
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.CAccent).Render(
			fmt.Sprintf("chain %s · block %d", s.ChainID, s.Block)))
	default:
		lines = append(lines, styles.Muted("chain status unknown"))
	}
	lines = append(lines, "")

	var areas []component.Area
	if len(s.Networks) == 0 {
		lines = append(lines, styles.Muted("No networks configured. Set ETH_RPC_URL or edit the config file."))
		return strings.Join(lines, "\n"), areas
	}

	for i, n := range s.Networks {
		var marker string
		if n.Name == s.Active {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent).Render("● ")
		} else {
			marker = lipgloss.NewStyle().Foreground(styles.CMuted).Render("○ ")
		}

		nameStyle := lipgloss.NewStyle().Foreground(styles.CText)
		urlStyle := lipgloss.NewStyle().Foreground(styles.CMuted)

		if i == f.Cursor {
			nameStyle = nameStyle.Background(styles.CPanel).Foreground(styles.CAccent2).Bold(true)
			urlStyle = urlStyle.Background(styles.CPanel)
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Render("▶ ")
		}

		areas = append(areas, component.Area{
			X:      0,
			Y:      len(lines),
			Width:  max(lipgloss.Width(n.Name), lipgloss.Width(n.URL)) + 2,
			Height: 2,
			Event:  component.Switch{Network: n.Name},
		})
		lines = append(lines, marker+nameStyle.Render(n.Name), "  "+urlStyle.Render(n.URL), "")
	}

	return strings.Join(lines, "\n"), areas
}
