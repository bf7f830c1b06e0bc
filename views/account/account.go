package account

import (
	"fmt"
	"math/big"
	"strings"

	"allocation-wallet-tui/component"
	"allocation-wallet-tui/config"
	"allocation-wallet-tui/helpers"
	"allocation-wallet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// State is the configured account list and the active account's balance
type State struct {
	Accounts []config.WalletEntry
	Active   string
	Balance  *big.Int
	Token    config.Token
}

// Nav returns the navigation bar for the accounts view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " move",
		styles.Key("Enter") + " activate",
		styles.Key("a") + " add",
		styles.Key("c") + " copy address",
		styles.Key("tab") + " next",
		styles.Key("h/Esc") + " home",
		styles.Key("l") + " logger",
		styles.Key("q") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the balance line and the account list
func Render(s State, f component.Frame) (string, []component.Area) {
	lines := []string{
		styles.TitleStyle.Render("Account List"),
		styles.Muted("Select the account transactions are signed with"),
		"",
	}

	switch {
	case s.Active == "":
		lines = append(lines, styles.Muted("No active account"))
	case f.Loading:
		lines = append(lines, f.Spinner+" fetching balance…")
	case s.Balance == nil:
		lines = append(lines, styles.Muted("Balance unavailable"))
	default:
		lines = append(lines, fmt.Sprintf("%s  %s",
			lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render(s.Token.Symbol),
			lipgloss.NewStyle().Foreground(styles.CText).Render(helpers.FormatToken(s.Balance, s.Token.Decimals, s.Token.Symbol)),
		))
	}
	lines = append(lines, "")

	var areas []component.Area
	if len(s.Accounts) == 0 {
		lines = append(lines, styles.Muted("No wallets added yet. Press 'a' to add one."))
		return strings.Join(lines, "\n"), areas
	}

	for i, wallet := range s.Accounts {
		var itemStyle lipgloss.Style
		var marker string
		var fullAddr, shortAddr string

		if i == f.Cursor {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("▶ ")
			itemStyle = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true)
			fullAddr = lipgloss.NewStyle().Foreground(styles.CText).Render(wallet.Address)
			shortAddr = helpers.ShortenAddr(wallet.Address)
		} else {
			marker = "  "
			itemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e1a2aa"))
			fullAddr = helpers.FadeString(wallet.Address, "#7D5AFC", "#FF87D7")
			shortAddr = helpers.ShortenAddr(wallet.Address)
		}

		if wallet.Name != "" {
			shortAddr = wallet.Name + " - " + shortAddr
		}
		if strings.EqualFold(wallet.Address, s.Active) {
			shortAddr = "✓ " + shortAddr
		}

		// both lines of an entry activate the same account
		areas = append(areas, component.Area{
			X:      0,
			Y:      len(lines),
			Width:  helpers.Max(lipgloss.Width(shortAddr)+2, 44),
			Height: 2,
			Event:  component.Pick{Address: wallet.Address},
		})
		lines = append(lines, marker+itemStyle.Render(shortAddr), "  "+fullAddr)
	}

	lines = append(lines, "", styles.Muted(fmt.Sprintf("%d wallets", len(s.Accounts))))
	return strings.Join(lines, "\n"), areas
}
