package main

import (
	"allocation-wallet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- THEME (Lip Gloss) --------------------
// Styles come from the styles package

var (
	cPanel   = styles.CPanel
	cBorder  = styles.CBorder
	cMuted   = styles.CMuted
	cText    = styles.CText
	cAccent  = styles.CAccent
	cAccent2 = styles.CAccent2
	cWarn    = styles.CWarn
	cError   = lipgloss.Color("#FF5F5F")

	appStyle   = styles.AppStyle
	panelStyle = styles.PanelStyle
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	okStyle    = lipgloss.NewStyle().Foreground(cAccent).Bold(true)

	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2).
			Background(cPanel)
)
