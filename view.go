package main

import (
	"fmt"
	"strings"

	"allocation-wallet-tui/config"
	"allocation-wallet-tui/helpers"
	"allocation-wallet-tui/rpc"
	"allocation-wallet-tui/styles"
	"allocation-wallet-tui/views/account"
	"allocation-wallet-tui/views/allocate"
	"allocation-wallet-tui/views/claim"
	"allocation-wallet-tui/views/home"
	logview "allocation-wallet-tui/views/log"
	"allocation-wallet-tui/views/network"
	"allocation-wallet-tui/views/reclaim"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

// renderNotice renders the oldest pending notice as a centered dialog
func (m *model) renderNotice() string {
	n := m.notices[0]

	title := helpers.FadeString(n.Title, "#F25D94", "#EDFF82")
	text := lipgloss.NewStyle().Width(50).Align(lipgloss.Center).Foreground(cText).Render(n.Text)
	button := styles.Button("OK", false, true)

	parts := []string{
		lipgloss.NewStyle().Width(50).Align(lipgloss.Center).Bold(true).Render(title),
		"",
		text,
		"",
		button,
	}
	if more := len(m.notices) - 1; more > 0 {
		parts = append(parts, "", hintStyle.Render(fmt.Sprintf("%d more", more)))
	}

	dialog := dialogBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, parts...))
	return lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

func (m *model) renderResultContent() string {
	r := m.result
	explorer := m.session.ActiveNetwork().Explorer

	content := styles.TitleStyle.Render(fmt.Sprintf("Confirmed: %s (round %d)", r.Component, r.Receipt.Round)) + "\n\n"

	first := r.Receipt.TxIDs[0]
	qrData := first
	if link := rpc.ExplorerTxURL(explorer, first); link != "" {
		qrData = link
	}
	content += rpc.GenerateQRCode(qrData) + "\n"

	content += lipgloss.NewStyle().Foreground(cAccent).Render("Transactions:") + "\n\n"
	for _, tx := range r.Receipt.TxIDs {
		if link := rpc.ExplorerTxURL(explorer, tx); link != "" {
			content += link + "\n"
			continue
		}
		content += tx + "\n"
	}

	content += "\n" + hintStyle.Render("Scan the QR code to open the first transaction")
	content += "\n" + hintStyle.Render("Click anywhere or press c to copy • Press ESC or Enter to close")

	if m.copiedMsg != "" {
		content += "\n" + okStyle.Render(m.copiedMsg)
	}
	return content
}

func (m *model) renderResultPanel() string {
	contentWidth := helpers.Max(0, m.w-8)
	centered := lipgloss.NewStyle().Width(contentWidth).Align(lipgloss.Center).Render(m.renderResultContent())
	content := panelStyle.Width(helpers.Max(0, m.w-4)).Render(centered)
	return appStyle.Render(lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		content,
	))
}

func (m *model) globalHeader() string {
	availableWidth := helpers.Max(0, m.w-8) // Account for panel padding

	var addrDisplay string
	if active := m.session.ActiveAccount(); active != "" {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cAccent2).
			Bold(true).
			Render("Account: " + helpers.FadeString(helpers.ShortenAddr(active), "#F25D94", "#EDFF82"))
	} else {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cMuted).
			Render("Account: No selection")
	}

	// network and backend status
	var statusIcon, statusText string
	statusColor := lipgloss.Color("#c01c28")
	active := m.session.ActiveNetwork()
	switch {
	case active.URL == "":
		statusIcon, statusText = "○", "No network"
	case m.priming:
		statusIcon, statusText = m.spin.View(), active.Name+" · connecting backend"
	case m.primeErr != nil:
		statusIcon, statusText = "○", active.Name+" · backend offline"
	default:
		statusIcon, statusText = "●", active.Name
		statusColor = cAccent
	}

	statusDisplay := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)

	titleText := lipgloss.NewStyle().
		Foreground(cAccent).
		Bold(true).
		Render(helpers.FadeString("allocation wallet", "#7EE787", "#82CFFD"))

	addrWidth := lipgloss.Width(addrDisplay)
	statusWidth := lipgloss.Width(statusDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := addrWidth + statusWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = addrDisplay + "\n" + titleText + "\n" + statusDisplay
	} else {
		// Three-column layout: Account | Title (centered) | Network
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		headerLine = addrDisplay +
			strings.Repeat(" ", helpers.Max(1, leftPadding)) +
			titleText +
			strings.Repeat(" ", helpers.Max(1, rightPadding)) +
			statusDisplay
	}

	separator := lipgloss.NewStyle().
		Foreground(cBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator + "\n" + m.tabs()
}

// tabs renders the page strip with number shortcuts
func (m *model) tabs() string {
	var parts []string
	for i, p := range config.Pages {
		label := fmt.Sprintf("%d %s", i+1, p)
		if p == m.activePage {
			parts = append(parts, lipgloss.NewStyle().Foreground(cAccent2).Bold(true).Underline(true).Render(label))
			continue
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(cMuted).Render(label))
	}
	return strings.Join(parts, "   ")
}

func (m *model) nav(width int) string {
	switch m.activePage {
	case config.PageAccounts:
		return account.Nav(width)
	case config.PageNetworks:
		return network.Nav(width)
	case config.PageClaim:
		return claim.Nav(width)
	case config.PageAllocate:
		return allocate.Nav(width)
	case config.PageReclaim:
		return reclaim.Nav(width)
	}
	return home.Nav(width)
}

// View renders the program. The visible panel's region is positioned here,
// so clicks always resolve against the last rendered layout.
func (m *model) View() string {
	if m.w == 0 {
		return ""
	}
	if len(m.notices) > 0 {
		return m.renderNotice()
	}
	if m.result != nil {
		return m.renderResultPanel()
	}

	headerPanel := panelStyle.Width(helpers.Max(0, m.w-2)).Render(m.globalHeader())
	headerH := lipgloss.Height(headerPanel)

	var body string
	if p, ok := m.panels[m.activePage]; ok {
		innerW := helpers.Max(0, m.w-6)
		body = p.View(innerW, m.spin.View())
		// border (1) + left padding (2), border (1) + top padding (1)
		m.content.Move(3, headerH+2, innerW, lipgloss.Height(body))

		if m.adding && m.addForm != nil {
			body += "\n\n" + panelStyle.BorderForeground(cAccent2).Render(
				styles.TitleStyle.Render("Add Account")+"\n\n"+m.addForm.View())
		}
	} else {
		m.content.Move(0, 0, 0, 0)
		body = home.Render(m.homeForm)
	}
	pageContent := panelStyle.Width(helpers.Max(0, m.w-2)).Render(body)
	nav := m.nav(m.w - 2)

	sections := []string{headerPanel, pageContent, nav}
	if m.logEnabled {
		m.logViewport.Height = logview.Height(m.h)
		sections = append(sections, logview.Render(m.w, m.h, m.logReady, m.logSpinner.View(), m.logViewport))
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
