package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"allocation-wallet-tui/component"
	"allocation-wallet-tui/config"
	"allocation-wallet-tui/helpers"
	"allocation-wallet-tui/rpc"
	"allocation-wallet-tui/views/home"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// -------------------- TEMP FORM STORAGE --------------------
// Temporary form field storage (package-level to avoid pointer-to-copy issues)
var (
	tempAccountAddr string
	tempAccountName string
)

func (m *model) createAddAccountForm() {
	tempAccountAddr = ""
	tempAccountName = ""

	m.addForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Address").
				Description("Public address of the account (Ctrl+v to paste)").
				Value(&tempAccountAddr).
				Placeholder("0x...").
				Validate(func(s string) error {
					if !helpers.IsValidEthAddress(strings.TrimSpace(s)) {
						return fmt.Errorf("invalid ethereum address")
					}
					return nil
				}),

			huh.NewInput().
				Title("Nickname").
				Description("Optional friendly name").
				Value(&tempAccountName).
				Placeholder("main"),
		),
	).WithTheme(huh.ThemeCatppuccin())

	m.addForm.Init()
}

// switchPage detaches the visible panel and binds the next one to the
// content region
func (m *model) switchPage(p config.Page) tea.Cmd {
	if old, ok := m.panels[m.activePage]; ok {
		old.Destroy()
	}
	m.activePage = p

	if p == config.PageHome {
		m.homeForm = home.CreateForm()
		return m.homeForm.Init()
	}
	if next, ok := m.panels[p]; ok {
		m.addLog("debug", "showing panel", "panel", next.Name())
		return next.Bind(m.content)
	}
	return nil
}

// cyclePage moves through the panel pages in navigation order
func (m *model) cyclePage(step int) tea.Cmd {
	idx := -1
	for i, p := range config.Pages {
		if p == m.activePage {
			idx = i
			break
		}
	}
	n := len(config.Pages)
	if idx < 0 && step < 0 {
		idx = 0
	}
	return m.switchPage(config.Pages[((idx+step)%n+n)%n])
}

// reload discards every panel's state and re-primes the backend session.
// Bound panels fetch again once the session is ready.
func (m *model) reload(reason string) tea.Cmd {
	m.addLog("info", "reloading", "reason", reason)
	for _, p := range m.panels {
		p.Reset()
	}
	m.priming = true
	m.primeErr = nil
	return primeSession(m.backend, m.timeout)
}

// broadcast hands a component message to every panel
func (m *model) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range m.panels {
		cmds = append(cmds, p.Update(msg))
	}
	return tea.Batch(cmds...)
}

// Update is the Bubble Tea update loop
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer m.updateLogViewport()

	// Handle add-account form first
	if m.adding && m.addForm != nil {
		if _, isKey := msg.(tea.KeyMsg); isKey || isFormMsg(msg) {
			return m, m.updateAddForm(msg)
		}
	}

	switch msg := msg.(type) {

	case logInitMsg:
		if !m.logEnabled {
			return m, nil
		}
		m.logReady = true
		m.logShown = ""
		m.addLog("info", "Logger enabled")
		return m, nil

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		if m.logEnabled {
			m.logViewport.Width = helpers.Max(0, msg.Width-6)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		var cmds []tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		if m.logEnabled && !m.logReady {
			m.logSpinner, cmd = m.logSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case sessionReadyMsg:
		m.priming = false
		m.primeErr = msg.err
		if msg.err != nil {
			m.addLog("warning", "backend session not primed", "err", msg.err)
		} else if m.backend.CSRFToken() == "" {
			m.addLog("warning", "backend issued no CSRF token")
		} else {
			m.addLog("success", "backend session ready")
		}

		var cmds []tea.Cmd
		for _, p := range m.panels {
			cmds = append(cmds, p.Ready())
		}
		return m, tea.Batch(cmds...)

	case walletChangedMsg:
		m.addLog("info", "wallet changed",
			"account", helpers.ShortenAddr(msg.change.Account),
			"network", msg.change.Network.Name)

		cmds := []tea.Cmd{listenWallet(m.changes)}
		for _, p := range m.panels {
			cmds = append(cmds, p.Invalidate())
		}
		return m, tea.Batch(cmds...)

	case component.FetchedMsg, component.SubmittedMsg:
		return m, m.broadcast(msg)

	case component.NoticeMsg:
		m.notices = append(m.notices, msg)
		return m, nil

	case component.ReloadMsg:
		return m, m.reload(msg.Component + " submitted")

	case component.ResultMsg:
		r := msg
		m.result = &r
		m.copiedMsg = ""
		m.addLog("success", fmt.Sprintf("%s confirmed", msg.Component), "round", msg.Receipt.Round, "txs", strings.Join(msg.Receipt.TxIDs, ","))
		return m, nil

	case clipboardCopiedMsg:
		if msg.err != nil {
			m.addLog("error", "copy failed", "err", msg.err)
			return m, nil
		}
		m.copiedMsg = "✓ Copied " + msg.what + " to clipboard"
		m.copiedMsgTime = time.Now()
		m.addLog("info", "Copied "+msg.what+" to clipboard")
		return m, clearClipboard()

	case clipboardClearMsg:
		if time.Since(m.copiedMsgTime) >= 2*time.Second {
			m.copiedMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		// a click anywhere acknowledges the notice
		if len(m.notices) > 0 {
			m.notices = m.notices[1:]
			return m, nil
		}
		if m.result != nil {
			return m, m.copyResult()
		}
		return m, m.content.Click(msg.X, msg.Y)
	}

	// forward remaining messages to the home form
	if m.activePage == config.PageHome && m.homeForm != nil {
		return m, m.updateHomeForm(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	// notices block everything else until acknowledged
	if len(m.notices) > 0 {
		switch msg.String() {
		case "esc", "enter", " ":
			m.notices = m.notices[1:]
		}
		return nil
	}

	if m.result != nil {
		switch msg.String() {
		case "c", "C":
			return m.copyResult()
		case "esc", "enter":
			m.result = nil
			m.copiedMsg = ""
		}
		return nil
	}

	// global keys
	switch msg.String() {
	case "q":
		return tea.Quit

	case "l", "L":
		return m.toggleLogger()

	case "pageup", "pagedown":
		if m.logEnabled && m.logReady {
			var cmd tea.Cmd
			m.logViewport, cmd = m.logViewport.Update(msg)
			return cmd
		}
		return nil
	}

	if m.activePage == config.PageHome {
		if msg.String() == "esc" {
			return tea.Quit
		}
		return m.updateHomeForm(msg)
	}

	switch msg.String() {
	case "esc", "h", "H":
		return m.switchPage(config.PageHome)
	case "tab":
		return m.cyclePage(1)
	case "shift+tab":
		return m.cyclePage(-1)
	case "1", "2", "3", "4", "5":
		i, _ := strconv.Atoi(msg.String())
		return m.switchPage(config.Pages[i-1])
	case "a", "A":
		if m.activePage == config.PageAccounts {
			m.adding = true
			m.createAddAccountForm()
			return m.addForm.Init()
		}
	case "c", "C":
		if addr := m.session.ActiveAccount(); addr != "" {
			return copyToClipboard("address", addr)
		}
		return nil
	case "R":
		return m.reload("requested")
	}

	if p, ok := m.panels[m.activePage]; ok {
		return p.HandleKey(msg)
	}
	return nil
}

func (m *model) updateHomeForm(msg tea.Msg) tea.Cmd {
	form, cmd := m.homeForm.Update(msg)
	f, ok := form.(*huh.Form)
	if !ok {
		return cmd
	}
	m.homeForm = f

	switch m.homeForm.State {
	case huh.StateCompleted:
		if p, ok := home.Selected(); ok {
			return m.switchPage(p)
		}
		m.homeForm = home.CreateForm()
		return m.homeForm.Init()
	case huh.StateAborted:
		m.homeForm = home.CreateForm()
		return m.homeForm.Init()
	}
	return cmd
}

func (m *model) updateAddForm(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.adding = false
		m.addForm = nil
		return nil
	}

	form, cmd := m.addForm.Update(msg)
	f, ok := form.(*huh.Form)
	if !ok {
		return cmd
	}
	m.addForm = f

	switch m.addForm.State {
	case huh.StateCompleted:
		m.adding = false
		m.addForm = nil

		entry := config.WalletEntry{
			Address: strings.TrimSpace(tempAccountAddr),
			Name:    strings.TrimSpace(tempAccountName),
		}
		if err := m.session.AddAccount(entry); err != nil {
			m.addLog("error", "add account failed", "err", err)
			m.notices = append(m.notices, component.NoticeMsg{Component: "accounts", Title: "Add account failed", Text: component.Message(err)})
			return nil
		}
		m.addLog("success", fmt.Sprintf("Added account `%s`", helpers.ShortenAddr(entry.Address)))
		if p, ok := m.panels[config.PageAccounts]; ok {
			return p.Invalidate()
		}
		return nil
	case huh.StateAborted:
		m.adding = false
		m.addForm = nil
		return nil
	}
	return cmd
}

// toggleLogger shows or hides the log panel and persists the choice
func (m *model) toggleLogger() tea.Cmd {
	m.logEnabled = !m.logEnabled

	cfg := config.LoadOrCreate(m.configPath)
	cfg.Logger = m.logEnabled
	if err := config.Save(m.configPath, cfg); err != nil {
		m.addLog("error", "save config failed", "err", err)
	}

	if m.logEnabled {
		if m.w > 0 {
			m.logViewport.Width = m.w - 6
		}
		m.logReady = false
		return tea.Batch(initLogViewport(), m.logSpinner.Tick)
	}
	m.logReady = false
	return nil
}

// copyResult copies the explorer link of the first transaction, or its id
func (m *model) copyResult() tea.Cmd {
	if m.result == nil || len(m.result.Receipt.TxIDs) == 0 {
		return nil
	}
	tx := m.result.Receipt.TxIDs[0]
	if link := rpc.ExplorerTxURL(m.session.ActiveNetwork().Explorer, tx); link != "" {
		return copyToClipboard("explorer link", link)
	}
	return copyToClipboard("transaction id", tx)
}

// isFormMsg reports messages huh forms use internally
func isFormMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case tea.WindowSizeMsg, tea.MouseMsg, spinner.TickMsg, logInitMsg, sessionReadyMsg, walletChangedMsg,
		component.FetchedMsg, component.SubmittedMsg, component.NoticeMsg, component.ReloadMsg, component.ResultMsg,
		clipboardCopiedMsg, clipboardClearMsg:
		return false
	}
	return true
}
