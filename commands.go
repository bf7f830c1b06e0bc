package main

import (
	"context"
	"time"

	"allocation-wallet-tui/api"
	"allocation-wallet-tui/wallet"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

// primeSession loads the backend landing page so the CSRF token is
// available before any panel fetches
func primeSession(c *api.Client, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return sessionReadyMsg{err: c.Prime(ctx)}
	}
}

// listenWallet waits for the next wallet change. It is re-armed after
// every delivery.
func listenWallet(ch <-chan wallet.Change) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return walletChangedMsg{change: change}
	}
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(what, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardCopiedMsg{what: what, err: clipboard.WriteAll(text)}
	}
}

// clearClipboard waits 2 seconds then clears clipboard feedback
func clearClipboard() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clipboardClearMsg{}
	})
}

// -------------------- MODEL HELPER METHODS --------------------

// addLog adds a log entry through the program logger
func (m *model) addLog(logType, message string, keyvals ...interface{}) {
	if m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message, keyvals...)
	case "success":
		m.logger.Info("✓ "+message, keyvals...)
	case "error":
		m.logger.Error(message, keyvals...)
	case "warning":
		m.logger.Warn(message, keyvals...)
	case "debug":
		m.logger.Debug(message, keyvals...)
	default:
		m.logger.Print(message, keyvals...)
	}
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if !m.logEnabled || !m.logReady || m.logBuffer == nil {
		return
	}

	content := m.logBuffer.String()
	if content == m.logShown {
		return
	}
	m.logShown = content
	m.logViewport.SetContent(content)
	m.logViewport.GotoBottom()
}

// textInputActive returns true if a form is capturing keys
func (m *model) textInputActive() bool {
	return m.adding && m.addForm != nil
}
