package main

import "allocation-wallet-tui/wallet"

// -------------------- TEA MESSAGES --------------------
// Program-level messages. Panel results travel as component messages.

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}

// sessionReadyMsg reports that the backend session has been primed
type sessionReadyMsg struct {
	err error
}

// walletChangedMsg carries a new active account / network pair
type walletChangedMsg struct {
	change wallet.Change
}

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct {
	what string
	err  error
}

// clipboardClearMsg clears the copy feedback
type clipboardClearMsg struct{}
