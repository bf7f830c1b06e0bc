// Package wallet holds the active account and network shared by every panel.
package wallet

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"allocation-wallet-tui/config"
)

var (
	ErrUnknownAccount = errors.New("unknown account")
	ErrUnknownNetwork = errors.New("unknown network")
)

// Change is delivered to subscribers whenever the active account or network changes
type Change struct {
	Account string
	Network config.Network
}

// Session is the read side of the wallet: panels read the active account
// and network at call time and subscribe to change notifications.
type Session interface {
	ActiveAccount() string
	ActiveNetwork() config.Network
	Subscribe() (<-chan Change, func())
}

// Selector is the write path. Only the account and network panels use it.
type Selector interface {
	Session
	Accounts() []config.WalletEntry
	Networks() []config.Network
	SelectAccount(addr string) error
	SwitchNetwork(name string) error
	AddAccount(entry config.WalletEntry) error
}

// Local is a Selector backed by the config file
type Local struct {
	mu       sync.Mutex
	accounts []config.WalletEntry
	networks []config.Network
	subs     map[int]chan Change
	nextSub  int
	persist  func(accounts []config.WalletEntry, networks []config.Network) error
}

// NewLocal creates a session from configured wallets and networks. persist
// is called after every change and may be nil.
func NewLocal(accounts []config.WalletEntry, networks []config.Network, persist func([]config.WalletEntry, []config.Network) error) *Local {
	l := &Local{
		accounts: append([]config.WalletEntry(nil), accounts...),
		networks: append([]config.Network(nil), networks...),
		subs:     make(map[int]chan Change),
		persist:  persist,
	}
	return l
}

// ActiveAccount returns the active address, or "" when none is active
func (l *Local) ActiveAccount() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.activeAccountLocked()
}

func (l *Local) activeAccountLocked() string {
	for _, a := range l.accounts {
		if a.Active {
			return a.Address
		}
	}
	return ""
}

// ActiveNetwork returns the active network, falling back to the first one
func (l *Local) ActiveNetwork() config.Network {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.activeNetworkLocked()
}

func (l *Local) activeNetworkLocked() config.Network {
	for _, n := range l.networks {
		if n.Active {
			return n
		}
	}
	if len(l.networks) > 0 {
		return l.networks[0]
	}
	return config.Network{}
}

func (l *Local) Accounts() []config.WalletEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]config.WalletEntry(nil), l.accounts...)
}

func (l *Local) Networks() []config.Network {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]config.Network(nil), l.networks...)
}

// Subscribe returns a channel of changes and a function that ends the
// subscription. Slow subscribers miss intermediate changes, never the last.
func (l *Local) Subscribe() (<-chan Change, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextSub
	l.nextSub++
	ch := make(chan Change, 1)
	l.subs[id] = ch

	return ch, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if c, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(c)
		}
	}
}

// SelectAccount marks addr as the active account
func (l *Local) SelectAccount(addr string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i, a := range l.accounts {
		if strings.EqualFold(a.Address, addr) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, addr)
	}
	if l.accounts[idx].Active {
		return nil
	}

	for i := range l.accounts {
		l.accounts[i].Active = i == idx
	}
	return l.commitLocked()
}

// SwitchNetwork marks the named network as active
func (l *Local) SwitchNetwork(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i, n := range l.networks {
		if n.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
	if l.networks[idx].Active {
		return nil
	}

	for i := range l.networks {
		l.networks[i].Active = i == idx
	}
	return l.commitLocked()
}

// AddAccount appends a new account. The first account added becomes active.
func (l *Local) AddAccount(entry config.WalletEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, a := range l.accounts {
		if strings.EqualFold(a.Address, entry.Address) {
			return fmt.Errorf("account %s already exists", entry.Address)
		}
	}

	entry.Active = l.activeAccountLocked() == ""
	l.accounts = append(l.accounts, entry)
	if !entry.Active {
		return l.persistLocked()
	}
	return l.commitLocked()
}

// commitLocked persists and notifies subscribers of the new active pair
func (l *Local) commitLocked() error {
	err := l.persistLocked()

	change := Change{Account: l.activeAccountLocked(), Network: l.activeNetworkLocked()}
	for _, ch := range l.subs {
		// drop a pending stale change so the latest one is always delivered
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- change:
		default:
		}
	}
	return err
}

func (l *Local) persistLocked() error {
	if l.persist == nil {
		return nil
	}
	if err := l.persist(l.accounts, l.networks); err != nil {
		return fmt.Errorf("save wallet config: %w", err)
	}
	return nil
}
