package panels

import (
	"context"
	"fmt"

	"allocation-wallet-tui/component"
	"allocation-wallet-tui/views/account"
	"allocation-wallet-tui/views/network"
)

// NewAccount builds the account list. Activation is delegated to the wallet
// session, which notifies every panel of the change.
func NewAccount(d Deps) *component.Component[account.State] {
	empty := func() account.State {
		return account.State{Accounts: d.Wallet.Accounts(), Active: d.Wallet.ActiveAccount(), Token: d.Token}
	}

	return component.New(component.Config[account.State]{
		Name:  "accounts",
		Empty: empty,
		Fetch: func(ctx context.Context, addr string) (account.State, error) {
			bal, err := d.Ledger.Balance(ctx, addr)
			if err != nil {
				return empty(), fmt.Errorf("balance of %s: %w", addr, err)
			}
			return account.State{Accounts: d.Wallet.Accounts(), Active: addr, Balance: bal, Token: d.Token}, nil
		},
		Validate: func(_ string, _ account.State, ev component.Event) error {
			if _, ok := ev.(component.Pick); !ok {
				return fmt.Errorf("accounts: unsupported action %T", ev)
			}
			return nil
		},
		Submit: func(_ context.Context, _ string, _ account.State, ev component.Event) (component.Receipt, error) {
			return component.Receipt{}, d.Wallet.SelectAccount(ev.(component.Pick).Address)
		},
		Render:         account.Render,
		Recovery:       component.Refetch,
		AllowNoAccount: true,
		FetchTimeout:   d.Timeout,
	}, d.Wallet, d.logger("accounts"))
}

// NewNetwork builds the network switcher
func NewNetwork(d Deps) *component.Component[network.State] {
	empty := func() network.State {
		return network.State{Networks: d.Wallet.Networks(), Active: d.Wallet.ActiveNetwork().Name}
	}

	return component.New(component.Config[network.State]{
		Name:  "networks",
		Empty: empty,
		Fetch: func(ctx context.Context, _ string) (network.State, error) {
			st, err := d.Ledger.Status(ctx)
			if err != nil {
				return empty(), err
			}
			s := empty()
			s.ChainID = st.ChainID
			s.Block = st.Block
			return s, nil
		},
		Validate: func(_ string, _ network.State, ev component.Event) error {
			if _, ok := ev.(component.Switch); !ok {
				return fmt.Errorf("networks: unsupported action %T", ev)
			}
			return nil
		},
		Submit: func(_ context.Context, _ string, _ network.State, ev component.Event) (component.Receipt, error) {
			return component.Receipt{}, d.Wallet.SwitchNetwork(ev.(component.Switch).Network)
		},
		Render:              network.Render,
		Recovery:            component.Refetch,
		AllowNoAccount:      true,
		FetchWithoutAccount: true,
		FetchTimeout:        d.Timeout,
	}, d.Wallet, d.logger("networks"))
}
