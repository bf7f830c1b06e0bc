package panels

import (
	"context"
	"fmt"

	"allocation-wallet-tui/component"
	"allocation-wallet-tui/views/allocate"
)

// NewAllocate builds the allocation batch panel. A confirmed batch changes
// what the claim and reclaim panels show, so it reloads everything.
func NewAllocate(d Deps) *component.Component[allocate.State] {
	empty := func() allocate.State {
		return allocate.State{Symbol: d.Token.Symbol}
	}

	return component.New(component.Config[allocate.State]{
		Name:  "allocate",
		Empty: empty,
		Fetch: func(ctx context.Context, account string) (allocate.State, error) {
			batch, err := d.Backend.AddAllocations(ctx, account)
			if err != nil {
				return empty(), err
			}
			return allocate.State{Addresses: batch.Addresses, Amounts: batch.Amounts, Symbol: d.Token.Symbol}, nil
		},
		Validate: func(_ string, s allocate.State, _ component.Event) error {
			return ValidateBatch(s.Addresses, s.Amounts)
		},
		Submit: func(ctx context.Context, account string, s allocate.State, _ component.Event) (component.Receipt, error) {
			r, err := d.Ledger.Allocate(ctx, account, s.Addresses, s.Amounts, d.Token.Decimals)
			return receipt(r), err
		},
		Notify: func(ctx context.Context, _ string, s allocate.State, _ component.Event, r component.Receipt) error {
			ok, err := d.Backend.AllocationsSuccessful(ctx, s.Addresses, r.TxIDs)
			return recorded("allocations", ok, err)
		},
		Render:       allocate.Render,
		Recovery:     component.Reload,
		FetchTimeout: d.Timeout,
	}, d.Wallet, d.logger("allocate"))
}

// ValidateBatch checks a batch before anything is sent to the ledger
func ValidateBatch(addresses []string, amounts []float64) error {
	if len(addresses) == 0 || len(amounts) == 0 {
		return fmt.Errorf("%w: empty allocation batch", component.ErrMismatchedInput)
	}
	if len(addresses) != len(amounts) {
		return fmt.Errorf("%w: %d addresses, %d amounts", component.ErrMismatchedInput, len(addresses), len(amounts))
	}
	for i, a := range amounts {
		if a < 0 {
			return fmt.Errorf("%w: negative amount for %s", component.ErrMismatchedInput, addresses[i])
		}
	}
	return nil
}
