package panels

import (
	"context"
	"fmt"

	"allocation-wallet-tui/component"
	"allocation-wallet-tui/views/reclaim"
)

// NewReclaim builds the reclaim panel. Reclaiming removes an allocation other
// panels depend on, so it reloads everything.
func NewReclaim(d Deps) *component.Component[reclaim.State] {
	return component.New(component.Config[reclaim.State]{
		Name: "reclaim",
		Fetch: func(ctx context.Context, account string) (reclaim.State, error) {
			addrs, err := d.Backend.ReclaimAllocations(ctx, account)
			if err != nil {
				return reclaim.State{}, err
			}
			return reclaim.State{Addresses: addrs}, nil
		},
		Validate: func(_ string, _ reclaim.State, ev component.Event) error {
			p, ok := ev.(component.Pick)
			if !ok {
				return fmt.Errorf("reclaim: unsupported action %T", ev)
			}
			if p.Address == "" {
				return fmt.Errorf("%w: no address selected", component.ErrMismatchedInput)
			}
			return nil
		},
		Submit: func(ctx context.Context, account string, _ reclaim.State, ev component.Event) (component.Receipt, error) {
			r, err := d.Ledger.Reclaim(ctx, account, ev.(component.Pick).Address)
			return receipt(r), err
		},
		Notify: func(ctx context.Context, _ string, _ reclaim.State, ev component.Event, r component.Receipt) error {
			ok, err := d.Backend.ReclaimSuccessful(ctx, ev.(component.Pick).Address, firstTx(r))
			return recorded("reclaim", ok, err)
		},
		Render:            reclaim.Render,
		Recovery:          component.Reload,
		AlertOnFetchError: true,
		FetchTimeout:      d.Timeout,
	}, d.Wallet, d.logger("reclaim"))
}
