package panels

import (
	"context"
	"errors"

	"allocation-wallet-tui/component"
	"allocation-wallet-tui/views/claim"
)

// ErrNothingToClaim rejects a claim for an account the backend reports as not eligible
var ErrNothingToClaim = errors.New("nothing to claim")

// NewClaim builds the claim panel. A claim only changes this account's
// eligibility, so it re-fetches in place.
func NewClaim(d Deps) *component.Component[claim.State] {
	return component.New(component.Config[claim.State]{
		Name: "claim",
		Fetch: func(ctx context.Context, account string) (claim.State, error) {
			ok, err := d.Backend.ClaimAllocation(ctx, account)
			if err != nil {
				return claim.State{}, err
			}
			return claim.State{Claimable: ok}, nil
		},
		Validate: func(_ string, s claim.State, _ component.Event) error {
			if !s.Claimable {
				return ErrNothingToClaim
			}
			return nil
		},
		Submit: func(ctx context.Context, account string, _ claim.State, _ component.Event) (component.Receipt, error) {
			r, err := d.Ledger.Claim(ctx, account)
			return receipt(r), err
		},
		Notify: func(ctx context.Context, account string, _ claim.State, _ component.Event, r component.Receipt) error {
			ok, err := d.Backend.ClaimSuccessful(ctx, account, firstTx(r))
			return recorded("claim", ok, err)
		},
		Render:            claim.Render,
		Recovery:          component.Refetch,
		AlertOnFetchError: true,
		FetchTimeout:      d.Timeout,
	}, d.Wallet, d.logger("claim"))
}
