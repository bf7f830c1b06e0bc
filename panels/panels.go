// Package panels wires the generic component to the backend, the ledger and
// the wallet session, one constructor per screen.
package panels

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"allocation-wallet-tui/api"
	"allocation-wallet-tui/component"
	"allocation-wallet-tui/config"
	"allocation-wallet-tui/rpc"
	"allocation-wallet-tui/wallet"

	"github.com/charmbracelet/log"
)

// Backend is the allocation record API
type Backend interface {
	ClaimAllocation(ctx context.Context, address string) (bool, error)
	AddAllocations(ctx context.Context, address string) (api.Allocations, error)
	ReclaimAllocations(ctx context.Context, address string) ([]string, error)
	AllocationsSuccessful(ctx context.Context, addresses, txIDs []string) (bool, error)
	ClaimSuccessful(ctx context.Context, address, txID string) (bool, error)
	ReclaimSuccessful(ctx context.Context, address, txID string) (bool, error)
}

// Ledger composes and submits rewards transactions
type Ledger interface {
	Status(ctx context.Context) (rpc.Status, error)
	Balance(ctx context.Context, owner string) (*big.Int, error)
	Allocate(ctx context.Context, from string, recipients []string, amounts []float64, decimals uint8) (rpc.Receipt, error)
	Reclaim(ctx context.Context, from, recipient string) (rpc.Receipt, error)
	Claim(ctx context.Context, from string) (rpc.Receipt, error)
}

var (
	_ Backend = (*api.Client)(nil)
	_ Ledger  = (*rpc.Ledger)(nil)
)

// Deps are the collaborators shared by all panels
type Deps struct {
	Wallet  wallet.Selector
	Backend Backend
	Ledger  Ledger
	Token   config.Token
	Logger  *log.Logger
	Timeout time.Duration
}

func (d Deps) logger(name string) *log.Logger {
	if d.Logger == nil {
		return nil
	}
	return d.Logger.WithPrefix(name)
}

// All builds every panel keyed by the page that shows it
func All(d Deps) map[config.Page]component.Binder {
	return map[config.Page]component.Binder{
		config.PageAccounts: NewAccount(d),
		config.PageNetworks: NewNetwork(d),
		config.PageClaim:    NewClaim(d),
		config.PageAllocate: NewAllocate(d),
		config.PageReclaim:  NewReclaim(d),
	}
}

func receipt(r rpc.Receipt) component.Receipt {
	return component.Receipt(r)
}

func firstTx(r component.Receipt) string {
	if len(r.TxIDs) == 0 {
		return ""
	}
	return r.TxIDs[0]
}

// recorded turns a {success:false} acknowledgement into an error
func recorded(what string, ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("backend did not record %s", what)
	}
	return nil
}
