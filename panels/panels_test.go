package panels

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"

	"allocation-wallet-tui/api"
	"allocation-wallet-tui/component"
	"allocation-wallet-tui/config"
	"allocation-wallet-tui/rpc"
	"allocation-wallet-tui/views/allocate"
	"allocation-wallet-tui/views/claim"
	"allocation-wallet-tui/wallet"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu sync.Mutex

	claimable bool
	batch     api.Allocations
	reclaim   []string
	fetchErr  error
	notifyErr error

	notified []string
	calls    int
}

func (b *fakeBackend) ClaimAllocation(context.Context, string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	return b.claimable, b.fetchErr
}

func (b *fakeBackend) AddAllocations(context.Context, string) (api.Allocations, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	return b.batch, b.fetchErr
}

func (b *fakeBackend) ReclaimAllocations(context.Context, string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	return b.reclaim, b.fetchErr
}

func (b *fakeBackend) note(s string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notified = append(b.notified, s)
	return b.notifyErr == nil, b.notifyErr
}

func (b *fakeBackend) AllocationsSuccessful(_ context.Context, addrs, txIDs []string) (bool, error) {
	return b.note("allocations:" + strings.Join(addrs, ",") + "@" + strings.Join(txIDs, ","))
}

func (b *fakeBackend) ClaimSuccessful(_ context.Context, addr, txID string) (bool, error) {
	return b.note("claim:" + addr + "@" + txID)
}

func (b *fakeBackend) ReclaimSuccessful(_ context.Context, addr, txID string) (bool, error) {
	return b.note("reclaim:" + addr + "@" + txID)
}

type allocateCall struct {
	from       string
	recipients []string
	amounts    []float64
	decimals   uint8
}

type fakeLedger struct {
	mu sync.Mutex

	err      error
	allocate []allocateCall
	reclaims []string
	claims   []string
}

func (l *fakeLedger) Status(context.Context) (rpc.Status, error) {
	return rpc.Status{ChainID: big.NewInt(11155111), Block: 42}, l.err
}

func (l *fakeLedger) Balance(context.Context, string) (*big.Int, error) {
	return big.NewInt(1_500_000), l.err
}

func (l *fakeLedger) Allocate(_ context.Context, from string, recipients []string, amounts []float64, decimals uint8) (rpc.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allocate = append(l.allocate, allocateCall{from, recipients, amounts, decimals})
	return rpc.Receipt{Round: 7, TxIDs: []string{"0xa1", "0xa2"}}, l.err
}

func (l *fakeLedger) Reclaim(_ context.Context, _ string, recipient string) (rpc.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reclaims = append(l.reclaims, recipient)
	return rpc.Receipt{Round: 8, TxIDs: []string{"0xr1"}}, l.err
}

func (l *fakeLedger) Claim(_ context.Context, from string) (rpc.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.claims = append(l.claims, from)
	return rpc.Receipt{Round: 9, TxIDs: []string{"0xc1"}}, l.err
}

func newDeps(account string) (Deps, *fakeBackend, *fakeLedger, *wallet.Local) {
	var accounts []config.WalletEntry
	if account != "" {
		accounts = []config.WalletEntry{{Address: account, Name: "main", Active: true}}
	}
	w := wallet.NewLocal(accounts, []config.Network{{Name: "Sepolia", URL: "http://sepolia", Active: true}}, nil)
	b := &fakeBackend{}
	l := &fakeLedger{}
	return Deps{
		Wallet:  w,
		Backend: b,
		Ledger:  l,
		Token:   config.Token{Symbol: "RWD", Decimals: 6},
	}, b, l, w
}

// drain runs cmd and feeds every resulting message back into c, returning
// the messages addressed to the program.
func drain(c component.Binder, cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case component.FetchedMsg, component.SubmittedMsg:
			queue = append(queue, c.Update(msg))
		case nil:
		default:
			out = append(out, msg)
		}
	}
	return out
}

func bindReady(t *testing.T, c component.Binder) {
	t.Helper()
	root := &component.Region{Width: 80, Height: 20}
	assert.Nil(t, c.Bind(root), "fetch waits for the session")
	drain(c, c.Ready())
}

func TestAllocateStateMirrorsBackend(t *testing.T) {
	d, b, l, _ := newDeps("addr-X")
	b.batch = api.Allocations{Addresses: []string{"a", "b"}, Amounts: []float64{1, 2}}

	c := NewAllocate(d)
	bindReady(t, c)

	assert.Equal(t, allocate.State{Addresses: []string{"a", "b"}, Amounts: []float64{1, 2}, Symbol: "RWD"}, c.State())

	msgs := drain(c, c.Trigger(component.Submit{}))

	require.Len(t, l.allocate, 1)
	assert.Equal(t, allocateCall{from: "addr-X", recipients: []string{"a", "b"}, amounts: []float64{1, 2}, decimals: 6}, l.allocate[0])
	assert.Equal(t, []string{"allocations:a,b@0xa1,0xa2"}, b.notified)

	var reload, result bool
	for _, m := range msgs {
		switch m.(type) {
		case component.ReloadMsg:
			reload = true
		case component.ResultMsg:
			result = true
		}
	}
	assert.True(t, reload, "allocation asks for a full reload")
	assert.True(t, result)
}

func TestAllocateRejectsBadBatch(t *testing.T) {
	tests := []struct {
		name  string
		batch api.Allocations
	}{
		{"empty", api.Allocations{}},
		{"negative", api.Allocations{Addresses: []string{"a"}, Amounts: []float64{-1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, b, l, _ := newDeps("addr-X")
			b.batch = tt.batch

			c := NewAllocate(d)
			bindReady(t, c)
			before := b.calls

			msgs := drain(c, c.Trigger(component.Submit{}))

			assert.Empty(t, l.allocate, "nothing reaches the ledger")
			require.Len(t, msgs, 1)
			notice, ok := msgs[0].(component.NoticeMsg)
			require.True(t, ok)
			assert.Contains(t, notice.Text, component.ErrMismatchedInput.Error())
			assert.Equal(t, before+1, b.calls, "state is re-read after the failure")
		})
	}
}

func TestValidateBatch(t *testing.T) {
	assert.NoError(t, ValidateBatch([]string{"a", "b"}, []float64{0, 2.5}))
	assert.ErrorIs(t, ValidateBatch(nil, nil), component.ErrMismatchedInput)
	assert.ErrorIs(t, ValidateBatch([]string{"a"}, []float64{1, 2}), component.ErrMismatchedInput)
	assert.ErrorIs(t, ValidateBatch([]string{"a"}, []float64{-0.1}), component.ErrMismatchedInput)
}

func TestClaimLabelFollowsState(t *testing.T) {
	for _, claimable := range []bool{true, false} {
		d, b, _, _ := newDeps("addr-X")
		b.claimable = claimable

		c := NewClaim(d)
		bindReady(t, c)
		assert.Equal(t, claim.State{Claimable: claimable}, c.State())

		view := c.View(80, "")
		label, disabled := claim.Button(c.State(), c.Busy())
		assert.Contains(t, view, label)
		assert.Equal(t, !claimable, disabled)
	}
}

func TestClaimRefetchesAfterSuccess(t *testing.T) {
	d, b, l, _ := newDeps("addr-X")
	b.claimable = true

	c := NewClaim(d)
	bindReady(t, c)
	b.claimable = false

	msgs := drain(c, c.Trigger(component.Submit{}))

	assert.Equal(t, []string{"addr-X"}, l.claims)
	assert.Equal(t, []string{"claim:addr-X@0xc1"}, b.notified)
	assert.False(t, c.State().Claimable)
	for _, m := range msgs {
		_, reload := m.(component.ReloadMsg)
		assert.False(t, reload)
	}
}

func TestNotifyRejectionIsOnlyLogged(t *testing.T) {
	d, b, _, _ := newDeps("addr-X")
	b.claimable = true
	b.notifyErr = errors.New("backend down")

	c := NewClaim(d)
	bindReady(t, c)

	msgs := drain(c, c.Trigger(component.Submit{}))
	for _, m := range msgs {
		_, isNotice := m.(component.NoticeMsg)
		assert.False(t, isNotice, "notify failure must not raise a notice")
	}
}

func TestClaimLedgerFailure(t *testing.T) {
	d, b, l, _ := newDeps("addr-X")
	b.claimable = true

	c := NewClaim(d)
	bindReady(t, c)
	l.err = errors.New("execution reverted")

	msgs := drain(c, c.Trigger(component.Submit{}))

	require.Len(t, msgs, 1)
	assert.Equal(t, component.NoticeMsg{Component: "claim", Title: "claim failed", Text: "execution reverted"}, msgs[0])
	assert.Empty(t, b.notified)
}

func TestReclaimPicksAddress(t *testing.T) {
	d, b, l, _ := newDeps("addr-X")
	b.reclaim = []string{"r1", "r2"}

	c := NewReclaim(d)
	bindReady(t, c)

	c.View(80, "")
	drain(c, c.Trigger(component.Pick{Address: "r2"}))

	assert.Equal(t, []string{"r2"}, l.reclaims)
	assert.Equal(t, []string{"reclaim:r2@0xr1"}, b.notified)
}

func TestReclaimRejectsSubmit(t *testing.T) {
	d, b, l, _ := newDeps("addr-X")
	b.reclaim = []string{"r1"}

	c := NewReclaim(d)
	bindReady(t, c)

	msgs := drain(c, c.Trigger(component.Submit{}))
	assert.Empty(t, l.reclaims)
	require.Len(t, msgs, 1)
	assert.IsType(t, component.NoticeMsg{}, msgs[0])
}

func TestNoAccount(t *testing.T) {
	d, b, _, _ := newDeps("")

	for page, c := range All(d) {
		t.Run(page.String(), func(t *testing.T) {
			bindReady(t, c)
			assert.False(t, c.Loading())
		})
	}
	assert.Zero(t, b.calls, "no backend reads without an account")
}

func TestAccountSelect(t *testing.T) {
	d, _, _, w := newDeps("0x1111111111111111111111111111111111111111")
	require.NoError(t, w.AddAccount(config.WalletEntry{Address: "0x2222222222222222222222222222222222222222", Name: "other"}))

	changes, cancel := w.Subscribe()
	defer cancel()

	c := NewAccount(d)
	bindReady(t, c)
	assert.Equal(t, int64(1_500_000), c.State().Balance.Int64())

	drain(c, c.Trigger(component.Pick{Address: "0x2222222222222222222222222222222222222222"}))

	assert.Equal(t, "0x2222222222222222222222222222222222222222", w.ActiveAccount())
	ch := <-changes
	assert.Equal(t, "0x2222222222222222222222222222222222222222", ch.Account)
}

func TestNetworkSwitchUnknown(t *testing.T) {
	d, _, _, _ := newDeps("addr-X")

	c := NewNetwork(d)
	bindReady(t, c)
	assert.Equal(t, uint64(42), c.State().Block)

	msgs := drain(c, c.Trigger(component.Switch{Network: "Nowhere"}))
	require.Len(t, msgs, 1)
	notice := msgs[0].(component.NoticeMsg)
	assert.Contains(t, notice.Text, wallet.ErrUnknownNetwork.Error())
}

func TestClaimRejectsIneligibleAccount(t *testing.T) {
	d, b, l, _ := newDeps("addr-X")
	b.claimable = false

	c := NewClaim(d)
	bindReady(t, c)

	msgs := drain(c, c.Trigger(component.Submit{}))
	assert.Empty(t, l.claims, "no ledger write for an ineligible account")
	require.Len(t, msgs, 1)
	assert.Equal(t, ErrNothingToClaim.Error(), msgs[0].(component.NoticeMsg).Text)
}

func TestNetworkStatusWithoutAccount(t *testing.T) {
	d, b, _, _ := newDeps("")

	c := NewNetwork(d)
	bindReady(t, c)

	assert.Equal(t, uint64(42), c.State().Block)
	assert.Equal(t, int64(11155111), c.State().ChainID.Int64())
	assert.Zero(t, b.calls)
}
