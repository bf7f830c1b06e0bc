// Package component implements the fetch → render → act lifecycle shared by
// every wallet panel.
//
// A Component owns one piece of remote state. Fetch reads it for the active
// account, View renders it into the bound Region, and a click or key press on
// a rendered Area submits an action. After a successful action the component
// either re-fetches its own state or asks the program for a full reload;
// after a failed one it raises a single notice and re-fetches so the view
// reflects the ledger, not the attempt.
//
// All state lives on the Bubble Tea update loop. I/O runs inside commands
// and comes back as FetchedMsg / SubmittedMsg; every fetch carries a
// generation and only the latest generation is applied.
package component

import (
	"context"
	"fmt"
	"io"
	"time"

	"allocation-wallet-tui/helpers"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// Recovery is what a component does after a successful submission
type Recovery int

const (
	// Refetch re-reads only this component's state
	Refetch Recovery = iota
	// Reload discards every component's state and re-primes the session
	Reload
)

func (r Recovery) String() string {
	if r == Reload {
		return "reload"
	}
	return "refetch"
}

// Receipt is the ledger confirmation of a submission
type Receipt struct {
	Round uint64
	TxIDs []string
}

// AccountSource yields the active account at call time
type AccountSource interface {
	ActiveAccount() string
}

// Frame carries the view-only context handed to a renderer
type Frame struct {
	Width     int
	Cursor    int
	Loading   bool
	Busy      bool
	Spinner   string
	UpdatedAt time.Time
}

// Config parameterizes one panel
type Config[S any] struct {
	Name string

	// Empty returns the safe default state. Nil means the zero value.
	Empty func() S
	// Fetch reads state for a present account.
	Fetch func(ctx context.Context, account string) (S, error)
	// Validate runs before Submit; a non-nil error fails the action without I/O.
	Validate func(account string, state S, ev Event) error
	// Submit performs the write.
	Submit func(ctx context.Context, account string, state S, ev Event) (Receipt, error)
	// Notify tells the backend about a confirmed write. Its error is only logged.
	Notify func(ctx context.Context, account string, state S, ev Event, r Receipt) error
	// Render is a pure function of state.
	Render func(state S, f Frame) (string, []Area)

	Recovery Recovery
	// AllowNoAccount lets Submit run without an active account.
	AllowNoAccount bool
	// FetchWithoutAccount reads state even when no account is active, for
	// state that does not belong to an account.
	FetchWithoutAccount bool
	// AlertOnFetchError raises a notice when a read fails.
	AlertOnFetchError bool

	FetchTimeout  time.Duration
	SubmitTimeout time.Duration
}

// Binder is the type-erased surface the program drives
type Binder interface {
	Name() string
	Bind(root *Region) tea.Cmd
	Destroy()
	Ready() tea.Cmd
	Reset()
	Invalidate() tea.Cmd
	Fetch() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	HandleKey(msg tea.KeyMsg) tea.Cmd
	View(width int, spinner string) string
	Loading() bool
	Busy() bool
}

// FetchedMsg carries the result of a read
type FetchedMsg struct {
	Component string
	Gen       uint64
	Account   string
	State     any
	Err       error
}

// SubmittedMsg carries the result of a write and its backend notification
type SubmittedMsg struct {
	Component string
	Event     Event
	Receipt   Receipt
	Err       error
	NotifyErr error
}

// NoticeMsg asks the program to show a blocking notification
type NoticeMsg struct {
	Component string
	Title     string
	Text      string
}

// ReloadMsg asks the program to discard all state and start over
type ReloadMsg struct {
	Component string
}

// ResultMsg reports a confirmed submission
type ResultMsg struct {
	Component string
	Event     Event
	Receipt   Receipt
}

// Component is a parameterized panel
type Component[S any] struct {
	cfg      Config[S]
	accounts AccountSource
	logger   *log.Logger

	state     S
	updatedAt time.Time
	gen       uint64

	loading    bool
	submitting bool

	// ready is false until the backend session is primed; fetches requested
	// before that are deferred via pending.
	ready   bool
	pending bool

	root   *Region
	areas  []Area
	cursor int
}

var _ Binder = (*Component[struct{}])(nil)

// New creates an unbound component
func New[S any](cfg Config[S], accounts AccountSource, logger *log.Logger) *Component[S] {
	if cfg.Empty == nil {
		cfg.Empty = func() S {
			var zero S
			return zero
		}
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = 3 * time.Minute
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Component[S]{
		cfg:      cfg,
		accounts: accounts,
		logger:   logger,
		state:    cfg.Empty(),
	}
}

func (c *Component[S]) Name() string { return c.cfg.Name }

// State returns the current snapshot
func (c *Component[S]) State() S { return c.state }

func (c *Component[S]) Loading() bool { return c.loading }

func (c *Component[S]) Busy() bool { return c.submitting }

// Bound reports whether the component is attached to a region
func (c *Component[S]) Bound() bool { return c.root != nil }

// Bind attaches the component to root and fetches, or defers the fetch
// until Ready when the session is not primed yet.
func (c *Component[S]) Bind(root *Region) tea.Cmd {
	if root == nil {
		return nil
	}
	if c.root != nil && c.root != root {
		c.root.release(c.cfg.Name)
	}
	c.root = root
	root.listen(c.cfg.Name, c.dispatch)

	return c.Fetch()
}

// Destroy removes the click listener. In-flight requests are not cancelled;
// their results update state but render nothing.
func (c *Component[S]) Destroy() {
	if c.root == nil {
		return
	}
	c.root.release(c.cfg.Name)
	c.root = nil
	c.areas = nil
}

// Ready marks the session as primed and runs a deferred fetch
func (c *Component[S]) Ready() tea.Cmd {
	c.ready = true
	if !c.pending {
		return nil
	}
	c.pending = false
	return c.Fetch()
}

// Reset drops all state for a reload. A bound component fetches again once
// Ready is called.
func (c *Component[S]) Reset() {
	c.gen++
	c.state = c.cfg.Empty()
	c.updatedAt = time.Time{}
	c.loading = false
	c.ready = false
	c.pending = c.root != nil
	c.cursor = 0
}

// Invalidate drops state after an account or network change and re-fetches
// when bound.
func (c *Component[S]) Invalidate() tea.Cmd {
	c.gen++
	c.state = c.cfg.Empty()
	c.updatedAt = time.Time{}
	c.loading = false
	if c.root == nil {
		return nil
	}
	return c.Fetch()
}

// Fetch reads state for the current active account. Without an account the
// state resets synchronously and no request is made, unless the component
// reads account-independent state.
func (c *Component[S]) Fetch() tea.Cmd {
	if !c.ready {
		c.pending = true
		return nil
	}

	account := c.accounts.ActiveAccount()
	c.gen++
	if (account == "" && !c.cfg.FetchWithoutAccount) || c.cfg.Fetch == nil {
		c.state = c.cfg.Empty()
		c.loading = false
		return nil
	}

	c.loading = true
	gen, name, fetch, timeout := c.gen, c.cfg.Name, c.cfg.Fetch, c.cfg.FetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		s, err := safeFetch(ctx, fetch, account)
		return FetchedMsg{Component: name, Gen: gen, Account: account, State: s, Err: err}
	}
}

// Trigger runs the action for ev. Only one submission is in flight at a time.
func (c *Component[S]) Trigger(ev Event) tea.Cmd {
	if ev == nil {
		return nil
	}
	if c.submitting {
		c.logger.Debug("submission already in flight, ignoring", "event", fmt.Sprintf("%T", ev))
		return nil
	}

	account := c.accounts.ActiveAccount()
	if err := c.precheck(account, ev); err != nil {
		c.logger.Error("action rejected", "event", fmt.Sprintf("%+v", ev), "err", err)
		return tea.Batch(c.notice(err), c.Fetch())
	}
	if c.cfg.Submit == nil {
		return nil
	}

	c.submitting = true
	name, state := c.cfg.Name, c.state
	submit, notify, timeout := c.cfg.Submit, c.cfg.Notify, c.cfg.SubmitTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		r, err := safeSubmit(ctx, submit, account, state, ev)
		if err != nil {
			return SubmittedMsg{Component: name, Event: ev, Err: err}
		}

		var nerr error
		if notify != nil {
			nerr = safeNotify(ctx, notify, account, state, ev, r)
		}
		return SubmittedMsg{Component: name, Event: ev, Receipt: r, NotifyErr: nerr}
	}
}

func (c *Component[S]) precheck(account string, ev Event) error {
	if account == "" && !c.cfg.AllowNoAccount {
		return ErrNoAccount
	}
	if c.cfg.Validate != nil {
		return c.cfg.Validate(account, c.state, ev)
	}
	return nil
}

// Update applies results addressed to this component
func (c *Component[S]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case FetchedMsg:
		if msg.Component != c.cfg.Name {
			return nil
		}
		if msg.Gen != c.gen {
			c.logger.Debug("discarding stale response", "gen", msg.Gen, "current", c.gen)
			return nil
		}
		c.loading = false

		if msg.Err != nil {
			c.logger.Error("fetch failed", "account", helpers.ShortenAddr(msg.Account), "err", msg.Err)
			c.state = c.cfg.Empty()
			if c.cfg.AlertOnFetchError {
				return c.noticeTitled("Could not load "+c.cfg.Name, msg.Err)
			}
			return nil
		}

		s, ok := msg.State.(S)
		if !ok {
			c.logger.Error("unexpected state type", "type", fmt.Sprintf("%T", msg.State))
			c.state = c.cfg.Empty()
			return nil
		}
		c.state = s
		c.updatedAt = time.Now()
		return nil

	case SubmittedMsg:
		if msg.Component != c.cfg.Name {
			return nil
		}
		c.submitting = false

		if msg.Err != nil {
			c.logger.Error("submit failed", "event", fmt.Sprintf("%+v", msg.Event), "err", msg.Err)
			return tea.Batch(c.notice(msg.Err), c.Fetch())
		}

		if msg.NotifyErr != nil {
			c.logger.Warn("backend notification failed", "err", msg.NotifyErr)
		}
		c.logger.Info("submitted", "round", msg.Receipt.Round, "txs", len(msg.Receipt.TxIDs), "recovery", c.cfg.Recovery)

		var cmds []tea.Cmd
		if len(msg.Receipt.TxIDs) > 0 {
			cmds = append(cmds, emit(ResultMsg{Component: c.cfg.Name, Event: msg.Event, Receipt: msg.Receipt}))
		}
		if c.cfg.Recovery == Reload {
			cmds = append(cmds, emit(ReloadMsg{Component: c.cfg.Name}))
		} else {
			cmds = append(cmds, c.Fetch())
		}
		return tea.Batch(cmds...)
	}
	return nil
}

// HandleKey moves the cursor across rendered areas and activates the focused one
func (c *Component[S]) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
	case "down", "j":
		if c.cursor < len(c.areas)-1 {
			c.cursor++
		}
	case "enter", " ":
		if c.cursor >= 0 && c.cursor < len(c.areas) {
			return c.Trigger(c.areas[c.cursor].Event)
		}
	case "r":
		return c.Fetch()
	}
	return nil
}

// dispatch is the region's click listener
func (c *Component[S]) dispatch(x, y int) tea.Cmd {
	for i, a := range c.areas {
		if a.contains(x, y) {
			c.cursor = i
			return c.Trigger(a.Event)
		}
	}
	return nil
}

// View renders into the bound region; unbound components render nothing
func (c *Component[S]) View(width int, spinner string) string {
	if c.root == nil || c.cfg.Render == nil {
		c.areas = nil
		return ""
	}

	content, areas := c.cfg.Render(c.state, Frame{
		Width:     width,
		Cursor:    c.cursor,
		Loading:   c.loading,
		Busy:      c.submitting,
		Spinner:   spinner,
		UpdatedAt: c.updatedAt,
	})
	c.areas = areas
	if c.cursor >= len(areas) {
		c.cursor = helpers.Max(0, len(areas)-1)
	}
	return content
}

func (c *Component[S]) notice(err error) tea.Cmd {
	return c.noticeTitled(c.cfg.Name+" failed", err)
}

func (c *Component[S]) noticeTitled(title string, err error) tea.Cmd {
	return emit(NoticeMsg{Component: c.cfg.Name, Title: title, Text: Message(err)})
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func safeFetch[S any](ctx context.Context, fetch func(context.Context, string) (S, error), account string) (s S, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	return fetch(ctx, account)
}

func safeSubmit[S any](ctx context.Context, submit func(context.Context, string, S, Event) (Receipt, error), account string, state S, ev Event) (r Receipt, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = recovered(rec)
		}
	}()
	return submit(ctx, account, state, ev)
}

func safeNotify[S any](ctx context.Context, notify func(context.Context, string, S, Event, Receipt) error, account string, state S, ev Event, r Receipt) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = recovered(rec)
		}
	}()
	return notify(ctx, account, state, ev, r)
}
