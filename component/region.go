package component

import tea "github.com/charmbracelet/bubbletea"

// Region is the screen area a component binds to. It holds at most one
// click listener; coordinates handed to the listener are region-relative.
type Region struct {
	X, Y          int
	Width, Height int

	owner    string
	listener func(x, y int) tea.Cmd
}

// Move repositions the region after a layout pass
func (r *Region) Move(x, y, width, height int) {
	r.X, r.Y, r.Width, r.Height = x, y, width, height
}

// Contains reports whether the absolute cell (x, y) lies inside the region
func (r *Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Click delivers an absolute click to the listener, if any
func (r *Region) Click(x, y int) tea.Cmd {
	if r == nil || r.listener == nil || !r.Contains(x, y) {
		return nil
	}
	return r.listener(x-r.X, y-r.Y)
}

// Owner names the component currently listening, or ""
func (r *Region) Owner() string {
	if r == nil {
		return ""
	}
	return r.owner
}

func (r *Region) listen(owner string, fn func(x, y int) tea.Cmd) {
	r.owner = owner
	r.listener = fn
}

// release removes the listener only if owner still holds it
func (r *Region) release(owner string) {
	if r.owner != owner {
		return
	}
	r.owner = ""
	r.listener = nil
}

// Event is a UI action raised by a click or key press on a rendered area
type Event interface {
	isEvent()
}

// Submit is the panel's primary action (claim, allocate)
type Submit struct{}

// Pick acts on one listed address (reclaim, account activation)
type Pick struct {
	Address string
}

// Switch selects a network by name
type Switch struct {
	Network string
}

func (Submit) isEvent() {}
func (Pick) isEvent()   {}
func (Switch) isEvent() {}

// Area is a clickable cell range inside a region, carrying its event
type Area struct {
	X, Y          int
	Width, Height int
	Event         Event
}

func (a Area) contains(x, y int) bool {
	return x >= a.X && x < a.X+a.Width && y >= a.Y && y < a.Y+a.Height
}
