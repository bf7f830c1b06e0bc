package allocate

import (
	"strings"
	"testing"

	"allocation-wallet-tui/component"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestButton(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		busy     bool
		label    string
		disabled bool
	}{
		{"empty", State{}, false, "Submit allocations (0)", true},
		{"ready", State{Addresses: []string{"a", "b"}, Amounts: []float64{1, 2}}, false, "Submit allocations (2)", false},
		{"busy", State{Addresses: []string{"a", "b"}, Amounts: []float64{1, 2}}, true, "Submitting 2 allocations…", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, disabled := Button(tt.state, tt.busy)
			assert.Equal(t, tt.label, label)
			assert.Equal(t, tt.disabled, disabled)

			out, areas := Render(tt.state, component.Frame{Width: 80, Busy: tt.busy})
			assert.Contains(t, out, tt.label)
			assert.Equal(t, tt.disabled, len(areas) == 0, "clickable only when enabled")
		})
	}
}

func TestAmountColumnAligned(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	s := State{
		Addresses: []string{"0x1111111111111111111111111111111111111111", "0x22"},
		Amounts:   []float64{5, 5},
		Symbol:    "RWD",
	}
	out, _ := Render(s, component.Frame{Width: 80})

	var widths []int
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "5 RWD") && !strings.Contains(line, "recipients") {
			require.Contains(t, line, "\x1b[", "colors are on")
			widths = append(widths, lipgloss.Width(line))
		}
	}
	require.Len(t, widths, 2)
	assert.Equal(t, widths[0], widths[1])
}
