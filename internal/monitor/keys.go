package monitor

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines key bindings for the monitor screen
type keyMap struct {
	Outlet  key.Binding
	AllOn   key.Binding
	AllOff  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Outlet, k.AllOn, k.AllOff, k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Outlet, k.Refresh},
		{k.AllOn, k.AllOff},
		{k.Help, k.Quit},
	}
}

// newKeyMap binds the digit keys 1..outlets (at most 9) to outlet switching
func newKeyMap(outlets int) keyMap {
	if outlets > 9 {
		outlets = 9
	}
	digits := make([]string, 0, outlets)
	for i := 1; i <= outlets; i++ {
		digits = append(digits, strconv.Itoa(i))
	}

	helpKey := "1"
	if outlets > 1 {
		helpKey = "1-" + strconv.Itoa(outlets)
	}

	return keyMap{
		Outlet: key.NewBinding(
			key.WithKeys(digits...),
			key.WithHelp(helpKey, "switch outlet"),
		),
		AllOn: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all on"),
		),
		AllOff: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "all off"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
