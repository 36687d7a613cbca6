package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the board view.
type KeyMap struct {
	// Navigation
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding
	Top   key.Binding

	// Drag
	Grab   key.Binding
	Drop   key.Binding
	Cancel key.Binding
	Group  key.Binding

	// Actions
	Share   key.Binding
	Chamber key.Binding
	Summary key.Binding
	Reset   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// spacebar is how bubbletea reports the space key.
const spacebar = " "

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous group"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next group"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "party above / header"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "party below"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "group header"),
		),
		Grab: key.NewBinding(
			key.WithKeys("m", spacebar),
			key.WithHelp("m/space", "grab party"),
		),
		Drop: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "drop"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel drag"),
		),
		Group: key.NewBinding(
			key.WithKeys("1", "2", "3"),
			key.WithHelp("1-3", "drop on group"),
		),
		Share: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "share"),
		),
		Chamber: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "switch chamber"),
		),
		Summary: key.NewBinding(
			key.WithKeys("i", "tab"),
			key.WithHelp("i/tab", "summary"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns key bindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.Drop, k.Share, k.Help, k.Quit}
}

// FullHelp returns key bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Top},
		{k.Grab, k.Drop, k.Cancel, k.Group},
		{k.Share, k.Chamber, k.Summary, k.Reset, k.Help, k.Quit},
	}
}
