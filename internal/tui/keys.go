package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the strip host. Tap stands in for the
// touch gesture; the remaining bindings drive the scheduler surface directly.
type KeyMap struct {
	Tap          key.Binding
	ToggleShrunk key.Binding
	ToggleDetail key.Binding
	Hide         key.Binding
	ForceHide    key.Binding
	Resume       key.Binding

	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tap, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tap, k.ToggleShrunk, k.ToggleDetail},
		{k.Hide, k.ForceHide, k.Resume},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tap: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "tap"),
		),
		ToggleShrunk: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle shrunk"),
		),
		ToggleDetail: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle detail"),
		),
		Hide: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hide"),
		),
		ForceHide: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "force hide"),
		),
		Resume: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resume"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
