package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard bindings for the console.
type KeyMap struct {
	Laser      key.Binding
	Drawing    key.Binding
	Control    key.Binding
	Clear      key.Binding
	FullDevice key.Binding
	End        key.Binding
	Debug      key.Binding
	Up         key.Binding
	Down       key.Binding
	Escape     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Laser: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "laser pointer"),
		),
		Drawing: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "draw"),
		),
		Control: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "remote control"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear drawing"),
		),
		FullDevice: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "full device"),
		),
		End: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "end screenshare"),
		),
		Debug: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "debug log"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close overlay"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Laser, k.Drawing, k.Control, k.End, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Laser, k.Drawing, k.Control},
		{k.Clear, k.FullDevice, k.End},
		{k.Debug, k.Up, k.Down, k.Escape},
		{k.Help, k.Quit},
	}
}
