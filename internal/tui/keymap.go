package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next          key.Binding
	Previous      key.Binding
	Apply         key.Binding
	Quit          key.Binding
	ShowFullHelp  key.Binding
	CloseFullHelp key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Next, k.Apply, k.Quit, k.ShowFullHelp}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Previous, k.Next},
		{k.Apply, k.Quit, k.CloseFullHelp},
	}
}

var rootKeyMap = keyMap{
	Next: key.NewBinding(
		key.WithKeys("right", "l", "tab", " "),
		key.WithHelp("→/l", "next action"),
	),
	Previous: key.NewBinding(
		key.WithKeys("left", "h", "shift+tab"),
		key.WithHelp("←/h", "previous action"),
	),
	Apply: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	ShowFullHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more"),
	),
	CloseFullHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "close help"),
	),
}
