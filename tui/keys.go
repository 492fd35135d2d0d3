package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Buy       key.Binding
	Sell      key.Binding
	Next      key.Binding
	Analytics key.Binding
	Export    key.Binding
	Quit      key.Binding

	Submit key.Binding
	Cancel key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev stock")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next stock")),
		Buy:       key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "buy")),
		Sell:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sell")),
		Next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next day")),
		Analytics: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "analytics")),
		Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Buy, k.Sell, k.Next, k.Analytics, k.Export, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Buy, k.Sell, k.Submit, k.Cancel},
		{k.Next, k.Analytics, k.Export, k.Quit},
	}
}

// promptHelp is shown while the share count prompt is open.
type promptHelp struct{ k keyMap }

func (p promptHelp) ShortHelp() []key.Binding { return []key.Binding{p.k.Submit, p.k.Cancel} }

func (p promptHelp) FullHelp() [][]key.Binding { return [][]key.Binding{p.ShortHelp()} }
