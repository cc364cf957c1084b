package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	advance key.Binding
	cancel  key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		advance: key.NewBinding(key.WithKeys(" ", "enter", "n"), key.WithHelp("space", "next")),
		cancel:  key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "quit")),
		quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "abort")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.advance, k.cancel}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.advance},
		{k.cancel, k.quit},
	}
}
