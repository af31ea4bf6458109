package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings the host handles before a screen sees a key.
type keyMap struct {
	Back key.Binding
	Skip key.Binding
	Quit key.Binding
}

func newKeyMap(back, skip, quit string) keyMap {
	return keyMap{
		Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", back)),
		Skip: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", skip)),
		Quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", quit)),
	}
}
