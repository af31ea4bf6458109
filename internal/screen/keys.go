package screen

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap holds the bindings screens share. Help text is replaced with
// localized labels where a screen advertises a binding.
type keyMap struct {
	Submit      key.Binding
	Next        key.Binding
	Prev        key.Binding
	Left        key.Binding
	Right       key.Binding
	Erase       key.Binding
	UsePIN      key.Binding
	UsePassword key.Binding
	Recover     key.Binding
	Create      key.Binding
	SwitchUser  key.Binding
	Delete      key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
	BackupCode  key.Binding
	Reveal      key.Binding
	Parent      key.Binding
}

var keys = keyMap{
	Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Next:        key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:        key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	Left:        key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous")),
	Right:       key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
	Erase:       key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "erase")),
	UsePIN:      key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "pin")),
	UsePassword: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "password")),
	Recover:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "recover")),
	Create:      key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "create")),
	SwitchUser:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "user")),
	Delete:      key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
	Confirm:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	Cancel:      key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
	BackupCode:  key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "backup code")),
	Reveal:      key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "reveal")),
	Parent:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave")),
}

// labeled returns b with its help description replaced.
func labeled(b key.Binding, desc string) key.Binding {
	b.SetHelp(b.Help().Key, desc)
	return b
}

// digit returns the digit typed by msg.
func digit(msg tea.KeyMsg) (rune, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	return r, r >= '0' && r <= '9'
}
