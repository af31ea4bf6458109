package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"edgelogin/internal/output"
)

// form is a vertical list of labeled text inputs with one focused field.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(labels ...string) form {
	f := form{labels: labels, inputs: make([]textinput.Model, len(labels))}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 128
		ti.Cursor.SetMode(cursor.CursorStatic)
		f.inputs[i] = ti
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

// secret masks field i.
func (f *form) secret(i int) {
	f.inputs[i].EchoMode = textinput.EchoPassword
	f.inputs[i].EchoCharacter = '•'
}

func (f *form) value(i int) string {
	return f.inputs[i].Value()
}

func (f *form) set(i int, v string) {
	f.inputs[i].SetValue(v)
}

func (f *form) focusOn(i int) tea.Cmd {
	if i < 0 || i >= len(f.inputs) {
		return nil
	}
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[i].Focus()
}

func (f *form) next() tea.Cmd {
	return f.focusOn((f.focus + 1) % len(f.inputs))
}

func (f *form) prev() tea.Cmd {
	return f.focusOn((f.focus + len(f.inputs) - 1) % len(f.inputs))
}

func (f *form) onLast() bool {
	return f.focus == len(f.inputs)-1
}

// update moves focus on tab and arrows and sends everything else to the
// focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Next):
			return f.next()
		case key.Matches(km, keys.Prev):
			return f.prev()
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) View() string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := output.LabelStyle.Render(f.labels[i])
		if i == f.focus {
			label = output.FocusedStyle.Render(f.labels[i])
		}
		b.WriteString(label + "\n" + in.View() + "\n")
	}
	return b.String()
}

// status shows a spinner while a request runs and the last error after it.
type status struct {
	spinner spinner.Model
	busy    bool
	label   string
	err     string
}

func newStatus() status {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = output.InfoStyle
	return status{spinner: sp}
}

// start marks a request in flight and returns the first spinner tick.
func (s *status) start(label string) tea.Cmd {
	s.busy = true
	s.label = label
	s.err = ""
	return s.spinner.Tick
}

func (s *status) stop() {
	s.busy = false
	s.label = ""
}

func (s *status) fail(msg string) {
	s.stop()
	s.err = msg
}

func (s *status) clear() {
	s.err = ""
}

func (s *status) update(msg spinner.TickMsg) tea.Cmd {
	if !s.busy {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

func (s *status) View() string {
	switch {
	case s.busy:
		return s.spinner.View() + " " + output.InfoStyle.Render(s.label)
	case s.err != "":
		return output.ErrorStyle.Render(s.err)
	}
	return ""
}

// join stacks non-empty blocks with a blank line between them.
func join(blocks ...string) string {
	kept := blocks[:0]
	for _, b := range blocks {
		if b = strings.TrimRight(b, "\n"); b != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}
