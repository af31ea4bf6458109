package screen

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"edgelogin/internal/locale"
	"edgelogin/internal/navigation"
	"edgelogin/internal/registry"
	"edgelogin/internal/session"
	"edgelogin/internal/userlist"
)

// harness mounts screens against a real controller and a mock collaborator.
type harness struct {
	t      *testing.T
	ctrl   *navigation.Controller
	mock   *session.MockCollaborator
	users  *userlist.Store
	shared *Shared
	r      *Renderer
	now    time.Time
}

// immediateTick fires at once so countdowns can be driven synchronously.
func immediateTick(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return fn(time.Time{}) }
}

// neverTick never fires; tests deliver TickMsgs by hand.
func neverTick(time.Duration, func(time.Time) tea.Msg) tea.Cmd {
	return nil
}

func newHarness(t *testing.T, w registry.WorkflowID, index int, opts ...func(*Deps)) *harness {
	t.Helper()
	ctrl, err := navigation.NewControllerAt(registry.NewRegistry(), w)
	require.NoError(t, err)
	if index > 0 {
		require.NoError(t, ctrl.Dispatch(navigation.JumpTo(index)))
	}

	h := &harness{
		t:      t,
		ctrl:   ctrl,
		mock:   &session.MockCollaborator{},
		users:  userlist.NewStore(filepath.Join(t.TempDir(), "users.yaml")),
		shared: &Shared{},
		now:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	deps := Deps{
		Session:      h.mock,
		Catalog:      locale.NewCatalog("en-US"),
		Nav:          ctrl,
		Users:        h.users,
		Shared:       h.shared,
		AppName:      "Edge",
		PollInterval: time.Second,
		Now:          func() time.Time { return h.now },
		Tick:         immediateTick,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	h.r = NewRenderer(deps)
	return h
}

func withTick(tick func(time.Duration, func(time.Time) tea.Msg) tea.Cmd) func(*Deps) {
	return func(d *Deps) { d.Tick = tick }
}

// mount creates the screen for the controller's current scene.
func (h *harness) mount() Screen {
	h.t.Helper()
	scene, err := h.ctrl.Scene()
	require.NoError(h.t, err)
	s, err := h.r.Mount(scene.ID)
	require.NoError(h.t, err)
	return s
}

// run executes cmd and returns the messages it produces, flattening batches
// and dropping spinner frames.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch m := cmd().(type) {
	case nil, spinner.TickMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range m {
			out = append(out, run(c)...)
		}
		return out
	default:
		return []tea.Msg{m}
	}
}

// maxSteps bounds drive so poll loops terminate.
const maxSteps = 40

// drive delivers msgs to s, feeding back every result and tick the screen
// produces, and returns the navigation requests it emitted.
func drive(s Screen, msgs ...tea.Msg) (Screen, []NavigateMsg) {
	var navs []NavigateMsg
	queue := append([]tea.Msg(nil), msgs...)
	for steps := 0; len(queue) > 0 && steps < maxSteps; steps++ {
		msg := queue[0]
		queue = queue[1:]

		var cmd tea.Cmd
		s, cmd = s.Update(msg)
		for _, out := range run(cmd) {
			switch out := out.(type) {
			case NavigateMsg:
				navs = append(navs, out)
			case ResultMsg, TickMsg:
				queue = append(queue, out)
			}
		}
	}
	return s, navs
}

// initScreen runs Init and feeds its messages back.
func initScreen(s Screen) (Screen, []NavigateMsg) {
	var navs []NavigateMsg
	var queue []tea.Msg
	for _, out := range run(s.Init()) {
		if nav, ok := out.(NavigateMsg); ok {
			navs = append(navs, nav)
			continue
		}
		queue = append(queue, out)
	}
	s, more := drive(s, queue...)
	return s, append(navs, more...)
}

func keyRunes(text string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(text))
	for _, r := range text {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

var (
	enter     = tea.KeyMsg{Type: tea.KeyEnter}
	tab       = tea.KeyMsg{Type: tea.KeyTab}
	backspace = tea.KeyMsg{Type: tea.KeyBackspace}
	right     = tea.KeyMsg{Type: tea.KeyRight}
	left      = tea.KeyMsg{Type: tea.KeyLeft}
)

func ctrlKey(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// typeInto sends text followed by the extra keys.
func typeInto(s Screen, text string, extra ...tea.Msg) (Screen, []NavigateMsg) {
	return drive(s, append(keyRunes(text), extra...)...)
}

func intents(navs []NavigateMsg) []navigation.Intent {
	out := make([]navigation.Intent, len(navs))
	for i, n := range navs {
		out[i] = n.Intent
	}
	return out
}
