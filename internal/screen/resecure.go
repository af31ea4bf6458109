package screen

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"edgelogin/internal/locale"
	"edgelogin/internal/navigation"
	"edgelogin/internal/output"
	"edgelogin/internal/registry"
	"edgelogin/internal/session"
	"edgelogin/internal/validation"
)

// changePassword replaces the password of the logged-in session.
type changePassword struct {
	d      *Deps
	form   form
	status status
}

func newChangePassword(d *Deps) Screen {
	return &changePassword{d: d, form: passwordForm(d, ""), status: newStatus()}
}

func (s *changePassword) Init() tea.Cmd { return nil }

func (s *changePassword) Bindings() []key.Binding {
	return []key.Binding{labeled(keys.Submit, s.d.t(locale.KeySave))}
}

func (s *changePassword) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.status.busy {
			return s, nil
		}
		if key.Matches(msg, keys.Submit) {
			if !s.form.onLast() {
				return s, s.form.next()
			}
			return s, s.submit()
		}
	case ResultMsg:
		if msg.Op == OpChangePassword {
			return s, s.changed(msg.Err)
		}
		return s, nil
	case spinner.TickMsg:
		return s, s.status.update(msg)
	}
	return s, s.form.update(msg)
}

func (s *changePassword) submit() tea.Cmd {
	text, ok := checkPasswords(s.d, &s.form)
	if !ok {
		s.status.fail(text)
		return nil
	}
	sess := s.d.Shared.Session
	if sess == nil {
		s.status.fail(s.d.t(locale.KeyNetworkError))
		return nil
	}
	password := s.form.value(0)
	return tea.Batch(
		s.status.start(s.d.t(locale.KeySave)),
		s.d.call(OpChangePassword, func(ctx context.Context) (*session.Session, any, error) {
			return nil, nil, s.d.Session.ChangePassword(ctx, sess, password)
		}),
	)
}

// changed moves on, skipping recovery setup when the account already has
// recovery configured.
func (s *changePassword) changed(err error) tea.Cmd {
	if err != nil {
		s.status.fail(s.d.authMessage(err, ""))
		return nil
	}
	s.status.stop()
	if s.d.Shared.Session.RecoveryConfigured {
		if i := s.indexOf(registry.SceneChangePin); i >= 0 {
			return s.d.navigate(navigation.JumpTo(i))
		}
	}
	return s.d.navigate(navigation.Advance())
}

func (s *changePassword) indexOf(id registry.SceneID) int {
	w, err := s.d.Nav.Registry().LookupWorkflow(s.d.Nav.State().Workflow)
	if err != nil {
		return -1
	}
	return w.IndexOf(id)
}

func (s *changePassword) View() string {
	notice := ""
	if sess := s.d.Shared.Session; sess != nil && sess.ViaRecovery {
		notice = output.SuccessStyle.Render(s.d.t(locale.KeyRecoverySuccessful))
	}
	return join(notice, s.form.View(), checklist(s.d, s.form.value(0)), s.status.View())
}

// recoverySetup picks two recovery questions, stores the answers and shows
// the resulting recovery token.
type recoverySetup struct {
	d       *Deps
	answers form
	// question holds the chosen index into locale.RecoveryQuestions per answer.
	question [2]int
	// focus alternates selector and answer: 0 q1, 1 a1, 2 q2, 3 a2.
	focus  int
	status status
	token  string
}

func newRecoverySetup(d *Deps) Screen {
	s := &recoverySetup{
		d:        d,
		answers:  newForm(d.t(locale.KeyYourAnswerLabel), d.t(locale.KeyYourAnswerLabel)),
		question: [2]int{0, 1},
		status:   newStatus(),
	}
	s.answers.inputs[0].Blur()
	return s
}

func (s *recoverySetup) Init() tea.Cmd { return nil }

func (s *recoverySetup) Bindings() []key.Binding {
	if s.token != "" {
		return []key.Binding{labeled(keys.Submit, s.d.t(locale.KeyNext))}
	}
	return []key.Binding{
		labeled(keys.Left, s.d.t(locale.KeyChooseRecoveryQ)),
		labeled(keys.Right, s.d.t(locale.KeyChooseRecoveryQ)),
		labeled(keys.Submit, s.d.t(locale.KeySave)),
	}
}

func (s *recoverySetup) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.status.busy {
			return s, nil
		}
		return s, s.key(msg)
	case ResultMsg:
		if msg.Op == OpSetupRecovery {
			return s, s.saved(msg)
		}
		return s, nil
	case spinner.TickMsg:
		return s, s.status.update(msg)
	}
	if s.focus%2 == 1 {
		return s, s.answers.update(msg)
	}
	return s, nil
}

func (s *recoverySetup) key(msg tea.KeyMsg) tea.Cmd {
	if s.token != "" {
		if key.Matches(msg, keys.Submit) {
			return s.d.navigate(navigation.Advance())
		}
		return nil
	}

	switch {
	case key.Matches(msg, keys.Next):
		return s.focusOn((s.focus + 1) % 4)
	case key.Matches(msg, keys.Prev):
		return s.focusOn((s.focus + 3) % 4)
	case key.Matches(msg, keys.Submit):
		if s.focus < 3 {
			return s.focusOn(s.focus + 1)
		}
		return s.submit()
	}

	if s.focus%2 == 0 {
		switch {
		case key.Matches(msg, keys.Left):
			s.cycle(s.focus/2, -1)
		case key.Matches(msg, keys.Right):
			s.cycle(s.focus/2, 1)
		}
		return nil
	}

	var cmd tea.Cmd
	i := s.focus / 2
	s.answers.inputs[i], cmd = s.answers.inputs[i].Update(msg)
	return cmd
}

func (s *recoverySetup) focusOn(i int) tea.Cmd {
	s.focus = i
	if i%2 == 1 {
		return s.answers.focusOn(i / 2)
	}
	s.answers.inputs[s.answers.focus].Blur()
	return nil
}

// cycle moves selector i by step, never choosing the other selector's
// question.
func (s *recoverySetup) cycle(i, step int) {
	n := len(locale.RecoveryQuestions)
	q := s.question[i]
	for {
		q = (q + step + n) % n
		if q != s.question[1-i] {
			break
		}
	}
	s.question[i] = q
}

func (s *recoverySetup) submit() tea.Cmd {
	answers := []string{s.answers.value(0), s.answers.value(1)}
	for i, a := range answers {
		if err := validation.Answer(a); err != nil {
			s.status.fail(s.d.t(validation.MessageKey(err)))
			s.focusOn(2*i + 1)
			return nil
		}
	}
	sess := s.d.Shared.Session
	if sess == nil {
		s.status.fail(s.d.t(locale.KeyNetworkError))
		return nil
	}
	questions := []string{
		string(locale.RecoveryQuestions[s.question[0]]),
		string(locale.RecoveryQuestions[s.question[1]]),
	}
	return tea.Batch(
		s.status.start(s.d.t(locale.KeySave)),
		s.d.call(OpSetupRecovery, func(ctx context.Context) (*session.Session, any, error) {
			token, err := s.d.Session.SetupRecovery(ctx, sess, questions, answers)
			return nil, token, err
		}),
	)
}

func (s *recoverySetup) saved(msg ResultMsg) tea.Cmd {
	if msg.Err != nil {
		s.status.fail(s.d.authMessage(msg.Err, ""))
		return nil
	}
	s.status.stop()
	s.token, _ = msg.Value.(string)
	s.d.Shared.Session.RecoveryConfigured = true
	return nil
}

func (s *recoverySetup) View() string {
	if s.token != "" {
		return join(
			output.TitleStyle.Render(s.d.t(locale.KeySaveRecoveryToken)),
			s.d.t(locale.KeyRecoveryTokenIs, output.ValueStyle.Render(s.token)),
		)
	}

	var b strings.Builder
	for i := 0; i < 2; i++ {
		label := output.LabelStyle.Render(s.d.t(locale.KeyChooseRecoveryQ))
		question := s.d.t(locale.RecoveryQuestions[s.question[i]])
		if s.focus == 2*i {
			label = output.FocusedStyle.Render(s.d.t(locale.KeyChooseRecoveryQ))
			question = "‹ " + question + " ›"
		}
		b.WriteString(label + "\n" + question + "\n")
		b.WriteString(s.answers.inputs[i].View() + "\n\n")
	}
	return join(
		output.HintStyle.Render(s.d.t(locale.KeyAnswerCaseSensitive)),
		b.String(),
		s.status.View(),
	)
}

// changePin sets a new PIN and completes the session. It is the last scene
// of its workflow, so skipping it completes as well.
type changePin struct {
	d      *Deps
	pin    PinBuffer
	status status
}

func newChangePin(d *Deps) Screen {
	return &changePin{d: d, status: newStatus()}
}

func (s *changePin) Init() tea.Cmd { return nil }

func (s *changePin) Bindings() []key.Binding {
	return []key.Binding{keys.Erase}
}

// Skip completes without changing the PIN.
func (s *changePin) Skip() tea.Cmd {
	if s.status.busy {
		return nil
	}
	return s.complete()
}

// complete ends the session with the login it changed, or exits when there
// is none to hand back.
func (s *changePin) complete() tea.Cmd {
	sess := s.d.Shared.Session
	s.d.Shared.ClearSecrets()
	if sess == nil {
		return s.d.navigate(navigation.Exit())
	}
	return s.d.navigate(navigation.Complete(sess))
}

func (s *changePin) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.status.busy {
			return s, nil
		}
		if key.Matches(msg, keys.Erase) {
			s.pin.Back()
			return s, nil
		}
		if r, ok := digit(msg); ok && s.pin.Press(r) {
			return s, s.submit()
		}
	case ResultMsg:
		if msg.Op == OpChangePIN {
			return s, s.changed(msg.Err)
		}
	case spinner.TickMsg:
		return s, s.status.update(msg)
	}
	return s, nil
}

func (s *changePin) submit() tea.Cmd {
	sess := s.d.Shared.Session
	if sess == nil {
		s.status.fail(s.d.t(locale.KeyNetworkError))
		s.pin.Reset()
		return nil
	}
	pin := s.pin.Value()
	return tea.Batch(
		s.status.start(s.d.t(locale.KeySave)),
		s.d.call(OpChangePIN, func(ctx context.Context) (*session.Session, any, error) {
			return nil, nil, s.d.Session.ChangePIN(ctx, sess, pin)
		}),
	)
}

func (s *changePin) changed(err error) tea.Cmd {
	s.pin.Reset()
	if err != nil {
		s.status.fail(s.d.authMessage(err, ""))
		return nil
	}
	s.status.stop()
	s.d.Shared.Session.PINEnabled = true
	s.d.remember(s.d.Shared.Session)
	return s.complete()
}

func (s *changePin) View() string {
	return join(s.d.t(locale.KeyPinDesc), s.pin.View(), s.status.View())
}
