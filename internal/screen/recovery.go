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

// recoveryToken asks for the recovery token and username and fetches the
// user's questions.
type recoveryToken struct {
	d      *Deps
	form   form
	status status
}

func newRecoveryToken(d *Deps) Screen {
	s := &recoveryToken{
		d:      d,
		form:   newForm(d.t(locale.KeyRecoveryToken), d.t(locale.KeyUsername)),
		status: newStatus(),
	}
	s.form.set(0, d.Shared.RecoveryToken)
	s.form.set(1, d.Shared.Username)
	return s
}

func (s *recoveryToken) Init() tea.Cmd { return nil }

func (s *recoveryToken) Bindings() []key.Binding {
	return []key.Binding{labeled(keys.Submit, s.d.t(locale.KeyNext))}
}

func (s *recoveryToken) Update(msg tea.Msg) (Screen, tea.Cmd) {
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
		if msg.Op == OpRecoveryQuestions {
			return s, s.fetched(msg)
		}
		return s, nil
	case spinner.TickMsg:
		return s, s.status.update(msg)
	}
	return s, s.form.update(msg)
}

func (s *recoveryToken) submit() tea.Cmd {
	token := strings.TrimSpace(s.form.value(0))
	username := strings.TrimSpace(s.form.value(1))
	if token == "" || username == "" {
		s.status.fail(s.d.t(locale.KeyRecoveryByUserError))
		return nil
	}
	s.d.Shared.RecoveryToken = token
	s.d.Shared.Username = username
	return tea.Batch(
		s.status.start(s.d.t(locale.KeyLoggingIn)),
		s.d.call(OpRecoveryQuestions, func(ctx context.Context) (*session.Session, any, error) {
			qs, err := s.d.Session.RecoveryQuestions(ctx, token, username)
			return nil, qs, err
		}),
	)
}

func (s *recoveryToken) fetched(msg ResultMsg) tea.Cmd {
	if msg.Err != nil {
		s.status.fail(s.d.authMessage(msg.Err, locale.KeyRecoveryByUserError))
		return nil
	}
	questions, _ := msg.Value.([]string)
	if len(questions) == 0 {
		s.status.fail(s.d.t(locale.KeyRecoveryByUserError))
		return nil
	}
	s.status.stop()
	s.d.Shared.Questions = questions
	return s.d.navigate(navigation.Advance())
}

func (s *recoveryToken) View() string {
	return join(
		s.d.t(locale.KeyInitiateRecovery),
		s.form.View(),
		s.status.View(),
	)
}

// recoveryAnswers collects one answer per question and logs in with them.
type recoveryAnswers struct {
	d      *Deps
	form   form
	status status
}

func newRecoveryAnswers(d *Deps) Screen {
	labels := make([]string, len(d.Shared.Questions))
	for i, q := range d.Shared.Questions {
		labels[i] = d.t(locale.Key(q))
	}
	return &recoveryAnswers{d: d, form: newForm(labels...), status: newStatus()}
}

func (s *recoveryAnswers) Init() tea.Cmd { return nil }

func (s *recoveryAnswers) Bindings() []key.Binding {
	return []key.Binding{labeled(keys.Submit, s.d.t(locale.KeySubmit))}
}

func (s *recoveryAnswers) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.status.busy {
			return s, nil
		}
		if key.Matches(msg, keys.Submit) {
			if len(s.form.inputs) > 0 && !s.form.onLast() {
				return s, s.form.next()
			}
			return s, s.submit()
		}
	case ResultMsg:
		if msg.Op == OpRecoveryLogin {
			return s, s.loggedIn(msg.Session, msg.Err)
		}
		return s, nil
	case spinner.TickMsg:
		return s, s.status.update(msg)
	}
	return s, s.form.update(msg)
}

func (s *recoveryAnswers) submit() tea.Cmd {
	if len(s.form.inputs) == 0 {
		s.status.fail(s.d.t(locale.KeyRecoveryByUserError))
		return nil
	}
	answers := make([]string, len(s.form.inputs))
	for i := range answers {
		answers[i] = s.form.value(i)
		if err := validation.Answer(answers[i]); err != nil {
			s.status.fail(s.d.t(validation.MessageKey(err)))
			s.form.focusOn(i)
			return nil
		}
	}

	token, username := s.d.Shared.RecoveryToken, s.d.Shared.Username
	return tea.Batch(
		s.status.start(s.d.t(locale.KeyLoggingIn)),
		s.d.call(OpRecoveryLogin, func(ctx context.Context) (*session.Session, any, error) {
			sess, err := s.d.Session.LoginWithRecovery(ctx, token, username, answers)
			return sess, nil, err
		}),
	)
}

func (s *recoveryAnswers) loggedIn(sess *session.Session, err error) tea.Cmd {
	if err != nil {
		s.status.fail(s.d.authMessage(err, locale.KeyRecoveryError))
		return nil
	}
	s.status.stop()
	s.d.remember(sess)
	s.d.Shared.Session = sess
	s.d.Shared.RecoveryToken = ""
	return s.d.navigate(navigation.SwitchTo(registry.WorkflowResecure))
}

func (s *recoveryAnswers) View() string {
	return join(
		output.HintStyle.Render(s.d.t(locale.KeyAnswerCaseSensitive)),
		s.form.View(),
		s.status.View(),
	)
}
