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
	"edgelogin/internal/session"
	"edgelogin/internal/validation"
)

// accountWelcome introduces account creation.
type accountWelcome struct {
	d *Deps
}

func newAccountWelcome(d *Deps) Screen {
	return &accountWelcome{d: d}
}

func (s *accountWelcome) Init() tea.Cmd { return nil }

func (s *accountWelcome) Bindings() []key.Binding {
	return []key.Binding{labeled(keys.Submit, s.d.t(locale.KeyGetStarted))}
}

func (s *accountWelcome) Update(msg tea.Msg) (Screen, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, keys.Submit) {
		return s, s.d.navigate(navigation.Advance())
	}
	return s, nil
}

func (s *accountWelcome) View() string {
	return join(
		output.TitleStyle.Render(s.d.t(locale.KeyWelcome, s.d.AppName)),
		output.ValueStyle.Render(s.d.t(locale.KeyWelcomeOneTitle, s.d.AppName)),
		s.d.t(locale.KeyWelcomeOneLine1)+"\n"+s.d.t(locale.KeyWelcomeOneLine2),
	)
}

// accountUsername picks a username and checks that it is free.
type accountUsername struct {
	d      *Deps
	form   form
	status status
}

func newAccountUsername(d *Deps) Screen {
	s := &accountUsername{d: d, form: newForm(d.t(locale.KeyUsername)), status: newStatus()}
	s.form.set(0, d.Shared.Draft.Username)
	return s
}

func (s *accountUsername) Init() tea.Cmd { return nil }

func (s *accountUsername) Bindings() []key.Binding {
	return []key.Binding{labeled(keys.Submit, s.d.t(locale.KeyNext))}
}

func (s *accountUsername) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.status.busy {
			return s, nil
		}
		if key.Matches(msg, keys.Submit) {
			return s, s.submit()
		}
	case ResultMsg:
		if msg.Op == OpUsernameAvailable {
			return s, s.checked(msg)
		}
		return s, nil
	case spinner.TickMsg:
		return s, s.status.update(msg)
	}
	return s, s.form.update(msg)
}

func (s *accountUsername) submit() tea.Cmd {
	username := strings.TrimSpace(s.form.value(0))
	if err := validation.Username(username); err != nil {
		s.status.fail(s.d.t(validation.MessageKey(err)))
		return nil
	}
	return tea.Batch(
		s.status.start(s.d.t(locale.KeyCheckingUsername)),
		s.d.call(OpUsernameAvailable, func(ctx context.Context) (*session.Session, any, error) {
			ok, err := s.d.Session.UsernameAvailable(ctx, username)
			return nil, ok, err
		}),
	)
}

func (s *accountUsername) checked(msg ResultMsg) tea.Cmd {
	if msg.Err != nil {
		s.status.fail(s.d.authMessage(msg.Err, ""))
		return nil
	}
	if available, _ := msg.Value.(bool); !available {
		s.status.fail(s.d.t(locale.KeyUsernameExistsError))
		return nil
	}
	s.status.stop()
	s.d.Shared.Draft.Username = strings.TrimSpace(s.form.value(0))
	return s.d.navigate(navigation.Advance())
}

func (s *accountUsername) View() string {
	return join(s.form.View(), s.status.View())
}

// accountPassword sets the password with a live requirements checklist.
type accountPassword struct {
	d      *Deps
	form   form
	status status
}

func newAccountPassword(d *Deps) Screen {
	return &accountPassword{d: d, form: passwordForm(d, d.Shared.Draft.Password), status: newStatus()}
}

// passwordForm is a masked password and confirmation pair.
func passwordForm(d *Deps, prefill string) form {
	f := newForm(d.t(locale.KeyPassword), d.t(locale.KeyConfirmPassword))
	f.secret(0)
	f.secret(1)
	f.set(0, prefill)
	f.set(1, prefill)
	return f
}

// checkPasswords validates a password form and returns the failure text.
func checkPasswords(d *Deps, f *form) (string, bool) {
	password := f.value(0)
	if err := validation.Password(password); err != nil {
		return d.t(validation.MessageKey(err)), false
	}
	if err := validation.Confirm(password, f.value(1)); err != nil {
		return d.t(validation.MessageKey(err)), false
	}
	return "", true
}

// checklist renders the password requirements for password.
func checklist(d *Deps, password string) string {
	lines := []string{output.LabelStyle.Render(d.t(locale.KeyPasswordRequirements))}
	for _, item := range validation.CheckPassword(password).Items() {
		if item.Met {
			lines = append(lines, output.SuccessStyle.Render("✓ ")+d.t(item.Key))
		} else {
			lines = append(lines, output.HintStyle.Render("· ")+d.t(item.Key))
		}
	}
	return strings.Join(lines, "\n")
}

func (s *accountPassword) Init() tea.Cmd { return nil }

func (s *accountPassword) Bindings() []key.Binding {
	return []key.Binding{labeled(keys.Submit, s.d.t(locale.KeyNext))}
}

func (s *accountPassword) Update(msg tea.Msg) (Screen, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, keys.Submit) {
		if !s.form.onLast() {
			return s, s.form.next()
		}
		text, ok := checkPasswords(s.d, &s.form)
		if !ok {
			s.status.fail(text)
			return s, nil
		}
		s.d.Shared.Draft.Password = s.form.value(0)
		return s, s.d.navigate(navigation.Advance())
	}
	return s, s.form.update(msg)
}

func (s *accountPassword) View() string {
	return join(
		s.d.t(locale.KeyPasswordDesc),
		s.form.View(),
		checklist(s.d, s.form.value(0)),
		s.status.View(),
	)
}

// accountPin chooses the PIN and creates the account.
//
// A failed create keeps the PIN and offers a retry; nothing is retried
// without the user asking.
type accountPin struct {
	d      *Deps
	pin    PinBuffer
	status status
	failed bool
}

func newAccountPin(d *Deps) Screen {
	return &accountPin{d: d, status: newStatus()}
}

func (s *accountPin) Init() tea.Cmd { return nil }

func (s *accountPin) Bindings() []key.Binding {
	if s.failed {
		return []key.Binding{labeled(keys.Submit, s.d.t(locale.KeyTryAgain))}
	}
	return []key.Binding{keys.Erase}
}

func (s *accountPin) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.status.busy {
			return s, nil
		}
		if s.failed {
			switch {
			case key.Matches(msg, keys.Submit):
				return s, s.create()
			case key.Matches(msg, keys.Erase):
				s.failed = false
				s.pin.Reset()
				s.status.clear()
			}
			return s, nil
		}
		if key.Matches(msg, keys.Erase) {
			s.pin.Back()
			return s, nil
		}
		if r, ok := digit(msg); ok && s.pin.Press(r) {
			s.d.Shared.Draft.PIN = s.pin.Value()
			return s, s.create()
		}
	case ResultMsg:
		if msg.Op == OpCreateAccount {
			return s, s.created(msg.Session, msg.Err)
		}
	case spinner.TickMsg:
		return s, s.status.update(msg)
	}
	return s, nil
}

func (s *accountPin) create() tea.Cmd {
	draft := s.d.Shared.Draft
	if err := validation.PIN(draft.PIN); err != nil {
		s.status.fail(s.d.t(validation.MessageKey(err)))
		s.pin.Reset()
		return nil
	}
	s.failed = false
	return tea.Batch(
		s.status.start(s.d.t(locale.KeyEncryptingWallet)),
		s.d.call(OpCreateAccount, func(ctx context.Context) (*session.Session, any, error) {
			sess, err := s.d.Session.CreateAccount(ctx, draft.Username, draft.Password, draft.PIN)
			return sess, nil, err
		}),
	)
}

func (s *accountPin) created(sess *session.Session, err error) tea.Cmd {
	if err != nil {
		if session.IsKind(err, session.KindUsernameTaken) || session.IsKind(err, session.KindInvalid) {
			s.status.fail(s.d.authMessage(err, ""))
			s.pin.Reset()
			return nil
		}
		s.status.fail(s.d.t(locale.KeyCreateAccountErrHdr))
		s.failed = true
		return nil
	}
	s.status.stop()
	s.d.Shared.Session = sess
	s.d.Shared.Username = sess.Username
	s.d.remember(sess)
	return s.d.navigate(navigation.Advance())
}

func (s *accountPin) View() string {
	if s.failed {
		return join(
			s.status.View(),
			s.d.t(locale.KeyCreateAccountErrMsg),
			output.HintStyle.Render("enter "+s.d.t(locale.KeyTryAgain)),
		)
	}
	return join(s.d.t(locale.KeyPinDesc), s.pin.View(), s.status.View())
}

// accountReview shows the new credentials once before finishing.
type accountReview struct {
	d      *Deps
	reveal bool
}

func newAccountReview(d *Deps) Screen {
	return &accountReview{d: d}
}

func (s *accountReview) Init() tea.Cmd { return nil }

func (s *accountReview) Bindings() []key.Binding {
	return []key.Binding{
		labeled(keys.Submit, s.d.t(locale.KeyDone)),
		keys.Reveal,
	}
}

func (s *accountReview) Update(msg tea.Msg) (Screen, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch {
	case key.Matches(km, keys.Reveal):
		s.reveal = !s.reveal
	case key.Matches(km, keys.Submit):
		sess := s.d.Shared.Session
		s.d.Shared.ClearSecrets()
		return s, s.d.navigate(navigation.Complete(sess))
	}
	return s, nil
}

func (s *accountReview) View() string {
	draft := s.d.Shared.Draft
	password := strings.Repeat("•", len([]rune(draft.Password)))
	pin := strings.Repeat("•", len(draft.PIN))
	if s.reveal {
		password, pin = draft.Password, draft.PIN
	}
	rows := []string{
		output.LabelStyle.Render(s.d.t(locale.KeyUsername)+": ") + output.ValueStyle.Render(draft.Username),
		output.LabelStyle.Render(s.d.t(locale.KeyPassword)+": ") + output.ValueStyle.Render(password),
		output.LabelStyle.Render(s.d.t(locale.KeyPin)+": ") + output.ValueStyle.Render(pin),
	}
	return join(
		s.d.t(locale.KeyAlmostDone),
		strings.Join(rows, "\n"),
		output.WarningStyle.Render(s.d.t(locale.KeyWarningMessage)),
	)
}
