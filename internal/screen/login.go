package screen

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"edgelogin/internal/locale"
	"edgelogin/internal/logger"
	"edgelogin/internal/navigation"
	"edgelogin/internal/output"
	"edgelogin/internal/registry"
	"edgelogin/internal/session"
	"edgelogin/internal/userlist"
)

// passwordLogin is the username and password form.
type passwordLogin struct {
	d      *Deps
	form   form
	status status
}

func newPasswordLogin(d *Deps) Screen {
	s := &passwordLogin{
		d:      d,
		form:   newForm(d.t(locale.KeyUsername), d.t(locale.KeyPassword)),
		status: newStatus(),
	}
	s.form.secret(1)
	if d.Shared.Username != "" {
		s.form.set(0, d.Shared.Username)
		s.form.focusOn(1)
	}
	return s
}

func (s *passwordLogin) Init() tea.Cmd { return nil }

func (s *passwordLogin) Bindings() []key.Binding {
	b := []key.Binding{
		labeled(keys.Submit, s.d.t(locale.KeyLoginButton)),
		labeled(keys.UsePIN, s.d.t(locale.KeyLoginWithPIN)),
		labeled(keys.Recover, s.d.t(locale.KeyForgotPassword)),
		labeled(keys.Create, s.d.t(locale.KeyCreateAnAccount)),
	}
	if s.d.ParentButton != "" {
		b = append(b, labeled(keys.Parent, s.d.ParentButton))
	}
	return b
}

func (s *passwordLogin) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.status.busy {
			return s, nil
		}
		switch {
		case key.Matches(msg, keys.Parent) && s.d.ParentButton != "":
			return s, s.d.navigate(navigation.Exit())
		case key.Matches(msg, keys.UsePIN):
			s.d.Shared.Username = strings.TrimSpace(s.form.value(0))
			return s, s.d.navigate(navigation.SwitchTo(registry.WorkflowPin))
		case key.Matches(msg, keys.Recover):
			s.d.Shared.Username = strings.TrimSpace(s.form.value(0))
			return s, s.d.navigate(navigation.SwitchTo(registry.WorkflowRecovery))
		case key.Matches(msg, keys.Create):
			return s, s.d.navigate(navigation.SwitchTo(registry.WorkflowCreateAccount))
		case key.Matches(msg, keys.Submit):
			if !s.form.onLast() {
				return s, s.form.next()
			}
			return s, s.submit()
		}
	case ResultMsg:
		if msg.Op == OpLogin {
			return s, s.loggedIn(msg.Session, msg.Err)
		}
		return s, nil
	case spinner.TickMsg:
		return s, s.status.update(msg)
	}
	return s, s.form.update(msg)
}

func (s *passwordLogin) submit() tea.Cmd {
	username := strings.TrimSpace(s.form.value(0))
	password := s.form.value(1)
	if username == "" || password == "" {
		s.status.fail(s.d.t(locale.KeyInvalidPassword))
		return nil
	}
	s.d.Shared.Username = username
	s.d.Shared.Password = password

	return tea.Batch(
		s.status.start(s.d.t(locale.KeyLoggingIn)),
		s.d.call(OpLogin, func(ctx context.Context) (*session.Session, any, error) {
			sess, err := s.d.Session.Login(ctx, username, password)
			return sess, nil, err
		}),
	)
}

func (s *passwordLogin) loggedIn(sess *session.Session, err error) tea.Cmd {
	s.status.stop()
	if err != nil {
		ae := session.AsAuthError(err)
		if ae.Kind == session.KindOTP {
			s.d.Shared.Voucher = ae.Voucher
			s.d.Shared.ResetDate = ae.ResetDate
			return s.d.navigate(navigation.SwitchTo(registry.WorkflowOTP))
		}
		s.form.set(1, "")
		s.status.fail(s.d.authMessage(err, locale.KeyInvalidPassword))
		return nil
	}

	s.d.remember(sess)
	if sess.ViaRecovery {
		s.d.Shared.Session = sess
		return s.d.navigate(navigation.SwitchTo(registry.WorkflowResecure))
	}
	s.d.Shared.ClearSecrets()
	return s.d.navigate(navigation.Complete(sess))
}

func (s *passwordLogin) View() string {
	landing := ""
	if s.d.LandingText != "" {
		landing = output.SubtitleStyle.Render(s.d.LandingText)
	}
	return join(s.form.View(), s.status.View(), landing)
}

// pinLogin is the 4-digit keypad for remembered users.
type pinLogin struct {
	d       *Deps
	users   []userlist.User
	current int
	pin     PinBuffer
	status  status

	// wait is the remaining lockout in seconds; entry is disabled while > 0.
	wait    int
	waitSeq int

	confirmDelete bool
}

const tagPinWait = "pinWait"

func newPinLogin(d *Deps) Screen {
	s := &pinLogin{d: d, status: newStatus()}
	s.loadUsers()
	return s
}

// loadUsers keeps the remembered users with PIN login and selects the
// shared username, or the most recent user.
func (s *pinLogin) loadUsers() {
	s.users = s.users[:0]
	for _, u := range s.d.users() {
		if u.PINEnabled {
			s.users = append(s.users, u)
		}
	}
	s.current = 0
	if want := s.d.Shared.Username; want != "" {
		s.current = -1
		for i, u := range s.users {
			if strings.EqualFold(u.Username, want) {
				s.current = i
				break
			}
		}
	}
}

func (s *pinLogin) username() string {
	if s.current < 0 || s.current >= len(s.users) {
		return ""
	}
	return s.users[s.current].Username
}

// Init leaves for password login when the selected user cannot use a PIN.
func (s *pinLogin) Init() tea.Cmd {
	name := s.username()
	if name == "" {
		return s.d.navigate(navigation.SwitchTo(registry.WorkflowLogin))
	}
	s.d.Shared.Username = name
	return nil
}

func (s *pinLogin) Bindings() []key.Binding {
	b := []key.Binding{
		labeled(keys.UsePassword, s.d.t(locale.KeyExitPin)),
		labeled(keys.Delete, s.d.t(locale.KeyDelete)),
	}
	if len(s.users) > 1 {
		b = append(b, labeled(keys.SwitchUser, s.d.t(locale.KeyChooseUser)))
	}
	return b
}

func (s *pinLogin) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return s, s.key(msg)
	case ResultMsg:
		switch msg.Op {
		case OpLoginPIN:
			return s, s.loggedIn(msg.Session, msg.Err)
		case OpDeleteUser:
			return s, s.deleted(msg.Err)
		}
	case TickMsg:
		if msg.Tag == tagPinWait && msg.Seq == s.waitSeq && s.wait > 0 {
			s.wait--
			if s.wait > 0 {
				return s, s.d.tick(tagPinWait, s.waitSeq, time.Second)
			}
			s.status.clear()
		}
	case spinner.TickMsg:
		return s, s.status.update(msg)
	}
	return s, nil
}

func (s *pinLogin) key(msg tea.KeyMsg) tea.Cmd {
	if s.status.busy {
		return nil
	}
	if s.confirmDelete {
		switch {
		case key.Matches(msg, keys.Confirm):
			s.confirmDelete = false
			return s.deleteUser()
		case key.Matches(msg, keys.Cancel):
			s.confirmDelete = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, keys.UsePassword):
		return s.d.navigate(navigation.SwitchTo(registry.WorkflowLogin))
	case key.Matches(msg, keys.Delete):
		s.confirmDelete = true
		return nil
	case key.Matches(msg, keys.SwitchUser):
		if len(s.users) > 1 {
			s.current = (s.current + 1) % len(s.users)
			s.d.Shared.Username = s.username()
			s.pin.Reset()
			s.status.clear()
		}
		return nil
	case key.Matches(msg, keys.Erase):
		s.pin.Back()
		return nil
	}

	r, ok := digit(msg)
	if !ok || s.wait > 0 {
		return nil
	}
	s.status.clear()
	if !s.pin.Press(r) {
		return nil
	}
	return s.submit()
}

func (s *pinLogin) submit() tea.Cmd {
	username, pin := s.username(), s.pin.Value()
	return tea.Batch(
		s.status.start(s.d.t(locale.KeyLoggingIn)),
		s.d.call(OpLoginPIN, func(ctx context.Context) (*session.Session, any, error) {
			sess, err := s.d.Session.LoginWithPIN(ctx, username, pin)
			return sess, nil, err
		}),
	)
}

func (s *pinLogin) loggedIn(sess *session.Session, err error) tea.Cmd {
	s.status.stop()
	s.pin.Reset()
	if err == nil {
		s.d.remember(sess)
		s.d.Shared.ClearSecrets()
		return s.d.navigate(navigation.Complete(sess))
	}

	ae := session.AsAuthError(err)
	switch ae.Kind {
	case session.KindPIN:
		s.status.fail(s.d.authMessage(err, ""))
		if ae.Wait > 0 {
			s.wait = ae.Wait
			s.waitSeq++
			return s.d.tick(tagPinWait, s.waitSeq, time.Second)
		}
		return nil
	case session.KindPINDisabled:
		s.disablePIN()
		return s.d.navigate(navigation.SwitchTo(registry.WorkflowLogin))
	case session.KindNetwork:
		s.status.fail(s.d.t(locale.KeyPinNetworkError))
		return nil
	}
	s.status.fail(s.d.authMessage(err, ""))
	return nil
}

// disablePIN records that the selected user can no longer use a PIN.
func (s *pinLogin) disablePIN() {
	if s.d.Users == nil {
		return
	}
	u, err := s.d.Users.Get(s.username())
	if err != nil {
		return
	}
	u.PINEnabled = false
	if err := s.d.Users.Upsert(u); err != nil {
		logger.Warn("failed to update user list", "user", u.Username, "error", err)
	}
}

func (s *pinLogin) deleteUser() tea.Cmd {
	username := s.username()
	return tea.Batch(
		s.status.start(s.d.t(locale.KeyDelete)),
		s.d.call(OpDeleteUser, func(ctx context.Context) (*session.Session, any, error) {
			return nil, username, s.d.Session.DeleteLocalUser(ctx, username)
		}),
	)
}

func (s *pinLogin) deleted(err error) tea.Cmd {
	if err != nil {
		s.status.fail(s.d.authMessage(err, ""))
		return nil
	}
	s.status.stop()
	if s.d.Users != nil {
		if err := s.d.Users.Remove(s.username()); err != nil {
			logger.Warn("failed to remove user", "user", s.username(), "error", err)
		}
	}
	s.d.Shared.Username = ""
	s.loadUsers()
	s.pin.Reset()
	if s.username() == "" {
		return s.d.navigate(navigation.SwitchTo(registry.WorkflowLogin))
	}
	s.d.Shared.Username = s.username()
	return nil
}

func (s *pinLogin) View() string {
	name := output.ValueStyle.Render(s.username())
	if s.confirmDelete {
		return join(
			name,
			output.WarningStyle.Render(s.d.t(locale.KeyDeleteAccount)),
			s.d.t(locale.KeyDeleteUserOnDev, s.username()),
			output.HintStyle.Render("y / n"),
		)
	}

	msg := s.status.View()
	if s.wait > 0 && !s.status.busy {
		msg = output.ErrorStyle.Render(s.d.t(locale.KeyAccountLockedFor, s.wait))
	}
	return join(name, s.pin.View(), msg)
}
