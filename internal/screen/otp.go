package screen

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"edgelogin/internal/locale"
	"edgelogin/internal/navigation"
	"edgelogin/internal/output"
	"edgelogin/internal/session"
)

const (
	tagOTPPoll      = "otpPoll"
	tagOTPCountdown = "otpCountdown"

	resetDateLayout = "Jan 2, 2006 15:04"
)

// otpError waits for another device to approve this login.
//
// It polls the voucher, retries the password login when the voucher is
// approved or the reset date passes, and accepts a backup code instead.
type otpError struct {
	d      *Deps
	status status

	// remaining is the whole seconds until the reset date.
	remaining int
	countSeq  int
	pollSeq   int

	entering bool
	backup   form
}

func newOTPError(d *Deps) Screen {
	s := &otpError{
		d:      d,
		status: newStatus(),
		backup: newForm(d.t(locale.KeyOTPBackupCodeHdr)),
	}
	s.backup.inputs[0].Blur()
	return s
}

func (s *otpError) Init() tea.Cmd {
	return tea.Batch(s.startCountdown(true), s.schedulePoll())
}

func (s *otpError) Bindings() []key.Binding {
	if s.entering {
		return []key.Binding{labeled(keys.Submit, s.d.t(locale.KeySubmit)), labeled(keys.BackupCode, s.d.t(locale.KeyCancel))}
	}
	return []key.Binding{labeled(keys.BackupCode, s.d.t(locale.KeyOTPBackupCodeHdr))}
}

// startCountdown restarts the reset-date countdown from the shared reset
// date. A reset date already passed retries the login when retryIfDue is set.
func (s *otpError) startCountdown(retryIfDue bool) tea.Cmd {
	s.countSeq++
	s.remaining = 0
	if s.d.Shared.ResetDate.IsZero() {
		return nil
	}
	s.remaining = int(math.Ceil(s.d.Shared.ResetDate.Sub(s.d.Now()).Seconds()))
	if s.remaining <= 0 {
		s.remaining = 0
		if retryIfDue {
			return s.retry()
		}
		return nil
	}
	return s.d.tick(tagOTPCountdown, s.countSeq, time.Second)
}

func (s *otpError) schedulePoll() tea.Cmd {
	s.pollSeq++
	return s.d.tick(tagOTPPoll, s.pollSeq, s.d.PollInterval)
}

func (s *otpError) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return s, s.key(msg)
	case TickMsg:
		return s, s.tick(msg)
	case ResultMsg:
		return s, s.result(msg)
	case spinner.TickMsg:
		return s, s.status.update(msg)
	}
	if s.entering {
		return s, s.backup.update(msg)
	}
	return s, nil
}

func (s *otpError) key(msg tea.KeyMsg) tea.Cmd {
	if s.status.busy {
		return nil
	}
	if key.Matches(msg, keys.BackupCode) {
		s.entering = !s.entering
		s.status.clear()
		if s.entering {
			return s.backup.focusOn(0)
		}
		s.backup.inputs[0].Blur()
		return nil
	}
	if !s.entering {
		return nil
	}
	if key.Matches(msg, keys.Submit) {
		return s.submitBackup()
	}
	return s.backup.update(msg)
}

func (s *otpError) tick(msg TickMsg) tea.Cmd {
	switch {
	case msg.Tag == tagOTPCountdown && msg.Seq == s.countSeq:
		if s.remaining > 0 {
			s.remaining--
		}
		if s.remaining == 0 {
			return s.retry()
		}
		return s.d.tick(tagOTPCountdown, s.countSeq, time.Second)

	case msg.Tag == tagOTPPoll && msg.Seq == s.pollSeq:
		if s.status.busy || s.d.Shared.Voucher == "" {
			return s.schedulePoll()
		}
		voucher := s.d.Shared.Voucher
		return s.d.call(OpCheckOTP, func(ctx context.Context) (*session.Session, any, error) {
			ok, err := s.d.Session.CheckOTPApproval(ctx, voucher)
			return nil, ok, err
		})
	}
	return nil
}

// retry repeats the password login that led here.
func (s *otpError) retry() tea.Cmd {
	if s.status.busy {
		return nil
	}
	username, password := s.d.Shared.Username, s.d.Shared.Password
	return tea.Batch(
		s.status.start(s.d.t(locale.KeyOTPSceneRetrying)),
		s.d.call(OpLogin, func(ctx context.Context) (*session.Session, any, error) {
			sess, err := s.d.Session.Login(ctx, username, password)
			return sess, nil, err
		}),
	)
}

func (s *otpError) submitBackup() tea.Cmd {
	code := s.backup.value(0)
	if code == "" {
		return nil
	}
	username, password := s.d.Shared.Username, s.d.Shared.Password
	return tea.Batch(
		s.status.start(s.d.t(locale.KeyLoggingIn)),
		s.d.call(OpBackupCode, func(ctx context.Context) (*session.Session, any, error) {
			sess, err := s.d.Session.LoginWithBackupCode(ctx, username, password, code)
			return sess, nil, err
		}),
	)
}

func (s *otpError) result(msg ResultMsg) tea.Cmd {
	switch msg.Op {
	case OpCheckOTP:
		if msg.Err != nil {
			// A voucher that no longer exists has been settled; the login
			// retry reports what happened.
			if session.IsKind(msg.Err, session.KindOTP) {
				return tea.Batch(s.retry(), s.schedulePoll())
			}
			s.status.fail(s.d.authMessage(msg.Err, ""))
			return s.schedulePoll()
		}
		if approved, _ := msg.Value.(bool); approved {
			return tea.Batch(s.retry(), s.schedulePoll())
		}
		return s.schedulePoll()

	case OpLogin, OpBackupCode:
		s.status.stop()
		if msg.Err == nil {
			s.d.remember(msg.Session)
			s.d.Shared.ClearSecrets()
			return s.d.navigate(navigation.Complete(msg.Session))
		}
		ae := session.AsAuthError(msg.Err)
		if ae.Kind == session.KindOTP && msg.Op == OpLogin {
			s.d.Shared.Voucher = ae.Voucher
			s.d.Shared.ResetDate = ae.ResetDate
			return s.startCountdown(false)
		}
		if msg.Op == OpBackupCode {
			s.backup.set(0, "")
		}
		s.status.fail(s.d.authMessage(msg.Err, ""))
	}
	return nil
}

func (s *otpError) View() string {
	blocks := []string{
		output.WarningStyle.Render(s.d.t(locale.KeyOTPSceneHeader2FA)),
		s.d.t(locale.KeyOTPSceneApprove),
	}
	if s.d.Shared.Voucher != "" {
		blocks = append(blocks, output.HintStyle.Render(s.d.t(locale.KeyOTPVoucher, s.d.Shared.Voucher)))
	}
	if !s.d.Shared.ResetDate.IsZero() {
		wait := s.d.t(locale.KeyOTPSceneWait, s.d.Shared.ResetDate.Local().Format(resetDateLayout))
		if s.remaining > 0 {
			wait += " " + output.InfoStyle.Render("("+(time.Duration(s.remaining)*time.Second).String()+")")
		}
		blocks = append(blocks, wait)
	}
	if s.entering {
		blocks = append(blocks, s.backup.View())
	}
	blocks = append(blocks, s.status.View())
	return join(blocks...)
}
