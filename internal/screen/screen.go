// Package screen renders scenes.
//
// A [Renderer] maps each registered scene id to a screen: a bubbletea
// sub-model that draws the scene body, talks to the session collaborator and
// asks the host to navigate by emitting a [NavigateMsg]. Screens never change
// the workflow state themselves.
//
// Every message that leaves a screen asynchronously (navigation requests,
// collaborator results, countdown ticks) carries the navigation ticket taken
// when it was issued. The host drops messages whose ticket is no longer
// current, so a result that arrives after the user moved on is discarded.
package screen

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"edgelogin/internal/locale"
	"edgelogin/internal/logger"
	"edgelogin/internal/navigation"
	"edgelogin/internal/registry"
	"edgelogin/internal/session"
	"edgelogin/internal/userlist"
	"edgelogin/internal/validation"
)

// Default timings used when [Deps] leaves them zero.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 5 * time.Second
)

// Screen is a mounted scene.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
}

// Skipper is implemented by screens that handle SKIP themselves instead of
// letting the host dispatch it, such as the last scene of a workflow.
type Skipper interface {
	Skip() tea.Cmd
}

// Helper is implemented by screens that advertise key bindings.
type Helper interface {
	Bindings() []key.Binding
}

// Ticketed is implemented by messages that must be dropped once their
// ticket is no longer current.
type Ticketed interface {
	TicketOf() navigation.Ticket
}

// NavigateMsg asks the host to dispatch Intent.
type NavigateMsg struct {
	Ticket navigation.Ticket
	Intent navigation.Intent
}

// TicketOf implements [Ticketed].
func (m NavigateMsg) TicketOf() navigation.Ticket { return m.Ticket }

// Op names a collaborator request.
type Op string

// Collaborator requests.
const (
	OpLogin             Op = "login"
	OpLoginPIN          Op = "loginWithPIN"
	OpRecoveryQuestions Op = "recoveryQuestions"
	OpRecoveryLogin     Op = "loginWithRecovery"
	OpUsernameAvailable Op = "usernameAvailable"
	OpCreateAccount     Op = "createAccount"
	OpCheckOTP          Op = "checkOTPApproval"
	OpBackupCode        Op = "loginWithBackupCode"
	OpChangePassword    Op = "changePassword"
	OpChangePIN         Op = "changePIN"
	OpSetupRecovery     Op = "setupRecovery"
	OpDeleteUser        Op = "deleteLocalUser"
)

// ResultMsg delivers the outcome of a collaborator request.
type ResultMsg struct {
	Ticket  navigation.Ticket
	Op      Op
	Session *session.Session
	Value   any
	Err     error
}

// TicketOf implements [Ticketed].
func (m ResultMsg) TicketOf() navigation.Ticket { return m.Ticket }

// TickMsg is one step of a screen countdown or poll loop. Seq lets a screen
// ignore ticks from a loop it has since restarted.
type TickMsg struct {
	Ticket navigation.Ticket
	Tag    string
	Seq    int
}

// TicketOf implements [Ticketed].
func (m TickMsg) TicketOf() navigation.Ticket { return m.Ticket }

// Navigator is the read side of the navigation controller.
type Navigator interface {
	Ticket() navigation.Ticket
	State() navigation.State
	Registry() *registry.Registry
}

// Draft holds the account being created until the account exists.
type Draft struct {
	Username string
	Password string
	PIN      string
}

// Shared is the data scenes hand to each other within one login session.
type Shared struct {
	// Username is the user logging in or being recovered.
	Username string

	// Password is kept for OTP retries after a password login.
	Password string

	// RecoveryToken and Questions are set by the recovery token scene.
	RecoveryToken string
	Questions     []string

	// Voucher and ResetDate describe a pending OTP approval.
	Voucher   string
	ResetDate time.Time

	// Session is the logged-in session the resecure scenes act on.
	Session *session.Session

	Draft Draft
}

// ClearSecrets forgets everything typed by the user.
func (s *Shared) ClearSecrets() {
	s.Password = ""
	s.RecoveryToken = ""
	s.Draft = Draft{}
}

// Deps are the collaborators every screen uses.
type Deps struct {
	Session session.Collaborator
	Catalog *locale.Catalog
	Nav     Navigator

	// Users is the remembered-user list; nil disables it.
	Users *userlist.Store

	// Shared is created when nil.
	Shared *Shared

	AppName string

	// LandingText is shown under the password login form.
	LandingText string

	// ParentButton labels a key on the password login scene that leaves the
	// session, returning to the host application. Empty hides it.
	ParentButton string

	Timeout      time.Duration
	PollInterval time.Duration

	// Now and Tick default to time.Now and tea.Tick.
	Now  func() time.Time
	Tick func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

func (d *Deps) t(k locale.Key, args ...any) string {
	return d.Catalog.T(k, args...)
}

// navigate requests intent under the current ticket.
func (d *Deps) navigate(intent navigation.Intent) tea.Cmd {
	t := d.Nav.Ticket()
	return func() tea.Msg {
		return NavigateMsg{Ticket: t, Intent: intent}
	}
}

// call runs fn off the event loop and reports its result as a [ResultMsg].
func (d *Deps) call(op Op, fn func(ctx context.Context) (*session.Session, any, error)) tea.Cmd {
	t := d.Nav.Ticket()
	timeout := d.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s, v, err := fn(ctx)
		return ResultMsg{Ticket: t, Op: op, Session: s, Value: v, Err: err}
	}
}

// tick schedules one [TickMsg] after every.
func (d *Deps) tick(tag string, seq int, every time.Duration) tea.Cmd {
	t := d.Nav.Ticket()
	return d.Tick(every, func(time.Time) tea.Msg {
		return TickMsg{Ticket: t, Tag: tag, Seq: seq}
	})
}

// users returns the remembered users, most recent first.
func (d *Deps) users() []userlist.User {
	if d.Users == nil {
		return nil
	}
	list, err := d.Users.List()
	if err != nil {
		logger.Warn("failed to read user list", "error", err)
		return nil
	}
	return list
}

// remember records a successful login in the user list.
func (d *Deps) remember(s *session.Session) {
	if d.Users == nil || s == nil {
		return
	}
	u, err := d.Users.Get(s.Username)
	if err != nil {
		u = userlist.User{Username: s.Username}
	}
	u.PINEnabled = s.PINEnabled
	u.LastLogin = d.Now()
	if err := d.Users.Upsert(u); err != nil {
		logger.Warn("failed to update user list", "user", s.Username, "error", err)
	}
}

// authMessage returns the text for a failed request. fallback is used for
// recovery failures, whose wording depends on the scene.
func (d *Deps) authMessage(err error, fallback locale.Key) string {
	ae := session.AsAuthError(err)
	switch ae.Kind {
	case session.KindPassword:
		return d.t(locale.KeyInvalidPassword)
	case session.KindPIN:
		if ae.Wait > 0 {
			return d.t(locale.KeyAccountLockedFor, ae.Wait)
		}
		return d.t(locale.KeyInvalidPin)
	case session.KindPINDisabled:
		return d.t(locale.KeyPinNotEnabled)
	case session.KindUsernameTaken:
		return d.t(locale.KeyUsernameExistsError)
	case session.KindRecovery:
		return d.t(fallback)
	case session.KindInvalid:
		if k := validation.MessageKey(ae.Err); k != "" {
			return d.t(k)
		}
	case session.KindOTP:
		if errors.Is(err, session.ErrBackupCodeIncorrect) {
			return d.t(locale.KeyBackupKeyWrong)
		}
		return d.t(locale.KeyOTPHeader)
	}
	logger.Warn("request failed", "error", err)
	return d.t(locale.KeyNetworkError)
}

type factory func(d *Deps) Screen

// Renderer mounts screens by scene id.
type Renderer struct {
	deps    *Deps
	screens map[registry.SceneID]factory
}

// NewRenderer returns a renderer for every built-in scene.
func NewRenderer(deps Deps) *Renderer {
	if deps.Shared == nil {
		deps.Shared = &Shared{}
	}
	if deps.Timeout <= 0 {
		deps.Timeout = DefaultTimeout
	}
	if deps.PollInterval <= 0 {
		deps.PollInterval = DefaultPollInterval
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Tick == nil {
		deps.Tick = tea.Tick
	}
	if deps.AppName == "" && deps.Catalog != nil {
		deps.AppName = deps.Catalog.T(locale.KeyAppNameDefault)
	}

	return &Renderer{
		deps: &deps,
		screens: map[registry.SceneID]factory{
			registry.ScenePasswordLogin:      newPasswordLogin,
			registry.ScenePinLogin:           newPinLogin,
			registry.SceneNewAccountWelcome:  newAccountWelcome,
			registry.SceneNewAccountUsername: newAccountUsername,
			registry.SceneNewAccountPassword: newAccountPassword,
			registry.SceneNewAccountPin:      newAccountPin,
			registry.SceneNewAccountReview:   newAccountReview,
			registry.SceneRecoveryToken:      newRecoveryToken,
			registry.SceneRecoveryAnswers:    newRecoveryAnswers,
			registry.SceneChangePassword:     newChangePassword,
			registry.SceneRecoverySetup:      newRecoverySetup,
			registry.SceneChangePin:          newChangePin,
			registry.SceneOTPError:           newOTPError,
		},
	}
}

// Mount creates the screen for id.
func (r *Renderer) Mount(id registry.SceneID) (Screen, error) {
	f, ok := r.screens[id]
	if !ok {
		return nil, fmt.Errorf("mount %q: %w", id, registry.ErrUnknownSceneID)
	}
	return f(r.deps), nil
}

// Known lists the scene ids the renderer can mount, sorted.
func (r *Renderer) Known() []registry.SceneID {
	ids := make([]registry.SceneID, 0, len(r.screens))
	for id := range r.screens {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Shared returns the data shared between scenes.
func (r *Renderer) Shared() *Shared {
	return r.deps.Shared
}

// AppName returns the branded application name screens display.
func (r *Renderer) AppName() string {
	return r.deps.AppName
}
