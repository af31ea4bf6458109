// Package tui runs a login session as a bubbletea program.
//
// The [Model] is the single writer of the navigation controller. It mounts
// the screen for the current scene, draws the chrome above it and turns the
// screens' navigation requests into intents. Messages carrying a ticket that
// is no longer current are dropped before any screen sees them.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"edgelogin/internal/header"
	"edgelogin/internal/locale"
	"edgelogin/internal/logger"
	"edgelogin/internal/navigation"
	"edgelogin/internal/registry"
	"edgelogin/internal/screen"
	"edgelogin/internal/session"
	"edgelogin/internal/userlist"
)

// ErrNoSession is returned by [New] without a session collaborator.
var ErrNoSession = errors.New("tui: a session collaborator is required")

// ErrFollowUpEntry is returned by [New] when the entry workflow only
// continues a login already in progress.
var ErrFollowUpEntry = errors.New("tui: workflow cannot start a session")

// followUp lists workflows entered from another workflow's result: resecure
// needs the session of a recovery login, otp the voucher of a refused
// password login.
var followUp = map[registry.WorkflowID]bool{
	registry.WorkflowResecure: true,
	registry.WorkflowOTP:      true,
}

// Config controls how a login session is assembled.
type Config struct {
	Registry *registry.Registry
	Catalog  *locale.Catalog

	// Users is the remembered-user list; nil disables PIN entry selection.
	Users *userlist.Store

	AppName      string
	LandingText  string
	ParentButton string
	Timeout      time.Duration
	PollInterval time.Duration

	// Entry is the starting workflow. When empty, PIN login is chosen if a
	// remembered user has a PIN, otherwise password login.
	Entry registry.WorkflowID

	// Username preselects a remembered user.
	Username string

	// OnComplete receives the outcome once the session ends.
	OnComplete navigation.CompletionFunc

	ProgramOptions []tea.ProgramOption
}

// Option mutates Config during construction.
type Option func(*Config)

// WithRegistry replaces the built-in workflow table.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *Config) { c.Registry = reg }
}

// WithCatalog sets the message catalog.
func WithCatalog(cat *locale.Catalog) Option {
	return func(c *Config) { c.Catalog = cat }
}

// WithUsers sets the remembered-user list.
func WithUsers(users *userlist.Store) Option {
	return func(c *Config) { c.Users = users }
}

// WithBranding sets the application name, the landing text under the
// password form and the label of the key that returns to the host.
func WithBranding(appName, landingText, parentButton string) Option {
	return func(c *Config) {
		c.AppName = appName
		c.LandingText = landingText
		c.ParentButton = parentButton
	}
}

// WithTimings sets the request timeout and the OTP poll interval.
func WithTimings(timeout, poll time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
		c.PollInterval = poll
	}
}

// WithEntry sets the starting workflow and preselected user.
func WithEntry(entry registry.WorkflowID, username string) Option {
	return func(c *Config) {
		c.Entry = entry
		c.Username = username
	}
}

// WithCompletion sets the outcome callback.
func WithCompletion(fn navigation.CompletionFunc) Option {
	return func(c *Config) { c.OnComplete = fn }
}

// WithProgramOptions appends tea.Program options.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(c *Config) { c.ProgramOptions = append(c.ProgramOptions, opts...) }
}

// ChooseEntry picks the starting workflow for a session.
//
// An explicit entry wins. Otherwise PIN login is used when the named user,
// or with no name any remembered user, has PIN login enabled.
func ChooseEntry(users *userlist.Store, entry registry.WorkflowID, username string) registry.WorkflowID {
	if entry != "" {
		return entry
	}
	if users == nil {
		return registry.WorkflowLogin
	}
	list, err := users.List()
	if err != nil {
		logger.Warn("failed to read user list", "path", users.Path(), "error", err)
		return registry.WorkflowLogin
	}
	for _, u := range list {
		if username != "" && !strings.EqualFold(u.Username, username) {
			continue
		}
		if u.PINEnabled {
			return registry.WorkflowPin
		}
	}
	return registry.WorkflowLogin
}

// Model hosts one login session.
type Model struct {
	ctrl     *navigation.Controller
	renderer *screen.Renderer
	catalog  *locale.Catalog
	programs []tea.ProgramOption

	screen screen.Screen
	chrome header.Chrome

	keys  keyMap
	help  help.Model
	width int

	// err is the configuration error that stopped the session.
	err error
}

// New assembles a session against collaborator.
func New(collaborator session.Collaborator, opts ...Option) (*Model, error) {
	if collaborator == nil {
		return nil, ErrNoSession
	}
	cfg := Config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Registry == nil {
		cfg.Registry = registry.NewRegistry()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = locale.NewCatalog()
	}

	entry := ChooseEntry(cfg.Users, cfg.Entry, cfg.Username)
	if followUp[entry] {
		return nil, fmt.Errorf("%w: %s", ErrFollowUpEntry, entry)
	}
	ctrl, err := navigation.NewControllerAt(cfg.Registry, entry)
	if err != nil {
		return nil, err
	}
	ctrl.SetCompletion(cfg.OnComplete)
	ctrl.SetTransitionObserver(func(from, to navigation.State, intent navigation.Intent) {
		logger.Transition(from.String(), to.String(), intent.String())
	})

	renderer := screen.NewRenderer(screen.Deps{
		Session:      collaborator,
		Catalog:      cfg.Catalog,
		Nav:          ctrl,
		Users:        cfg.Users,
		Shared:       &screen.Shared{Username: cfg.Username},
		AppName:      cfg.AppName,
		LandingText:  cfg.LandingText,
		ParentButton: cfg.ParentButton,
		Timeout:      cfg.Timeout,
		PollInterval: cfg.PollInterval,
	})

	m := &Model{
		ctrl:     ctrl,
		renderer: renderer,
		catalog:  cfg.Catalog,
		programs: cfg.ProgramOptions,
		keys: newKeyMap(
			cfg.Catalog.T(locale.KeyBack),
			cfg.Catalog.T(locale.KeySkip),
			cfg.Catalog.T(locale.KeyExit),
		),
		help: help.New(),
	}
	if err := m.mount(); err != nil {
		return nil, err
	}
	logger.Info("login session started", "workflow", entry, "app", renderer.AppName())
	return m, nil
}

// Controller returns the navigation controller the model drives.
func (m *Model) Controller() *navigation.Controller {
	return m.ctrl
}

// Err returns the configuration error that ended the session, if any.
func (m *Model) Err() error {
	return m.err
}

// mount replaces the screen with the one for the current scene.
func (m *Model) mount() error {
	state := m.ctrl.State()
	scene, err := m.ctrl.Scene()
	if err != nil {
		return err
	}
	chrome, err := header.Project(m.ctrl.Registry(), state, m.catalog, m.renderer.AppName())
	if err != nil {
		return err
	}
	s, err := m.renderer.Mount(scene.ID)
	if err != nil {
		return err
	}
	m.screen = s
	m.chrome = chrome
	return nil
}

// Init starts the first screen.
func (m *Model) Init() tea.Cmd {
	return m.screen.Init()
}

// Update routes msg to the host or the mounted screen.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.ctrl.Ended() || m.err != nil {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, m.dispatch(navigation.Exit())
		case key.Matches(msg, m.keys.Back) && m.chrome.ShowBack:
			return m, m.dispatch(navigation.Back())
		case key.Matches(msg, m.keys.Skip) && m.chrome.ShowSkip:
			if sk, ok := m.screen.(screen.Skipper); ok {
				return m, sk.Skip()
			}
			return m, m.dispatch(navigation.Skip())
		}
	}

	if t, ok := msg.(screen.Ticketed); ok && !m.ctrl.IsCurrent(t.TicketOf()) {
		logger.Debug("dropped superseded message",
			"type", fmt.Sprintf("%T", msg),
			"issued_at", t.TicketOf().State.String(),
			"current", m.ctrl.State().String())
		return m, nil
	}
	if nav, ok := msg.(screen.NavigateMsg); ok {
		return m, m.dispatch(nav.Intent)
	}

	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)
	return m, cmd
}

// dispatch applies intent and remounts the screen after a transition.
func (m *Model) dispatch(intent navigation.Intent) tea.Cmd {
	if err := m.ctrl.Dispatch(intent); err != nil {
		if navigation.IsMisuse(err) {
			logger.Warn("ignored navigation intent", "intent", intent.String(), "error", err)
			return nil
		}
		return m.fail(err)
	}
	if m.ctrl.Ended() {
		return tea.Quit
	}
	if err := m.mount(); err != nil {
		return m.fail(err)
	}
	return m.screen.Init()
}

func (m *Model) fail(err error) tea.Cmd {
	logger.Error("login session stopped", "state", m.ctrl.State().String(), "error", err)
	m.err = err
	return tea.Quit
}

// bindings lists the keys shown in the help bar.
func (m *Model) bindings() []key.Binding {
	var b []key.Binding
	if h, ok := m.screen.(screen.Helper); ok {
		b = append(b, h.Bindings()...)
	}
	if m.chrome.ShowBack {
		b = append(b, m.keys.Back)
	}
	if m.chrome.ShowSkip {
		b = append(b, m.keys.Skip)
	}
	return append(b, m.keys.Quit)
}

// View draws the chrome, the screen and the help bar.
func (m *Model) View() string {
	if m.ctrl.Ended() || m.err != nil {
		return ""
	}
	return header.View(m.chrome, m.width) + "\n\n" +
		m.screen.View() + "\n\n" +
		m.help.ShortHelpView(m.bindings()) + "\n"
}

// Run drives m until the session ends and returns its outcome.
//
// A user interrupt or a canceled ctx ends the session as an exit.
func Run(ctx context.Context, m *Model, opts ...tea.ProgramOption) (navigation.Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts = append(append([]tea.ProgramOption{tea.WithContext(ctx)}, m.programs...), opts...)
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return navigation.Outcome{}, fmt.Errorf("run login session: %w", err)
	}
	if fm, ok := final.(*Model); ok && fm != nil {
		m = fm
	}
	if m.err != nil {
		return navigation.Outcome{}, m.err
	}
	if out, ok := m.ctrl.Outcome(); ok {
		return out, nil
	}
	return navigation.Outcome{Kind: navigation.OutcomeExit}, nil
}
