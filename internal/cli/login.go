package cli

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"edgelogin/internal/logger"
	"edgelogin/internal/navigation"
	"edgelogin/internal/registry"
	"edgelogin/internal/tui"
)

// loginOptions are the flags shared by the root and login commands. Empty
// values fall back to the login section of the config.
type loginOptions struct {
	entry    string
	username string
}

func (o *loginOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.entry, "entry", "e", "", "starting workflow (login, pin, createAccount, recovery, resecure, otp)")
	cmd.Flags().StringVarP(&o.username, "user", "u", "", "preselect a remembered user")
}

func newLoginCommand(app *App) *cobra.Command {
	opts := &loginOptions{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Run the interactive login session",
		Long: `Run the interactive login session.

Without --entry the session starts at PIN login when a remembered user has a
PIN, otherwise at password login. Exits 0 once logged in and 2 when the
session is left without logging in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, app, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runLogin(cmd *cobra.Command, app *App, opts *loginOptions) error {
	cfg := app.Config
	reg, err := app.Registry()
	if err != nil {
		app.Printer.Error("Failed to load workflows: %v", err)
		return NewExitError(ExitCodeError)
	}
	cat, err := app.Catalog()
	if err != nil {
		app.Printer.Error("%v", err)
		return NewExitError(ExitCodeError)
	}

	entry := opts.entry
	if entry == "" {
		entry = cfg.Login.EntryWorkflow
	}
	username := opts.username
	if username == "" {
		username = cfg.Login.Username
	}

	tuiOpts := []tui.Option{
		tui.WithRegistry(reg),
		tui.WithCatalog(cat),
		tui.WithUsers(app.Users),
		tui.WithBranding(cfg.Branding.AppName, cfg.Branding.LandingText, cfg.Branding.ParentButton),
		tui.WithTimings(cfg.Login.RequestTimeout, cfg.OTP.PollInterval),
		tui.WithEntry(registry.WorkflowID(entry), username),
	}
	if cfg.Output.AltScreen {
		tuiOpts = append(tuiOpts, tui.WithProgramOptions(tea.WithAltScreen()))
	}

	m, err := tui.New(app.Session, tuiOpts...)
	if err != nil {
		app.Printer.Error("Failed to start login: %v", err)
		return NewExitError(ExitCodeError)
	}

	runSession := app.RunSession
	if runSession == nil {
		runSession = tui.Run
	}
	out, err := runSession(cmd.Context(), m)
	if err != nil {
		app.Printer.Error("Login session failed: %v", err)
		return NewExitError(ExitCodeError)
	}

	if out.Kind != navigation.OutcomeComplete || out.Session == nil {
		logger.Info("login session left", "outcome", out.Kind.String())
		app.Printer.Warning("Login canceled")
		return NewExitError(ExitCodeCanceled)
	}

	s := out.Session
	logger.Info("login session completed", "username", s.Username, "via_recovery", s.ViaRecovery)
	app.Printer.Success("Logged in as %s", s.Username)
	app.Printer.KeyValue(
		[2]string{"Login ID", s.LoginID},
		[2]string{"PIN login", strconv.FormatBool(s.PINEnabled)},
		[2]string{"Two-factor", strconv.FormatBool(s.OTPEnabled)},
	)
	return nil
}
