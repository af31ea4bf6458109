// Package cli provides the command-line interface for edgelogin.
//
// The CLI is built on Cobra. The root command runs the interactive login
// session; subcommands inspect the workflow table and manage the local
// account store.
//
// Key types:
//   - [App] holds the dependencies shared by all commands
//   - [ExitError] carries an exit code out of a command without calling os.Exit
//
// Exit codes: 0 when the session completes or a command succeeds, 1 on
// errors, 2 when the user leaves the login session without logging in.
package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"edgelogin/internal/config"
	"edgelogin/internal/locale"
	"edgelogin/internal/logger"
	"edgelogin/internal/manifest"
	"edgelogin/internal/navigation"
	"edgelogin/internal/output"
	"edgelogin/internal/registry"
	"edgelogin/internal/session"
	"edgelogin/internal/tui"
	"edgelogin/internal/userlist"
	"edgelogin/internal/vault"
)

// Exit codes returned by [Execute].
const (
	ExitCodeOK       = 0
	ExitCodeError    = 1
	ExitCodeCanceled = 2
)

// SessionRunner drives an assembled login session to its outcome.
type SessionRunner func(ctx context.Context, m *tui.Model, opts ...tea.ProgramOption) (navigation.Outcome, error)

// App holds the dependencies shared by all commands.
type App struct {
	Config  *config.Config
	Printer *output.Printer

	// Vault is the local account store. Session defaults to it.
	Vault *vault.Vault

	// Session is the collaborator the login session talks to.
	Session session.Collaborator

	Users *userlist.Store

	// RunSession runs the interactive program; tests replace it.
	RunSession SessionRunner
}

// NewApp opens the account store and user list described by cfg.
func NewApp(cfg *config.Config) (*App, error) {
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, err
	}
	if err := logger.Configure(cfg.Log.Level, paths.LogFile, true); err != nil {
		return nil, err
	}

	v, err := vault.New(paths.DataDir, vault.WithResetPeriod(cfg.OTP.ResetWait))
	if err != nil {
		return nil, fmt.Errorf("failed to open account store: %w", err)
	}

	return &App{
		Config:     cfg,
		Printer:    output.NewPrinter(),
		Vault:      v,
		Session:    v,
		Users:      userlist.NewStore(userlist.ResolvePath(paths.DataDir, cfg.Storage.UsersFile)),
		RunSession: tui.Run,
	}, nil
}

// Registry returns the workflow table, read from the manifest files when
// they are configured.
func (a *App) Registry() (*registry.Registry, error) {
	m := a.Config.Manifest
	if !m.Enabled() {
		return registry.NewRegistry(), nil
	}
	scenes, err := manifest.ReadFromFile(m.ScenesPath)
	if err != nil {
		return nil, err
	}
	nav, err := manifest.ReadNavigationFromFile(m.BackTargetsPath)
	if err != nil {
		return nil, err
	}
	return registry.NewRegistryFromManifest(scenes, nav)
}

// Catalog returns the message catalog for the configured locale with the
// configured overrides applied.
func (a *App) Catalog() (*locale.Catalog, error) {
	cat := locale.NewCatalog(a.Config.Locale)
	for k, tmpl := range a.Config.Messages {
		if err := cat.Override(locale.Key(k), tmpl); err != nil {
			return nil, fmt.Errorf("invalid message override: %w", err)
		}
	}
	return cat, nil
}

// NewRootCommand creates the root command. Run without a subcommand it
// starts the login session.
func NewRootCommand(app *App) *cobra.Command {
	opts := &loginOptions{}
	rootCmd := &cobra.Command{
		Use:   "edgelogin",
		Short: "Wallet login in the terminal",
		Long: `edgelogin runs the wallet login flow in the terminal: password and PIN
login, account creation, password recovery and two-factor approval.

Accounts are kept in a local store. Use the subcommands to inspect the
workflow table and manage remembered users and device approvals.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, app, opts)
		},
	}
	opts.bind(rootCmd)

	rootCmd.AddCommand(
		newLoginCommand(app),
		newScenesCommand(app),
		newHeaderCommand(app),
		newValidateCommand(app),
		newUsersCommand(app),
		newApproveCommand(app),
		newOTPEnableCommand(app),
	)

	return rootCmd
}

// ExecuteResult is the outcome of a CLI run.
type ExecuteResult struct {
	ExitCode int
	Err      error
}

// RunWithConfig builds the application from cfg and runs the command line.
func RunWithConfig(cfg *config.Config) ExecuteResult {
	app, err := NewApp(cfg)
	if err != nil {
		return ExecuteResult{ExitCode: ExitCodeError, Err: err}
	}
	defer logger.Close()
	return run(context.Background(), NewRootCommand(app), os.Args[1:])
}

func run(ctx context.Context, cmd *cobra.Command, args []string) ExecuteResult {
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if code, ok := IsExitError(err); ok {
			return ExecuteResult{ExitCode: code, Err: err}
		}
		return ExecuteResult{ExitCode: ExitCodeError, Err: err}
	}
	return ExecuteResult{ExitCode: ExitCodeOK}
}

// Execute loads configuration, runs the CLI and exits the process.
func Execute() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(ExitCodeError)
	}

	result := RunWithConfig(cfg)
	if result.Err != nil {
		if _, ok := IsExitError(result.Err); !ok {
			fmt.Fprintf(os.Stderr, "Error: %v\n", result.Err)
		}
	}
	os.Exit(result.ExitCode)
}
