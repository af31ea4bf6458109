package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"edgelogin/internal/config"
	"edgelogin/internal/navigation"
	"edgelogin/internal/output"
	"edgelogin/internal/registry"
	"edgelogin/internal/session"
	"edgelogin/internal/tui"
	"edgelogin/internal/userlist"
	"edgelogin/internal/vault"
)

// MockSessionRunner stands in for the interactive program.
type MockSessionRunner struct {
	// Outcome and Err are returned from every run.
	Outcome navigation.Outcome
	Err     error

	// Started records the workflow each session started at.
	Started []registry.WorkflowID

	// Options records the program options each run received.
	Options [][]tea.ProgramOption
}

func (m *MockSessionRunner) Run(ctx context.Context, model *tui.Model, opts ...tea.ProgramOption) (navigation.Outcome, error) {
	m.Started = append(m.Started, model.Controller().State().Workflow)
	m.Options = append(m.Options, opts)
	return m.Outcome, m.Err
}

// newTestApp builds an App over a temp vault and user list, printing to the
// returned buffer.
func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	v, err := vault.New(dir, vault.WithCost(bcrypt.MinCost))
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Storage.DataDir = dir
	cfg.Output.AltScreen = false

	buf := &bytes.Buffer{}
	return &App{
		Config:  cfg,
		Printer: output.NewPrinterWithWriter(buf),
		Vault:   v,
		Session: v,
		Users:   userlist.NewStore(filepath.Join(dir, "users.yaml")),
	}, buf
}

// execute runs the command line against app and returns its result.
func execute(app *App, args ...string) ExecuteResult {
	cmd := NewRootCommand(app)
	cmd.SetOut(app.Printer.Writer())
	cmd.SetErr(app.Printer.Writer())
	return run(context.Background(), cmd, args)
}

// mustCreateAccount registers username with the vault behind app.
func mustCreateAccount(t *testing.T, app *App, username string) *session.Session {
	t.Helper()
	s, err := app.Vault.CreateAccount(context.Background(), username, "Passw0rd123", "1234")
	require.NoError(t, err)
	return s
}
