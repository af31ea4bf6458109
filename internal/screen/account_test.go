package screen

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgelogin/internal/navigation"
	"edgelogin/internal/registry"
	"edgelogin/internal/session"
	"edgelogin/internal/validation"
)

func TestAccountWelcome(t *testing.T) {
	h := newHarness(t, registry.WorkflowCreateAccount, 0)
	s := h.mount()
	assert.Contains(t, s.View(), "Welcome to Edge!")

	_, navs := drive(s, enter)
	assert.Equal(t, []navigation.Intent{navigation.Advance()}, intents(navs))
}

func TestAccountUsername(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		taken    []string
		wantNav  bool
		wantText string
		wantCall bool
	}{
		{name: "too short", input: "al", wantText: "Minimum 3 characters"},
		{name: "taken", input: "alice", taken: []string{"alice"}, wantText: "Username already exists", wantCall: true},
		{name: "free", input: "  carol ", wantNav: true, wantCall: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, registry.WorkflowCreateAccount, 1)
			h.mock.Taken = tt.taken
			s := h.mount()

			s, navs := typeInto(s, tt.input, enter)

			assert.Equal(t, tt.wantCall, len(h.mock.Calls) == 1)
			if tt.wantNav {
				assert.Equal(t, []navigation.Intent{navigation.Advance()}, intents(navs))
				assert.Equal(t, strings.TrimSpace(tt.input), h.shared.Draft.Username)
				return
			}
			assert.Empty(t, navs)
			assert.Contains(t, s.View(), tt.wantText)
			assert.Empty(t, h.shared.Draft.Username)
		})
	}
}

func TestAccountPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		wantText string
	}{
		{name: "weak", password: "password", confirm: "password", wantText: "Password doesn't meet requirements"},
		{name: "mismatch", password: "Passw0rd123", confirm: "Passw0rd124", wantText: "Does not match password"},
		{
			name:     "longer than bcrypt accepts",
			password: "Aa1" + strings.Repeat("x", 70),
			confirm:  "Aa1" + strings.Repeat("x", 70),
			wantText: "Too long. Use at most 72 bytes.",
		},
		{name: "valid", password: "Passw0rd123", confirm: "Passw0rd123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, registry.WorkflowCreateAccount, 2)
			s := h.mount()

			s, _ = typeInto(s, tt.password, enter)
			s, navs := typeInto(s, tt.confirm, enter)

			if tt.wantText == "" {
				assert.Equal(t, []navigation.Intent{navigation.Advance()}, intents(navs))
				assert.Equal(t, tt.password, h.shared.Draft.Password)
				return
			}
			assert.Empty(t, navs)
			assert.Contains(t, s.View(), tt.wantText)
			assert.Empty(t, h.shared.Draft.Password)
		})
	}
}

func TestAccountPassword_Checklist(t *testing.T) {
	h := newHarness(t, registry.WorkflowCreateAccount, 2)
	s := h.mount()

	assert.NotContains(t, s.View(), "✓")
	s, _ = typeInto(s, "abc")
	assert.Contains(t, s.View(), "✓")
	assert.NotContains(t, s.View(), "abc", "password is masked")
}

func draftAccount(h *harness) {
	h.shared.Draft = Draft{Username: "carol", Password: "Passw0rd123"}
}

func TestAccountPin_CreatesAccount(t *testing.T) {
	h := newHarness(t, registry.WorkflowCreateAccount, 3)
	draftAccount(h)
	s := h.mount()

	_, navs := typeInto(s, "2468")

	assert.Equal(t, []navigation.Intent{navigation.Advance()}, intents(navs))
	assert.Equal(t, []session.Call{{Method: "CreateAccount", Args: []string{"carol", "Passw0rd123", "2468"}}}, h.mock.Calls)
	require.NotNil(t, h.shared.Session)
	assert.Equal(t, "carol", h.shared.Username)
	assert.Equal(t, "2468", h.shared.Draft.PIN, "kept for the review screen")

	u, err := h.users.Get("carol")
	require.NoError(t, err)
	assert.True(t, u.PINEnabled)
}

func TestAccountPin_FailureWaitsForRetry(t *testing.T) {
	h := newHarness(t, registry.WorkflowCreateAccount, 3)
	draftAccount(h)
	h.mock.Errors = map[string]error{"CreateAccount": session.NewAuthError(session.KindNetwork)}
	s := h.mount()

	s, navs := typeInto(s, "2468")
	assert.Empty(t, navs)
	assert.Len(t, h.mock.Calls, 1, "a failed create is not retried automatically")
	assert.Contains(t, s.View(), "Error occurred creating account")
	assert.Contains(t, s.View(), "Try Again")

	// Digits do nothing until the user chooses.
	s, _ = typeInto(s, "1")
	assert.Len(t, h.mock.Calls, 1)

	h.mock.Errors = nil
	_, navs = drive(s, enter)
	assert.Equal(t, []navigation.Intent{navigation.Advance()}, intents(navs))
	assert.Len(t, h.mock.Calls, 2)
	assert.Equal(t, "2468", h.mock.Calls[1].Args[2])
}

func TestAccountPin_FailureErase(t *testing.T) {
	h := newHarness(t, registry.WorkflowCreateAccount, 3)
	draftAccount(h)
	h.mock.Errors = map[string]error{"CreateAccount": session.NewAuthError(session.KindNetwork)}
	s := h.mount()

	s, _ = typeInto(s, "2468", backspace)
	assert.False(t, s.(*accountPin).failed)
	assert.Zero(t, s.(*accountPin).pin.Len())
	assert.NotContains(t, s.View(), "Try Again")
}

func TestAccountPin_UsernameTaken(t *testing.T) {
	h := newHarness(t, registry.WorkflowCreateAccount, 3)
	draftAccount(h)
	h.mock.Errors = map[string]error{"CreateAccount": session.NewAuthError(session.KindUsernameTaken)}
	s := h.mount()

	s, navs := typeInto(s, "2468")
	assert.Empty(t, navs)
	assert.Contains(t, s.View(), "Username already exists")
	assert.False(t, s.(*accountPin).failed)
	assert.Zero(t, s.(*accountPin).pin.Len())
}

func TestAccountPin_RejectedInputIsNotRetried(t *testing.T) {
	h := newHarness(t, registry.WorkflowCreateAccount, 3)
	draftAccount(h)
	h.mock.Errors = map[string]error{
		"CreateAccount": &session.AuthError{Kind: session.KindInvalid, Err: validation.ErrSecretTooLong},
	}
	s := h.mount()

	s, navs := typeInto(s, "2468")
	assert.Empty(t, navs)
	assert.Contains(t, s.View(), "Too long. Use at most 72 bytes.")
	assert.NotContains(t, s.View(), "Try Again")
	assert.False(t, s.(*accountPin).failed)
	assert.Zero(t, s.(*accountPin).pin.Len())
}

func TestAccountReview(t *testing.T) {
	h := newHarness(t, registry.WorkflowCreateAccount, 4)
	h.shared.Draft = Draft{Username: "carol", Password: "Passw0rd123", PIN: "2468"}
	sess := &session.Session{Username: "carol", LoginID: "id"}
	h.shared.Session = sess
	s := h.mount()

	view := s.View()
	assert.Contains(t, view, "carol")
	assert.NotContains(t, view, "Passw0rd123")
	assert.NotContains(t, view, "2468")

	s, _ = drive(s, ctrlKey(tea.KeyCtrlV))
	assert.Contains(t, s.View(), "Passw0rd123")
	assert.Contains(t, s.View(), "2468")

	_, navs := drive(s, enter)
	require.Len(t, navs, 1)
	assert.Equal(t, navigation.Complete(sess), navs[0].Intent)
	assert.Equal(t, Draft{}, h.shared.Draft)
}
