package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgelogin/internal/locale"
	"edgelogin/internal/navigation"
	"edgelogin/internal/registry"
	"edgelogin/internal/session"
	"edgelogin/internal/validation"
)

func recovered(h *harness, configured bool) *session.Session {
	sess := &session.Session{Username: "alice", LoginID: "id", ViaRecovery: true, RecoveryConfigured: configured}
	h.shared.Session = sess
	h.shared.Username = "alice"
	return sess
}

func TestChangePassword(t *testing.T) {
	tests := []struct {
		name       string
		configured bool
		want       navigation.Intent
	}{
		{"recovery not configured", false, navigation.Advance()},
		{"recovery configured", true, navigation.JumpTo(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, registry.WorkflowResecure, 0)
			recovered(h, tt.configured)
			s := h.mount()
			assert.Contains(t, s.View(), "Recovery successful!")

			s, _ = typeInto(s, "N3wPassword!", enter)
			_, navs := typeInto(s, "N3wPassword!", enter)

			assert.Equal(t, []navigation.Intent{tt.want}, intents(navs))
			assert.Equal(t, []session.Call{{Method: "ChangePassword", Args: []string{"alice", "N3wPassword!"}}}, h.mock.Calls)
		})
	}
}

func TestChangePassword_Rejected(t *testing.T) {
	h := newHarness(t, registry.WorkflowResecure, 0)
	recovered(h, false)
	s := h.mount()

	s, _ = typeInto(s, "short", enter)
	s, navs := typeInto(s, "short", enter)

	assert.Empty(t, navs)
	assert.Empty(t, h.mock.Calls)
	assert.Contains(t, s.View(), "Password doesn't meet requirements")
}

func TestChangePassword_BackendRejectsInput(t *testing.T) {
	h := newHarness(t, registry.WorkflowResecure, 0)
	recovered(h, false)
	h.mock.Errors = map[string]error{
		"ChangePassword": &session.AuthError{Kind: session.KindInvalid, Err: validation.ErrSecretTooLong},
	}
	s := h.mount()

	s, _ = typeInto(s, "N3wPassword!", enter)
	s, navs := typeInto(s, "N3wPassword!", enter)

	assert.Empty(t, navs)
	assert.Contains(t, s.View(), "Too long. Use at most 72 bytes.")
	assert.NotContains(t, s.View(), "Unable to reach the login server")
}

func TestRecoverySetup_CycleSkipsOtherChoice(t *testing.T) {
	h := newHarness(t, registry.WorkflowResecure, 1)
	recovered(h, false)
	s := h.mount()
	rs := s.(*recoverySetup)
	require.Equal(t, [2]int{0, 1}, rs.question)

	s, _ = drive(s, right)
	assert.Equal(t, 2, rs.question[0], "question 1 is taken by the second selector")

	s, _ = drive(s, left)
	assert.Equal(t, 0, rs.question[0])

	drive(s, left)
	assert.Equal(t, len(locale.RecoveryQuestions)-1, rs.question[0], "wraps around")
}

func TestRecoverySetup_SavesAndShowsToken(t *testing.T) {
	h := newHarness(t, registry.WorkflowResecure, 1)
	sess := recovered(h, false)
	h.mock.RecoveryToken = "RT-42"
	s := h.mount()

	s, _ = drive(s, right)
	s, _ = drive(s, tab)
	s, _ = typeInto(s, "blue", enter, enter)
	s, navs := typeInto(s, "rover", enter)
	assert.Empty(t, navs)

	require.Len(t, h.mock.Calls, 1)
	assert.Equal(t, []string{"alice", string(locale.RecoveryQuestions[2]), string(locale.RecoveryQuestions[1]), "blue", "rover"}, h.mock.Calls[0].Args)
	assert.True(t, sess.RecoveryConfigured)
	assert.Contains(t, s.View(), "RT-42")

	_, navs = drive(s, enter)
	assert.Equal(t, []navigation.Intent{navigation.Advance()}, intents(navs))
}

func TestRecoverySetup_ShortAnswer(t *testing.T) {
	h := newHarness(t, registry.WorkflowResecure, 1)
	recovered(h, false)
	s := h.mount()

	s, _ = drive(s, tab)
	s, _ = typeInto(s, "blue", enter, enter)
	s, _ = typeInto(s, "no", enter)

	assert.Empty(t, h.mock.Calls)
	assert.Contains(t, s.View(), "Answers should be minimum of 4 characters")
	assert.Equal(t, 3, s.(*recoverySetup).focus)
}

func TestChangePin_Completes(t *testing.T) {
	h := newHarness(t, registry.WorkflowResecure, 2)
	sess := recovered(h, true)
	s := h.mount()

	_, navs := typeInto(s, "1357")

	require.Len(t, navs, 1)
	assert.Equal(t, navigation.Complete(sess), navs[0].Intent)
	assert.Equal(t, []session.Call{{Method: "ChangePIN", Args: []string{"alice", "1357"}}}, h.mock.Calls)
	assert.True(t, sess.PINEnabled)

	u, err := h.users.Get("alice")
	require.NoError(t, err)
	assert.True(t, u.PINEnabled)
}

func TestChangePin_Skip(t *testing.T) {
	h := newHarness(t, registry.WorkflowResecure, 2)
	sess := recovered(h, true)
	s := h.mount()

	skipper, ok := s.(Skipper)
	require.True(t, ok)
	msgs := run(skipper.Skip())

	require.Len(t, msgs, 1)
	assert.Equal(t, navigation.Complete(sess), msgs[0].(NavigateMsg).Intent)
	assert.Empty(t, h.mock.Calls)
}

func TestChangePin_SkipWithoutSessionExits(t *testing.T) {
	h := newHarness(t, registry.WorkflowResecure, 2)
	s := h.mount()

	msgs := run(s.(Skipper).Skip())

	require.Len(t, msgs, 1)
	assert.Equal(t, navigation.Exit(), msgs[0].(NavigateMsg).Intent)
}
