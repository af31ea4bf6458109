package vault

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"edgelogin/internal/session"
	"edgelogin/internal/validation"
)

// fakeClock is a settable clock.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestVault(t *testing.T, dir, device string, clock *fakeClock) *Vault {
	t.Helper()
	v, err := New(dir, WithCost(bcrypt.MinCost), WithDeviceID(device), WithClock(clock.now))
	require.NoError(t, err)
	return v
}

func createAlice(t *testing.T, v *Vault) *session.Session {
	t.Helper()
	s, err := v.CreateAccount(context.Background(), "Alice", "Passw0rd123", "1234")
	require.NoError(t, err)
	return s
}

func TestNew_PersistsDeviceID(t *testing.T) {
	dir := t.TempDir()

	first, err := New(dir)
	require.NoError(t, err)
	second, err := New(dir)
	require.NoError(t, err)

	assert.NotEmpty(t, first.DeviceID())
	assert.Equal(t, first.DeviceID(), second.DeviceID())
}

func TestCreateAccountAndLogin(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	v := newTestVault(t, t.TempDir(), "dev-a", clock)

	ok, err := v.UsernameAvailable(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	created := createAlice(t, v)
	assert.Equal(t, "Alice", created.Username)
	assert.True(t, created.PINEnabled)
	assert.NotEmpty(t, created.LoginID)

	ok, err = v.UsernameAvailable(ctx, " ALICE ")
	require.NoError(t, err)
	assert.False(t, ok, "usernames are case-insensitive")

	_, err = v.CreateAccount(ctx, "alice", "Other0000000", "9999")
	assert.True(t, session.IsKind(err, session.KindUsernameTaken))

	s, err := v.Login(ctx, "alice", "Passw0rd123")
	require.NoError(t, err)
	assert.Equal(t, created.LoginID, s.LoginID)
	assert.False(t, s.RecoveryConfigured)

	_, err = v.Login(ctx, "alice", "wrong")
	assert.True(t, session.IsKind(err, session.KindPassword))

	_, err = v.Login(ctx, "nobody", "Passw0rd123")
	assert.True(t, session.IsKind(err, session.KindPassword))
}

func TestLoginWithPIN_Backoff(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	v := newTestVault(t, t.TempDir(), "dev-a", clock)
	createAlice(t, v)

	// Two free failures.
	for i := 0; i < 2; i++ {
		_, err := v.LoginWithPIN(ctx, "alice", "0000")
		ae := session.AsAuthError(err)
		require.Equal(t, session.KindPIN, ae.Kind)
		assert.Zero(t, ae.Wait)
	}

	// Third failure locks for five seconds.
	_, err := v.LoginWithPIN(ctx, "alice", "0000")
	ae := session.AsAuthError(err)
	require.Equal(t, session.KindPIN, ae.Kind)
	assert.Equal(t, 5, ae.Wait)

	// Even the right PIN is refused while locked.
	clock.advance(2 * time.Second)
	_, err = v.LoginWithPIN(ctx, "alice", "1234")
	ae = session.AsAuthError(err)
	assert.Equal(t, session.KindPIN, ae.Kind)
	assert.Equal(t, 3, ae.Wait)

	// Fourth failure doubles the lockout.
	clock.advance(3 * time.Second)
	_, err = v.LoginWithPIN(ctx, "alice", "0000")
	assert.Equal(t, 10, session.AsAuthError(err).Wait)

	clock.advance(10 * time.Second)
	s, err := v.LoginWithPIN(ctx, "alice", "1234")
	require.NoError(t, err)
	assert.Equal(t, "Alice", s.Username)

	// Success resets the counter.
	_, err = v.LoginWithPIN(ctx, "alice", "0000")
	assert.Zero(t, session.AsAuthError(err).Wait)
}

func TestPinLockout(t *testing.T) {
	tests := []struct {
		failures int
		want     time.Duration
	}{
		{0, 0},
		{2, 0},
		{3, 5 * time.Second},
		{4, 10 * time.Second},
		{8, 160 * time.Second},
		{9, 5 * time.Minute},
		{60, 5 * time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pinLockout(tt.failures), "failures=%d", tt.failures)
	}
}

func TestLoginWithPIN_Disabled(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Now()}
	v := newTestVault(t, t.TempDir(), "dev-a", clock)
	createAlice(t, v)

	require.NoError(t, v.DeleteLocalUser(ctx, "alice"))

	_, err := v.LoginWithPIN(ctx, "alice", "1234")
	assert.True(t, session.IsKind(err, session.KindPINDisabled))

	_, err = v.LoginWithPIN(ctx, "nobody", "1234")
	assert.True(t, session.IsKind(err, session.KindPINDisabled))

	// Password login still works; the account itself is untouched.
	_, err = v.Login(ctx, "alice", "Passw0rd123")
	assert.NoError(t, err)
}

func TestRecovery(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Now()}
	v := newTestVault(t, t.TempDir(), "dev-a", clock)
	s := createAlice(t, v)

	questions := []string{"change_recovery_question1", "change_recovery_question4"}
	token, err := v.SetupRecovery(ctx, s, questions, []string{"Rex!", "Paris"})
	require.NoError(t, err)
	assert.Len(t, token, 32)

	got, err := v.RecoveryQuestions(ctx, token, "alice")
	require.NoError(t, err)
	assert.Equal(t, questions, got)

	_, err = v.RecoveryQuestions(ctx, "bad-token", "alice")
	assert.True(t, session.IsKind(err, session.KindRecovery))

	_, err = v.LoginWithRecovery(ctx, token, "alice", []string{"rex!", "Paris"})
	assert.True(t, session.IsKind(err, session.KindRecovery), "answers are case sensitive")

	rs, err := v.LoginWithRecovery(ctx, token, "alice", []string{"Rex!", "Paris"})
	require.NoError(t, err)
	assert.True(t, rs.ViaRecovery)
	assert.True(t, rs.RecoveryConfigured)

	_, err = v.SetupRecovery(ctx, s, questions, []string{"only one"})
	assert.Error(t, err)
}

func TestChangePasswordAndPIN(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Now()}
	v := newTestVault(t, t.TempDir(), "dev-a", clock)
	s := createAlice(t, v)

	require.NoError(t, v.ChangePassword(ctx, s, "NewPassw0rd1"))
	require.NoError(t, v.ChangePIN(ctx, s, "5678"))

	_, err := v.Login(ctx, "alice", "Passw0rd123")
	assert.True(t, session.IsKind(err, session.KindPassword))
	_, err = v.Login(ctx, "alice", "NewPassw0rd1")
	assert.NoError(t, err)
	_, err = v.LoginWithPIN(ctx, "alice", "5678")
	assert.NoError(t, err)

	forged := *s
	forged.LoginID = "someone-else"
	assert.Error(t, v.ChangePIN(ctx, &forged, "0000"))
	assert.Error(t, v.ChangePIN(ctx, nil, "0000"))
}

func TestSecretsOverByteLimit(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Now()}
	v := newTestVault(t, t.TempDir(), "dev-a", clock)
	long := "Aa1" + strings.Repeat("x", 77)
	require.True(t, validation.CheckPassword(long).OK(), "meets the checklist")

	_, err := v.CreateAccount(ctx, "bob", long, "1234")
	assert.True(t, session.IsKind(err, session.KindInvalid))
	assert.ErrorIs(t, err, validation.ErrSecretTooLong)
	ok, err := v.UsernameAvailable(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, ok, "nothing is stored for a rejected account")

	s := createAlice(t, v)
	err = v.ChangePassword(ctx, s, long)
	assert.True(t, session.IsKind(err, session.KindInvalid))
	_, err = v.Login(ctx, "alice", "Passw0rd123")
	assert.NoError(t, err, "old password still works")

	_, err = v.SetupRecovery(ctx, s, []string{"change_recovery_question1"}, []string{strings.Repeat("a", 73)})
	assert.True(t, session.IsKind(err, session.KindInvalid))
	assert.ErrorIs(t, err, validation.ErrSecretTooLong)
}

func TestOTP_VoucherApproval(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	home := newTestVault(t, dir, "dev-home", clock)
	createAlice(t, home)

	_, err := home.EnableOTP("alice")
	require.NoError(t, err)

	// The home device stays approved.
	_, err = home.Login(ctx, "alice", "Passw0rd123")
	require.NoError(t, err)

	// A new device gets a voucher.
	phone := newTestVault(t, dir, "dev-phone", clock)
	_, err = phone.Login(ctx, "alice", "Passw0rd123")
	ae := session.AsAuthError(err)
	require.Equal(t, session.KindOTP, ae.Kind)
	require.NotEmpty(t, ae.Voucher)
	assert.Equal(t, clock.t.Add(7*24*time.Hour), ae.ResetDate)

	// Retrying reuses the pending voucher.
	_, err = phone.Login(ctx, "alice", "Passw0rd123")
	assert.Equal(t, ae.Voucher, session.AsAuthError(err).Voucher)

	approved, err := phone.CheckOTPApproval(ctx, ae.Voucher)
	require.NoError(t, err)
	assert.False(t, approved)

	vouchers, err := home.Vouchers()
	require.NoError(t, err)
	require.Len(t, vouchers, 1)
	assert.Equal(t, "dev-phone", vouchers[0].DeviceID)

	_, err = home.Approve(ae.Voucher)
	require.NoError(t, err)

	approved, err = phone.CheckOTPApproval(ctx, ae.Voucher)
	require.NoError(t, err)
	assert.True(t, approved)

	_, err = phone.Login(ctx, "alice", "Passw0rd123")
	require.NoError(t, err)

	// Settled vouchers are removed.
	vouchers, err = home.Vouchers()
	require.NoError(t, err)
	assert.Empty(t, vouchers)

	_, err = home.Approve("missing")
	assert.True(t, errors.Is(err, ErrVoucherNotFound))
}

func TestOTP_ResetDatePasses(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	home := newTestVault(t, dir, "dev-home", clock)
	createAlice(t, home)
	_, err := home.EnableOTP("alice")
	require.NoError(t, err)

	phone := newTestVault(t, dir, "dev-phone", clock)
	_, err = phone.Login(ctx, "alice", "Passw0rd123")
	require.True(t, session.IsKind(err, session.KindOTP))

	clock.advance(7*24*time.Hour + time.Second)

	_, err = phone.Login(ctx, "alice", "Passw0rd123")
	assert.NoError(t, err)
}

func TestOTP_CustomResetPeriod(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	home := newTestVault(t, dir, "dev-home", clock)
	createAlice(t, home)
	_, err := home.EnableOTP("alice")
	require.NoError(t, err)

	phone, err := New(dir, WithCost(bcrypt.MinCost), WithDeviceID("dev-phone"),
		WithClock(clock.now), WithResetPeriod(time.Hour))
	require.NoError(t, err)
	_, err = phone.Login(ctx, "alice", "Passw0rd123")
	ae := session.AsAuthError(err)
	require.NotNil(t, ae)
	assert.Equal(t, clock.t.Add(time.Hour), ae.ResetDate)

	clock.advance(time.Hour + time.Second)
	_, err = phone.Login(ctx, "alice", "Passw0rd123")
	assert.NoError(t, err)
}

func TestOTP_BackupCode(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	clock := &fakeClock{t: time.Now()}
	home := newTestVault(t, dir, "dev-home", clock)
	createAlice(t, home)
	code, err := home.EnableOTP("alice")
	require.NoError(t, err)
	assert.Len(t, code, 8)

	phone := newTestVault(t, dir, "dev-phone", clock)
	_, err = phone.Login(ctx, "alice", "Passw0rd123")
	voucher := session.AsAuthError(err).Voucher

	_, err = phone.LoginWithBackupCode(ctx, "alice", "Passw0rd123", "WRONG123")
	require.ErrorIs(t, err, session.ErrBackupCodeIncorrect)
	assert.Equal(t, voucher, session.AsAuthError(err).Voucher)

	s, err := phone.LoginWithBackupCode(ctx, "alice", "Passw0rd123", " "+code[:4]+" "+code[4:])
	require.NoError(t, err)
	assert.True(t, s.OTPEnabled)

	_, err = phone.Login(ctx, "alice", "Passw0rd123")
	assert.NoError(t, err, "device approved by backup code")

	_, err = phone.CheckOTPApproval(ctx, voucher)
	assert.ErrorIs(t, err, ErrVoucherNotFound)
}

func TestCanceledContext(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	v := newTestVault(t, t.TempDir(), "dev-a", clock)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Login(ctx, "alice", "x")
	assert.True(t, session.IsKind(err, session.KindNetwork))
	assert.ErrorIs(t, err, context.Canceled)
}
