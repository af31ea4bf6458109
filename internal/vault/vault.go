// Package vault is a disk-backed account store that implements
// [session.Collaborator].
//
// It stands in for the wallet backend so the login flow can be used end to
// end: passwords, PINs, recovery answers and backup codes are stored as
// bcrypt hashes, accounts and vouchers are identified by UUIDs, and records
// are JSON documents in a flat diskv directory.
//
// Behavior mirrors what the screens expect from a real backend:
//   - Repeated wrong PINs lock the account with an increasing wait.
//   - Accounts with two-factor enabled refuse password logins from devices
//     that are not approved and hand out a voucher instead. The voucher is
//     approved with [Vault.Approve] (the "approve" command), with a backup
//     code, or automatically once its reset date passes.
//   - [Vault.DeleteLocalUser] only forgets this device: PIN login is turned
//     off and the device approval is revoked.
package vault

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"edgelogin/internal/session"
	"edgelogin/internal/validation"
)

const (
	// pinFreeAttempts is the failure count at which lockouts start.
	pinFreeAttempts = 3
	// pinBaseLockout is the first lockout, doubled on each further failure.
	pinBaseLockout = 5 * time.Second
	// pinMaxLockout caps the lockout.
	pinMaxLockout = 5 * time.Minute
	// defaultResetPeriod is how long an unapproved voucher takes to
	// auto-approve.
	defaultResetPeriod = 7 * 24 * time.Hour
)

const (
	userPrefix    = "user-"
	voucherPrefix = "voucher-"
	deviceKey     = "device"
)

// userNamespace derives stable record keys from usernames.
var userNamespace = uuid.MustParse("6f2f7a0c-9a4b-4bb5-9d0e-5b1f3b0c2e11")

// ErrVoucherNotFound is returned for an unknown voucher id.
var ErrVoucherNotFound = errors.New("voucher not found")

// record is the stored account.
type record struct {
	Username          string            `json:"username"`
	LoginID           string            `json:"login_id"`
	PasswordHash      []byte            `json:"password_hash"`
	PINHash           []byte            `json:"pin_hash,omitempty"`
	PINEnabled        bool              `json:"pin_enabled"`
	FailedPINs        int               `json:"failed_pins,omitempty"`
	LockedUntil       time.Time         `json:"locked_until,omitempty"`
	RecoveryToken     string            `json:"recovery_token,omitempty"`
	RecoveryQuestions []string          `json:"recovery_questions,omitempty"`
	AnswerHashes      [][]byte          `json:"answer_hashes,omitempty"`
	OTPEnabled        bool              `json:"otp_enabled"`
	BackupCodeHash    []byte            `json:"backup_code_hash,omitempty"`
	ApprovedDevices   []string          `json:"approved_devices,omitempty"`
	PendingVouchers   map[string]string `json:"pending_vouchers,omitempty"` // device id -> voucher id
	CreatedAt         time.Time         `json:"created_at"`
}

func (r *record) deviceApproved(id string) bool {
	for _, d := range r.ApprovedDevices {
		if d == id {
			return true
		}
	}
	return false
}

func (r *record) approveDevice(id string) {
	if !r.deviceApproved(id) {
		r.ApprovedDevices = append(r.ApprovedDevices, id)
	}
}

func (r *record) revokeDevice(id string) {
	kept := r.ApprovedDevices[:0]
	for _, d := range r.ApprovedDevices {
		if d != id {
			kept = append(kept, d)
		}
	}
	r.ApprovedDevices = kept
}

// Option configures a [Vault].
type Option func(*Vault)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(v *Vault) { v.now = now }
}

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(v *Vault) { v.cost = cost }
}

// WithDeviceID fixes the device id instead of loading or generating one.
func WithDeviceID(id string) Option {
	return func(v *Vault) { v.device = id }
}

// WithResetPeriod sets how long a voucher waits before it approves itself.
func WithResetPeriod(d time.Duration) Option {
	return func(v *Vault) {
		if d > 0 {
			v.reset = d
		}
	}
}

// Vault is a disk-backed account store.
type Vault struct {
	mu     sync.Mutex
	b      *bucket
	now    func() time.Time
	cost   int
	device string
	reset  time.Duration
}

var _ session.Collaborator = (*Vault)(nil)

// New opens the vault in dir, creating it if needed.
//
// The device id is read from the vault or generated on first use.
func New(dir string, opts ...Option) (*Vault, error) {
	v := &Vault{
		b:     newBucket(dir),
		now:   time.Now,
		cost:  bcrypt.DefaultCost,
		reset: defaultResetPeriod,
	}
	for _, opt := range opts {
		opt(v)
	}

	if v.device == "" {
		var id string
		err := v.b.get(deviceKey, &id)
		switch {
		case errors.Is(err, errNotFound):
			id = uuid.NewString()
			if err := v.b.set(deviceKey, id); err != nil {
				return nil, fmt.Errorf("failed to store device id: %w", err)
			}
		case err != nil:
			return nil, fmt.Errorf("failed to read device id: %w", err)
		}
		v.device = id
	}
	return v, nil
}

// DeviceID returns the id this device uses for OTP approval.
func (v *Vault) DeviceID() string {
	return v.device
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func userKey(username string) string {
	return userPrefix + uuid.NewSHA1(userNamespace, []byte(normalize(username))).String()
}

func (v *Vault) load(username string) (*record, error) {
	var r record
	if err := v.b.get(userKey(username), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (v *Vault) save(r *record) error {
	return v.b.set(userKey(r.Username), r)
}

// hash refuses secrets bcrypt would reject for length with a KindInvalid
// error, so callers never mistake them for a backend failure.
func (v *Vault) hash(secret string) ([]byte, error) {
	if err := validation.Secret(secret); err != nil {
		return nil, &session.AuthError{Kind: session.KindInvalid, Err: err}
	}
	return bcrypt.GenerateFromPassword([]byte(secret), v.cost)
}

func matches(hash []byte, secret string) bool {
	return len(hash) > 0 && bcrypt.CompareHashAndPassword(hash, []byte(secret)) == nil
}

func (v *Vault) sessionFor(r *record, viaRecovery bool) *session.Session {
	return &session.Session{
		Username:           r.Username,
		LoginID:            r.LoginID,
		PINEnabled:         r.PINEnabled,
		OTPEnabled:         r.OTPEnabled,
		RecoveryConfigured: r.RecoveryToken != "",
		ViaRecovery:        viaRecovery,
		LoggedInAt:         v.now(),
	}
}

// networkError wraps an unexpected storage failure.
func networkError(err error) error {
	return &session.AuthError{Kind: session.KindNetwork, Err: err}
}

// pinLockout returns the lockout after n consecutive failures.
func pinLockout(n int) time.Duration {
	if n < pinFreeAttempts {
		return 0
	}
	d := time.Duration(float64(pinBaseLockout) * math.Pow(2, float64(n-pinFreeAttempts)))
	if d > pinMaxLockout || d <= 0 {
		return pinMaxLockout
	}
	return d
}

// waitSeconds rounds a remaining duration up to whole seconds.
func waitSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

func (v *Vault) Login(ctx context.Context, username, password string) (*session.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, networkError(err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	r, err := v.load(username)
	if errors.Is(err, errNotFound) {
		return nil, session.NewAuthError(session.KindPassword)
	}
	if err != nil {
		return nil, networkError(err)
	}
	if !matches(r.PasswordHash, password) {
		return nil, session.NewAuthError(session.KindPassword)
	}

	if r.OTPEnabled && !r.deviceApproved(v.device) {
		pending, err := v.settleVoucher(r)
		if err != nil {
			return nil, networkError(err)
		}
		if pending != nil {
			return nil, pending.authError(nil)
		}
	}

	r.FailedPINs = 0
	r.LockedUntil = time.Time{}
	if err := v.save(r); err != nil {
		return nil, networkError(err)
	}
	return v.sessionFor(r, false), nil
}

func (v *Vault) LoginWithPIN(ctx context.Context, username, pin string) (*session.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, networkError(err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	r, err := v.load(username)
	if errors.Is(err, errNotFound) {
		return nil, session.NewAuthError(session.KindPINDisabled)
	}
	if err != nil {
		return nil, networkError(err)
	}
	if !r.PINEnabled || len(r.PINHash) == 0 {
		return nil, session.NewAuthError(session.KindPINDisabled)
	}

	now := v.now()
	if now.Before(r.LockedUntil) {
		return nil, &session.AuthError{Kind: session.KindPIN, Wait: waitSeconds(r.LockedUntil.Sub(now))}
	}

	if !matches(r.PINHash, pin) {
		r.FailedPINs++
		wait := pinLockout(r.FailedPINs)
		if wait > 0 {
			r.LockedUntil = now.Add(wait)
		}
		if err := v.save(r); err != nil {
			return nil, networkError(err)
		}
		return nil, &session.AuthError{Kind: session.KindPIN, Wait: waitSeconds(wait)}
	}

	r.FailedPINs = 0
	r.LockedUntil = time.Time{}
	if err := v.save(r); err != nil {
		return nil, networkError(err)
	}
	return v.sessionFor(r, false), nil
}

func (v *Vault) RecoveryQuestions(ctx context.Context, token, username string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, networkError(err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	r, err := v.recoverable(token, username)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), r.RecoveryQuestions...), nil
}

func (v *Vault) LoginWithRecovery(ctx context.Context, token, username string, answers []string) (*session.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, networkError(err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	r, err := v.recoverable(token, username)
	if err != nil {
		return nil, err
	}
	if len(answers) != len(r.AnswerHashes) {
		return nil, session.NewAuthError(session.KindRecovery)
	}
	for i, a := range answers {
		if !matches(r.AnswerHashes[i], a) {
			return nil, session.NewAuthError(session.KindRecovery)
		}
	}

	// Answering the questions proves ownership; approve this device.
	r.approveDevice(v.device)
	if err := v.save(r); err != nil {
		return nil, networkError(err)
	}
	return v.sessionFor(r, true), nil
}

// recoverable loads username and checks token against it.
func (v *Vault) recoverable(token, username string) (*record, error) {
	r, err := v.load(username)
	if errors.Is(err, errNotFound) {
		return nil, session.NewAuthError(session.KindRecovery)
	}
	if err != nil {
		return nil, networkError(err)
	}
	if r.RecoveryToken == "" || subtle.ConstantTimeCompare([]byte(r.RecoveryToken), []byte(token)) != 1 {
		return nil, session.NewAuthError(session.KindRecovery)
	}
	return r, nil
}

func (v *Vault) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, networkError(err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.b.has(userKey(username)), nil
}

func (v *Vault) CreateAccount(ctx context.Context, username, password, pin string) (*session.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, networkError(err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.b.has(userKey(username)) {
		return nil, session.NewAuthError(session.KindUsernameTaken)
	}

	pwHash, err := v.hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	pinHash, err := v.hash(pin)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}

	r := &record{
		Username:        strings.TrimSpace(username),
		LoginID:         uuid.NewString(),
		PasswordHash:    pwHash,
		PINHash:         pinHash,
		PINEnabled:      true,
		ApprovedDevices: []string{v.device},
		CreatedAt:       v.now(),
	}
	if err := v.save(r); err != nil {
		return nil, networkError(err)
	}
	return v.sessionFor(r, false), nil
}

func (v *Vault) ChangePassword(ctx context.Context, s *session.Session, password string) error {
	return v.update(ctx, s, func(r *record) error {
		h, err := v.hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		r.PasswordHash = h
		return nil
	})
}

func (v *Vault) ChangePIN(ctx context.Context, s *session.Session, pin string) error {
	return v.update(ctx, s, func(r *record) error {
		h, err := v.hash(pin)
		if err != nil {
			return fmt.Errorf("failed to hash pin: %w", err)
		}
		r.PINHash = h
		r.PINEnabled = true
		r.FailedPINs = 0
		r.LockedUntil = time.Time{}
		return nil
	})
}

func (v *Vault) SetupRecovery(ctx context.Context, s *session.Session, questions, answers []string) (string, error) {
	if len(questions) == 0 || len(questions) != len(answers) {
		return "", fmt.Errorf("recovery needs one answer per question, got %d questions and %d answers", len(questions), len(answers))
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	err := v.update(ctx, s, func(r *record) error {
		hashes := make([][]byte, len(answers))
		for i, a := range answers {
			h, err := v.hash(a)
			if err != nil {
				return fmt.Errorf("failed to hash answer: %w", err)
			}
			hashes[i] = h
		}
		r.RecoveryQuestions = append([]string(nil), questions...)
		r.AnswerHashes = hashes
		r.RecoveryToken = token
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

func (v *Vault) DeleteLocalUser(ctx context.Context, username string) error {
	if err := ctx.Err(); err != nil {
		return networkError(err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	r, err := v.load(username)
	if errors.Is(err, errNotFound) {
		return nil
	}
	if err != nil {
		return networkError(err)
	}
	r.PINEnabled = false
	r.PINHash = nil
	r.revokeDevice(v.device)
	if err := v.save(r); err != nil {
		return networkError(err)
	}
	return nil
}

// update applies fn to the record behind s and saves it.
func (v *Vault) update(ctx context.Context, s *session.Session, fn func(*record) error) error {
	if err := ctx.Err(); err != nil {
		return networkError(err)
	}
	if s == nil {
		return errors.New("no session")
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	r, err := v.load(s.Username)
	if err != nil {
		return networkError(err)
	}
	if r.LoginID != s.LoginID {
		return fmt.Errorf("session does not belong to %s", r.Username)
	}
	if err := fn(r); err != nil {
		return err
	}
	if err := v.save(r); err != nil {
		return networkError(err)
	}
	return nil
}
