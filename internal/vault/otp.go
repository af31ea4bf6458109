package vault

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"edgelogin/internal/session"
)

// Voucher is a pending request to log in from an unapproved device.
type Voucher struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	DeviceID  string    `json:"device_id"`
	CreatedAt time.Time `json:"created_at"`
	ResetDate time.Time `json:"reset_date"`
	Approved  bool      `json:"approved"`
}

func (vo *Voucher) authError(cause error) *session.AuthError {
	return &session.AuthError{
		Kind:      session.KindOTP,
		Voucher:   vo.ID,
		ResetDate: vo.ResetDate,
		Err:       cause,
	}
}

func voucherKey(id string) string {
	return voucherPrefix + id
}

// settleVoucher resolves this device's voucher for r.
//
// It returns nil once the device is approved, either because the voucher
// was approved or its reset date passed. Otherwise it returns the pending
// voucher, issuing one if the device has none yet. r is saved either way.
func (v *Vault) settleVoucher(r *record) (*Voucher, error) {
	if id, ok := r.PendingVouchers[v.device]; ok {
		var vo Voucher
		err := v.b.get(voucherKey(id), &vo)
		switch {
		case err == nil:
			if !vo.Approved && v.now().Before(vo.ResetDate) {
				return &vo, nil
			}
			r.approveDevice(v.device)
			delete(r.PendingVouchers, v.device)
			if err := v.b.erase(voucherKey(id)); err != nil {
				return nil, err
			}
			return nil, v.save(r)
		case !errors.Is(err, errNotFound):
			return nil, err
		}
		// Dangling reference; issue a new voucher below.
	}

	now := v.now()
	vo := &Voucher{
		ID:        uuid.NewString(),
		Username:  r.Username,
		DeviceID:  v.device,
		CreatedAt: now,
		ResetDate: now.Add(v.reset),
	}
	if err := v.b.set(voucherKey(vo.ID), vo); err != nil {
		return nil, err
	}
	if r.PendingVouchers == nil {
		r.PendingVouchers = make(map[string]string)
	}
	r.PendingVouchers[v.device] = vo.ID
	return vo, v.save(r)
}

func (v *Vault) CheckOTPApproval(ctx context.Context, voucher string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, networkError(err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	var vo Voucher
	err := v.b.get(voucherKey(voucher), &vo)
	if errors.Is(err, errNotFound) {
		return false, &session.AuthError{Kind: session.KindOTP, Voucher: voucher, Err: ErrVoucherNotFound}
	}
	if err != nil {
		return false, networkError(err)
	}
	return vo.Approved || !v.now().Before(vo.ResetDate), nil
}

func (v *Vault) LoginWithBackupCode(ctx context.Context, username, password, code string) (*session.Session, error) {
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

	if !matches(r.BackupCodeHash, normalizeCode(code)) {
		ae := &session.AuthError{Kind: session.KindOTP, Err: session.ErrBackupCodeIncorrect}
		if id, ok := r.PendingVouchers[v.device]; ok {
			var vo Voucher
			if v.b.get(voucherKey(id), &vo) == nil {
				ae = vo.authError(session.ErrBackupCodeIncorrect)
			}
		}
		return nil, ae
	}

	r.approveDevice(v.device)
	if id, ok := r.PendingVouchers[v.device]; ok {
		if err := v.b.erase(voucherKey(id)); err != nil {
			return nil, networkError(err)
		}
		delete(r.PendingVouchers, v.device)
	}
	if err := v.save(r); err != nil {
		return nil, networkError(err)
	}
	return v.sessionFor(r, false), nil
}

// Approve marks a voucher approved, as if confirmed from a logged-in device.
func (v *Vault) Approve(voucher string) (*Voucher, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	var vo Voucher
	err := v.b.get(voucherKey(voucher), &vo)
	if errors.Is(err, errNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrVoucherNotFound, voucher)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read voucher: %w", err)
	}
	vo.Approved = true
	if err := v.b.set(voucherKey(vo.ID), &vo); err != nil {
		return nil, fmt.Errorf("failed to store voucher: %w", err)
	}
	return &vo, nil
}

// Vouchers lists stored vouchers, oldest first.
func (v *Vault) Vouchers() ([]Voucher, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	var out []Voucher
	for _, k := range v.b.keys(voucherPrefix) {
		var vo Voucher
		if err := v.b.get(k, &vo); err != nil {
			return nil, fmt.Errorf("failed to read voucher %s: %w", k, err)
		}
		out = append(out, vo)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// EnableOTP turns on two-factor approval for username and returns a new
// backup code. This device stays approved.
func (v *Vault) EnableOTP(username string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	r, err := v.load(username)
	if errors.Is(err, errNotFound) {
		return "", fmt.Errorf("no account named %q", username)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read account: %w", err)
	}

	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	h, err := v.hash(code)
	if err != nil {
		return "", fmt.Errorf("failed to hash backup code: %w", err)
	}
	r.OTPEnabled = true
	r.BackupCodeHash = h
	r.approveDevice(v.device)
	if err := v.save(r); err != nil {
		return "", fmt.Errorf("failed to store account: %w", err)
	}
	return code, nil
}

// RevokeDevice removes a device's approval for username so its next
// password login needs a voucher.
func (v *Vault) RevokeDevice(username, deviceID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	r, err := v.load(username)
	if err != nil {
		return fmt.Errorf("failed to read account: %w", err)
	}
	r.revokeDevice(deviceID)
	return v.save(r)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), " ", ""))
}
