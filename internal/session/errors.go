package session

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an [AuthError].
type Kind string

const (
	// KindPassword is a wrong username or password.
	KindPassword Kind = "password"

	// KindPIN is a wrong PIN. Wait may carry a lockout in seconds.
	KindPIN Kind = "pin"

	// KindPINDisabled means PIN login is not enabled for the user.
	KindPINDisabled Kind = "pinDisabled"

	// KindOTP means the device must be approved; Voucher and ResetDate are set.
	KindOTP Kind = "otp"

	// KindUsernameTaken means the username is already registered.
	KindUsernameTaken Kind = "usernameTaken"

	// KindRecovery is a bad recovery token or wrong answers.
	KindRecovery Kind = "recovery"

	// KindInvalid is input the backend will never accept. Err carries the
	// validation error describing it; retrying cannot succeed.
	KindInvalid Kind = "invalid"

	// KindNetwork is a transient failure reaching the backend.
	KindNetwork Kind = "network"
)

// ErrBackupCodeIncorrect is the cause of a KindOTP error returned when a
// backup code does not match.
var ErrBackupCodeIncorrect = errors.New("backup code incorrect")

// AuthError is a failed account operation the user can act on.
type AuthError struct {
	// Kind classifies the failure.
	Kind Kind

	// Wait is the remaining lockout in whole seconds; zero means none.
	Wait int

	// Voucher identifies a pending device approval for KindOTP.
	Voucher string

	// ResetDate is when a pending OTP reset takes effect for KindOTP.
	ResetDate time.Time

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	msg := string(e.Kind)
	if e.Wait > 0 {
		msg = fmt.Sprintf("%s (wait %ds)", msg, e.Wait)
	}
	if e.Err != nil {
		return fmt.Sprintf("auth failed: %s: %v", msg, e.Err)
	}
	return "auth failed: " + msg
}

// Unwrap returns the underlying cause.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates an [AuthError] of the given kind.
func NewAuthError(kind Kind) *AuthError {
	return &AuthError{Kind: kind}
}

// AsAuthError extracts an [AuthError] from err.
//
// Errors that are not AuthErrors are reported as KindNetwork so callers
// always have something to show.
func AsAuthError(err error) *AuthError {
	if err == nil {
		return nil
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae
	}
	return &AuthError{Kind: KindNetwork, Err: err}
}

// IsKind reports whether err is an [AuthError] of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Kind == kind
}
