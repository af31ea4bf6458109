// Package session defines the contract between the login screens and the
// account backend that owns cryptographic operations.
//
// The screens never touch keys or the network themselves. Every account
// operation goes through a [Collaborator], whose calls are blocking and
// therefore always issued from a background command, never from the UI
// event loop.
//
// Key types:
//   - [Collaborator]: Account operations (login, PIN, recovery, OTP, creation)
//   - [Session]: An authenticated account handed to the host on completion
//   - [AuthError]: Typed failure with the data screens need to react
//
// For testing, use [MockCollaborator] which records calls and returns
// scripted results.
package session

import (
	"context"
	"time"
)

// Session is an authenticated account.
//
// A Session is produced by a successful login or account creation and is
// what the host application receives when the login flow completes.
type Session struct {
	// Username is the account name as typed at creation.
	Username string

	// LoginID is the backend identifier of the account.
	LoginID string

	// PINEnabled reports whether PIN login is set up for this device.
	PINEnabled bool

	// OTPEnabled reports whether two-factor approval is required on new devices.
	OTPEnabled bool

	// RecoveryConfigured reports whether recovery questions are set.
	RecoveryConfigured bool

	// ViaRecovery is true when the session was opened with recovery answers.
	// Such sessions are routed through the resecure workflow before completing.
	ViaRecovery bool

	// LoggedInAt is when the session was opened.
	LoggedInAt time.Time
}

// Collaborator performs account operations on behalf of the screens.
//
// Failures that the user can act on are returned as [*AuthError]. Any other
// error is treated as a network failure by the screens.
type Collaborator interface {
	// Login opens a session with username and password.
	Login(ctx context.Context, username, password string) (*Session, error)

	// LoginWithPIN opens a session with the device-local PIN.
	LoginWithPIN(ctx context.Context, username, pin string) (*Session, error)

	// RecoveryQuestions returns the question keys bound to a recovery token.
	RecoveryQuestions(ctx context.Context, token, username string) ([]string, error)

	// LoginWithRecovery opens a session by answering the recovery questions.
	LoginWithRecovery(ctx context.Context, token, username string, answers []string) (*Session, error)

	// UsernameAvailable reports whether username can be registered.
	UsernameAvailable(ctx context.Context, username string) (bool, error)

	// CreateAccount registers a new account and opens a session for it.
	CreateAccount(ctx context.Context, username, password, pin string) (*Session, error)

	// CheckOTPApproval reports whether the voucher issued by a failed login
	// has been approved from another device.
	CheckOTPApproval(ctx context.Context, voucher string) (bool, error)

	// LoginWithBackupCode opens a session with a one-time backup code in
	// place of device approval.
	LoginWithBackupCode(ctx context.Context, username, password, code string) (*Session, error)

	// ChangePassword replaces the account password.
	ChangePassword(ctx context.Context, s *Session, password string) error

	// ChangePIN replaces the device-local PIN.
	ChangePIN(ctx context.Context, s *Session, pin string) error

	// SetupRecovery stores recovery questions and answers and returns the
	// recovery token the user must keep.
	SetupRecovery(ctx context.Context, s *Session, questions, answers []string) (string, error)

	// DeleteLocalUser removes the account's data from this device only.
	DeleteLocalUser(ctx context.Context, username string) error
}
