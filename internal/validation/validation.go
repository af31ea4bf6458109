// Package validation holds the client-side checks run before any account
// operation is issued: username shape, password strength, PIN format and
// recovery answer length. Secrets that end up bcrypt-hashed are capped at
// [MaxSecretBytes].
//
// Each check returns a sentinel error; [MessageKey] maps it to the locale
// key the screens display.
package validation

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"edgelogin/internal/locale"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 10
	PINLength         = 4
	MinAnswerLength   = 4

	// MaxSecretBytes is the longest password or answer bcrypt can hash.
	MaxSecretBytes = 72
)

var (
	ErrUsernameTooShort = errors.New("username too short")
	ErrUsernameNotASCII = errors.New("username must be ascii")
	ErrPasswordWeak     = errors.New("password does not meet requirements")
	ErrConfirmMismatch  = errors.New("passwords do not match")
	ErrPINFormat        = errors.New("pin must be four digits")
	ErrAnswerTooShort   = errors.New("answer too short")
	ErrSecretTooLong    = errors.New("secret exceeds 72 bytes")
)

// Username checks a new account name.
func Username(s string) error {
	if utf8.RuneCountInString(s) < MinUsernameLength {
		return ErrUsernameTooShort
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return ErrUsernameNotASCII
		}
	}
	return nil
}

// PasswordCheck is the requirements checklist shown under the password field.
type PasswordCheck struct {
	MinLength bool
	Lowercase bool
	Uppercase bool
	Number    bool
}

// OK reports whether every requirement is met.
func (c PasswordCheck) OK() bool {
	return c.MinLength && c.Lowercase && c.Uppercase && c.Number
}

// Items returns the checklist in display order with its locale keys.
func (c PasswordCheck) Items() []CheckItem {
	return []CheckItem{
		{Key: locale.KeyMustTenCharacters, Met: c.MinLength},
		{Key: locale.KeyMustOneLowercase, Met: c.Lowercase},
		{Key: locale.KeyMustOneUppercase, Met: c.Uppercase},
		{Key: locale.KeyMustOneNumber, Met: c.Number},
	}
}

// CheckItem is one line of the password checklist.
type CheckItem struct {
	Key locale.Key
	Met bool
}

// CheckPassword evaluates s against the password requirements.
func CheckPassword(s string) PasswordCheck {
	c := PasswordCheck{MinLength: utf8.RuneCountInString(s) >= MinPasswordLength}
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			c.Lowercase = true
		case unicode.IsUpper(r):
			c.Uppercase = true
		case unicode.IsDigit(r):
			c.Number = true
		}
	}
	return c
}

// Password returns ErrPasswordWeak unless s meets every requirement, and
// ErrSecretTooLong when it is longer than MaxSecretBytes.
func Password(s string) error {
	if !CheckPassword(s).OK() {
		return ErrPasswordWeak
	}
	return Secret(s)
}

// Secret checks that s fits in MaxSecretBytes.
func Secret(s string) error {
	if len(s) > MaxSecretBytes {
		return ErrSecretTooLong
	}
	return nil
}

// Confirm checks the confirmation field against the password.
func Confirm(password, confirm string) error {
	if password != confirm {
		return ErrConfirmMismatch
	}
	return nil
}

// PIN checks for exactly four ASCII digits.
func PIN(s string) error {
	if len(s) != PINLength {
		return ErrPINFormat
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return ErrPINFormat
		}
	}
	return nil
}

// Answer checks a recovery answer.
func Answer(s string) error {
	if utf8.RuneCountInString(s) < MinAnswerLength {
		return ErrAnswerTooShort
	}
	return Secret(s)
}

// MessageKey returns the locale key describing err, or "" for errors this
// package does not produce.
func MessageKey(err error) locale.Key {
	switch {
	case errors.Is(err, ErrUsernameTooShort):
		return locale.KeyUsername3CharsError
	case errors.Is(err, ErrUsernameNotASCII):
		return locale.KeyUsernameASCIIError
	case errors.Is(err, ErrPasswordWeak):
		return locale.KeyPasswordError
	case errors.Is(err, ErrConfirmMismatch):
		return locale.KeyConfirmPasswordErr
	case errors.Is(err, ErrPINFormat):
		return locale.KeyFourDigitPinError
	case errors.Is(err, ErrAnswerTooShort):
		return locale.KeyAnswersFourCharacters
	case errors.Is(err, ErrSecretTooLong):
		return locale.KeySecretTooLong
	default:
		return ""
	}
}
