package session

import (
	"context"
	"sync"
	"time"
)

// Call records one invocation of a [MockCollaborator] method.
type Call struct {
	Method string
	Args   []string
}

// MockCollaborator implements [Collaborator] for testing without a backend.
//
// Each method returns the matching scripted error if set, otherwise a
// session built from the username argument. Calls are recorded in order.
type MockCollaborator struct {
	mu sync.Mutex

	// Calls records every invocation in order.
	Calls []Call

	// Session, when set, is returned by every login-style method.
	Session *Session

	// Errors maps method name to the error it should return.
	Errors map[string]error

	// Questions is returned by RecoveryQuestions.
	Questions []string

	// Taken lists usernames UsernameAvailable reports as registered.
	Taken []string

	// Approved is returned by CheckOTPApproval.
	Approved bool

	// RecoveryToken is returned by SetupRecovery.
	RecoveryToken string
}

func (m *MockCollaborator) record(method string, args ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Method: method, Args: args})
	if m.Errors != nil {
		return m.Errors[method]
	}
	return nil
}

func (m *MockCollaborator) session(username string) *Session {
	if m.Session != nil {
		return m.Session
	}
	return &Session{Username: username, LoginID: "mock-" + username, LoggedInAt: time.Unix(0, 0)}
}

// Methods returns the method names called so far, in order.
func (m *MockCollaborator) Methods() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		out[i] = c.Method
	}
	return out
}

func (m *MockCollaborator) Login(ctx context.Context, username, password string) (*Session, error) {
	if err := m.record("Login", username, password); err != nil {
		return nil, err
	}
	return m.session(username), nil
}

func (m *MockCollaborator) LoginWithPIN(ctx context.Context, username, pin string) (*Session, error) {
	if err := m.record("LoginWithPIN", username, pin); err != nil {
		return nil, err
	}
	s := *m.session(username)
	s.PINEnabled = true
	return &s, nil
}

func (m *MockCollaborator) RecoveryQuestions(ctx context.Context, token, username string) ([]string, error) {
	if err := m.record("RecoveryQuestions", token, username); err != nil {
		return nil, err
	}
	return m.Questions, nil
}

func (m *MockCollaborator) LoginWithRecovery(ctx context.Context, token, username string, answers []string) (*Session, error) {
	if err := m.record("LoginWithRecovery", append([]string{token, username}, answers...)...); err != nil {
		return nil, err
	}
	s := *m.session(username)
	s.ViaRecovery = true
	return &s, nil
}

func (m *MockCollaborator) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	if err := m.record("UsernameAvailable", username); err != nil {
		return false, err
	}
	for _, t := range m.Taken {
		if t == username {
			return false, nil
		}
	}
	return true, nil
}

func (m *MockCollaborator) CreateAccount(ctx context.Context, username, password, pin string) (*Session, error) {
	if err := m.record("CreateAccount", username, password, pin); err != nil {
		return nil, err
	}
	s := *m.session(username)
	s.PINEnabled = true
	return &s, nil
}

func (m *MockCollaborator) CheckOTPApproval(ctx context.Context, voucher string) (bool, error) {
	if err := m.record("CheckOTPApproval", voucher); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Approved, nil
}

func (m *MockCollaborator) LoginWithBackupCode(ctx context.Context, username, password, code string) (*Session, error) {
	if err := m.record("LoginWithBackupCode", username, password, code); err != nil {
		return nil, err
	}
	return m.session(username), nil
}

func (m *MockCollaborator) ChangePassword(ctx context.Context, s *Session, password string) error {
	return m.record("ChangePassword", s.Username, password)
}

func (m *MockCollaborator) ChangePIN(ctx context.Context, s *Session, pin string) error {
	return m.record("ChangePIN", s.Username, pin)
}

func (m *MockCollaborator) SetupRecovery(ctx context.Context, s *Session, questions, answers []string) (string, error) {
	args := append([]string{s.Username}, questions...)
	if err := m.record("SetupRecovery", append(args, answers...)...); err != nil {
		return "", err
	}
	return m.RecoveryToken, nil
}

func (m *MockCollaborator) DeleteLocalUser(ctx context.Context, username string) error {
	return m.record("DeleteLocalUser", username)
}
