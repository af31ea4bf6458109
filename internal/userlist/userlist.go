// Package userlist persists the users remembered on this device.
//
// The list is what the PIN login screen offers in its user switcher: the
// username plus whether PIN or touch login is enabled for it on this device.
// It holds no secrets. Account data lives with the session collaborator.
//
// The file is YAML and every write replaces it atomically (write to a
// temporary file, then rename), so a crash never leaves a torn list.
package userlist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the list file name inside the data directory.
const DefaultFileName = "users.yaml"

// PathEnv overrides the list location when set.
const PathEnv = "EDGELOGIN_USERS_PATH"

// ErrUserNotFound is returned when a username is not on the list.
var ErrUserNotFound = errors.New("user not found")

// User is one remembered user.
type User struct {
	Username     string    `yaml:"username"`
	PINEnabled   bool      `yaml:"pin_enabled"`
	TouchEnabled bool      `yaml:"touch_enabled"`
	LastLogin    time.Time `yaml:"last_login,omitempty"`
}

// file is the on-disk layout.
type file struct {
	Users []User `yaml:"users"`
}

// ResolvePath returns where the list lives.
//
// Resolution order:
//  1. EDGELOGIN_USERS_PATH environment variable
//  2. usersFile, if absolute
//  3. usersFile (or DefaultFileName) joined to dataDir
func ResolvePath(dataDir, usersFile string) string {
	if env := os.Getenv(PathEnv); env != "" {
		return env
	}
	if usersFile == "" {
		usersFile = DefaultFileName
	}
	if filepath.IsAbs(usersFile) {
		return usersFile
	}
	return filepath.Join(dataDir, usersFile)
}

// Store reads and writes the remembered-user list.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a Store for the list file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the list file location.
func (s *Store) Path() string {
	return s.path
}

// List returns all remembered users, most recent login first. A missing
// file is an empty list.
func (s *Store) List() ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return nil, err
	}
	users := f.Users
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].LastLogin.After(users[j].LastLogin)
	})
	return users, nil
}

// Get returns the user named username.
func (s *Store) Get(username string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return User{}, err
	}
	for _, u := range f.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
}

// Upsert adds u or replaces the entry with the same username.
func (s *Store) Upsert(u User) error {
	if u.Username == "" {
		return errors.New("username is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return err
	}
	replaced := false
	for i := range f.Users {
		if f.Users[i].Username == u.Username {
			f.Users[i] = u
			replaced = true
			break
		}
	}
	if !replaced {
		f.Users = append(f.Users, u)
	}
	return s.write(f)
}

// Remove deletes username from the list.
func (s *Store) Remove(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return err
	}
	kept := f.Users[:0]
	for _, u := range f.Users {
		if u.Username != username {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(f.Users) {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	f.Users = kept
	return s.write(f)
}

func (s *Store) read() (*file, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &file{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user list: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse user list: %w", err)
	}
	return &f, nil
}

func (s *Store) write(f *file) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal user list: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to write user list: %w", err)
	}

	// Write to a temp file, then rename over the list.
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write user list: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write user list: %w", err)
	}
	return nil
}
