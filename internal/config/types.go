// Package config provides configuration loading for edgelogin.
//
// Configuration is loaded using Viper, supporting YAML config files and
// environment variable overrides. The defaults work without any file: the
// login session starts at PIN or password login, keeps its data under the
// user config directory and logs to a file there.
//
// Key types:
//   - [Config] is the root configuration container
//   - [Loader] handles Viper-based configuration loading
//
// Configuration priority (highest to lowest):
//  1. Environment variables (EDGELOGIN_ prefix)
//  2. Config file specified by EDGELOGIN_CONFIG_PATH
//  3. User config directory (platform-standard):
//     - Linux: ~/.config/edgelogin/login.yaml
//     - macOS: ~/Library/Application Support/edgelogin/login.yaml
//     - Windows: %APPDATA%\edgelogin\login.yaml
//  4. ./config/login.yaml
//  5. ./login.yaml
//  6. [DefaultConfig] defaults
package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config represents the root configuration structure.
type Config struct {
	// Branding customizes the text shown around the login scenes.
	Branding BrandingConfig `mapstructure:"branding"`

	// Login selects where a session starts and how long requests may take.
	Login LoginConfig `mapstructure:"login"`

	// OTP controls the two-factor approval screen.
	OTP OTPConfig `mapstructure:"otp"`

	// Storage locates the account vault and the remembered-user list.
	Storage StorageConfig `mapstructure:"storage"`

	// Manifest optionally replaces the built-in workflow table.
	Manifest ManifestConfig `mapstructure:"manifest"`

	// Locale is the preferred BCP 47 language tag, e.g. "en-US".
	Locale string `mapstructure:"locale"`

	// Messages overrides individual message templates by key, e.g.
	// login_button: "Sign in".
	Messages map[string]string `mapstructure:"messages"`

	// Log configures the structured log sink.
	Log LogConfig `mapstructure:"log"`

	// Output contains terminal output formatting configuration.
	Output OutputConfig `mapstructure:"output"`
}

// BrandingConfig holds host-provided text.
type BrandingConfig struct {
	// AppName replaces the default application name in welcome texts.
	AppName string `mapstructure:"app_name"`

	// LandingText is shown under the password login form.
	LandingText string `mapstructure:"landing_text"`

	// ParentButton labels the key that leaves the login session from the
	// password scene. Empty hides it.
	ParentButton string `mapstructure:"parent_button"`
}

// LoginConfig controls session entry.
type LoginConfig struct {
	// EntryWorkflow forces the starting workflow. Empty chooses PIN login
	// when a remembered user has a PIN, otherwise password login.
	EntryWorkflow string `mapstructure:"entry_workflow"`

	// Username preselects a remembered user.
	Username string `mapstructure:"username"`

	// RequestTimeout bounds each call to the account store.
	// Default: 30s
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// OTPConfig controls the two-factor approval screen.
type OTPConfig struct {
	// PollInterval is how often a pending approval is checked.
	// Default: 5s
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// ResetWait is how long an unapproved device waits before it is
	// authorized automatically.
	// Default: 168h (7 days)
	ResetWait time.Duration `mapstructure:"reset_wait"`
}

// StorageConfig locates on-disk state. Relative paths resolve against
// DataDir.
type StorageConfig struct {
	// DataDir holds the account vault. Empty uses the user config directory.
	DataDir string `mapstructure:"data_dir"`

	// UsersFile is the remembered-user list.
	// Default: users.yaml
	UsersFile string `mapstructure:"users_file"`
}

// ManifestConfig points at scene manifest files. Both must be set to use
// them.
type ManifestConfig struct {
	// ScenesPath is the CSV scene table.
	ScenesPath string `mapstructure:"scenes_path"`

	// BackTargetsPath is the YAML back-target table.
	BackTargetsPath string `mapstructure:"back_targets_path"`
}

// Enabled reports whether a manifest replaces the built-in table.
func (m ManifestConfig) Enabled() bool {
	return m.ScenesPath != "" && m.BackTargetsPath != ""
}

// LogConfig configures logging. The TUI owns the terminal, so records go to
// a file.
type LogConfig struct {
	// Level is debug, info, warn or error.
	// Default: info
	Level string `mapstructure:"level"`

	// File is the log file. Empty uses edgelogin.log in DataDir.
	File string `mapstructure:"file"`
}

// OutputConfig contains terminal output formatting configuration.
type OutputConfig struct {
	// AltScreen runs the login session in the terminal's alternate screen.
	// Default: true
	AltScreen bool `mapstructure:"alt_screen"`
}

// DefaultConfig returns a new [Config] with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Login: LoginConfig{
			RequestTimeout: 30 * time.Second,
		},
		OTP: OTPConfig{
			PollInterval: 5 * time.Second,
			ResetWait:    7 * 24 * time.Hour,
		},
		Storage: StorageConfig{
			UsersFile: "users.yaml",
		},
		Locale: "en-US",
		Log: LogConfig{
			Level: "info",
		},
		Output: OutputConfig{
			AltScreen: true,
		},
	}
}

// Paths are the resolved on-disk locations.
type Paths struct {
	DataDir string
	LogFile string
}

// ResolvePaths resolves the data directory, which defaults to the user
// config directory and holds the account store, and the log file path. The user list path
// is resolved by the userlist package.
func (c *Config) ResolvePaths() (Paths, error) {
	dataDir := c.Storage.DataDir
	if dataDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return Paths{}, fmt.Errorf("failed to resolve data directory: %w", err)
		}
		dataDir = dir
	}
	logFile := c.Log.File
	if logFile == "" {
		logFile = "edgelogin.log"
	}
	if !filepath.IsAbs(logFile) {
		logFile = filepath.Join(dataDir, logFile)
	}
	return Paths{
		DataDir: dataDir,
		LogFile: logFile,
	}, nil
}
