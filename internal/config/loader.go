package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	appDirName     = "edgelogin"
	configFileName = "login.yaml"
	envPrefix      = "EDGELOGIN"
)

// Loader handles configuration loading using Viper.
//
// Use [NewLoader] to create a Loader, then call [Loader.Load] or
// [Loader.LoadFromFile] to load configuration.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader with defaults and
// environment bindings in place.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())

	// Short aliases for the settings most often changed per run.
	_ = v.BindEnv("login.username", envPrefix+"_USERNAME")
	_ = v.BindEnv("login.entry_workflow", envPrefix+"_ENTRY")
	_ = v.BindEnv("storage.data_dir", envPrefix+"_DATA_DIR")
	_ = v.BindEnv("log.level", envPrefix+"_LOG_LEVEL")

	return &Loader{v: v}
}

// setDefaults registers every key so AutomaticEnv can override keys that no
// config file mentions.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("branding.app_name", d.Branding.AppName)
	v.SetDefault("branding.landing_text", d.Branding.LandingText)
	v.SetDefault("branding.parent_button", d.Branding.ParentButton)
	v.SetDefault("login.entry_workflow", d.Login.EntryWorkflow)
	v.SetDefault("login.username", d.Login.Username)
	v.SetDefault("login.request_timeout", d.Login.RequestTimeout)
	v.SetDefault("otp.poll_interval", d.OTP.PollInterval)
	v.SetDefault("otp.reset_wait", d.OTP.ResetWait)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("storage.users_file", d.Storage.UsersFile)
	v.SetDefault("manifest.scenes_path", d.Manifest.ScenesPath)
	v.SetDefault("manifest.back_targets_path", d.Manifest.BackTargetsPath)
	v.SetDefault("locale", d.Locale)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("output.alt_screen", d.Output.AltScreen)
}

// Load reads configuration from the first source found in the priority
// order documented on the package. A missing file is not an error.
func (l *Loader) Load() (*Config, error) {
	if path := os.Getenv(envPrefix + "_CONFIG_PATH"); path != "" {
		return l.LoadFromFile(path)
	}

	candidates := []string{
		filepath.Join("config", configFileName),
		configFileName,
	}
	if path, err := DefaultConfigPath(); err == nil {
		candidates = append([]string{path}, candidates...)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return l.LoadFromFile(path)
		}
	}

	return l.unmarshal()
}

// LoadFromFile reads configuration from the YAML file at path.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	l.v.SetConfigType("yaml")
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	cfg := DefaultConfig()
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

// MustLoad loads configuration and panics on error.
func MustLoad() *Config {
	cfg, err := NewLoader().Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// ConfigDir returns the platform-specific configuration directory for
// edgelogin.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(dir, appDirName), nil
}

// DefaultConfigPath returns the config file path in the user config
// directory.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// EnsureConfigDir creates the configuration directory if it does not exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
