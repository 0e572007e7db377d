package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/stamp-dev/stamp/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known keys.
const (
	KeyCommitMessage = "commit_message"
	KeyAuthorName    = "author_name"
	KeyAuthorEmail   = "author_email"
	KeyReuseRepo     = "reuse_repo"
	KeyForce         = "force"
)

// DefaultCommitMessage is used when neither the plan, a flag, nor the config
// supplies one.
const DefaultCommitMessage = "Initial commit"

// Settings is the resolved view of the configuration.
type Settings struct {
	CommitMessage string
	AuthorName    string
	AuthorEmail   string
	ReuseRepo     bool
	Force         bool
}

// Dir returns the config directory: $STAMP_HOME when set, else ~/.stamp/.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment. A
// missing config file is not an error; an unreadable or malformed one is
// returned so the caller can report it. Defaults and environment overrides
// apply either way.
func Load() error {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyCommitMessage, DefaultCommitMessage)
	viper.SetDefault(KeyAuthorName, branding.CommitAuthorName())
	viper.SetDefault(KeyAuthorEmail, branding.CommitAuthorEmail())
	viper.SetDefault(KeyReuseRepo, false)
	viper.SetDefault(KeyForce, false)

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("reading %s: %w", FilePath(), err)
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Current returns the resolved settings. Load must have been called.
func Current() Settings {
	return Settings{
		CommitMessage: viper.GetString(KeyCommitMessage),
		AuthorName:    viper.GetString(KeyAuthorName),
		AuthorEmail:   viper.GetString(KeyAuthorEmail),
		ReuseRepo:     viper.GetBool(KeyReuseRepo),
		Force:         viper.GetBool(KeyForce),
	}
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
