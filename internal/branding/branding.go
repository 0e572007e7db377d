// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package before building; Go's
// //go:embed bakes it into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName           string `yaml:"cli_name"`
	DisplayName       string `yaml:"display_name"`
	Description       string `yaml:"description"`
	HomeDir           string `yaml:"home_dir"`
	EnvPrefix         string `yaml:"env_prefix"`
	CommitAuthorName  string `yaml:"commit_author_name"`
	CommitAuthorEmail string `yaml:"commit_author_email"`
	DefaultPlan       string `yaml:"default_plan"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:           "stamp",
			DisplayName:       "Stamp",
			Description:       "Declarative project scaffolder",
			HomeDir:           ".stamp",
			EnvPrefix:         "STAMP",
			CommitAuthorName:  "Stamp",
			CommitAuthorEmail: "stamp@localhost",
			DefaultPlan:       "fullstack-demo",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "stamp").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "Stamp").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".stamp").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "STAMP").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// CommitAuthorName is the identity used for scaffold commits when the user
// has not configured one.
func CommitAuthorName() string { load(); return defaults.CommitAuthorName }

// CommitAuthorEmail pairs with CommitAuthorName.
func CommitAuthorEmail() string { load(); return defaults.CommitAuthorEmail }

// DefaultPlan names the built-in plan used when "new" gets no plan argument.
func DefaultPlan() string { load(); return defaults.DefaultPlan }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "STAMP_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
