// Package config manages user-level settings stored at ~/.stamp/config.yaml.
// Values can be overridden with STAMP_* environment variables and are read
// as defaults for the scaffold commit identity, commit message, and the
// overwrite and repository-reuse policies.
package config
