// Package cli defines the Cobra command tree for the stamp CLI. Each file
// registers one top-level command with the root command. Commands only parse
// flags, resolve defaults, and format output; scaffolding and version-control
// work is delegated to the scaffold and vcs packages.
package cli
