// Package vcs puts a scaffolded tree under version control: it initializes a
// git repository at the target root (or reuses an existing one when asked),
// stages everything, and records exactly one commit.
//
// git is invoked through CommandRunner so tests can substitute a stub.
package vcs
