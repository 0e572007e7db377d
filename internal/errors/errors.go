// Package errors defines the error taxonomy for stamp. Filesystem and
// version-control failures carry a stable code, the operation that failed and
// the path involved, so the CLI can report exactly which step aborted the run.
package errors

import (
	"errors"
	"fmt"
	"io"
)

// Code is a stable error code string.
type Code string

// Error codes. Stable public contract; scripts may match on them.
const (
	EUsage           Code = "E_USAGE"
	EInvalidPlan     Code = "E_INVALID_PLAN"
	EVersionMismatch Code = "E_VERSION_MISMATCH"

	EFilesystem    Code = "E_FILESYSTEM"
	EPathTraversal Code = "E_PATH_TRAVERSAL"
	EFileConflict  Code = "E_FILE_CONFLICT"

	ERepoExists      Code = "E_REPO_EXISTS"
	ENothingToCommit Code = "E_NOTHING_TO_COMMIT"
	EGitNotInstalled Code = "E_GIT_NOT_INSTALLED"
	EGitFailed       Code = "E_GIT_FAILED"
)

// FilesystemError reports a failed directory creation, file write, or path
// check. Entry is the zero-based plan index, or -1 when the failure is not
// tied to a plan entry.
type FilesystemError struct {
	Code  Code
	Op    string
	Path  string
	Entry int
	Err   error
}

func (e *FilesystemError) Error() string {
	msg := e.Op + " " + e.Path
	if e.Entry >= 0 {
		msg = fmt.Sprintf("entry %d: %s", e.Entry, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// VcsError reports a failed version-control step at Root.
type VcsError struct {
	Code Code
	Op   string
	Root string
	Err  error
}

func (e *VcsError) Error() string {
	msg := e.Op + " in " + e.Root
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *VcsError) Unwrap() error { return e.Err }

// UsageError reports bad input from the operator: flags, plan files, or
// incompatible plan versions.
type UsageError struct {
	Code Code
	Msg  string
	Err  error
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *UsageError) Unwrap() error { return e.Err }

// Filesystem builds a FilesystemError that is not tied to a plan entry.
func Filesystem(code Code, op, path string, err error) error {
	return &FilesystemError{Code: code, Op: op, Path: path, Entry: -1, Err: err}
}

// Vcs builds a VcsError.
func Vcs(code Code, op, root string, err error) error {
	return &VcsError{Code: code, Op: op, Root: root, Err: err}
}

// Usage builds a UsageError with the given code.
func Usage(code Code, msg string) error {
	return &UsageError{Code: code, Msg: msg}
}

// WrapUsage builds a UsageError wrapping err.
func WrapUsage(code Code, msg string, err error) error {
	return &UsageError{Code: code, Msg: msg, Err: err}
}

// AtEntry returns a copy of err attributed to plan entry index i when err is
// a FilesystemError; other errors are returned unchanged.
func AtEntry(err error, i int) error {
	var fe *FilesystemError
	if errors.As(err, &fe) {
		cp := *fe
		cp.Entry = i
		return &cp
	}
	return err
}

// GetCode extracts the error code from err, or "" for foreign errors.
func GetCode(err error) Code {
	var fe *FilesystemError
	if errors.As(err, &fe) {
		return fe.Code
	}
	var ve *VcsError
	if errors.As(err, &ve) {
		return ve.Code
	}
	var ue *UsageError
	if errors.As(err, &ue) {
		return ue.Code
	}
	return ""
}

// IsFilesystem reports whether err is or wraps a FilesystemError.
func IsFilesystem(err error) bool {
	var fe *FilesystemError
	return errors.As(err, &fe)
}

// IsVcs reports whether err is or wraps a VcsError.
func IsVcs(err error) bool {
	var ve *VcsError
	return errors.As(err, &ve)
}

// ExitCode maps err to the process exit status:
// 0 nil, 2 usage, 3 filesystem, 4 version control, 1 anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue *UsageError
	switch {
	case errors.As(err, &ue):
		return 2
	case IsFilesystem(err):
		return 3
	case IsVcs(err):
		return 4
	}
	return 1
}

// Print writes err to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>
//
// Errors without a code are printed as a bare message.
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	if code := GetCode(err); code != "" {
		fmt.Fprintf(w, "error_code: %s\n", code)
	}
	fmt.Fprintln(w, err.Error())
}
