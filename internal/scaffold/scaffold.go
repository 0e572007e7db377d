package scaffold

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/stamp-dev/stamp/internal/errors"
	"github.com/stamp-dev/stamp/internal/plan"
	"github.com/stamp-dev/stamp/internal/platform"
)

// Action describes what happened to one file.
type Action string

const (
	ActionCreated     Action = "created"
	ActionOverwritten Action = "overwritten"
	ActionUnchanged   Action = "unchanged"
	ActionChmod       Action = "chmod" // content matched, only the mode changed
)

// FileResult is the outcome for a single plan entry.
type FileResult struct {
	Path   string      `json:"path"`
	Action Action      `json:"action"`
	Size   int         `json:"size"`
	Mode   os.FileMode `json:"mode"`
	Digest string      `json:"digest"`
}

// Result holds the outcome of a plan run. On failure it lists the entries
// that completed before the failing one.
type Result struct {
	Root   string       `json:"root"`
	DryRun bool         `json:"dry_run"`
	Files  []FileResult `json:"files"`
}

// Count returns how many files ended with action a.
func (r *Result) Count(a Action) int {
	n := 0
	for _, f := range r.Files {
		if f.Action == a {
			n++
		}
	}
	return n
}

// Options controls a Scaffolder.
type Options struct {
	// Force overwrites existing files whose content differs from the plan.
	// Without it such files are reported as E_FILE_CONFLICT.
	Force bool

	// DryRun validates and reports without touching the filesystem.
	DryRun bool

	// Vars override the plan's template variables.
	Vars map[string]string

	// Progress receives one line per entry. Nil discards.
	Progress io.Writer

	// Logger receives debug diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

// Scaffolder writes plans to disk.
type Scaffolder struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Scaffolder.
func New(opts Options) *Scaffolder {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	return &Scaffolder{
		opts:   opts,
		logger: logger.With("component", "scaffold"),
	}
}

// EnsureDirectories creates each directory and any missing ancestors.
// Directories that already exist are fine.
func (s *Scaffolder) EnsureDirectories(paths []string) error {
	for _, p := range paths {
		if err := os.MkdirAll(p, platform.DirPerm); err != nil {
			return errors.Filesystem(errors.EFilesystem, "mkdir", p, unwrapPathError(err))
		}
		s.logger.Debug("directory ready", "path", p)
	}
	return nil
}

// WriteFile creates or replaces the file at path with exactly content. The
// parent directory must already exist. The write is atomic.
func (s *Scaffolder) WriteFile(path string, content []byte, mode os.FileMode) error {
	parent := filepath.Dir(path)
	info, err := os.Stat(parent)
	if err != nil {
		return errors.Filesystem(errors.EFilesystem, "write", path, fmt.Errorf("parent directory: %w", unwrapPathError(err)))
	}
	if !info.IsDir() {
		return errors.Filesystem(errors.EFilesystem, "write", path, fmt.Errorf("parent %s is not a directory", parent))
	}

	if err := writeFileAtomic(path, content, mode); err != nil {
		return errors.Filesystem(errors.EFilesystem, "write", path, unwrapPathError(err))
	}
	s.logger.Debug("file written", "path", path, "bytes", len(content))
	return nil
}

// prepared is a plan entry with its destination resolved and content rendered.
type prepared struct {
	rel     string
	full    string
	content []byte
	mode    os.FileMode
}

// RunPlan materializes p under root. All entries are resolved and rendered
// before anything is written, so a bad path or template aborts the run with
// nothing on disk. Entries are then written in plan order; the first failure
// stops the run and is attributed to its entry index.
func (s *Scaffolder) RunPlan(p *plan.Plan, root string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Filesystem(errors.EFilesystem, "resolve", root, err)
	}

	items, err := s.prepare(p, absRoot)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("running plan", "plan", p.Name, "root", absRoot, "entries", len(items), "dry_run", s.opts.DryRun)

	result := &Result{Root: absRoot, DryRun: s.opts.DryRun}

	if !s.opts.DryRun {
		if err := s.EnsureDirectories([]string{absRoot}); err != nil {
			return result, err
		}
	}

	for i, item := range items {
		action, err := s.apply(absRoot, item)
		if err != nil {
			return result, errors.AtEntry(err, i)
		}
		result.Files = append(result.Files, FileResult{
			Path:   item.rel,
			Action: action,
			Size:   len(item.content),
			Mode:   item.mode,
			Digest: Digest(item.content),
		})
		fmt.Fprintf(s.opts.Progress, "  %-11s %s\n", action, item.rel)
	}

	return result, nil
}

func (s *Scaffolder) prepare(p *plan.Plan, absRoot string) ([]prepared, error) {
	if err := CheckPlan(p, absRoot); err != nil {
		return nil, err
	}

	data := NewTemplateData(p, s.opts.Vars)
	items := make([]prepared, 0, len(p.Files))
	for i, e := range p.Files {
		full, err := ResolvePath(absRoot, e.Path)
		if err != nil {
			return nil, err
		}
		if err := ensureAncestorContained(absRoot, filepath.Dir(full)); err != nil {
			return nil, errors.AtEntry(err, i)
		}
		content, err := Render(e, data)
		if err != nil {
			return nil, err
		}
		items = append(items, prepared{rel: e.Path, full: full, content: content, mode: e.Mode})
	}
	return items, nil
}

// apply writes one prepared entry according to the overwrite policy.
func (s *Scaffolder) apply(absRoot string, item prepared) (Action, error) {
	dir := filepath.Dir(item.full)

	// The tree may have changed since prepare; check again before mkdir
	// and once more after it.
	if err := ensureAncestorContained(absRoot, dir); err != nil {
		return "", err
	}
	if !s.opts.DryRun {
		if err := s.EnsureDirectories([]string{dir}); err != nil {
			return "", err
		}
		if err := ensureContained(absRoot, dir); err != nil {
			return "", err
		}
	}

	action, err := s.classify(item)
	if err != nil {
		return "", err
	}

	if action == ActionUnchanged || s.opts.DryRun {
		s.logger.Debug("skipping write", "path", item.rel, "action", action, "dry_run", s.opts.DryRun)
		return action, nil
	}

	if action == ActionChmod {
		if err := platform.Chmod(item.full, item.mode); err != nil {
			return "", errors.Filesystem(errors.EFilesystem, "chmod", item.full, unwrapPathError(err))
		}
		s.logger.Debug("mode updated", "path", item.rel, "mode", platform.FormatMode(item.mode))
		return action, nil
	}

	if err := s.WriteFile(item.full, item.content, item.mode); err != nil {
		return "", err
	}
	return action, nil
}

// classify decides what writing item would do to the file currently on disk.
func (s *Scaffolder) classify(item prepared) (Action, error) {
	existing, err := os.ReadFile(item.full)
	switch {
	case err == nil:
		if bytes.Equal(existing, item.content) {
			info, err := os.Stat(item.full)
			if err != nil {
				return "", errors.Filesystem(errors.EFilesystem, "stat", item.full, unwrapPathError(err))
			}
			if !platform.PermMatches(info, item.mode) {
				return ActionChmod, nil
			}
			return ActionUnchanged, nil
		}
		if !s.opts.Force {
			return "", errors.Filesystem(errors.EFileConflict, "write", item.full,
				fmt.Errorf("file exists with different content (use --force to overwrite)"))
		}
		return ActionOverwritten, nil
	case os.IsNotExist(err):
		return ActionCreated, nil
	default:
		return "", errors.Filesystem(errors.EFilesystem, "read", item.full, unwrapPathError(err))
	}
}

// unwrapPathError strips the *fs.PathError wrapper so messages do not repeat
// the path already carried by FilesystemError.
func unwrapPathError(err error) error {
	if pe, ok := err.(*fs.PathError); ok {
		return fmt.Errorf("%s: %w", pe.Op, pe.Err)
	}
	return err
}
