package vcs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/stamp-dev/stamp/internal/errors"
)

// Options controls InitVersionControl.
type Options struct {
	// Reuse commits into an existing repository at root instead of failing.
	Reuse bool

	// Message is the commit message. Required.
	Message string

	// AuthorName and AuthorEmail set both author and committer identity.
	// Empty values defer to the user's git configuration.
	AuthorName  string
	AuthorEmail string

	// Runner executes git. Nil uses ExecRunner.
	Runner CommandRunner

	// Logger receives debug diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

// Commit describes the commit created by InitVersionControl.
type Commit struct {
	Hash    string   `json:"hash"`
	Message string   `json:"message"`
	Files   []string `json:"files"`
	Reused  bool     `json:"reused"`
}

// Exists reports whether root already contains a git repository.
func Exists(root string) bool {
	_, err := os.Stat(filepath.Join(root, ".git"))
	return err == nil
}

// InitVersionControl initializes a repository at root, stages all files,
// and creates one commit with opts.Message.
//
// It fails with a VcsError when root already holds a repository and
// opts.Reuse is false, when nothing is staged, or when any git step fails.
// A repository is never initialized twice.
func InitVersionControl(ctx context.Context, root string, opts Options) (*Commit, error) {
	if strings.TrimSpace(opts.Message) == "" {
		return nil, errors.Usage(errors.EUsage, "commit message must not be empty")
	}

	g := newGit(root, opts)

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Vcs(errors.EGitFailed, "open", root, err)
	}
	if !info.IsDir() {
		return nil, errors.Vcs(errors.EGitFailed, "open", root, fmt.Errorf("not a directory"))
	}

	exists := Exists(root)
	if exists && !opts.Reuse {
		return nil, errors.Vcs(errors.ERepoExists, "init", root, fmt.Errorf("repository already exists (use --reuse-repo to commit into it)"))
	}

	if _, err := GitVersion(ctx, g.runner); err != nil {
		return nil, errors.Vcs(errors.EGitNotInstalled, "init", root, err)
	}

	if !exists {
		if _, err := g.run(ctx, "init", "init", "--quiet"); err != nil {
			return nil, err
		}
	}

	if _, err := g.run(ctx, "stage", "add", "--all"); err != nil {
		return nil, err
	}

	staged, err := g.run(ctx, "stage", "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	files := splitLines(staged)
	if len(files) == 0 {
		return nil, errors.Vcs(errors.ENothingToCommit, "commit", root, fmt.Errorf("nothing staged"))
	}

	if _, err := g.run(ctx, "commit", "-c", "commit.gpgsign=false", "commit", "--quiet", "--no-verify", "-m", opts.Message); err != nil {
		return nil, err
	}

	hash, err := g.run(ctx, "commit", "rev-parse", "HEAD")
	if err != nil {
		return nil, err
	}

	commit := &Commit{
		Hash:    strings.TrimSpace(hash),
		Message: opts.Message,
		Files:   files,
		Reused:  exists,
	}
	g.logger.Debug("committed", "root", root, "hash", commit.Hash, "files", len(files), "reused", exists)
	return commit, nil
}

// GitVersion runs "git --version" and returns its output, e.g.
// "git version 2.47.0". A nil runner uses ExecRunner.
func GitVersion(ctx context.Context, runner CommandRunner) (string, error) {
	if runner == nil {
		runner = ExecRunner{}
	}
	res, err := runner.Run(ctx, "git", []string{"--version"}, RunOpts{})
	if err != nil {
		return "", fmt.Errorf("git is required but could not be run: %w", err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("git --version exited %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return strings.TrimSpace(res.Stdout), nil
}

type git struct {
	root   string
	env    map[string]string
	runner CommandRunner
	logger *slog.Logger
}

func newGit(root string, opts Options) *git {
	runner := opts.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	env := map[string]string{}
	if opts.AuthorName != "" {
		env["GIT_AUTHOR_NAME"] = opts.AuthorName
		env["GIT_COMMITTER_NAME"] = opts.AuthorName
	}
	if opts.AuthorEmail != "" {
		env["GIT_AUTHOR_EMAIL"] = opts.AuthorEmail
		env["GIT_COMMITTER_EMAIL"] = opts.AuthorEmail
	}

	return &git{
		root:   root,
		env:    env,
		runner: runner,
		logger: logger.With("component", "vcs"),
	}
}

// run executes git args in the repository root. op names the step for
// error reporting.
func (g *git) run(ctx context.Context, op string, args ...string) (string, error) {
	g.logger.Debug("git", "args", args, "dir", g.root)

	res, err := g.runner.Run(ctx, "git", args, RunOpts{Dir: g.root, Env: g.env})
	if err != nil {
		return "", errors.Vcs(errors.EGitFailed, op, g.root, fmt.Errorf("git %s: %w", args[0], err))
	}
	if res.ExitCode != 0 {
		msg := strings.TrimSpace(res.Stderr)
		if msg == "" {
			msg = strings.TrimSpace(res.Stdout)
		}
		return "", errors.Vcs(errors.EGitFailed, op, g.root, fmt.Errorf("git %s exited %d: %s", strings.Join(args, " "), res.ExitCode, msg))
	}
	return res.Stdout, nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
