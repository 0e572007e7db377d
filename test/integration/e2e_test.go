//go:build integration

package integration_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stamp-dev/stamp/internal/errors"
	"github.com/stamp-dev/stamp/internal/plan"
	"github.com/stamp-dev/stamp/internal/scaffold"
	"github.com/stamp-dev/stamp/internal/vcs"
)

// withIdentity sets a commit identity, since the test git config is empty.
func withIdentity(opts vcs.Options) vcs.Options {
	opts.AuthorName = "Stamp"
	opts.AuthorEmail = "stamp@localhost"
	return opts
}

var demoFiles = []string{
	"README.md",
	"backend/main.py",
	"backend/requirements.txt",
	"backend/Dockerfile",
	"backend/wasm/cpp/compute.cpp",
	"backend/wasm/rust/Cargo.toml",
	"backend/wasm/rust/src/lib.rs",
	"frontend/hooks/useCompute.js",
	"frontend/hooks/useHealth.js",
	"frontend/pages/index.js",
}

// TestFullstackDemo scaffolds the built-in plan into a fresh directory and
// commits it: every file exists and the repository holds exactly one commit
// containing all of them.
func TestFullstackDemo(t *testing.T) {
	requireGit(t)
	root := filepath.Join(t.TempDir(), "demo")

	p, err := plan.Builtin("fullstack-demo")
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	result, err := scaffold.New(scaffold.Options{}).RunPlan(p, root)
	if err != nil {
		t.Fatalf("RunPlan: %v", err)
	}
	if got := result.Count(scaffold.ActionCreated); got != len(demoFiles) {
		t.Errorf("created = %d, want %d", got, len(demoFiles))
	}

	commit, err := vcs.InitVersionControl(context.Background(), root, withIdentity(vcs.Options{Message: p.Commit.Message}))
	if err != nil {
		t.Fatalf("InitVersionControl: %v", err)
	}

	if n := git(t, root, "rev-list", "--count", "HEAD"); n != "1" {
		t.Errorf("commit count = %s, want 1", n)
	}
	if subject := git(t, root, "log", "-1", "--format=%s"); subject != p.Commit.Message {
		t.Errorf("commit subject = %q, want %q", subject, p.Commit.Message)
	}

	tracked := strings.Split(git(t, root, "ls-files"), "\n")
	if len(tracked) != len(demoFiles) {
		t.Errorf("tracked files = %v", tracked)
	}
	if len(commit.Files) != len(demoFiles) {
		t.Errorf("commit files = %v", commit.Files)
	}

	// Placeholders of the generated project stay literal.
	assertFileContains(t, filepath.Join(root, "frontend", "hooks", "useHealth.js"), "BACKEND_URL")
	assertFileContains(t, filepath.Join(root, "frontend", "hooks", "useCompute.js"), "BACKEND_URL")
	assertFileContains(t, filepath.Join(root, "README.md"), "# fullstack-demo")
}

// TestSingleFilePlan covers the smallest plan: one nested file and one commit.
func TestSingleFilePlan(t *testing.T) {
	requireGit(t)
	root := t.TempDir()

	p := &plan.Plan{Name: "single", Files: []plan.Entry{{Path: "a/b/file.txt", Content: []byte("hello")}}}
	if _, err := scaffold.New(scaffold.Options{}).RunPlan(p, root); err != nil {
		t.Fatalf("RunPlan: %v", err)
	}
	if _, err := vcs.InitVersionControl(context.Background(), root, withIdentity(vcs.Options{Message: "Initial commit"})); err != nil {
		t.Fatalf("InitVersionControl: %v", err)
	}

	files := snapshot(t, root)
	if len(files) != 1 || files["a/b/file.txt"] != "hello" {
		t.Errorf("tree = %v", files)
	}
	if n := git(t, root, "rev-list", "--count", "HEAD"); n != "1" {
		t.Errorf("commit count = %s, want 1", n)
	}
}

// TestRerunIsIdempotent writes the same plan twice: the second run leaves
// byte-identical output and reuse adds nothing to commit.
func TestRerunIsIdempotent(t *testing.T) {
	requireGit(t)
	root := t.TempDir()

	p, err := plan.Builtin("fullstack-demo")
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	s := scaffold.New(scaffold.Options{})
	if _, err := s.RunPlan(p, root); err != nil {
		t.Fatalf("first RunPlan: %v", err)
	}
	if _, err := vcs.InitVersionControl(context.Background(), root, withIdentity(vcs.Options{Message: "first"})); err != nil {
		t.Fatalf("first InitVersionControl: %v", err)
	}
	before := snapshot(t, root)

	result, err := s.RunPlan(p, root)
	if err != nil {
		t.Fatalf("second RunPlan: %v", err)
	}
	if got := result.Count(scaffold.ActionUnchanged); got != len(demoFiles) {
		t.Errorf("unchanged = %d, want %d", got, len(demoFiles))
	}

	after := snapshot(t, root)
	for path, content := range before {
		if after[path] != content {
			t.Errorf("%s changed on rerun", path)
		}
	}

	_, err = vcs.InitVersionControl(context.Background(), root, withIdentity(vcs.Options{Message: "second"}))
	if errors.GetCode(err) != errors.ERepoExists {
		t.Errorf("without reuse: code = %q, want %q", errors.GetCode(err), errors.ERepoExists)
	}

	_, err = vcs.InitVersionControl(context.Background(), root, withIdentity(vcs.Options{Message: "second", Reuse: true}))
	if errors.GetCode(err) != errors.ENothingToCommit {
		t.Errorf("with reuse: code = %q, want %q", errors.GetCode(err), errors.ENothingToCommit)
	}
}

// TestTraversalWritesNothing checks that a plan with an escaping entry is
// rejected before any file, including earlier valid ones, is written.
func TestTraversalWritesNothing(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "root")

	p := &plan.Plan{Name: "evil", Files: []plan.Entry{
		{Path: "ok.txt", Content: []byte("fine")},
		{Path: "../escape.txt", Content: []byte("nope")},
	}}
	_, err := scaffold.New(scaffold.Options{}).RunPlan(p, root)
	if errors.GetCode(err) != errors.EPathTraversal {
		t.Fatalf("code = %q, want %q (err: %v)", errors.GetCode(err), errors.EPathTraversal, err)
	}
	if files := snapshot(t, parent); len(files) != 0 {
		t.Errorf("files written: %v", files)
	}
}
