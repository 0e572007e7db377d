package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stamp-dev/stamp/internal/errors"
	"github.com/stamp-dev/stamp/internal/plan"
)

// ResolvePath joins the slash-separated relative path rel onto root and
// verifies the result stays inside root. Absolute paths, ".." escapes, and
// paths into the .git directory are rejected with E_PATH_TRAVERSAL.
func ResolvePath(root, rel string) (string, error) {
	if rel == "" {
		return "", errors.Filesystem(errors.EPathTraversal, "resolve", rel, fmt.Errorf("empty path"))
	}
	if strings.HasPrefix(rel, "/") || filepath.IsAbs(rel) {
		return "", errors.Filesystem(errors.EPathTraversal, "resolve", rel, fmt.Errorf("absolute paths are not allowed"))
	}

	local := filepath.Clean(filepath.FromSlash(rel))
	if !filepath.IsLocal(local) {
		return "", errors.Filesystem(errors.EPathTraversal, "resolve", rel, fmt.Errorf("path escapes the target root"))
	}

	first := strings.SplitN(filepath.ToSlash(local), "/", 2)[0]
	if first == ".git" {
		return "", errors.Filesystem(errors.EPathTraversal, "resolve", rel, fmt.Errorf("writing into .git is not allowed"))
	}

	return filepath.Join(root, local), nil
}

// CheckPlan validates every entry path of p against root without touching
// the filesystem. It rejects escapes, duplicate paths, and entries that would
// need an earlier file to also be a directory.
func CheckPlan(p *plan.Plan, root string) error {
	files := make(map[string]int, len(p.Files))
	dirs := make(map[string]int)

	for i, e := range p.Files {
		full, err := ResolvePath(root, e.Path)
		if err != nil {
			return errors.AtEntry(err, i)
		}

		if prev, ok := files[full]; ok {
			return errors.Usage(errors.EInvalidPlan, fmt.Sprintf("entry %d: %s duplicates entry %d", i, e.Path, prev))
		}
		if prev, ok := dirs[full]; ok {
			return errors.Usage(errors.EInvalidPlan, fmt.Sprintf("entry %d: %s is a directory of entry %d", i, e.Path, prev))
		}
		files[full] = i

		for dir := filepath.Dir(full); dir != root && len(dir) > len(root); dir = filepath.Dir(dir) {
			if prev, ok := files[dir]; ok {
				return errors.Usage(errors.EInvalidPlan, fmt.Sprintf("entry %d: %s needs %s to be a directory, but entry %d writes it as a file", i, e.Path, p.Files[prev].Path, prev))
			}
			if _, ok := dirs[dir]; !ok {
				dirs[dir] = i
			}
		}
	}
	return nil
}

// ensureContained verifies that dir, after resolving symlinks, still lies
// inside root. It catches directories inside the target that are symlinks
// to somewhere else.
func ensureContained(root, dir string) error {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return errors.Filesystem(errors.EFilesystem, "resolve", root, err)
	}
	realDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return errors.Filesystem(errors.EFilesystem, "resolve", dir, err)
	}
	rel, err := filepath.Rel(realRoot, realDir)
	if err != nil || !(rel == "." || filepath.IsLocal(rel)) {
		return errors.Filesystem(errors.EPathTraversal, "resolve", dir, fmt.Errorf("resolves outside %s", root))
	}
	return nil
}

// ensureAncestorContained checks the deepest existing ancestor of dir (dir
// itself included) with ensureContained. It must run before directories are
// created: os.MkdirAll follows symlinks and would otherwise create
// directories outside root. A root that does not exist yet holds nothing
// that could escape.
func ensureAncestorContained(root, dir string) error {
	if _, err := os.Lstat(root); os.IsNotExist(err) {
		return nil
	}
	existing := dir
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		if existing == root || len(existing) <= len(root) {
			return nil
		}
		existing = filepath.Dir(existing)
	}
	return ensureContained(root, existing)
}
