package plan

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/stamp-dev/stamp/internal/errors"
)

// builtinFS holds the plans shipped with the binary. Each plan lives in its
// own directory with a plan.yaml and any source files it references.
//
//go:embed builtin
var builtinFS embed.FS

const (
	builtinRoot     = "builtin"
	builtinPlanFile = "plan.yaml"
	builtinPrefix   = "builtin:"
)

// Builtins returns the names of all embedded plans, sorted.
func Builtins() []string {
	entries, err := fs.ReadDir(builtinFS, builtinRoot)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// IsBuiltin reports whether name is an embedded plan.
func IsBuiltin(name string) bool {
	_, err := fs.Stat(builtinFS, path.Join(builtinRoot, name, builtinPlanFile))
	return fs.ValidPath(name) && err == nil
}

// Builtin loads an embedded plan by name.
func Builtin(name string) (*Plan, error) {
	if !IsBuiltin(name) {
		return nil, errors.Usage(errors.EInvalidPlan, fmt.Sprintf("unknown built-in plan %q", name))
	}
	sub, err := fs.Sub(builtinFS, path.Join(builtinRoot, name))
	if err != nil {
		return nil, fmt.Errorf("opening built-in plan %s: %w", name, err)
	}
	pl, err := Load(sub, builtinPlanFile)
	if err != nil {
		return nil, err
	}
	pl.Origin = builtinPrefix + name
	return pl, nil
}

// Resolve loads ref as a built-in plan name when one exists, otherwise as a
// path to a plan file.
func Resolve(ref string) (*Plan, error) {
	if IsBuiltin(ref) {
		return Builtin(ref)
	}
	return ParseFile(ref)
}
