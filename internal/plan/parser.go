package plan

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/jsonc"
	"go.yaml.in/yaml/v3"

	"github.com/stamp-dev/stamp/internal/errors"
	"github.com/stamp-dev/stamp/internal/platform"
)

// Format identifies the plan file syntax.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSONC Format = "jsonc"
)

// DetectFormat picks a Format from a file name's extension. Unknown
// extensions are treated as YAML.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".jsonc":
		return FormatJSONC
	default:
		return FormatYAML
	}
}

// decode unmarshals plan bytes into v. JSONC has its comments and trailing
// commas stripped and is then decoded as plain JSON.
func decode(data []byte, format Format, v interface{}) error {
	if format == FormatJSONC {
		return json.Unmarshal(jsonc.ToJSON(data), v)
	}
	return yaml.Unmarshal(data, v)
}

// ParseFile loads a plan from a file on disk. Relative "source" entries are
// resolved against the file's directory.
func ParseFile(p string) (*Plan, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, fmt.Errorf("resolving plan path %s: %w", p, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, errors.WrapUsage(errors.EInvalidPlan, "reading plan "+p, err)
	}
	pl, err := Load(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
	if err != nil {
		return nil, err
	}
	pl.Origin = abs
	return pl, nil
}

// Load reads the plan file name from fsys, validates it against the schema,
// and reads every "source" file relative to the plan's directory in fsys.
func Load(fsys fs.FS, name string) (*Plan, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.WrapUsage(errors.EInvalidPlan, "reading plan "+name, err)
	}

	pl, err := Parse(data, DetectFormat(name), func(source string) ([]byte, error) {
		if !fs.ValidPath(source) {
			return nil, fmt.Errorf("source %q must be a relative path inside the plan directory", source)
		}
		return fs.ReadFile(fsys, path.Join(path.Dir(name), source))
	})
	if err != nil {
		return nil, err
	}
	pl.Origin = name
	return pl, nil
}

// SourceReader returns the bytes of a plan-relative source file.
type SourceReader func(source string) ([]byte, error)

// Parse validates and decodes plan bytes. read resolves "source" entries;
// it may be nil when the plan only uses inline content.
func Parse(data []byte, format Format, read SourceReader) (*Plan, error) {
	result, err := Validate(data, format)
	if err != nil {
		return nil, errors.WrapUsage(errors.EInvalidPlan, "invalid plan", err)
	}
	if !result.Valid {
		msgs := make([]string, 0, len(result.Issues))
		for _, issue := range result.Issues {
			msgs = append(msgs, issue.String())
		}
		return nil, errors.Usage(errors.EInvalidPlan, "invalid plan:\n  "+strings.Join(msgs, "\n  "))
	}

	var raw planFile
	if err := decode(data, format, &raw); err != nil {
		return nil, errors.WrapUsage(errors.EInvalidPlan, "decoding plan", err)
	}

	return build(&raw, read)
}

// build converts the on-disk representation into a Plan.
func build(raw *planFile, read SourceReader) (*Plan, error) {
	if raw.Version != "" {
		if _, err := semver.NewVersion(raw.Version); err != nil {
			return nil, errors.WrapUsage(errors.EInvalidPlan, fmt.Sprintf("plan version %q is not semver", raw.Version), err)
		}
	}
	if raw.Requires != "" {
		if _, err := semver.NewConstraint(raw.Requires); err != nil {
			return nil, errors.WrapUsage(errors.EInvalidPlan, fmt.Sprintf("plan requires %q is not a version constraint", raw.Requires), err)
		}
	}

	pl := &Plan{
		Name:        raw.Name,
		Version:     raw.Version,
		Description: raw.Description,
		Requires:    raw.Requires,
		Vars:        raw.Vars,
		Files:       make([]Entry, 0, len(raw.Files)),
	}
	if pl.Vars == nil {
		pl.Vars = map[string]string{}
	}
	if raw.Commit != nil {
		pl.Commit.Message = raw.Commit.Message
	}

	for i, f := range raw.Files {
		mode, err := platform.ParseMode(f.Mode)
		if err != nil {
			return nil, errors.WrapUsage(errors.EInvalidPlan, fmt.Sprintf("files[%d] %s", i, f.Path), err)
		}

		var content []byte
		switch {
		case f.Content != nil:
			content = []byte(*f.Content)
		case read == nil:
			return nil, errors.Usage(errors.EInvalidPlan, fmt.Sprintf("files[%d] %s: source files are not available here", i, f.Path))
		default:
			content, err = read(f.Source)
			if err != nil {
				return nil, errors.WrapUsage(errors.EInvalidPlan, fmt.Sprintf("files[%d] %s: reading source %s", i, f.Path, f.Source), err)
			}
		}

		pl.Files = append(pl.Files, Entry{
			Path:     f.Path,
			Content:  content,
			Template: f.Template,
			Mode:     mode,
		})
	}

	return pl, nil
}
