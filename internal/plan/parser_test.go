package plan

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stamp-dev/stamp/internal/errors"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func TestParseFile_YAML(t *testing.T) {
	p, err := ParseFile(testPath("valid.yaml"))
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if p.Name != "hello" {
		t.Errorf("Name = %q, want %q", p.Name, "hello")
	}
	if p.Version != "1.2.0" {
		t.Errorf("Version = %q, want %q", p.Version, "1.2.0")
	}
	if p.Commit.Message != "Scaffold hello" {
		t.Errorf("Commit.Message = %q", p.Commit.Message)
	}
	if p.Vars["greeting"] != "hello" {
		t.Errorf("Vars[greeting] = %q", p.Vars["greeting"])
	}
	if len(p.Files) != 3 {
		t.Fatalf("Files len = %d, want 3", len(p.Files))
	}

	first := p.Files[0]
	if first.Path != "a/b/file.txt" || string(first.Content) != "hello" {
		t.Errorf("Files[0] = %q %q", first.Path, first.Content)
	}
	if first.Mode != 0644 {
		t.Errorf("Files[0].Mode = %o, want 0644", first.Mode)
	}
	if !p.Files[1].Template {
		t.Error("Files[1].Template should be true")
	}
	if p.Files[2].Mode != 0755 {
		t.Errorf("Files[2].Mode = %o, want 0755", p.Files[2].Mode)
	}
	if !filepath.IsAbs(p.Origin) {
		t.Errorf("Origin = %q, want absolute path", p.Origin)
	}
}

func TestParseFile_JSONCMatchesYAML(t *testing.T) {
	y, err := ParseFile(testPath("valid.yaml"))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	j, err := ParseFile(testPath("valid.jsonc"))
	if err != nil {
		t.Fatalf("jsonc: %v", err)
	}

	if y.Name != j.Name || y.Version != j.Version || y.Requires != j.Requires || y.Commit != j.Commit {
		t.Errorf("metadata differs: yaml=%+v jsonc=%+v", y, j)
	}
	if len(y.Files) != len(j.Files) {
		t.Fatalf("file counts differ: %d vs %d", len(y.Files), len(j.Files))
	}
	for i := range y.Files {
		a, b := y.Files[i], j.Files[i]
		if a.Path != b.Path || !bytes.Equal(a.Content, b.Content) || a.Template != b.Template || a.Mode != b.Mode {
			t.Errorf("Files[%d] differ: %+v vs %+v", i, a, b)
		}
	}
}

func TestParseFile_Source(t *testing.T) {
	p, err := ParseFile(testPath("sourced/plan.yaml"))
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if got := string(p.Files[0].Content); got != "print(\"hi\")\n" {
		t.Errorf("Content = %q", got)
	}
}

func TestParseFile_SourceEscape(t *testing.T) {
	_, err := ParseFile(testPath("escape-source.yaml"))
	if err == nil {
		t.Fatal("expected error for source outside the plan directory")
	}
	if errors.GetCode(err) != errors.EInvalidPlan {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.EInvalidPlan)
	}
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile(testPath("nonexistent.yaml"))
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
	if errors.ExitCode(err) != 2 {
		t.Errorf("ExitCode = %d, want 2", errors.ExitCode(err))
	}
}

func TestParseFile_Invalid(t *testing.T) {
	tests := []struct {
		file    string
		errPart string
	}{
		{"invalid-missing-files.yaml", "invalid plan"},
		{"invalid-name.yaml", "/name"},
		{"invalid-both.yaml", "invalid plan"},
		{"invalid-mode.yaml", "/files/0/mode"},
		{"bad-version.yaml", "not semver"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := ParseFile(testPath(tt.file))
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.GetCode(err) != errors.EInvalidPlan {
				t.Errorf("code = %q, want %q", errors.GetCode(err), errors.EInvalidPlan)
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q should mention %q", err.Error(), tt.errPart)
			}
		})
	}
}

func TestLoad_FS(t *testing.T) {
	fsys := fstest.MapFS{
		"plans/web/plan.yaml":       {Data: []byte("name: web\nfiles:\n  - path: index.html\n    source: tpl/index.html\n")},
		"plans/web/tpl/index.html": {Data: []byte("<h1>hi</h1>\n")},
	}
	p, err := Load(fsys, "plans/web/plan.yaml")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := string(p.Files[0].Content); got != "<h1>hi</h1>\n" {
		t.Errorf("Content = %q", got)
	}
	if p.Origin != "plans/web/plan.yaml" {
		t.Errorf("Origin = %q", p.Origin)
	}
}

func TestParse_SourceWithoutReader(t *testing.T) {
	data := []byte("name: x\nfiles:\n  - path: a\n    source: b\n")
	if _, err := Parse(data, FormatYAML, nil); err == nil {
		t.Fatal("expected error when no source reader is available")
	}
}

func TestParse_EmptyVarsIsNonNil(t *testing.T) {
	p, err := Parse([]byte("name: x\nfiles:\n  - path: a\n    content: b\n"), FormatYAML, nil)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if p.Vars == nil {
		t.Error("Vars should be an empty map, not nil")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"plan.yaml", FormatYAML},
		{"plan.yml", FormatYAML},
		{"plan.json", FormatJSONC},
		{"plan.JSONC", FormatJSONC},
		{"plan", FormatYAML},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.name); got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestParseFile_RelativeToCwd(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "p.yml"), []byte("name: cwd\nfiles:\n  - path: a\n    content: b\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	p, err := ParseFile("p.yml")
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if p.Name != "cwd" {
		t.Errorf("Name = %q", p.Name)
	}
}
