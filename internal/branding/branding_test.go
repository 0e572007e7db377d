package branding

import (
	"testing"

	"go.yaml.in/yaml/v3"
)

func TestEmbeddedBranding(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"CLIName", CLIName(), "stamp"},
		{"HomeDir", HomeDir(), ".stamp"},
		{"EnvPrefix", EnvPrefix(), "STAMP"},
		{"DefaultPlan", DefaultPlan(), "fullstack-demo"},
		{"CommitAuthorEmail", CommitAuthorEmail(), "stamp@localhost"},
		{"EnvVar", EnvVar("home"), "STAMP_HOME"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s() = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

// Every key in branding.yaml must map to a field; unknown keys would be
// silently ignored by load.
func TestBrandingYAMLHasNoUnusedKeys(t *testing.T) {
	var keys map[string]any
	if err := yaml.Unmarshal(rawBranding, &keys); err != nil {
		t.Fatalf("parsing branding.yaml: %v", err)
	}
	known := map[string]bool{
		"cli_name": true, "display_name": true, "description": true,
		"home_dir": true, "env_prefix": true, "commit_author_name": true,
		"commit_author_email": true, "default_plan": true,
	}
	for k := range keys {
		if !known[k] {
			t.Errorf("branding.yaml key %q is not used", k)
		}
	}
}
