package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/stamp-dev/stamp/internal/config"
	"github.com/stamp-dev/stamp/internal/plan"
	"github.com/stamp-dev/stamp/internal/vcs"
)

var doctorFix bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create the config directory if it is missing")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that stamp can scaffold and commit",
	Long: `Run diagnostic checks: git availability, the config file, the commit
identity, and every built-in plan.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		d := doctor{out: out, runner: vcs.ExecRunner{}, fix: doctorFix, colors: newPalette(out)}
		if failed := d.run(cmd.Context(), config.Current()); failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

// doctor runs the health checks and counts failures.
type doctor struct {
	out    io.Writer
	runner vcs.CommandRunner
	fix    bool
	colors palette
	failed int
}

func (d *doctor) line(tag string, format string, args ...any) {
	fmt.Fprintf(d.out, "  %s %s\n", tag, fmt.Sprintf(format, args...))
}

func (d *doctor) ok(format string, args ...any) {
	d.line(d.colors.paint(d.colors.ok, "[ OK ]"), format, args...)
}

func (d *doctor) miss(format string, args ...any) {
	d.line(d.colors.paint(d.colors.warn, "[MISS]"), format, args...)
}

func (d *doctor) fixed(format string, args ...any) {
	d.line(d.colors.paint(d.colors.ok, "[FIX ]"), format, args...)
}

func (d *doctor) hint(text string) {
	fmt.Fprintf(d.out, "         %s\n", d.colors.paint(d.colors.faint, text))
}

func (d *doctor) fail(format string, args ...any) {
	d.failed++
	d.line(d.colors.paint(d.colors.fail, "[FAIL]"), format, args...)
}

func (d *doctor) run(ctx context.Context, settings config.Settings) int {
	fmt.Fprintln(d.out, "Git:")
	d.checkGit(ctx)

	fmt.Fprintln(d.out, "Config:")
	d.checkConfig()
	d.checkIdentity(settings)

	fmt.Fprintln(d.out, "Built-in plans:")
	d.checkBuiltins()

	return d.failed
}

func (d *doctor) checkGit(ctx context.Context) {
	v, err := vcs.GitVersion(ctx, d.runner)
	if err != nil {
		d.fail("%v", err)
		d.hint("Install git or use 'stamp new --no-git'")
		return
	}
	d.ok("%s", v)
}

func (d *doctor) checkConfig() {
	dir := config.Dir()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		d.miss("%s does not exist", dir)
		if !d.fix {
			d.hint("Run 'stamp doctor --fix' or 'stamp config set' to create it")
			return
		}
		if err := config.EnsureDir(); err != nil {
			d.fail("%v", err)
			return
		}
		d.fixed("Created %s", dir)
		return
	}
	d.ok("%s exists", dir)

	path := config.FilePath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		d.miss("%s not found, using defaults", filepath.Base(path))
		return
	}
	if err != nil {
		d.fail("%s: %v", path, err)
		return
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		d.fail("%s: %v", path, err)
		return
	}
	d.ok("%s parses", path)
}

func (d *doctor) checkIdentity(settings config.Settings) {
	if settings.AuthorName == "" || settings.AuthorEmail == "" {
		d.fail("commit identity incomplete (set %s and %s)", config.KeyAuthorName, config.KeyAuthorEmail)
		return
	}
	d.ok("commits as %s <%s>", settings.AuthorName, settings.AuthorEmail)
}

func (d *doctor) checkBuiltins() {
	for _, name := range plan.Builtins() {
		p, err := plan.Builtin(name)
		if err == nil {
			err = checkPlan(p)
		}
		if err != nil {
			d.fail("%s: %v", name, err)
			continue
		}
		d.ok("%s", name)
	}
}
