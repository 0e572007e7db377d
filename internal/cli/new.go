package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stamp-dev/stamp/internal/branding"
	"github.com/stamp-dev/stamp/internal/config"
	"github.com/stamp-dev/stamp/internal/errors"
	"github.com/stamp-dev/stamp/internal/plan"
	"github.com/stamp-dev/stamp/internal/scaffold"
	"github.com/stamp-dev/stamp/internal/vcs"
)

// newOptions collects everything "stamp new" needs after flag parsing.
type newOptions struct {
	PlanRef   string
	Target    string
	Force     bool
	DryRun    bool
	NoGit     bool
	ReuseRepo bool
	Message   string
	Vars      map[string]string
	JSON      bool
}

var (
	newForce     bool
	newDryRun    bool
	newNoGit     bool
	newReuseRepo bool
	newMessage   string
	newVars      []string
	newJSON      bool
)

func init() {
	newCmd.Flags().BoolVar(&newForce, "force", false, "Overwrite existing files whose content differs from the plan")
	newCmd.Flags().BoolVar(&newDryRun, "dry-run", false, "Report what would be written without touching disk")
	newCmd.Flags().BoolVar(&newNoGit, "no-git", false, "Skip repository initialization and commit")
	newCmd.Flags().BoolVar(&newReuseRepo, "reuse-repo", false, "Commit into an existing repository at the target")
	newCmd.Flags().StringVarP(&newMessage, "message", "m", "", "Commit message (default: plan's, then config)")
	newCmd.Flags().StringArrayVar(&newVars, "var", nil, "Template variable as key=value (repeatable)")
	newCmd.Flags().BoolVar(&newJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new [plan] [target]",
	Short: "Scaffold a project from a plan",
	Long: `Materialize a plan into a target directory and commit the result.

The plan is the name of a built-in plan (see 'stamp plans list') or a path to
a plan file (.yaml, .yml, .json, .jsonc). Without arguments the default
built-in plan is written to ./<plan name>.

Existing files with identical content are left alone; files with different
content abort the run unless --force is given. A target that already holds a
git repository is rejected unless --reuse-repo is given.

Examples:
  stamp new
  stamp new fullstack-demo ./demo
  stamp new ./plans/service.yaml ./svc --var project_name=svc
  stamp new fullstack-demo ./demo --dry-run`,
	Args: usageArgs(cobra.MaximumNArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := parseVars(newVars)
		if err != nil {
			return err
		}

		settings := config.Current()
		opts := newOptions{
			Force:     newForce || (!cmd.Flags().Changed("force") && settings.Force),
			DryRun:    newDryRun,
			NoGit:     newNoGit,
			ReuseRepo: newReuseRepo || (!cmd.Flags().Changed("reuse-repo") && settings.ReuseRepo),
			Message:   newMessage,
			Vars:      vars,
			JSON:      newJSON,
		}
		if len(args) > 0 {
			opts.PlanRef = args[0]
		}
		if len(args) > 1 {
			opts.Target = args[1]
		}

		return runNew(cmd.Context(), opts, settings, cmd.OutOrStdout())
	},
}

// newReport is the --json output of "stamp new".
type newReport struct {
	Plan   string           `json:"plan"`
	Origin string           `json:"origin"`
	Result *scaffold.Result `json:"result"`
	Commit *vcs.Commit      `json:"commit,omitempty"`
}

func runNew(ctx context.Context, opts newOptions, settings config.Settings, out io.Writer) error {
	ref := opts.PlanRef
	if ref == "" {
		ref = branding.DefaultPlan()
	}

	p, err := plan.Resolve(ref)
	if err != nil {
		return err
	}
	if err := plan.CheckRequires(p, buildVersion); err != nil {
		return err
	}

	target, err := filepath.Abs(resolveTarget(opts.Target, p.Name))
	if err != nil {
		return fmt.Errorf("resolving target: %w", err)
	}

	commitEnabled := !opts.NoGit && !opts.DryRun

	// Refuse before writing anything, so a rejected run leaves no files.
	if commitEnabled && vcs.Exists(target) && !opts.ReuseRepo {
		return errors.Vcs(errors.ERepoExists, "init", target, fmt.Errorf("repository already exists (use --reuse-repo to commit into it)"))
	}

	progress := out
	if opts.JSON {
		progress = io.Discard
	} else {
		verb := "Scaffolding"
		if opts.DryRun {
			verb = "Dry run:"
		}
		fmt.Fprintf(out, "%s %s into %s\n", verb, p.Name, target)
	}

	s := scaffold.New(scaffold.Options{
		Force:    opts.Force,
		DryRun:   opts.DryRun,
		Vars:     opts.Vars,
		Progress: progress,
		Logger:   logger,
	})
	result, err := s.RunPlan(p, target)
	if err != nil {
		return err
	}

	report := newReport{Plan: p.Name, Origin: p.Origin, Result: result}

	if commitEnabled {
		commit, err := vcs.InitVersionControl(ctx, target, vcs.Options{
			Reuse:       opts.ReuseRepo,
			Message:     commitMessage(opts.Message, p, settings),
			AuthorName:  settings.AuthorName,
			AuthorEmail: settings.AuthorEmail,
			Logger:      logger,
		})
		if err != nil {
			return err
		}
		report.Commit = commit
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printSummary(out, report)
	return nil
}

// resolveTarget returns the target directory, defaulting to ./<plan name>.
func resolveTarget(target, planName string) string {
	if target != "" {
		return target
	}
	return filepath.Join(".", planName)
}

// commitMessage picks the commit message: flag, then plan, then config.
func commitMessage(flag string, p *plan.Plan, settings config.Settings) string {
	if flag != "" {
		return flag
	}
	if p.Commit.Message != "" {
		return p.Commit.Message
	}
	if settings.CommitMessage != "" {
		return settings.CommitMessage
	}
	return config.DefaultCommitMessage
}

// parseVars turns repeated key=value flags into a map. Later keys win.
func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Usage(errors.EUsage, fmt.Sprintf("invalid --var %q: expected key=value", pair))
		}
		vars[key] = value
	}
	return vars, nil
}

func printSummary(w io.Writer, r newReport) {
	res := r.Result
	fmt.Fprintf(w, "\n%d created, %d overwritten, %d unchanged",
		res.Count(scaffold.ActionCreated), res.Count(scaffold.ActionOverwritten), res.Count(scaffold.ActionUnchanged))
	if n := res.Count(scaffold.ActionChmod); n > 0 {
		fmt.Fprintf(w, ", %d mode updated", n)
	}
	if res.DryRun {
		fmt.Fprint(w, " (dry run, nothing written)")
	}
	fmt.Fprintln(w)

	if r.Commit != nil {
		short := r.Commit.Hash
		if len(short) > 7 {
			short = short[:7]
		}
		fmt.Fprintf(w, "Committed %s %q (%d files)\n", short, r.Commit.Message, len(r.Commit.Files))
	}
}
