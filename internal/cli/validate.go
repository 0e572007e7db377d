package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stamp-dev/stamp/internal/plan"
	"github.com/stamp-dev/stamp/internal/scaffold"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <plan>",
	Short: "Check a plan without writing anything",
	Long: `Validate a plan file (or built-in plan): schema, version constraint, entry
paths, and templates. Nothing is written.`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := plan.Resolve(args[0])
		if err != nil {
			return err
		}
		if err := checkPlan(p); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%d files)\n", p.Origin, len(p.Files))
		return nil
	},
}

// checkPlan verifies a loaded plan's version constraint, paths, and
// templates without touching disk.
func checkPlan(p *plan.Plan) error {
	if err := plan.CheckRequires(p, buildVersion); err != nil {
		return err
	}

	// Paths are checked against a throwaway root; only their shape matters.
	root := filepath.Join(string(filepath.Separator), "stamp-validate")
	if err := scaffold.CheckPlan(p, root); err != nil {
		return err
	}

	data := scaffold.NewTemplateData(p, nil)
	for _, e := range p.Files {
		if _, err := scaffold.Render(e, data); err != nil {
			return err
		}
	}
	return nil
}
