package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stamp-dev/stamp/internal/plan"
	"github.com/stamp-dev/stamp/internal/platform"
)

func init() {
	plansCmd.AddCommand(plansListCmd)
	plansCmd.AddCommand(plansShowCmd)
	rootCmd.AddCommand(plansCmd)
}

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Inspect built-in plans",
}

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in plans",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tVERSION\tFILES\tDESCRIPTION")
		for _, name := range plan.Builtins() {
			p, err := plan.Builtin(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.Name, p.Version, len(p.Files), p.Description)
		}
		return tw.Flush()
	},
}

var plansShowCmd = &cobra.Command{
	Use:   "show <plan>",
	Short: "Show the files a plan writes",
	Long:  `Show a plan's metadata and the files it writes. Accepts a built-in name or a plan file path.`,
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := plan.Resolve(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name:        %s\n", p.Name)
		if p.Version != "" {
			fmt.Fprintf(out, "Version:     %s\n", p.Version)
		}
		if p.Description != "" {
			fmt.Fprintf(out, "Description: %s\n", p.Description)
		}
		if p.Requires != "" {
			fmt.Fprintf(out, "Requires:    %s\n", p.Requires)
		}
		fmt.Fprintf(out, "Origin:      %s\n", p.Origin)
		if p.Commit.Message != "" {
			fmt.Fprintf(out, "Commit:      %s\n", p.Commit.Message)
		}

		fmt.Fprintln(out, "\nFiles:")
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, e := range p.Files {
			kind := "verbatim"
			if e.Template {
				kind = "template"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%d bytes\n", e.Path, platform.FormatMode(e.Mode), kind, len(e.Content))
		}
		return tw.Flush()
	},
}
