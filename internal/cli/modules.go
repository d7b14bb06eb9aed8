// Package cli provides the command-line interface for crucible.
package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// AddModulesCommand adds the modules command to the root command.
func AddModulesCommand(root *cobra.Command) {
	root.AddCommand(newModulesCmd())
}

func newModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List registered modules",
		Long: `List the modules that passed configuration validation and are
available to workflows.

Examples:
  crucible modules
  crucible modules --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runModules(cmd, cmd.OutOrStdout())
		},
	}
}

func runModules(cmd *cobra.Command, w io.Writer) error {
	CheckNoColor()
	out := NewOutput(w, cmd.Flag("output").Value.String())
	logger := Logger()

	a, err := newAgent(cmd.Context(), logger)
	if err != nil {
		return err
	}

	names := a.Registry().Names()
	workflowNames := a.Workflows().Names()

	if out.IsJSON() {
		return out.JSON(map[string]any{
			"modules":   names,
			"workflows": workflowNames,
		})
	}

	out.Header("Registered modules")
	if len(names) == 0 {
		out.Muted("  none (check module configuration)")
	}
	for _, name := range names {
		out.Line("  %s", name)
	}

	out.Header("Workflows")
	for _, name := range workflowNames {
		out.Line("  %s", name)
	}
	return nil
}
