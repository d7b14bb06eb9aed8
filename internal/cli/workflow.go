// Package cli provides the command-line interface for crucible.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/crucible-dev/crucible/internal/domain"
	"github.com/crucible-dev/crucible/internal/errors"
)

// AddWorkflowCommand adds the workflow command to the root command.
func AddWorkflowCommand(root *cobra.Command) {
	root.AddCommand(newWorkflowCmd())
}

func newWorkflowCmd() *cobra.Command {
	var savePath string

	cmd := &cobra.Command{
		Use:   "workflow <name>",
		Short: "Execute a named workflow",
		Long: `Execute the modules of a named workflow in order. Execution stops at
the first failed module.

Without a name, the available workflow definitions are listed.

Examples:
  crucible workflow quality_gate
  crucible workflow full_automation --save results.json
  crucible workflow`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listWorkflows(cmd, cmd.OutOrStdout())
			}
			return runWorkflow(cmd, cmd.OutOrStdout(), args[0], savePath)
		},
	}

	cmd.Flags().StringVar(&savePath, "save", "", "persist the execution summary to this file")

	return cmd
}

func listWorkflows(cmd *cobra.Command, w io.Writer) error {
	CheckNoColor()
	out := NewOutput(w, cmd.Flag("output").Value.String())

	a, err := newAgent(cmd.Context(), Logger())
	if err != nil {
		return err
	}

	defs := a.Workflows().All()
	if out.IsJSON() {
		return out.JSON(defs)
	}

	out.Header("Workflows")
	for _, def := range defs {
		out.Line("  %s", def.Name)
		for _, module := range def.Modules {
			out.Muted("    %s", module)
		}
	}
	return nil
}

func runWorkflow(cmd *cobra.Command, w io.Writer, name, savePath string) error {
	CheckNoColor()
	out := NewOutput(w, cmd.Flag("output").Value.String())

	a, err := newAgent(cmd.Context(), Logger())
	if err != nil {
		return err
	}

	results, err := a.ExecuteNamedWorkflow(cmd.Context(), name)
	if err != nil {
		return err
	}

	if savePath != "" {
		if err := a.SaveResults(savePath); err != nil {
			return err
		}
	}

	if out.IsJSON() {
		if err := out.JSON(map[string]any{
			"workflow": name,
			"results":  results,
			"summary":  a.Summary(),
		}); err != nil {
			return err
		}
	} else {
		out.Header("Workflow " + name)
		for _, result := range results {
			printResult(out, result)
		}
		printSummary(out, a.Summary())
	}

	for _, result := range results {
		if !result.Success {
			return errors.Wrapf(errors.ErrModuleExecution, "workflow %s stopped at %s", name, result.ModuleName)
		}
	}
	return nil
}

// printSummary renders the session summary as text.
func printSummary(out *Output, summary domain.ExecutionSummary) {
	out.Header("Summary")
	out.Line("  modules: %d (%d ok, %d failed)", summary.TotalModules, summary.SuccessfulModules, summary.FailedModules)
	out.Line("  success rate: %.1f%%", summary.SuccessRate)
	out.Line("  total time: %.2fs", summary.TotalExecutionTime)
}
