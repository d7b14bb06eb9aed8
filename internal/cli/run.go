// Package cli provides the command-line interface for crucible.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/crucible-dev/crucible/internal/domain"
	"github.com/crucible-dev/crucible/internal/errors"
)

// AddRunCommand adds the run command to the root command.
func AddRunCommand(root *cobra.Command) {
	root.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	var savePath string

	cmd := &cobra.Command{
		Use:   "run <module>",
		Short: "Execute a single module",
		Long: `Execute one registered module against the shared execution context.

Examples:
  crucible run code_review
  crucible run test_suite --save results.json
  crucible run github --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModule(cmd, cmd.OutOrStdout(), args[0], savePath)
		},
	}

	cmd.Flags().StringVar(&savePath, "save", "", "persist the execution summary to this file")

	return cmd
}

func runModule(cmd *cobra.Command, w io.Writer, name, savePath string) error {
	CheckNoColor()
	out := NewOutput(w, cmd.Flag("output").Value.String())
	logger := Logger()

	a, err := newAgent(cmd.Context(), logger)
	if err != nil {
		return err
	}

	result := a.ExecuteModule(cmd.Context(), name, nil)

	if savePath != "" {
		if err := a.SaveResults(savePath); err != nil {
			return err
		}
	}

	if out.IsJSON() {
		if err := out.JSON(result); err != nil {
			return err
		}
	} else {
		printResult(out, result)
	}

	if !result.Success {
		return errors.Wrapf(errors.ErrModuleExecution, "%s", name)
	}
	return nil
}

// printResult renders one execution result as text.
func printResult(out *Output, result domain.ExecutionResult) {
	if result.Success {
		out.Success("%s completed in %.2fs", result.ModuleName, result.ExecutionTime)
		for key, value := range result.Data {
			out.Muted("  %s: %v", key, value)
		}
		return
	}

	out.Failure("%s failed after %.2fs", result.ModuleName, result.ExecutionTime)
	for _, msg := range result.Errors {
		out.Muted("  %s", msg)
	}
}
