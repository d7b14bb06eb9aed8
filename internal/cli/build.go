// Package cli provides the command-line interface for crucible.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/crucible-dev/crucible/internal/domain"
	"github.com/crucible-dev/crucible/internal/errors"
)

// AddBuildCommand adds the build command to the root command.
func AddBuildCommand(root *cobra.Command) {
	root.AddCommand(newBuildCmd())
}

func newBuildCmd() *cobra.Command {
	var buildID string
	var savePath string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Execute a comprehensive build",
		Long: `Run the full build cycle: pre-commit checks, every named workflow,
exception aggregation, and the configured ticketing, documentation, and
source-control integrations.

The command exits non-zero when the build fails, but the build context is
always produced and the post-build report is always attempted.

Examples:
  crucible build
  crucible build --build-id release-42
  crucible build --output json --save results.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, cmd.OutOrStdout(), buildID, savePath)
		},
	}

	cmd.Flags().StringVar(&buildID, "build-id", "", "build identifier (timestamp when empty)")
	cmd.Flags().StringVar(&savePath, "save", "", "persist the execution summary to this file")

	return cmd
}

func runBuild(cmd *cobra.Command, w io.Writer, buildID, savePath string) error {
	CheckNoColor()
	out := NewOutput(w, cmd.Flag("output").Value.String())

	a, err := newAgent(cmd.Context(), Logger())
	if err != nil {
		return err
	}

	build := a.ExecuteComprehensiveBuild(cmd.Context(), buildID)

	if savePath != "" {
		if err := a.SaveResults(savePath); err != nil {
			return err
		}
	}

	if out.IsJSON() {
		if err := out.JSON(build); err != nil {
			return err
		}
	} else {
		printBuild(out, build)
	}

	if !build.Success {
		return errors.Wrapf(errors.ErrModuleExecution, "build %s failed", build.BuildID)
	}
	return nil
}

// printBuild renders the build context as text.
func printBuild(out *Output, build *domain.BuildContext) {
	out.Header("Build " + build.BuildID)
	if build.Success {
		out.Success("  status: success")
	} else {
		out.Failure("  status: failed")
		if build.Error != "" {
			out.Muted("  error: %s", build.Error)
		}
	}
	out.Line("  project: %s (%s)", build.Project, build.Environment)

	if len(build.Exceptions) > 0 {
		out.Header("Exceptions")
		for _, rec := range build.Exceptions {
			out.Muted("  [%s] %s: %s", rec.Component, rec.Error.Type, rec.Error.Message)
		}
	}

	if len(build.Artifacts) > 0 {
		out.Header("Artifacts")
		for _, artifact := range build.Artifacts {
			out.Muted("  %s", artifact)
		}
	}

	if len(build.Integrations) > 0 {
		out.Header("Integrations")
		for key := range build.Integrations {
			out.Muted("  %s", key)
		}
	}
}
