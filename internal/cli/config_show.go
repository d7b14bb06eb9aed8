// Package cli provides the command-line interface for crucible.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/crucible-dev/crucible/internal/config"
	"github.com/crucible-dev/crucible/internal/logging"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	root.AddCommand(cmd)
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Print the merged configuration after applying defaults, the global
config, the project config, and environment variables. Secrets are redacted.

Examples:
  crucible config show
  crucible config show --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, cmd.OutOrStdout())
		},
	}
}

func runConfigShow(cmd *cobra.Command, w io.Writer) error {
	CheckNoColor()
	out := NewOutput(w, cmd.Flag("output").Value.String())

	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	redactSecrets(cfg)

	if out.IsJSON() {
		return out.JSON(cfg)
	}

	out.Header("Project")
	out.Line("  name: %s", cfg.Project.Name)
	out.Line("  root: %s", cfg.Project.Root)
	out.Line("  type: %s", cfg.Project.Type)

	out.Header("Modules")
	out.Line("  review:     enabled=%t threshold=%.1f", cfg.Review.Enabled, cfg.Review.QualityThreshold)
	out.Line("  tests:      enabled=%t categories=%v", cfg.Tests.Enabled, cfg.Tests.Categories)
	out.Line("  github:     enabled=%t repo=%s/%s", cfg.GitHub.Enabled, cfg.GitHub.Owner, cfg.GitHub.Repo)
	out.Line("  jira:       enabled=%t project=%s", cfg.Jira.Enabled, cfg.Jira.ProjectKey)
	out.Line("  confluence: enabled=%t space=%s", cfg.Confluence.Enabled, cfg.Confluence.SpaceKey)
	out.Line("  deployment: enabled=%t environment=%s", cfg.Deployment.Enabled, cfg.Deployment.Environment)

	out.Header("Build")
	out.Line("  pre_commit_checks: %t", cfg.Build.PreCommitChecks)
	out.Line("  exception_reporting: %t (fail_on_exceptions=%t)", cfg.Build.ExceptionReporting, cfg.Build.FailOnExceptions)
	return nil
}

// redactSecrets blanks credential fields before display.
func redactSecrets(cfg *config.Config) {
	if cfg.GitHub.Token != "" {
		cfg.GitHub.Token = logging.RedactedValue
	}
	if cfg.Jira.APIToken != "" {
		cfg.Jira.APIToken = logging.RedactedValue
	}
	if cfg.Confluence.APIToken != "" {
		cfg.Confluence.APIToken = logging.RedactedValue
	}
}
