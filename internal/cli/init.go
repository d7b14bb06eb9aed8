// Package cli provides the command-line interface for crucible.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/crucible-dev/crucible/internal/config"
	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/errors"
)

// AddInitCommand adds the init command to the root command.
func AddInitCommand(root *cobra.Command) {
	root.AddCommand(newInitCmd())
}

func newInitCmd() *cobra.Command {
	var projectName string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold project configuration",
		Long: `Create the .crucible directory with a starter config.yaml and
workflows.yaml in the current directory.

Examples:
  crucible init --project myservice
  crucible init --project myservice --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.OutOrStdout(), projectName, force)
		},
	}

	cmd.Flags().StringVarP(&projectName, "project", "p", "", "project name written to the config")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing configuration without prompting")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func runInit(w io.Writer, projectName string, force bool) error {
	if projectName == "" {
		return errors.Wrap(errors.ErrProjectNameEmpty, "init")
	}

	configPath := config.ProjectConfigPath()
	if fileExists(configPath) && !force {
		overwrite, err := confirmOverwrite(configPath)
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(w, "init canceled")
			return nil
		}
	}

	if err := os.MkdirAll(constants.ProjectConfigDir, 0o750); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	cfg := config.DefaultConfig()
	cfg.Project.Name = projectName

	if err := writeYAML(configPath, cfg); err != nil {
		return err
	}
	if err := writeYAML(config.ProjectWorkflowsPath(), starterWorkflows()); err != nil {
		return err
	}

	fmt.Fprintf(w, "initialized %s for project %q\n", constants.ProjectConfigDir, projectName)
	return nil
}

// confirmOverwrite prompts before replacing an existing config. Non-TTY
// sessions refuse instead of prompting.
func confirmOverwrite(path string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.Wrapf(errors.ErrEmptyValue, "%s exists; re-run with --force", path)
	}

	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Overwrite %s?", path)).
				Affirmative("Yes, overwrite").
				Negative("No, keep it").
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return false, errors.Wrap(err, "confirm prompt failed")
	}
	return confirm, nil
}

// starterWorkflows is the scaffolded workflows file content: the built-ins,
// written out so users have something concrete to edit.
func starterWorkflows() map[string]any {
	return map[string]any{
		"workflows": []map[string]any{
			{
				"name": "full_automation",
				"modules": []string{
					constants.ModuleCodeReview,
					constants.ModuleTestSuite,
					constants.ModuleGitHub,
					constants.ModuleJira,
					constants.ModuleConfluence,
				},
			},
			{
				"name":    "quality_gate",
				"modules": []string{constants.ModuleCodeReview, constants.ModuleTestSuite},
			},
		},
	}
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", filepath.Base(path))
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
