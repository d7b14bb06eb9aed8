package config

import (
	"os"
	"path/filepath"

	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/errors"
)

// GlobalConfigDir returns the global configuration directory (~/.crucible).
// The CRUCIBLE_HOME environment variable overrides the default location.
func GlobalConfigDir() (string, error) {
	if home := os.Getenv("CRUCIBLE_HOME"); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(home, constants.CrucibleHome), nil
}

// ProjectConfigPath returns the project-level config file path relative to
// the current working directory (.crucible/config.yaml).
func ProjectConfigPath() string {
	return filepath.Join(constants.ProjectConfigDir, constants.ConfigFileName)
}

// ProjectWorkflowsPath returns the project-level workflow definitions path
// (.crucible/workflows.yaml).
func ProjectWorkflowsPath() string {
	return filepath.Join(constants.ProjectConfigDir, constants.WorkflowsFileName)
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
