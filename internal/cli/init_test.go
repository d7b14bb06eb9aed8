package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/crucible-dev/crucible/internal/config"
	"github.com/crucible-dev/crucible/internal/errors"
)

func TestRunInitScaffoldsConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	var buf bytes.Buffer
	require.NoError(t, runInit(&buf, "myservice", false))
	assert.Contains(t, buf.String(), "myservice")

	data, err := os.ReadFile(config.ProjectConfigPath())
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, "myservice", cfg.Project.Name)

	_, err = os.Stat(config.ProjectWorkflowsPath())
	require.NoError(t, err)
}

func TestRunInitRequiresProjectName(t *testing.T) {
	t.Chdir(t.TempDir())

	err := runInit(&bytes.Buffer{}, "", false)
	require.ErrorIs(t, err, errors.ErrProjectNameEmpty)
}

func TestRunInitRefusesOverwriteWithoutForce(t *testing.T) {
	t.Chdir(t.TempDir())

	var buf bytes.Buffer
	require.NoError(t, runInit(&buf, "first", false))

	// Stdin is not a terminal under go test, so the confirmation prompt
	// is replaced with a hard refusal.
	err := runInit(&buf, "second", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
}

func TestRunInitForceOverwrites(t *testing.T) {
	t.Chdir(t.TempDir())

	var buf bytes.Buffer
	require.NoError(t, runInit(&buf, "first", false))
	require.NoError(t, runInit(&buf, "second", true))

	data, err := os.ReadFile(config.ProjectConfigPath())
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, "second", cfg.Project.Name)
}
