package workflows

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucible-dev/crucible/internal/errors"
)

func TestDefaultsContainBuiltins(t *testing.T) {
	r := Defaults()

	def, err := r.Get("full_automation")
	require.NoError(t, err)
	assert.Equal(t, []string{"code_review", "test_suite", "github", "jira", "confluence"}, def.Modules)

	_, err = r.Get("quality_gate")
	assert.NoError(t, err)
	_, err = r.Get("publish")
	assert.NoError(t, err)
}

func TestGetUnknownWorkflow(t *testing.T) {
	_, err := Defaults().Get("nope")
	assert.ErrorIs(t, err, errors.ErrWorkflowNotFound)
}

func TestLoadFileMergesAndReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workflows.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workflows:
  - name: quality_gate
    modules: [code_review]
  - name: nightly
    modules: [test_suite, deployment]
`), 0o600))

	r := Defaults()
	require.NoError(t, r.LoadFile(path))

	// Replaced built-in.
	def, err := r.Get("quality_gate")
	require.NoError(t, err)
	assert.Equal(t, []string{"code_review"}, def.Modules)

	// New definition.
	def, err = r.Get("nightly")
	require.NoError(t, err)
	assert.Equal(t, []string{"test_suite", "deployment"}, def.Modules)
}

func TestLoadFileMissingIsNotError(t *testing.T) {
	r := Defaults()
	assert.NoError(t, r.LoadFile(filepath.Join(t.TempDir(), "absent.yaml")))
}

func TestLoadFileRejectsEmptyWorkflow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workflows.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workflows:
  - name: broken
    modules: []
`), 0o600))

	err := Defaults().LoadFile(path)
	assert.ErrorIs(t, err, errors.ErrWorkflowEmpty)
}

func TestAllIsSorted(t *testing.T) {
	defs := Defaults().All()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"full_automation", "publish", "quality_gate"}, names)
}
