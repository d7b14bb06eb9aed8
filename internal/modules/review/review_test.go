package review_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucible-dev/crucible/internal/config"
	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/errors"
	"github.com/crucible-dev/crucible/internal/modules/review"
)

func newTestModule(t *testing.T, root string) (*review.Module, *config.Config) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Project.Name = "testproject"
	cfg.Project.Root = root
	cfg.Review.Extensions = []string{".go"}
	return review.New(cfg, zerolog.Nop()), cfg
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   bool
	}{
		{name: "defaults are valid", mutate: func(_ *config.Config) {}, want: true},
		{name: "disabled", mutate: func(c *config.Config) { c.Review.Enabled = false }, want: false},
		{name: "threshold out of range", mutate: func(c *config.Config) { c.Review.QualityThreshold = 11 }, want: false},
		{name: "no extensions", mutate: func(c *config.Config) { c.Review.Extensions = nil }, want: false},
		{name: "zero line length", mutate: func(c *config.Config) { c.Review.MaxLineLength = 0 }, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			module, cfg := newTestModule(t, t.TempDir())
			tc.mutate(cfg)
			assert.Equal(t, tc.want, module.ValidateConfig())
		})
	}
}

func TestExecute(t *testing.T) {
	t.Parallel()

	t.Run("clean tree scores ten", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n")
		module, _ := newTestModule(t, dir)

		data, err := module.Execute(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, true, data[constants.ResultKeySuccess])
		assert.InDelta(t, 10.0, data["quality_score"], 0.001)
		assert.Equal(t, 1, data["files_scanned"])
		assert.Equal(t, 0, data["findings_count"])
	})

	t.Run("long lines and markers produce findings", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		long := strings.Repeat("x", 200)
		writeFile(t, dir, "messy.go", "package main\n// "+long+"\n// TODO fix later\nvar x = 1 \n")
		module, _ := newTestModule(t, dir)

		data, err := module.Execute(context.Background(), nil)
		require.NoError(t, err)

		findings, ok := data["findings"].([]review.Finding)
		require.True(t, ok)

		rules := make(map[string]int)
		for _, f := range findings {
			rules[f.Rule]++
		}
		assert.Equal(t, 1, rules["line_length"])
		assert.Equal(t, 1, rules["todo_marker"])
		assert.Equal(t, 1, rules["trailing_whitespace"])
	})

	t.Run("score below threshold is an error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var sb strings.Builder
		sb.WriteString("package main\n")
		for range 30 {
			sb.WriteString("// TODO item\n")
		}
		writeFile(t, dir, "bad.go", sb.String())
		module, _ := newTestModule(t, dir)

		data, err := module.Execute(context.Background(), nil)
		require.ErrorIs(t, err, errors.ErrQualityBelowThreshold)
		assert.Equal(t, false, data[constants.ResultKeySuccess])
		assert.NotEmpty(t, data[constants.ResultKeyError])
	})

	t.Run("ignores unmatched extensions and skipped dirs", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "notes.txt", strings.Repeat("y", 500))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o750))
		writeFile(t, filepath.Join(dir, ".git"), "junk.go", "// TODO hidden\n")
		module, _ := newTestModule(t, dir)

		data, err := module.Execute(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, data["files_scanned"])
		assert.Equal(t, 0, data["findings_count"])
	})

	t.Run("project root override from execution context", func(t *testing.T) {
		t.Parallel()

		other := t.TempDir()
		writeFile(t, other, "alt.go", "package alt\n")
		module, _ := newTestModule(t, t.TempDir())

		data, err := module.Execute(context.Background(), map[string]any{
			constants.ContextKeyProjectRoot: other,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, data["files_scanned"])
	})
}
