package testsuite_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucible-dev/crucible/internal/config"
	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/errors"
	"github.com/crucible-dev/crucible/internal/modules/testsuite"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Project.Name = "testproject"
	cfg.Project.Root = t.TempDir()
	return cfg
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   bool
	}{
		{name: "defaults are valid", mutate: func(_ *config.Config) {}, want: true},
		{name: "disabled", mutate: func(c *config.Config) { c.Tests.Enabled = false }, want: false},
		{name: "no categories", mutate: func(c *config.Config) { c.Tests.Categories = nil }, want: false},
		{name: "unknown category", mutate: func(c *config.Config) { c.Tests.Categories = []string{"chaos"} }, want: false},
		{name: "coverage out of range", mutate: func(c *config.Config) { c.Tests.CoverageThreshold = 150 }, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := newTestConfig(t)
			tc.mutate(cfg)
			module := testsuite.New(cfg, zerolog.Nop())
			assert.Equal(t, tc.want, module.ValidateConfig())
		})
	}
}

func TestExecuteUnitCategory(t *testing.T) {
	t.Parallel()

	t.Run("healthy config passes all checks", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t)
		cfg.Tests.Categories = []string{"unit"}
		module := testsuite.New(cfg, zerolog.Nop())

		data, err := module.Execute(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, true, data[constants.ResultKeySuccess])
		assert.Equal(t, data["total_tests"], data["passed"])
		assert.Equal(t, 0, data["failed"])
	})

	t.Run("misconfigured project fails the run", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t)
		cfg.Tests.Categories = []string{"unit"}
		cfg.Project.Name = ""
		module := testsuite.New(cfg, zerolog.Nop())

		data, err := module.Execute(context.Background(), nil)
		require.ErrorIs(t, err, errors.ErrTestsFailed)
		assert.Equal(t, false, data[constants.ResultKeySuccess])
		assert.NotEmpty(t, data[constants.ResultKeyError])
	})
}

func TestExecuteCategoryOverride(t *testing.T) {
	t.Parallel()

	t.Run("override narrows the run", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t)
		module := testsuite.New(cfg, zerolog.Nop())

		data, err := module.Execute(context.Background(), map[string]any{
			constants.ContextKeyTestCategories: []string{"unit"},
		})
		require.NoError(t, err)

		assert.Equal(t, true, data[constants.ResultKeySuccess])
		assert.Equal(t, 5, data["total_tests"], "only the unit checks should run")
	})

	t.Run("unknown override category", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t)
		module := testsuite.New(cfg, zerolog.Nop())

		_, err := module.Execute(context.Background(), map[string]any{
			constants.ContextKeyTestCategories: []string{"chaos"},
		})
		require.ErrorIs(t, err, errors.ErrUnknownTestCategory)
	})

	t.Run("empty override", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t)
		module := testsuite.New(cfg, zerolog.Nop())

		_, err := module.Execute(context.Background(), map[string]any{
			constants.ContextKeyTestCategories: []string{},
		})
		require.ErrorIs(t, err, errors.ErrEmptyValue)
	})
}

func TestExecuteProbes(t *testing.T) {
	t.Parallel()

	t.Run("healthy server passes functional and security probes", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(srv.Close)

		cfg := newTestConfig(t)
		cfg.Tests.Categories = []string{"functional", "security", "performance"}
		cfg.Tests.ProbeBaseURL = srv.URL
		module := testsuite.New(cfg, zerolog.Nop())

		data, err := module.Execute(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, true, data[constants.ResultKeySuccess])
		assert.Equal(t, 0, data["failed"])
	})

	t.Run("server errors fail the probes", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		cfg := newTestConfig(t)
		cfg.Tests.Categories = []string{"integration"}
		cfg.Tests.ProbeBaseURL = srv.URL
		module := testsuite.New(cfg, zerolog.Nop())

		data, err := module.Execute(context.Background(), nil)
		require.ErrorIs(t, err, errors.ErrTestsFailed)
		assert.Equal(t, false, data[constants.ResultKeySuccess])
	})

	t.Run("missing probe base url skips HTTP categories", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t)
		cfg.Tests.Categories = []string{"functional"}
		cfg.Tests.ProbeBaseURL = ""
		module := testsuite.New(cfg, zerolog.Nop())

		data, err := module.Execute(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, data["total_tests"])

		recs, ok := data["recommendations"].([]string)
		require.True(t, ok)
		require.Len(t, recs, 1)
		assert.Contains(t, recs[0], "probe_base_url")
	})
}
