package agent_test

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/crucible-dev/crucible/internal/agent"
	"github.com/crucible-dev/crucible/internal/config"
	"github.com/crucible-dev/crucible/internal/workflows"
)

// newTestConfig returns defaults rooted in a per-test temp directory so any
// artifacts the coordinator writes stay isolated.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Project.Name = "testproject"
	cfg.Project.Root = dir
	cfg.Build.ExceptionReportFile = filepath.Join(dir, "exceptions_report.json")
	return cfg
}

// newTestAgent creates an agent over the given workflow registry with a
// discard logger. Nil arguments select defaults.
func newTestAgent(t *testing.T, cfg *config.Config, wf *workflows.Registry) *agent.Agent {
	t.Helper()

	if cfg == nil {
		cfg = newTestConfig(t)
	}
	if wf == nil {
		wf = workflows.Defaults()
	}
	return agent.New(cfg, wf, zerolog.Nop())
}

// singleWorkflow returns a registry holding exactly one definition. Built-ins
// reference modules that tests usually do not register, so tests driving the
// coordinator start from this instead.
func singleWorkflow(name string, modules ...string) *workflows.Registry {
	return workflows.FromDefinitions([]workflows.Definition{{Name: name, Modules: modules}})
}
