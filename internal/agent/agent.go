package agent

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/crucible-dev/crucible/internal/config"
	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/domain"
	"github.com/crucible-dev/crucible/internal/messages"
	"github.com/crucible-dev/crucible/internal/workflows"
)

// Agent is the orchestration core. It owns the module registry, the
// session-long execution history, and the exception collector, and exposes
// the three entry points the CLI calls: ExecuteModule, ExecuteNamedWorkflow,
// and ExecuteComprehensiveBuild.
//
// An Agent is not safe for concurrent use; execution is strictly sequential
// by design.
type Agent struct {
	cfg       *config.Config
	logger    zerolog.Logger
	msgs      *messages.Printer
	registry  *Registry
	workflows *workflows.Registry

	// execContext is the read-only snapshot seeded at construction and
	// merged with per-call overrides for every module invocation.
	execContext map[string]any

	// results is the session-long history. Append-only: entries accumulate
	// across workflow runs and are never removed within a session.
	results []domain.ExecutionResult

	exceptions *Collector
}

// New creates an agent for the given configuration. The workflow registry
// supplies the named workflow definitions executed by the comprehensive
// build.
func New(cfg *config.Config, wf *workflows.Registry, logger zerolog.Logger) *Agent {
	msgs := messages.NewPrinter(cfg.Language)
	a := &Agent{
		cfg:       cfg,
		logger:    logger.With().Str("component", "agent").Logger(),
		msgs:      msgs,
		registry:  NewRegistry(logger, msgs),
		workflows: wf,
		execContext: map[string]any{
			constants.ContextKeyProjectName:  cfg.Project.Name,
			constants.ContextKeyProjectRoot:  cfg.Project.Root,
			constants.ContextKeyProjectType:  cfg.Project.Type,
			constants.ContextKeyTimestamp:    time.Now().UTC().Format(time.RFC3339),
			constants.ContextKeyAgentVersion: constants.AgentVersion,
		},
		exceptions: NewCollector(),
	}

	a.logger.Info().
		Str("project", cfg.Project.Name).
		Str("root", cfg.Project.Root).
		Str("version", constants.AgentVersion).
		Msg("initializing automation agent")

	return a
}

// Registry returns the agent's module registry for registration.
func (a *Agent) Registry() *Registry {
	return a.registry
}

// Workflows returns the agent's workflow definitions.
func (a *Agent) Workflows() *workflows.Registry {
	return a.workflows
}

// Config returns the agent's configuration.
func (a *Agent) Config() *config.Config {
	return a.cfg
}

// Results returns a copy of the session-long execution history.
func (a *Agent) Results() []domain.ExecutionResult {
	out := make([]domain.ExecutionResult, len(a.results))
	copy(out, a.results)
	return out
}

// Summary computes the execution summary over the session history.
func (a *Agent) Summary() domain.ExecutionSummary {
	return domain.Summarize(a.results)
}

// mergedContext returns a fresh mapping combining the seeded execution
// context with the given per-call overrides. Neither input is mutated.
func (a *Agent) mergedContext(overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(a.execContext)+len(overrides))
	for k, v := range a.execContext {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
