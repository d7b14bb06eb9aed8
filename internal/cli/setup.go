// Package cli provides the command-line interface for crucible.
package cli

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/crucible-dev/crucible/internal/agent"
	"github.com/crucible-dev/crucible/internal/config"
	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/errors"
	"github.com/crucible-dev/crucible/internal/modules/confluence"
	"github.com/crucible-dev/crucible/internal/modules/deploy"
	"github.com/crucible-dev/crucible/internal/modules/github"
	"github.com/crucible-dev/crucible/internal/modules/jira"
	"github.com/crucible-dev/crucible/internal/modules/review"
	"github.com/crucible-dev/crucible/internal/modules/testsuite"
	"github.com/crucible-dev/crucible/internal/workflows"
)

// newAgent loads configuration, workflow definitions, and builds a fully
// registered agent. Modules whose configuration fails validation are skipped
// by the registry; the agent runs with whatever remains.
func newAgent(ctx context.Context, logger zerolog.Logger) (*agent.Agent, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	wf := workflows.Defaults()
	if err := wf.LoadFile(config.ProjectWorkflowsPath()); err != nil {
		return nil, errors.Wrap(err, "loading workflow definitions")
	}

	a := agent.New(cfg, wf, logger)
	registerModules(a, cfg, logger)
	return a, nil
}

// registerModules registers every known module implementation. The registry's
// silent-skip policy drops modules with invalid or disabled configuration.
func registerModules(a *agent.Agent, cfg *config.Config, logger zerolog.Logger) {
	registry := a.Registry()
	registry.Register(constants.ModuleCodeReview, review.New(cfg, logger))
	registry.Register(constants.ModuleTestSuite, testsuite.New(cfg, logger))
	registry.Register(constants.ModuleGitHub, github.New(cfg, logger))
	registry.Register(constants.ModuleJira, jira.New(cfg, logger))
	registry.Register(constants.ModuleConfluence, confluence.New(cfg, logger))
	registry.Register(constants.ModuleDeploy, deploy.New(cfg, logger))
}
