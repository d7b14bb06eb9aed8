// Package deploy implements the environment-gated deployment module. The
// pipeline is staged (validate, package, release); the release stage is a
// placeholder that records intent rather than pushing anywhere.
package deploy

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/crucible-dev/crucible/internal/config"
	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/errors"
)

// knownEnvironments are the deployable targets.
var knownEnvironments = map[string]bool{ //nolint:gochecknoglobals // Package-level environment set
	"development": true,
	"staging":     true,
	"production":  true,
}

// Module is the deployment module.
type Module struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// New creates the deployment module.
func New(cfg *config.Config, logger zerolog.Logger) *Module {
	return &Module{
		cfg:    cfg,
		logger: logger.With().Str("component", constants.ModuleDeploy).Logger(),
	}
}

// Name implements the module contract.
func (m *Module) Name() string { return constants.ModuleDeploy }

// ValidateConfig implements the module contract.
func (m *Module) ValidateConfig() bool {
	d := m.cfg.Deployment
	return d.Enabled && knownEnvironments[d.Environment]
}

// Execute runs the staged pipeline and reports per-stage outcomes.
func (m *Module) Execute(ctx context.Context, _ map[string]any) (map[string]any, error) {
	if !m.cfg.Deployment.Enabled {
		return nil, errors.Wrap(errors.ErrDeploymentDisabled, m.cfg.Project.Name)
	}

	stages := []string{}
	record := func(stage string) {
		stages = append(stages, stage)
		m.logger.Info().Str("stage", stage).Msg("deployment stage completed")
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, errors.Wrap(errors.ErrOperationCanceled, "deployment")
	}

	// Validate: the project tree must exist and the environment must be known.
	if info, err := os.Stat(m.cfg.Project.Root); err != nil || !info.IsDir() {
		return nil, errors.Wrapf(errors.ErrProjectRootInvalid, "%s", m.cfg.Project.Root)
	}
	if !knownEnvironments[m.cfg.Deployment.Environment] {
		return nil, errors.Wrapf(errors.ErrValueOutOfRange, "environment %q", m.cfg.Deployment.Environment)
	}
	record("validate")

	// Package: name the release artifact for this project and time.
	artifact := fmt.Sprintf("%s-%s.tar.gz", m.cfg.Project.Name, time.Now().UTC().Format(constants.BuildIDTimeFormat))
	record("package")

	// Release: placeholder, records intent only.
	m.logger.Info().
		Str("environment", m.cfg.Deployment.Environment).
		Str("artifact", artifact).
		Msg("release recorded")
	record("release")

	return map[string]any{
		constants.ResultKeySuccess: true,
		"environment":              m.cfg.Deployment.Environment,
		"artifact":                 artifact,
		"stages":                   stages,
	}, nil
}
