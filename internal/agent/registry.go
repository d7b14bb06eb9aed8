// Package agent provides the orchestration core of Crucible: the module
// registry, the workflow runner, and the comprehensive build coordinator.
//
// The core is deliberately sequential. Modules run one at a time, in list
// order, on the caller's goroutine; the only shared state is the registry
// (written during registration only) and the append-only session history.
//
// Import rules:
//   - CAN import: internal/constants, internal/contracts, internal/domain,
//     internal/errors, internal/config, internal/messages, internal/workflows
//   - MUST NOT import: internal/cli, internal/modules
package agent

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/crucible-dev/crucible/internal/contracts"
	"github.com/crucible-dev/crucible/internal/errors"
	"github.com/crucible-dev/crucible/internal/messages"
)

// Registry holds named modules. Registration is gated on configuration
// validation: a module whose ValidateConfig returns false is skipped with an
// error log line, never an error return. There is no removal operation; a
// registered module stays for the lifetime of the agent.
type Registry struct {
	modules map[string]contracts.Module
	logger  zerolog.Logger
	msgs    *messages.Printer
}

// NewRegistry creates an empty registry.
func NewRegistry(logger zerolog.Logger, msgs *messages.Printer) *Registry {
	return &Registry{
		modules: make(map[string]contracts.Module),
		logger:  logger.With().Str("component", "registry").Logger(),
		msgs:    msgs,
	}
}

// Register validates and inserts the module under the given name,
// overwriting any prior entry. On a failed validation the module is not
// registered and the failure is logged; the silent-skip policy keeps one
// misconfigured integration from taking down the whole agent.
func (r *Registry) Register(name string, module contracts.Module) {
	if !module.ValidateConfig() {
		r.logger.Error().
			Err(errors.ErrModuleConfigInvalid).
			Str("module", name).
			Msg(r.msgs.Sprintf(messages.KeyModuleRejected, name))
		return
	}
	r.modules[name] = module
	r.logger.Info().
		Str("module", name).
		Msg(r.msgs.Sprintf(messages.KeyModuleRegistered, name))
}

// Get returns the module registered under name.
func (r *Registry) Get(name string) (contracts.Module, error) {
	module, ok := r.modules[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrModuleNotFound, "%q", name)
	}
	return module, nil
}

// Has reports whether a module is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.modules[name]
	return ok
}

// Names returns the registered module names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
