// Package contracts defines the narrow interfaces the agent core consumes.
// Concrete integrations (source control, ticketing, documentation, review,
// tests, deployment) implement these; the core depends only on the contract.
//
// Import rules:
//   - CAN import: internal/domain, standard library
//   - MUST NOT import: any other internal packages
package contracts

import "context"

// Module is a pluggable unit of work. A module is registered under a name,
// gated on ValidateConfig, and invoked with a shared execution context.
//
// Execute returns the module's output mapping. The core treats the mapping as
// opaque except for the well-known "success" and "error" keys, which it
// inspects defensively when interpreting collaborator-specific results.
// A non-nil error (or a panic, which the runner recovers) marks the
// invocation failed.
type Module interface {
	// Name returns the module's self-reported name, used in log lines.
	Name() string

	// ValidateConfig reports whether the module's configuration is usable.
	// It must be side-effect free: calling it any number of times before
	// registration never mutates state.
	ValidateConfig() bool

	// Execute runs the module against the given execution context.
	Execute(ctx context.Context, execCtx map[string]any) (map[string]any, error)
}
