package domain

import "time"

// ExceptionDetail is the structured error payload inside an ExceptionRecord.
// It mirrors what a caught failure looks like after conversion to data:
// the category, the message, and where it came from.
type ExceptionDetail struct {
	// Type is the error category (sentinel name or "panic").
	Type string `json:"type"`

	// Message is the human-readable error text.
	Message string `json:"message"`

	// Stack is the captured stack trace for recovered panics. Empty for
	// ordinary error returns.
	Stack string `json:"stack,omitempty"`

	// Module is the module or subsystem the failure originated from.
	Module string `json:"module,omitempty"`
}

// ExceptionRecord attributes a caught failure to the build phase that raised
// it. Records are append-only: once collected they are never removed, and the
// ticketing collaborator consumes them when creating bug tickets.
type ExceptionRecord struct {
	// ID uniquely identifies this record.
	ID string `json:"id"`

	// Component names the build phase that raised the failure
	// (see constants.Component*).
	Component string `json:"component"`

	// Error holds the structured failure detail.
	Error ExceptionDetail `json:"error"`

	// Timestamp is when the failure was recorded, RFC 3339.
	Timestamp string `json:"timestamp"`
}

// BuildContext is the single record produced by one comprehensive build.
// It is created at the start of the build, mutated throughout that one call,
// and frozen once returned to the caller.
//
// Success starts true and transitions monotonically to false on the first
// failed module result, exception-policy failure, or recovered top-level
// panic. It never transitions back.
type BuildContext struct {
	// BuildID is caller-supplied or timestamp-derived.
	BuildID string `json:"build_id"`

	// Project is the configured project name.
	Project string `json:"project"`

	// Timestamp is the build start time, RFC 3339.
	Timestamp string `json:"timestamp"`

	// Environment is the deployment environment (staging, production, ...).
	Environment string `json:"environment"`

	// Success is the overall build outcome.
	Success bool `json:"success"`

	// Error carries the top-level failure message when the build was
	// terminated by a recovered panic.
	Error string `json:"error,omitempty"`

	// Exceptions is the append-only list of failures collected during the build.
	Exceptions []ExceptionRecord `json:"exceptions"`

	// TestResults is the test-suite module's output for this build.
	TestResults map[string]any `json:"test_results"`

	// CodeReviewResults is the code-review module's output for this build.
	CodeReviewResults map[string]any `json:"code_review_results"`

	// Artifacts lists paths of artifacts stored by the source-control module.
	Artifacts []string `json:"artifacts"`

	// Integrations holds per-collaborator integration results keyed by
	// integration name (jira_integration, confluence_test_results,
	// confluence_build_report, github_commit). These never affect Success.
	Integrations map[string]any `json:"integrations,omitempty"`
}

// NewBuildContext creates a build context with Success=true and empty collections.
func NewBuildContext(buildID, project, environment string, now time.Time) *BuildContext {
	return &BuildContext{
		BuildID:           buildID,
		Project:           project,
		Timestamp:         now.UTC().Format(time.RFC3339),
		Environment:       environment,
		Success:           true,
		Exceptions:        []ExceptionRecord{},
		TestResults:       map[string]any{},
		CodeReviewResults: map[string]any{},
		Artifacts:         []string{},
	}
}

// MarkFailed flips Success to false. The transition is one-way.
func (b *BuildContext) MarkFailed() {
	b.Success = false
}

// AddIntegration records a collaborator integration result under the given key.
func (b *BuildContext) AddIntegration(key string, value any) {
	if b.Integrations == nil {
		b.Integrations = make(map[string]any)
	}
	b.Integrations[key] = value
}
