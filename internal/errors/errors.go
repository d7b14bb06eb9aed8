// Package errors provides centralized error handling for Crucible.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrModuleNotFound indicates a workflow referenced a module name that
	// was never registered.
	ErrModuleNotFound = errors.New("module not found")

	// ErrModuleConfigInvalid indicates a module failed its configuration
	// validation and was not registered.
	ErrModuleConfigInvalid = errors.New("module config validation failed")

	// ErrModuleExecution indicates a module's Execute returned an error or
	// panicked.
	ErrModuleExecution = errors.New("module execution failed")

	// ErrModulePanic indicates a panic was recovered during module execution.
	ErrModulePanic = errors.New("module panicked")

	// ErrWorkflowNotFound indicates the requested workflow definition does
	// not exist.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrWorkflowEmpty indicates a workflow definition has no module names.
	ErrWorkflowEmpty = errors.New("workflow has no modules")

	// ErrConfigNil indicates a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrProjectNameEmpty indicates the project name is missing from config.
	ErrProjectNameEmpty = errors.New("project name is required")

	// ErrProjectRootInvalid indicates the configured project root does not exist.
	ErrProjectRootInvalid = errors.New("project root does not exist")

	// ErrValueOutOfRange indicates a configured value is outside the allowed range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidBuildID indicates a caller-supplied build ID contains
	// path-unsafe characters.
	ErrInvalidBuildID = errors.New("invalid build id")

	// ErrQualityBelowThreshold indicates the code review score fell below the
	// configured quality threshold.
	ErrQualityBelowThreshold = errors.New("quality score below threshold")

	// ErrTestsFailed indicates one or more test categories failed.
	ErrTestsFailed = errors.New("tests failed")

	// ErrUnknownTestCategory indicates an unrecognized test category name.
	ErrUnknownTestCategory = errors.New("unknown test category")

	// ErrGitHubOperation indicates a GitHub API or git command failure.
	ErrGitHubOperation = errors.New("github operation failed")

	// ErrJiraOperation indicates a JIRA API failure.
	ErrJiraOperation = errors.New("jira operation failed")

	// ErrConfluenceOperation indicates a Confluence API failure.
	ErrConfluenceOperation = errors.New("confluence operation failed")

	// ErrDeploymentDisabled indicates the deployment module was invoked while
	// deployment is disabled in configuration.
	ErrDeploymentDisabled = errors.New("deployment is disabled")

	// ErrUnexpectedStatus indicates a REST call returned a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrOperationCanceled indicates the user canceled an operation.
	ErrOperationCanceled = errors.New("operation canceled by user")

	// ErrMissingCredentials indicates an integration is enabled but its
	// credentials are not configured.
	ErrMissingCredentials = errors.New("missing credentials")
)
