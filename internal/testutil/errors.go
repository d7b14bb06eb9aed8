package testutil

import "errors"

// Mock errors for the failure scenarios the orchestration and module tests
// simulate.
var (
	// ErrMockExecuteFailed stands in for a module whose Execute returns an
	// error, so runner and coordinator tests can assert failed results.
	ErrMockExecuteFailed = errors.New("mock module execution failed")

	// ErrMockGitCommand stands in for a git invocation the scripted runner
	// was not told about.
	ErrMockGitCommand = errors.New("mock git command failed")
)
