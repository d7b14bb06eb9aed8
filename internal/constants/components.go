package constants

// Component names attached to exception records so failures can be attributed
// to the build phase that raised them. The ticketing module groups bug tickets
// by these values.
const (
	// ComponentPreCommitCodeReview identifies failures from the pre-commit
	// code review check.
	ComponentPreCommitCodeReview = "pre_commit_code_review"

	// ComponentPreCommitTests identifies failures from the pre-commit unit
	// test run.
	ComponentPreCommitTests = "pre_commit_tests"

	// ComponentPreCommitChecks identifies panics recovered while running the
	// pre-commit phase itself.
	ComponentPreCommitChecks = "pre_commit_checks"

	// ComponentPostBuildActions identifies failures from post-build
	// documentation generation or code annotation.
	ComponentPostBuildActions = "post_build_actions"

	// ComponentBuildExecution identifies a failure recovered at the
	// coordinator's outermost boundary.
	ComponentBuildExecution = "build_execution"
)

// Well-known module names. The registry accepts any name; these are the names
// the coordinator inspects for pre-checks and conditional integrations.
const (
	// ModuleCodeReview is the static analysis module.
	ModuleCodeReview = "code_review"

	// ModuleTestSuite is the test runner module.
	ModuleTestSuite = "test_suite"

	// ModuleGitHub is the source-control module.
	ModuleGitHub = "github"

	// ModuleJira is the ticketing module.
	ModuleJira = "jira"

	// ModuleConfluence is the documentation module.
	ModuleConfluence = "confluence"

	// ModuleDeploy is the deployment module.
	ModuleDeploy = "deployment"
)

// Well-known execution context keys. Modules read these defensively; the
// runner seeds them for every invocation.
const (
	// ContextKeyProjectName carries the configured project name.
	ContextKeyProjectName = "project_name"

	// ContextKeyProjectRoot carries the project root path.
	ContextKeyProjectRoot = "project_root"

	// ContextKeyProjectType carries the project type (go, python, ...).
	ContextKeyProjectType = "project_type"

	// ContextKeyTimestamp carries the context creation time in RFC 3339.
	ContextKeyTimestamp = "timestamp"

	// ContextKeyAgentVersion carries the agent version string.
	ContextKeyAgentVersion = "agent_version"

	// ContextKeyTestCategories overrides the configured test categories for a
	// single test-suite invocation. Used by the pre-commit phase to narrow the
	// run to unit tests without mutating shared configuration.
	ContextKeyTestCategories = "test_categories"
)

// Well-known result keys inspected defensively by the coordinator when
// interpreting a collaborator module's output mapping.
const (
	// ResultKeySuccess is the boolean success flag inside a module's output.
	ResultKeySuccess = "success"

	// ResultKeyError is a single error string inside a module's output.
	ResultKeyError = "error"
)
