// Package config provides configuration management for Crucible with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (CRUCIBLE_* prefix)
//  3. Project config (.crucible/config.yaml)
//  4. Global config (~/.crucible/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for Crucible.
// It contains all configuration sections for the agent and its modules.
type Config struct {
	// Project identifies the project the agent operates on.
	Project ProjectConfig `json:"project" yaml:"project" mapstructure:"project"`

	// GitHub contains settings for the source-control module.
	GitHub GitHubConfig `json:"github" yaml:"github" mapstructure:"github"`

	// Jira contains settings for the ticketing module.
	Jira JiraConfig `json:"jira" yaml:"jira" mapstructure:"jira"`

	// Confluence contains settings for the documentation module.
	Confluence ConfluenceConfig `json:"confluence" yaml:"confluence" mapstructure:"confluence"`

	// Tests contains settings for the test-suite module.
	Tests TestsConfig `json:"tests" yaml:"tests" mapstructure:"tests"`

	// Review contains settings for the code-review module.
	Review ReviewConfig `json:"review" yaml:"review" mapstructure:"review"`

	// Build contains settings for the build coordinator.
	Build BuildConfig `json:"build" yaml:"build" mapstructure:"build"`

	// Deployment contains settings for the deployment module.
	Deployment DeploymentConfig `json:"deployment" yaml:"deployment" mapstructure:"deployment"`

	// Language selects the message catalog locale (e.g. "en", "es").
	Language string `json:"language" yaml:"language" mapstructure:"language"`
}

// ProjectConfig identifies the target project.
type ProjectConfig struct {
	// Name is the human-readable project name. Required.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Root is the project root directory. Defaults to the working directory.
	Root string `json:"root" yaml:"root" mapstructure:"root"`

	// Type is the project language/type hint (go, python, javascript, ...).
	Type string `json:"type" yaml:"type" mapstructure:"type"`
}

// GitHubConfig contains settings for the source-control module.
type GitHubConfig struct {
	// Enabled toggles the module. A disabled module fails config validation
	// and is skipped at registration.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Token is the API token. Read from CRUCIBLE_GITHUB_TOKEN in practice;
	// never logged (see internal/logging).
	Token string `json:"token" yaml:"token" mapstructure:"token"`

	// Owner is the repository owner or organization.
	Owner string `json:"owner" yaml:"owner" mapstructure:"owner"`

	// Repo is the repository name.
	Repo string `json:"repo" yaml:"repo" mapstructure:"repo"`

	// TestRepo is an optional separate repository for test artifacts.
	// Falls back to Repo when empty.
	TestRepo string `json:"test_repo" yaml:"test_repo" mapstructure:"test_repo"`

	// ComprehensiveCommits enables generated commit descriptions that embed
	// build id, test summary, and review summary.
	ComprehensiveCommits bool `json:"comprehensive_commits" yaml:"comprehensive_commits" mapstructure:"comprehensive_commits"`
}

// JiraConfig contains settings for the ticketing module.
type JiraConfig struct {
	// Enabled toggles the module.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// BaseURL is the JIRA instance URL (https://org.atlassian.net).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Email is the account email for basic auth.
	Email string `json:"email" yaml:"email" mapstructure:"email"`

	// APIToken is the API token for basic auth.
	APIToken string `json:"api_token" yaml:"api_token" mapstructure:"api_token"`

	// ProjectKey is the JIRA project key (e.g. "ENG").
	ProjectKey string `json:"project_key" yaml:"project_key" mapstructure:"project_key"`

	// BuildComponent is the component assigned to build-related tickets.
	BuildComponent string `json:"build_component" yaml:"build_component" mapstructure:"build_component"`

	// DefaultAssignee is the account ID assigned to created bug tickets.
	DefaultAssignee string `json:"default_assignee" yaml:"default_assignee" mapstructure:"default_assignee"`
}

// ConfluenceConfig contains settings for the documentation module.
type ConfluenceConfig struct {
	// Enabled toggles the module.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// BaseURL is the Confluence instance URL.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Email is the account email for basic auth.
	Email string `json:"email" yaml:"email" mapstructure:"email"`

	// APIToken is the API token for basic auth.
	APIToken string `json:"api_token" yaml:"api_token" mapstructure:"api_token"`

	// SpaceKey is the space where report pages are created.
	SpaceKey string `json:"space_key" yaml:"space_key" mapstructure:"space_key"`
}

// TestsConfig contains settings for the test-suite module.
type TestsConfig struct {
	// Enabled toggles the module.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Categories lists which test categories run by default.
	// Valid values: unit, functional, integration, performance, security.
	Categories []string `json:"categories" yaml:"categories" mapstructure:"categories"`

	// ProbeBaseURL is the base URL probed by the functional, integration,
	// performance, and security runners.
	ProbeBaseURL string `json:"probe_base_url" yaml:"probe_base_url" mapstructure:"probe_base_url"`

	// Timeout is the per-category timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// CoverageThreshold is the minimum acceptable coverage percentage.
	CoverageThreshold float64 `json:"coverage_threshold" yaml:"coverage_threshold" mapstructure:"coverage_threshold"`
}

// ReviewConfig contains settings for the code-review module.
type ReviewConfig struct {
	// Enabled toggles the module.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// QualityThreshold is the minimum acceptable quality score (0-10).
	QualityThreshold float64 `json:"quality_threshold" yaml:"quality_threshold" mapstructure:"quality_threshold"`

	// MaxLineLength is the line length reported as a finding.
	MaxLineLength int `json:"max_line_length" yaml:"max_line_length" mapstructure:"max_line_length"`

	// Extensions limits the scan to files with these extensions.
	Extensions []string `json:"extensions" yaml:"extensions" mapstructure:"extensions"`
}

// BuildConfig contains settings for the build coordinator.
type BuildConfig struct {
	// PreCommitChecks enables the pre-commit phase (code review + unit tests)
	// before the main workflows.
	PreCommitChecks bool `json:"pre_commit_checks" yaml:"pre_commit_checks" mapstructure:"pre_commit_checks"`

	// ExceptionReporting enables writing the aggregated exception report.
	ExceptionReporting bool `json:"exception_reporting" yaml:"exception_reporting" mapstructure:"exception_reporting"`

	// ExceptionReportFile is the output path for the exception report.
	ExceptionReportFile string `json:"exception_report_file" yaml:"exception_report_file" mapstructure:"exception_report_file"`

	// FailOnExceptions forces the build to fail when any exceptions were
	// collected, even if every module succeeded.
	FailOnExceptions bool `json:"fail_on_exceptions" yaml:"fail_on_exceptions" mapstructure:"fail_on_exceptions"`

	// AutoCreateBugTickets enables best-effort bug ticket creation when the
	// build fails at the top level.
	AutoCreateBugTickets bool `json:"auto_create_bug_tickets" yaml:"auto_create_bug_tickets" mapstructure:"auto_create_bug_tickets"`

	// ComprehensiveDocumentation enables post-build report generation.
	ComprehensiveDocumentation bool `json:"comprehensive_documentation" yaml:"comprehensive_documentation" mapstructure:"comprehensive_documentation"`

	// AutoAddComments enables post-build best-effort code annotation.
	AutoAddComments bool `json:"auto_add_comments" yaml:"auto_add_comments" mapstructure:"auto_add_comments"`
}

// DeploymentConfig contains settings for the deployment module.
type DeploymentConfig struct {
	// Enabled toggles the module.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Environment is the target environment (staging, production, ...).
	Environment string `json:"environment" yaml:"environment" mapstructure:"environment"`
}
