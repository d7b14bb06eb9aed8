// Package constants provides centralized constant values used throughout Crucible.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// AgentVersion is the version string stamped into every execution context.
const AgentVersion = "1.0.0"

// File names used by Crucible for state persistence.
const (
	// ConfigFileName is the YAML configuration file name inside a config directory.
	ConfigFileName = "config.yaml"

	// WorkflowsFileName is the YAML file that holds user-defined workflow definitions.
	WorkflowsFileName = "workflows.yaml"

	// ResultsFileName is the default file name for the persisted execution summary.
	ResultsFileName = "agent_results.json"

	// ExceptionReportFileName is the default file name for the aggregated exception report.
	ExceptionReportFileName = "exceptions_report.json"

	// CLILogFileName is the rotating log file written by the CLI.
	CLILogFileName = "crucible.log"
)

// Directory names and paths used by Crucible for organizing data.
const (
	// CrucibleHome is the hidden directory name where Crucible stores all its data.
	// This directory is created in the user's home directory.
	CrucibleHome = ".crucible"

	// ProjectConfigDir is the per-project configuration directory name.
	ProjectConfigDir = ".crucible"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// DocsDir is the directory, relative to the project root, where build
	// report artifacts are written by post-build actions.
	DocsDir = "docs"
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the maximum size in megabytes before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files to retain.
	LogMaxBackups = 5

	// LogMaxAgeDays is the maximum age in days of a rotated file.
	LogMaxAgeDays = 30

	// LogCompress controls gzip compression of rotated files.
	LogCompress = true
)

// Timeout defaults for collaborator modules. The coordinator itself applies
// no timeouts; each module's own client enforces these.
const (
	// DefaultHTTPTimeout is the default timeout for REST calls made by the
	// JIRA, Confluence, and test-probe clients.
	DefaultHTTPTimeout = 10 * time.Second

	// DefaultTestTimeout is the default per-category timeout for test runs.
	DefaultTestTimeout = 300 * time.Second
)

// Default thresholds for analysis modules.
const (
	// DefaultCoverageThreshold is the minimum acceptable test coverage percentage.
	DefaultCoverageThreshold = 80.0

	// DefaultQualityThreshold is the minimum acceptable code quality score (0-10).
	DefaultQualityThreshold = 8.0
)

// BuildIDTimeFormat is the layout for timestamp-derived build IDs.
// Example: 20260825_143005.
const BuildIDTimeFormat = "20060102_150405"
