package config

import (
	"github.com/spf13/viper"

	"github.com/crucible-dev/crucible/internal/constants"
)

// DefaultConfig returns the built-in configuration defaults.
// These values match setDefaults exactly.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Root: ".",
			Type: "go",
		},
		GitHub: GitHubConfig{
			ComprehensiveCommits: true,
		},
		Jira: JiraConfig{
			BuildComponent: "Build System",
		},
		Tests: TestsConfig{
			Enabled:           true,
			Categories:        []string{"unit", "functional", "integration", "performance", "security"},
			Timeout:           constants.DefaultTestTimeout,
			CoverageThreshold: constants.DefaultCoverageThreshold,
		},
		Review: ReviewConfig{
			Enabled:          true,
			QualityThreshold: constants.DefaultQualityThreshold,
			MaxLineLength:    120,
			Extensions:       []string{".go", ".py", ".js", ".ts", ".java"},
		},
		Build: BuildConfig{
			PreCommitChecks:            true,
			ExceptionReporting:         true,
			ExceptionReportFile:        constants.ExceptionReportFileName,
			AutoCreateBugTickets:       true,
			ComprehensiveDocumentation: true,
		},
		Deployment: DeploymentConfig{
			Environment: "staging",
		},
		Language: "en",
	}
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	// Project defaults
	v.SetDefault("project.name", "")
	v.SetDefault("project.root", ".")
	v.SetDefault("project.type", "go")

	// GitHub defaults
	v.SetDefault("github.enabled", false)
	v.SetDefault("github.comprehensive_commits", true)

	// Jira defaults
	v.SetDefault("jira.enabled", false)
	v.SetDefault("jira.build_component", "Build System")

	// Confluence defaults
	v.SetDefault("confluence.enabled", false)

	// Tests defaults
	v.SetDefault("tests.enabled", true)
	v.SetDefault("tests.categories", []string{"unit", "functional", "integration", "performance", "security"})
	v.SetDefault("tests.timeout", "5m")
	v.SetDefault("tests.coverage_threshold", constants.DefaultCoverageThreshold)

	// Review defaults
	v.SetDefault("review.enabled", true)
	v.SetDefault("review.quality_threshold", constants.DefaultQualityThreshold)
	v.SetDefault("review.max_line_length", 120)
	v.SetDefault("review.extensions", []string{".go", ".py", ".js", ".ts", ".java"})

	// Build defaults
	v.SetDefault("build.pre_commit_checks", true)
	v.SetDefault("build.exception_reporting", true)
	v.SetDefault("build.exception_report_file", constants.ExceptionReportFileName)
	v.SetDefault("build.fail_on_exceptions", false)
	v.SetDefault("build.auto_create_bug_tickets", true)
	v.SetDefault("build.comprehensive_documentation", true)
	v.SetDefault("build.auto_add_comments", false)

	// Deployment defaults
	v.SetDefault("deployment.enabled", false)
	v.SetDefault("deployment.environment", "staging")

	// Internationalization defaults
	v.SetDefault("language", "en")
}
