package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/crucible-dev/crucible/internal/errors"
)

// validTestCategories is the closed set of category names the test-suite
// module understands.
var validTestCategories = map[string]bool{ //nolint:gochecknoglobals // Package-level lookup table
	"unit":        true,
	"functional":  true,
	"integration": true,
	"performance": true,
	"security":    true,
}

// Validate checks the configuration for structural problems.
// It returns the first error found; sentinel errors allow callers to
// categorize failures with errors.Is().
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateProject(&cfg.Project); err != nil {
		return err
	}
	if err := validateTests(&cfg.Tests); err != nil {
		return err
	}
	if err := validateReview(&cfg.Review); err != nil {
		return err
	}
	if err := validateIntegrationURLs(cfg); err != nil {
		return err
	}
	return nil
}

func validateProject(p *ProjectConfig) error {
	if p.Root == "" {
		return fmt.Errorf("project.root %w", errors.ErrEmptyValue)
	}
	if info, err := os.Stat(p.Root); err != nil || !info.IsDir() {
		return errors.Wrapf(errors.ErrProjectRootInvalid, "project.root %q", p.Root)
	}
	return nil
}

func validateTests(t *TestsConfig) error {
	for _, c := range t.Categories {
		if !validTestCategories[c] {
			return errors.Wrapf(errors.ErrUnknownTestCategory, "tests.categories %q", c)
		}
	}
	if t.CoverageThreshold < 0 || t.CoverageThreshold > 100 {
		return errors.Wrapf(errors.ErrValueOutOfRange, "tests.coverage_threshold %.1f (want 0-100)", t.CoverageThreshold)
	}
	if t.Timeout < 0 {
		return errors.Wrap(errors.ErrValueOutOfRange, "tests.timeout is negative")
	}
	return nil
}

func validateReview(r *ReviewConfig) error {
	if r.QualityThreshold < 0 || r.QualityThreshold > 10 {
		return errors.Wrapf(errors.ErrValueOutOfRange, "review.quality_threshold %.1f (want 0-10)", r.QualityThreshold)
	}
	if r.MaxLineLength < 0 {
		return errors.Wrap(errors.ErrValueOutOfRange, "review.max_line_length is negative")
	}
	return nil
}

// validateIntegrationURLs checks that enabled REST integrations carry
// parseable base URLs. Credentials are checked by each module's own
// ValidateConfig so that a missing token skips registration instead of
// failing the whole config load.
func validateIntegrationURLs(cfg *Config) error {
	if cfg.Jira.Enabled && cfg.Jira.BaseURL != "" {
		if _, err := url.ParseRequestURI(cfg.Jira.BaseURL); err != nil {
			return errors.Wrapf(err, "jira.base_url %q", cfg.Jira.BaseURL)
		}
	}
	if cfg.Confluence.Enabled && cfg.Confluence.BaseURL != "" {
		if _, err := url.ParseRequestURI(cfg.Confluence.BaseURL); err != nil {
			return errors.Wrapf(err, "confluence.base_url %q", cfg.Confluence.BaseURL)
		}
	}
	if cfg.Tests.ProbeBaseURL != "" {
		if _, err := url.ParseRequestURI(cfg.Tests.ProbeBaseURL); err != nil {
			return errors.Wrapf(err, "tests.probe_base_url %q", cfg.Tests.ProbeBaseURL)
		}
	}
	return nil
}
