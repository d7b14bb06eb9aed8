// Package confluence implements the documentation module. Besides the base
// module contract it provides the results-publishing capability: a test
// results page and a consolidated build report page per build.
package confluence

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/crucible-dev/crucible/internal/config"
	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/domain"
	"github.com/crucible-dev/crucible/internal/errors"
	"github.com/crucible-dev/crucible/internal/rest"
)

// Module is the documentation module.
type Module struct {
	cfg    *config.Config
	client *rest.Client
	logger zerolog.Logger
}

// New creates the documentation module.
func New(cfg *config.Config, logger zerolog.Logger) *Module {
	return &Module{
		cfg: cfg,
		client: rest.NewClient(cfg.Confluence.BaseURL, cfg.Confluence.Email, cfg.Confluence.APIToken,
			logger, rest.WithTimeout(constants.DefaultHTTPTimeout)),
		logger: logger.With().Str("component", constants.ModuleConfluence).Logger(),
	}
}

// Name implements the module contract.
func (m *Module) Name() string { return constants.ModuleConfluence }

// ValidateConfig implements the module contract.
func (m *Module) ValidateConfig() bool {
	c := m.cfg.Confluence
	if !c.Enabled {
		return false
	}
	if c.BaseURL == "" || c.Email == "" || c.APIToken == "" || c.SpaceKey == "" {
		m.logger.Warn().Err(errors.ErrMissingCredentials).Msg("confluence base url, email, api token, and space key are all required")
		return false
	}
	return true
}

// Execute verifies the configured space is reachable.
func (m *Module) Execute(ctx context.Context, _ map[string]any) (map[string]any, error) {
	var space struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	}
	endpoint := "/wiki/rest/api/space/" + m.cfg.Confluence.SpaceKey
	if err := m.client.Get(ctx, endpoint, &space); err != nil {
		return nil, errors.Wrap(err, "verifying documentation space")
	}

	return map[string]any{
		constants.ResultKeySuccess: true,
		"space_key":                space.Key,
		"space_name":               space.Name,
	}, nil
}

// PublishTestResults creates a page with the build's test results table.
func (m *Module) PublishTestResults(ctx context.Context, build *domain.BuildContext) (map[string]any, error) {
	title := fmt.Sprintf("Test Results - %s - Build %s", build.Project, build.BuildID)
	body := testResultsHTML(build)
	return m.createPage(ctx, title, body)
}

// PublishBuildReport creates the consolidated build report page covering the
// outcome, review findings, and exception records.
func (m *Module) PublishBuildReport(ctx context.Context, build *domain.BuildContext) (map[string]any, error) {
	title := fmt.Sprintf("Build Report - %s - Build %s", build.Project, build.BuildID)
	body := buildReportHTML(build)
	return m.createPage(ctx, title, body)
}

// createdPage is the subset of the content response the module consumes.
type createdPage struct {
	ID    string `json:"id"`
	Links struct {
		WebUI string `json:"webui"`
	} `json:"_links"`
}

func (m *Module) createPage(ctx context.Context, title, body string) (map[string]any, error) {
	payload := map[string]any{
		"type":  "page",
		"title": title,
		"space": map[string]any{"key": m.cfg.Confluence.SpaceKey},
		"body": map[string]any{
			"storage": map[string]any{
				"value":          body,
				"representation": "storage",
			},
		},
	}

	var page createdPage
	if err := m.client.Post(ctx, "/wiki/rest/api/content", payload, &page); err != nil {
		return nil, fmt.Errorf("%w: creating page %q: %w", errors.ErrConfluenceOperation, title, err)
	}

	m.logger.Info().Str("page_id", page.ID).Str("title", title).Msg("page created")
	return map[string]any{
		"page_id": page.ID,
		"title":   title,
		"url":     strings.TrimRight(m.cfg.Confluence.BaseURL, "/") + "/wiki" + page.Links.WebUI,
	}, nil
}

// testResultsHTML renders the test-results table in storage format.
func testResultsHTML(build *domain.BuildContext) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h1>Test Results for Build %s</h1>", html.EscapeString(build.BuildID)))
	sb.WriteString(fmt.Sprintf("<p>Project: %s | Environment: %s | Started: %s</p>",
		html.EscapeString(build.Project), html.EscapeString(build.Environment), html.EscapeString(build.Timestamp)))

	sb.WriteString("<table><tbody><tr><th>Metric</th><th>Value</th></tr>")
	for _, key := range sortedKeys(build.TestResults) {
		sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td></tr>",
			html.EscapeString(key), html.EscapeString(fmt.Sprint(build.TestResults[key]))))
	}
	sb.WriteString("</tbody></table>")
	return sb.String()
}

// buildReportHTML renders the consolidated build report in storage format.
func buildReportHTML(build *domain.BuildContext) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h1>Build Report %s</h1>", html.EscapeString(build.BuildID)))

	status := "SUCCESS"
	if !build.Success {
		status = "FAILED"
	}
	sb.WriteString(fmt.Sprintf("<p>Status: <strong>%s</strong> | Project: %s | Environment: %s</p>",
		status, html.EscapeString(build.Project), html.EscapeString(build.Environment)))

	if len(build.CodeReviewResults) > 0 {
		sb.WriteString("<h2>Code Review</h2><table><tbody><tr><th>Metric</th><th>Value</th></tr>")
		for _, key := range sortedKeys(build.CodeReviewResults) {
			sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td></tr>",
				html.EscapeString(key), html.EscapeString(fmt.Sprint(build.CodeReviewResults[key]))))
		}
		sb.WriteString("</tbody></table>")
	}

	if len(build.Exceptions) > 0 {
		sb.WriteString("<h2>Exceptions</h2><table><tbody><tr><th>Component</th><th>Type</th><th>Message</th></tr>")
		for _, rec := range build.Exceptions {
			sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td></tr>",
				html.EscapeString(rec.Component), html.EscapeString(rec.Error.Type), html.EscapeString(rec.Error.Message)))
		}
		sb.WriteString("</tbody></table>")
	}

	if len(build.Artifacts) > 0 {
		sb.WriteString("<h2>Artifacts</h2><ul>")
		for _, artifact := range build.Artifacts {
			sb.WriteString("<li>" + html.EscapeString(artifact) + "</li>")
		}
		sb.WriteString("</ul>")
	}
	return sb.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
