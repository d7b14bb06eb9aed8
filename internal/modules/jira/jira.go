// Package jira implements the ticketing module. Besides the base module
// contract it provides the build-integration capability: commenting on open
// build tickets after a successful build and creating bug tickets, one per
// affected component, after a failed one.
package jira

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/crucible-dev/crucible/internal/config"
	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/domain"
	"github.com/crucible-dev/crucible/internal/errors"
	"github.com/crucible-dev/crucible/internal/rest"
)

// Module is the ticketing module.
type Module struct {
	cfg    *config.Config
	client *rest.Client
	logger zerolog.Logger
}

// New creates the ticketing module.
func New(cfg *config.Config, logger zerolog.Logger) *Module {
	return &Module{
		cfg: cfg,
		client: rest.NewClient(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.APIToken,
			logger, rest.WithTimeout(constants.DefaultHTTPTimeout)),
		logger: logger.With().Str("component", constants.ModuleJira).Logger(),
	}
}

// Name implements the module contract.
func (m *Module) Name() string { return constants.ModuleJira }

// ValidateConfig implements the module contract.
func (m *Module) ValidateConfig() bool {
	j := m.cfg.Jira
	if !j.Enabled {
		return false
	}
	if j.BaseURL == "" || j.Email == "" || j.APIToken == "" || j.ProjectKey == "" {
		m.logger.Warn().Err(errors.ErrMissingCredentials).Msg("jira base url, email, api token, and project key are all required")
		return false
	}
	return true
}

// Execute verifies connectivity and reports the project's open ticket count.
func (m *Module) Execute(ctx context.Context, _ map[string]any) (map[string]any, error) {
	var me struct {
		AccountID   string `json:"accountId"`
		DisplayName string `json:"displayName"`
	}
	if err := m.client.Get(ctx, "/rest/api/3/myself", &me); err != nil {
		return nil, errors.Wrap(err, "verifying ticketing credentials")
	}

	jql := fmt.Sprintf("project = %s AND statusCategory != Done", m.cfg.Jira.ProjectKey)
	result, err := m.search(ctx, jql, 0)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		constants.ResultKeySuccess: true,
		"account_id":               me.AccountID,
		"open_tickets":             result.Total,
	}, nil
}

// IntegrateWithBuild reconciles tickets against the finished build: comments
// on open build tickets for a successful build, creates bug tickets for a
// failed one.
func (m *Module) IntegrateWithBuild(ctx context.Context, build *domain.BuildContext) (map[string]any, error) {
	if build.Success {
		return m.commentOnBuildTickets(ctx, build)
	}
	return m.createBugTickets(ctx, build)
}

// searchResult is the subset of the search response the module consumes.
type searchResult struct {
	Total  int `json:"total"`
	Issues []struct {
		Key string `json:"key"`
	} `json:"issues"`
}

func (m *Module) search(ctx context.Context, jql string, maxResults int) (*searchResult, error) {
	endpoint := fmt.Sprintf("/rest/api/3/search?jql=%s&maxResults=%d", url.QueryEscape(jql), maxResults)
	var result searchResult
	if err := m.client.Get(ctx, endpoint, &result); err != nil {
		return nil, errors.Wrap(err, "ticket search")
	}
	return &result, nil
}

// commentOnBuildTickets finds open tickets in the build component and adds a
// completion comment to each.
func (m *Module) commentOnBuildTickets(ctx context.Context, build *domain.BuildContext) (map[string]any, error) {
	jql := fmt.Sprintf("project = %s AND component = %q AND statusCategory != Done",
		m.cfg.Jira.ProjectKey, m.cfg.Jira.BuildComponent)
	result, err := m.search(ctx, jql, 50)
	if err != nil {
		return nil, err
	}

	commented := make([]string, 0, len(result.Issues))
	text := fmt.Sprintf("Build %s completed successfully in %s.", build.BuildID, build.Environment)
	for _, issue := range result.Issues {
		endpoint := fmt.Sprintf("/rest/api/3/issue/%s/comment", issue.Key)
		if err := m.client.Post(ctx, endpoint, map[string]any{"body": adfParagraph(text)}, nil); err != nil {
			m.logger.Error().Err(err).Str("ticket", issue.Key).Msg("failed to comment on ticket")
			continue
		}
		commented = append(commented, issue.Key)
	}

	return map[string]any{
		"build_id":          build.BuildID,
		"commented_tickets": commented,
	}, nil
}

// createBugTickets creates one bug ticket per component affected by the
// build's exception records. Priority scales with the exception count.
func (m *Module) createBugTickets(ctx context.Context, build *domain.BuildContext) (map[string]any, error) {
	byComponent := make(map[string][]domain.ExceptionRecord)
	for _, rec := range build.Exceptions {
		byComponent[rec.Component] = append(byComponent[rec.Component], rec)
	}
	if len(byComponent) == 0 && build.Error != "" {
		byComponent[constants.ComponentBuildExecution] = nil
	}

	created := make([]string, 0, len(byComponent))
	for component, records := range byComponent {
		key, err := m.createBugTicket(ctx, build, component, records)
		if err != nil {
			m.logger.Error().Err(err).Str("build_component", component).Msg("failed to create bug ticket")
			continue
		}
		created = append(created, key)
	}

	if len(created) == 0 && len(byComponent) > 0 {
		return nil, errors.Wrap(errors.ErrJiraOperation, "no bug tickets could be created")
	}
	return map[string]any{
		"build_id":        build.BuildID,
		"created_tickets": created,
	}, nil
}

func (m *Module) createBugTicket(ctx context.Context, build *domain.BuildContext, component string, records []domain.ExceptionRecord) (string, error) {
	var lines []string
	lines = append(lines, fmt.Sprintf("Build %s failed in component %s.", build.BuildID, component))
	if build.Error != "" {
		lines = append(lines, "Top-level error: "+build.Error)
	}
	for _, rec := range records {
		lines = append(lines, fmt.Sprintf("[%s] %s", rec.Error.Type, rec.Error.Message))
	}

	fields := map[string]any{
		"project":     map[string]any{"key": m.cfg.Jira.ProjectKey},
		"issuetype":   map[string]any{"name": "Bug"},
		"summary":     fmt.Sprintf("Build %s failure: %s", build.BuildID, component),
		"description": adfParagraph(strings.Join(lines, "\n")),
		"priority":    map[string]any{"name": priorityFor(len(build.Exceptions))},
		"labels":      []string{"crucible", "build-failure"},
	}
	if m.cfg.Jira.DefaultAssignee != "" {
		fields["assignee"] = map[string]any{"accountId": m.cfg.Jira.DefaultAssignee}
	}

	var createdIssue struct {
		Key string `json:"key"`
	}
	if err := m.client.Post(ctx, "/rest/api/3/issue", map[string]any{"fields": fields}, &createdIssue); err != nil {
		return "", errors.Wrap(err, "creating bug ticket")
	}

	m.logger.Info().
		Str("ticket", createdIssue.Key).
		Str("build_component", component).
		Msg("bug ticket created")
	return createdIssue.Key, nil
}

// priorityFor maps the exception count to a ticket priority name.
func priorityFor(exceptionCount int) string {
	switch {
	case exceptionCount >= 5:
		return "Critical"
	case exceptionCount >= 3:
		return "High"
	default:
		return "Medium"
	}
}

// adfParagraph wraps plain text in an Atlassian Document Format paragraph.
func adfParagraph(text string) map[string]any {
	return map[string]any{
		"type":    "doc",
		"version": 1,
		"content": []map[string]any{
			{
				"type": "paragraph",
				"content": []map[string]any{
					{"type": "text", "text": text},
				},
			},
		},
	}
}
