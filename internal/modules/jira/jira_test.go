package jira_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucible-dev/crucible/internal/config"
	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/domain"
	"github.com/crucible-dev/crucible/internal/errors"
	"github.com/crucible-dev/crucible/internal/modules/jira"
)

func newTestConfig(baseURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Project.Name = "testproject"
	cfg.Jira.Enabled = true
	cfg.Jira.BaseURL = baseURL
	cfg.Jira.Email = "bot@example.com"
	cfg.Jira.APIToken = "token"
	cfg.Jira.ProjectKey = "ENG"
	return cfg
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   bool
	}{
		{name: "complete config", mutate: func(_ *config.Config) {}, want: true},
		{name: "disabled", mutate: func(c *config.Config) { c.Jira.Enabled = false }, want: false},
		{name: "missing base url", mutate: func(c *config.Config) { c.Jira.BaseURL = "" }, want: false},
		{name: "missing token", mutate: func(c *config.Config) { c.Jira.APIToken = "" }, want: false},
		{name: "missing project key", mutate: func(c *config.Config) { c.Jira.ProjectKey = "" }, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := newTestConfig("https://example.atlassian.net")
			tc.mutate(cfg)
			module := jira.New(cfg, zerolog.Nop())
			assert.Equal(t, tc.want, module.ValidateConfig())
		})
	}
}

func TestExecute(t *testing.T) {
	t.Parallel()

	t.Run("reports open ticket count", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/rest/api/3/myself":
				_ = json.NewEncoder(w).Encode(map[string]any{"accountId": "acc-1", "displayName": "Bot"})
			case "/rest/api/3/search":
				assert.Contains(t, r.URL.Query().Get("jql"), "project = ENG")
				_ = json.NewEncoder(w).Encode(map[string]any{"total": 4})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		t.Cleanup(srv.Close)

		module := jira.New(newTestConfig(srv.URL), zerolog.Nop())
		data, err := module.Execute(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, true, data[constants.ResultKeySuccess])
		assert.Equal(t, "acc-1", data["account_id"])
		assert.Equal(t, 4, data["open_tickets"])
	})

	t.Run("bad credentials fail execution", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"errorMessages": []string{"bad token"}})
		}))
		t.Cleanup(srv.Close)

		module := jira.New(newTestConfig(srv.URL), zerolog.Nop())
		_, err := module.Execute(context.Background(), nil)
		require.ErrorIs(t, err, errors.ErrUnexpectedStatus)
	})
}

func TestIntegrateWithBuild(t *testing.T) {
	t.Parallel()

	t.Run("successful build comments on open build tickets", func(t *testing.T) {
		t.Parallel()

		var comments []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/rest/api/3/search":
				_ = json.NewEncoder(w).Encode(map[string]any{
					"total":  2,
					"issues": []map[string]any{{"key": "ENG-1"}, {"key": "ENG-2"}},
				})
			case r.Method == http.MethodPost:
				comments = append(comments, r.URL.Path)
				w.WriteHeader(http.StatusCreated)
				_ = json.NewEncoder(w).Encode(map[string]any{"id": "1"})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		t.Cleanup(srv.Close)

		module := jira.New(newTestConfig(srv.URL), zerolog.Nop())
		build := domain.NewBuildContext("b-1", "testproject", "staging", time.Now())

		result, err := module.IntegrateWithBuild(context.Background(), build)
		require.NoError(t, err)

		assert.Equal(t, []string{"ENG-1", "ENG-2"}, result["commented_tickets"])
		assert.Len(t, comments, 2)
	})

	t.Run("failed build creates one bug ticket per component", func(t *testing.T) {
		t.Parallel()

		var created []map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/rest/api/3/issue", r.URL.Path)
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			created = append(created, payload)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"key": "ENG-100"})
		}))
		t.Cleanup(srv.Close)

		module := jira.New(newTestConfig(srv.URL), zerolog.Nop())
		build := domain.NewBuildContext("b-2", "testproject", "staging", time.Now())
		build.MarkFailed()
		build.Exceptions = []domain.ExceptionRecord{
			{ID: "1", Component: "pre_commit_tests", Error: domain.ExceptionDetail{Type: "error", Message: "boom"}},
			{ID: "2", Component: "pre_commit_tests", Error: domain.ExceptionDetail{Type: "error", Message: "boom 2"}},
			{ID: "3", Component: "post_build_actions", Error: domain.ExceptionDetail{Type: "panic", Message: "bad"}},
		}

		result, err := module.IntegrateWithBuild(context.Background(), build)
		require.NoError(t, err)

		tickets, ok := result["created_tickets"].([]string)
		require.True(t, ok)
		assert.Len(t, tickets, 2)
		assert.Len(t, created, 2)

		fields, ok := created[0]["fields"].(map[string]any)
		require.True(t, ok)
		priority, ok := fields["priority"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "High", priority["name"])
	})

	t.Run("ticket creation failure surfaces when nothing was created", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		t.Cleanup(srv.Close)

		module := jira.New(newTestConfig(srv.URL), zerolog.Nop())
		build := domain.NewBuildContext("b-3", "testproject", "staging", time.Now())
		build.MarkFailed()
		build.Exceptions = []domain.ExceptionRecord{
			{ID: "1", Component: "build_execution", Error: domain.ExceptionDetail{Type: "panic", Message: "bad"}},
		}

		_, err := module.IntegrateWithBuild(context.Background(), build)
		require.ErrorIs(t, err, errors.ErrJiraOperation)
	})
}
