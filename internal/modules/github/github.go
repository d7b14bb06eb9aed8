// Package github implements the source-control module. Local working-tree
// operations (modified files, the comprehensive commit) go through the git
// CLI; repository metadata, artifact storage, and annotations go through the
// GitHub API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	gogithub "github.com/google/go-github/v57/github"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/crucible-dev/crucible/internal/config"
	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/domain"
	"github.com/crucible-dev/crucible/internal/errors"
)

// gitRunner executes a git command in dir and returns its trimmed output.
// Swappable so tests can run without a repository.
type gitRunner func(ctx context.Context, dir string, args ...string) (string, error)

// Module is the source-control module.
type Module struct {
	cfg    *config.Config
	api    *gogithub.Client
	git    gitRunner
	logger zerolog.Logger
}

// Option configures the module.
type Option func(*Module)

// WithAPIClient replaces the GitHub API client. Used by tests.
func WithAPIClient(client *gogithub.Client) Option {
	return func(m *Module) {
		m.api = client
	}
}

// WithGitRunner replaces the git command runner. Used by tests.
func WithGitRunner(run gitRunner) Option {
	return func(m *Module) {
		m.git = run
	}
}

// New creates the source-control module with a token-authenticated API client.
func New(cfg *config.Config, logger zerolog.Logger, opts ...Option) *Module {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GitHub.Token})
	m := &Module{
		cfg:    cfg,
		api:    gogithub.NewClient(oauth2.NewClient(context.Background(), ts)),
		git:    runGit,
		logger: logger.With().Str("component", constants.ModuleGitHub).Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// runGit is the default gitRunner.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: git %s: %s", errors.ErrGitHubOperation, strings.Join(args, " "), strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// Name implements the module contract.
func (m *Module) Name() string { return constants.ModuleGitHub }

// ValidateConfig implements the module contract.
func (m *Module) ValidateConfig() bool {
	g := m.cfg.GitHub
	if !g.Enabled {
		return false
	}
	if g.Token == "" || g.Owner == "" || g.Repo == "" {
		m.logger.Warn().Err(errors.ErrMissingCredentials).Msg("github token, owner, and repo are all required")
		return false
	}
	return true
}

// Execute verifies repository access and reports basic repository metadata.
func (m *Module) Execute(ctx context.Context, _ map[string]any) (map[string]any, error) {
	repo, _, err := m.api.Repositories.Get(ctx, m.cfg.GitHub.Owner, m.cfg.GitHub.Repo)
	if err != nil {
		return nil, errors.Wrap(err, "fetching repository")
	}

	return map[string]any{
		constants.ResultKeySuccess: true,
		"repository":               repo.GetFullName(),
		"default_branch":           repo.GetDefaultBranch(),
		"open_issues":              repo.GetOpenIssuesCount(),
	}, nil
}

// ModifiedFiles lists files changed in the working tree.
func (m *Module) ModifiedFiles(ctx context.Context) ([]string, error) {
	out, err := m.git(ctx, m.cfg.Project.Root, "diff", "--name-only", "HEAD")
	if err != nil {
		return nil, errors.Wrap(err, "listing modified files")
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// CreateBuildCommit stages the given files and commits them with a generated
// message embedding the build outcome.
func (m *Module) CreateBuildCommit(ctx context.Context, files []string, build *domain.BuildContext) (map[string]any, error) {
	if len(files) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyValue, "commit file list")
	}

	addArgs := append([]string{"add", "--"}, files...)
	if _, err := m.git(ctx, m.cfg.Project.Root, addArgs...); err != nil {
		return nil, errors.Wrap(err, "staging files")
	}

	message := m.commitMessage(build)
	if _, err := m.git(ctx, m.cfg.Project.Root, "commit", "-m", message); err != nil {
		return nil, errors.Wrap(err, "creating commit")
	}

	sha, err := m.git(ctx, m.cfg.Project.Root, "rev-parse", "HEAD")
	if err != nil {
		return nil, errors.Wrap(err, "resolving commit sha")
	}

	m.logger.Info().
		Str("sha", sha).
		Int("files", len(files)).
		Msg("build commit created")

	return map[string]any{
		"sha":     sha,
		"message": message,
		"files":   files,
	}, nil
}

// commitMessage generates the commit description. Comprehensive mode embeds
// build id, test summary, review summary, and exception count.
func (m *Module) commitMessage(build *domain.BuildContext) string {
	subject := fmt.Sprintf("Automated build %s", build.BuildID)
	if !m.cfg.GitHub.ComprehensiveCommits {
		return subject
	}

	var sb strings.Builder
	sb.WriteString(subject + "\n\n")
	sb.WriteString(fmt.Sprintf("Project: %s\nEnvironment: %s\n", build.Project, build.Environment))

	if passed, total, ok := testCounts(build.TestResults); ok {
		sb.WriteString(fmt.Sprintf("Tests: %d/%d passed\n", passed, total))
	}
	if score, ok := build.CodeReviewResults["quality_score"]; ok {
		sb.WriteString(fmt.Sprintf("Review score: %v\n", score))
	}
	if len(build.Exceptions) > 0 {
		sb.WriteString(fmt.Sprintf("Exceptions: %d\n", len(build.Exceptions)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// testCounts pulls passed/total out of a test-results mapping. Module output
// is JSON-shaped, so numbers may be float64 or int.
func testCounts(results map[string]any) (passed, total int, ok bool) {
	passed, okPassed := asInt(results["passed"])
	total, okTotal := asInt(results["total_tests"])
	return passed, total, okPassed && okTotal
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// marshalIndent renders artifact content as indented JSON.
func marshalIndent(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding artifact")
	}
	return data, nil
}

// StoreBuildArtifacts uploads the build's test results and exception records
// to the artifact repository through the contents API.
func (m *Module) StoreBuildArtifacts(ctx context.Context, build *domain.BuildContext) ([]string, error) {
	repo := m.cfg.GitHub.TestRepo
	if repo == "" {
		repo = m.cfg.GitHub.Repo
	}

	artifacts := []struct {
		path    string
		content any
	}{
		{fmt.Sprintf("artifacts/%s/test_results.json", build.BuildID), build.TestResults},
	}
	if len(build.Exceptions) > 0 {
		artifacts = append(artifacts, struct {
			path    string
			content any
		}{fmt.Sprintf("artifacts/%s/exceptions.json", build.BuildID), build.Exceptions})
	}

	stored := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		content, err := marshalIndent(artifact.content)
		if err != nil {
			return nil, err
		}
		opts := &gogithub.RepositoryContentFileOptions{
			Message: gogithub.String(fmt.Sprintf("Store %s for build %s", artifact.path, build.BuildID)),
			Content: content,
		}
		if _, _, err := m.api.Repositories.CreateFile(ctx, m.cfg.GitHub.Owner, repo, artifact.path, opts); err != nil {
			return nil, errors.Wrapf(err, "storing artifact %s", artifact.path)
		}
		stored = append(stored, artifact.path)
	}

	m.logger.Info().
		Str("repo", repo).
		Int("artifacts", len(stored)).
		Msg("build artifacts stored")
	return stored, nil
}

// AnnotateFiles adds a build annotation as a commit comment on HEAD.
func (m *Module) AnnotateFiles(ctx context.Context, build *domain.BuildContext) error {
	sha, err := m.git(ctx, m.cfg.Project.Root, "rev-parse", "HEAD")
	if err != nil {
		return errors.Wrap(err, "resolving HEAD")
	}

	status := "succeeded"
	if !build.Success {
		status = "failed"
	}
	comment := &gogithub.RepositoryComment{
		Body: gogithub.String(fmt.Sprintf("Build %s %s in %s.", build.BuildID, status, build.Environment)),
	}
	if _, _, err := m.api.Repositories.CreateComment(ctx, m.cfg.GitHub.Owner, m.cfg.GitHub.Repo, sha, comment); err != nil {
		return errors.Wrap(err, "annotating commit")
	}
	return nil
}
