package agent_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucible-dev/crucible/internal/agent"
	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/domain"
	"github.com/crucible-dev/crucible/internal/errors"
	"github.com/crucible-dev/crucible/internal/testutil"
)

// recordingModule captures the execution context of every invocation, not
// just the last one. FailOnOverride makes it fail only when the test-category
// override is present, which isolates pre-commit failures from main-workflow
// failures.
type recordingModule struct {
	*testutil.FakeModule
	Contexts       []map[string]any
	FailOnOverride bool
}

func newRecordingModule(name string, data map[string]any) *recordingModule {
	return &recordingModule{FakeModule: testutil.NewFakeModule(name, data)}
}

func (m *recordingModule) Execute(ctx context.Context, execCtx map[string]any) (map[string]any, error) {
	m.Contexts = append(m.Contexts, execCtx)
	if m.FailOnOverride {
		if _, ok := execCtx[constants.ContextKeyTestCategories]; ok {
			return nil, errors.Wrap(errors.ErrTestsFailed, "unit run failed")
		}
	}
	return m.FakeModule.Execute(ctx, execCtx)
}

// ticketingDouble implements the build-integration capability.
type ticketingDouble struct {
	*testutil.FakeModule
	IntegrateCalls int
	IntegrateErr   error
}

func (m *ticketingDouble) IntegrateWithBuild(_ context.Context, _ *domain.BuildContext) (map[string]any, error) {
	m.IntegrateCalls++
	if m.IntegrateErr != nil {
		return nil, m.IntegrateErr
	}
	return map[string]any{"resolved_tickets": []string{"ENG-1"}}, nil
}

// publishingDouble implements the results-publishing capability.
type publishingDouble struct {
	*testutil.FakeModule
	TestResultCalls int
	ReportCalls     int
}

func (m *publishingDouble) PublishTestResults(_ context.Context, _ *domain.BuildContext) (map[string]any, error) {
	m.TestResultCalls++
	return map[string]any{"page_id": "100"}, nil
}

func (m *publishingDouble) PublishBuildReport(_ context.Context, _ *domain.BuildContext) (map[string]any, error) {
	m.ReportCalls++
	return map[string]any{"page_id": "101"}, nil
}

// sourceControlDouble implements the source-control capability.
type sourceControlDouble struct {
	*testutil.FakeModule
	Files       []string
	CommitCalls int
}

func (m *sourceControlDouble) ModifiedFiles(_ context.Context) ([]string, error) {
	return m.Files, nil
}

func (m *sourceControlDouble) CreateBuildCommit(_ context.Context, files []string, build *domain.BuildContext) (map[string]any, error) {
	m.CommitCalls++
	return map[string]any{"sha": "abc123", "files": len(files), "build_id": build.BuildID}, nil
}

func (m *sourceControlDouble) StoreBuildArtifacts(_ context.Context, build *domain.BuildContext) ([]string, error) {
	return []string{"artifacts/" + build.BuildID + "/test_results.json"}, nil
}

func (m *sourceControlDouble) AnnotateFiles(_ context.Context, _ *domain.BuildContext) error {
	return nil
}

func TestExecuteComprehensiveBuild(t *testing.T) {
	t.Parallel()

	t.Run("successful build collects results and writes report", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t)
		wf := singleWorkflow("quality_gate", constants.ModuleCodeReview, constants.ModuleTestSuite)
		a := newTestAgent(t, cfg, wf)

		review := newRecordingModule(constants.ModuleCodeReview, map[string]any{"quality_score": 9.1})
		tests := newRecordingModule(constants.ModuleTestSuite, map[string]any{"total_tests": 24, "passed": 24})
		a.Registry().Register(constants.ModuleCodeReview, review)
		a.Registry().Register(constants.ModuleTestSuite, tests)

		build := a.ExecuteComprehensiveBuild(context.Background(), "build-1")

		require.NotNil(t, build)
		assert.True(t, build.Success)
		assert.Equal(t, "build-1", build.BuildID)
		assert.Equal(t, "testproject", build.Project)
		assert.Equal(t, map[string]any{"total_tests": 24, "passed": 24}, build.TestResults)
		assert.Equal(t, map[string]any{"quality_score": 9.1}, build.CodeReviewResults)
		assert.Empty(t, build.Exceptions)

		reportPath := filepath.Join(cfg.Project.Root, constants.DocsDir, "build_report_build-1.json")
		assert.FileExists(t, reportPath)

		_, err := os.Stat(cfg.Build.ExceptionReportFile)
		assert.True(t, os.IsNotExist(err), "no exception report expected for clean build")
	})

	t.Run("pre-commit tests run unit-only without mutating later calls", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t)
		wf := singleWorkflow("quality_gate", constants.ModuleTestSuite)
		a := newTestAgent(t, cfg, wf)

		tests := newRecordingModule(constants.ModuleTestSuite, map[string]any{"passed": 1})
		a.Registry().Register(constants.ModuleTestSuite, tests)

		a.ExecuteComprehensiveBuild(context.Background(), "build-2")

		// First invocation is the pre-commit check, second the workflow run.
		require.Len(t, tests.Contexts, 2)
		assert.Equal(t, []string{"unit"}, tests.Contexts[0][constants.ContextKeyTestCategories])
		assert.NotContains(t, tests.Contexts[1], constants.ContextKeyTestCategories)
	})

	t.Run("failed workflow module fails the build", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t)
		cfg.Build.PreCommitChecks = false
		wf := singleWorkflow("quality_gate", constants.ModuleTestSuite)
		a := newTestAgent(t, cfg, wf)

		tests := testutil.NewFakeModule(constants.ModuleTestSuite, nil)
		tests.ExecuteErr = errors.ErrTestsFailed
		a.Registry().Register(constants.ModuleTestSuite, tests)

		build := a.ExecuteComprehensiveBuild(context.Background(), "build-3")

		assert.False(t, build.Success)
	})

	t.Run("pre-commit failure is collected, not fatal", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t)
		wf := singleWorkflow("quality_gate", constants.ModuleTestSuite)
		a := newTestAgent(t, cfg, wf)

		tests := newRecordingModule(constants.ModuleTestSuite, map[string]any{"passed": 1})
		tests.FailOnOverride = true
		a.Registry().Register(constants.ModuleTestSuite, tests)

		build := a.ExecuteComprehensiveBuild(context.Background(), "build-4")

		// Main workflow succeeded; only the pre-commit run failed.
		assert.True(t, build.Success)
		require.Len(t, build.Exceptions, 1)
		assert.Equal(t, constants.ComponentPreCommitTests, build.Exceptions[0].Component)
		assert.FileExists(t, cfg.Build.ExceptionReportFile)
	})

	t.Run("fail_on_exceptions turns collected exceptions fatal", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t)
		cfg.Build.FailOnExceptions = true
		wf := singleWorkflow("quality_gate", constants.ModuleTestSuite)
		a := newTestAgent(t, cfg, wf)

		tests := newRecordingModule(constants.ModuleTestSuite, map[string]any{"passed": 1})
		tests.FailOnOverride = true
		a.Registry().Register(constants.ModuleTestSuite, tests)

		build := a.ExecuteComprehensiveBuild(context.Background(), "build-5")

		assert.False(t, build.Success)
		require.Len(t, build.Exceptions, 1)
	})

	t.Run("panicking pre-commit module is recorded and recovered", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t)
		wf := singleWorkflow("noop", "bystander")
		a := newTestAgent(t, cfg, wf)

		review := testutil.NewFakeModule(constants.ModuleCodeReview, nil)
		review.PanicValue = "scanner blew up"
		a.Registry().Register(constants.ModuleCodeReview, review)
		a.Registry().Register("bystander", testutil.NewFakeModule("bystander", nil))

		build := a.ExecuteComprehensiveBuild(context.Background(), "build-6")

		require.NotNil(t, build)
		assert.True(t, build.Success)
		require.NotEmpty(t, build.Exceptions)
		assert.Equal(t, constants.ComponentPreCommitCodeReview, build.Exceptions[0].Component)
	})

	t.Run("ticket integration runs only for successful builds", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t)
		cfg.Build.PreCommitChecks = false
		wf := singleWorkflow("flow", constants.ModuleTestSuite, constants.ModuleJira)
		a := newTestAgent(t, cfg, wf)

		tests := testutil.NewFakeModule(constants.ModuleTestSuite, map[string]any{"passed": 1})
		jira := &ticketingDouble{FakeModule: testutil.NewFakeModule(constants.ModuleJira, map[string]any{"updated": 0})}
		a.Registry().Register(constants.ModuleTestSuite, tests)
		a.Registry().Register(constants.ModuleJira, jira)

		build := a.ExecuteComprehensiveBuild(context.Background(), "build-7")

		assert.True(t, build.Success)
		assert.Equal(t, 1, jira.IntegrateCalls)
		assert.Contains(t, build.Integrations, "jira_integration")

		// Failed build skips the reconciliation.
		tests.ExecuteErr = errors.ErrTestsFailed
		a2 := newTestAgent(t, newTestConfig(t), singleWorkflow("flow", constants.ModuleTestSuite))
		jira2 := &ticketingDouble{FakeModule: testutil.NewFakeModule(constants.ModuleJira, nil)}
		a2.Registry().Register(constants.ModuleTestSuite, tests)
		a2.Registry().Register(constants.ModuleJira, jira2)

		build2 := a2.ExecuteComprehensiveBuild(context.Background(), "build-8")
		assert.False(t, build2.Success)
		assert.Zero(t, jira2.IntegrateCalls)
	})

	t.Run("documentation publishing requires test results", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t)
		cfg.Build.PreCommitChecks = false
		wf := singleWorkflow("flow", constants.ModuleTestSuite)
		a := newTestAgent(t, cfg, wf)

		tests := testutil.NewFakeModule(constants.ModuleTestSuite, map[string]any{"passed": 3})
		confluence := &publishingDouble{FakeModule: testutil.NewFakeModule(constants.ModuleConfluence, nil)}
		a.Registry().Register(constants.ModuleTestSuite, tests)
		a.Registry().Register(constants.ModuleConfluence, confluence)

		build := a.ExecuteComprehensiveBuild(context.Background(), "build-9")

		assert.Equal(t, 1, confluence.TestResultCalls)
		assert.Equal(t, 1, confluence.ReportCalls)
		assert.Contains(t, build.Integrations, "confluence_test_results")
		assert.Contains(t, build.Integrations, "confluence_build_report")

		// Without a test-suite run there is nothing to publish.
		cfg2 := newTestConfig(t)
		cfg2.Build.PreCommitChecks = false
		a2 := newTestAgent(t, cfg2, singleWorkflow("flow", "other"))
		confluence2 := &publishingDouble{FakeModule: testutil.NewFakeModule(constants.ModuleConfluence, nil)}
		a2.Registry().Register("other", testutil.NewFakeModule("other", nil))
		a2.Registry().Register(constants.ModuleConfluence, confluence2)

		a2.ExecuteComprehensiveBuild(context.Background(), "build-10")
		assert.Zero(t, confluence2.TestResultCalls)
	})

	t.Run("source control commit and artifacts", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t)
		cfg.Build.PreCommitChecks = false
		wf := singleWorkflow("flow", constants.ModuleTestSuite)
		a := newTestAgent(t, cfg, wf)

		tests := testutil.NewFakeModule(constants.ModuleTestSuite, map[string]any{"passed": 3})
		github := &sourceControlDouble{
			FakeModule: testutil.NewFakeModule(constants.ModuleGitHub, nil),
			Files:      []string{"main.go", "main_test.go"},
		}
		a.Registry().Register(constants.ModuleTestSuite, tests)
		a.Registry().Register(constants.ModuleGitHub, github)

		build := a.ExecuteComprehensiveBuild(context.Background(), "build-11")

		assert.Equal(t, 1, github.CommitCalls)
		assert.Contains(t, build.Integrations, "github_commit")
		require.Len(t, build.Artifacts, 1)
		assert.Contains(t, build.Artifacts[0], "build-11")
	})

	t.Run("unsafe build id falls back to timestamp", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		a := agent.New(newTestConfig(t), singleWorkflow("noop", "m"), zerolog.New(&logs))
		a.Registry().Register("m", testutil.NewFakeModule("m", nil))

		build := a.ExecuteComprehensiveBuild(context.Background(), "../escape")

		assert.Regexp(t, regexp.MustCompile(`^\d{8}_\d{6}$`), build.BuildID)
		assert.Contains(t, logs.String(), errors.ErrInvalidBuildID.Error())
	})

	t.Run("empty build id generates timestamp", func(t *testing.T) {
		t.Parallel()

		a := newTestAgent(t, nil, singleWorkflow("noop", "m"))
		a.Registry().Register("m", testutil.NewFakeModule("m", nil))

		build := a.ExecuteComprehensiveBuild(context.Background(), "")

		assert.Regexp(t, regexp.MustCompile(`^\d{8}_\d{6}$`), build.BuildID)
	})
}
