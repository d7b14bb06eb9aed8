package agent

import (
	"context"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
	"time"

	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/contracts"
	"github.com/crucible-dev/crucible/internal/domain"
	"github.com/crucible-dev/crucible/internal/errors"
	"github.com/crucible-dev/crucible/internal/messages"
)

// validBuildIDRegex matches build IDs safe to embed in artifact file names.
var validBuildIDRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ExecuteComprehensiveBuild runs a full build cycle: pre-commit checks, every
// named workflow, exception aggregation, and conditional
// ticketing/documentation/source-control integration.
//
// The method never returns an error and never panics past its boundary. A
// failure recovered at the outermost guard is recorded as a
// "build_execution" exception, forces the build to fail, and - when
// configured - triggers a best-effort bug ticket.
//
// BuildContext.Success starts true and transitions one-way to false on the
// first failed module result, the exception-failure policy, or a recovered
// top-level panic.
func (a *Agent) ExecuteComprehensiveBuild(ctx context.Context, buildID string) *domain.BuildContext {
	if buildID != "" && !validBuildIDRegex.MatchString(buildID) {
		a.logger.Warn().
			Err(errors.ErrInvalidBuildID).
			Str("build_id", buildID).
			Msg("supplied build id is not path-safe, using timestamp")
		buildID = ""
	}
	if buildID == "" {
		buildID = time.Now().UTC().Format(constants.BuildIDTimeFormat)
	}

	build := domain.NewBuildContext(buildID, a.cfg.Project.Name, a.cfg.Deployment.Environment, time.Now())

	a.logger.Info().
		Str("build_id", buildID).
		Msg(a.msgs.Sprintf(messages.KeyBuildStarted, a.cfg.Project.Name))

	start := time.Now()
	a.runBuildGuarded(ctx, build)

	if build.Success {
		a.logger.Info().
			Str("build_id", buildID).
			Msg(a.msgs.Sprintf(messages.KeyBuildCompleted, time.Since(start).Seconds()))
	} else {
		a.logger.Error().
			Str("build_id", buildID).
			Msg(a.msgs.Sprintf(messages.KeyBuildFailed, "build failed due to errors or exceptions"))
	}

	return build
}

// runBuildGuarded executes the build body behind the top-level recover guard.
func (a *Agent) runBuildGuarded(ctx context.Context, build *domain.BuildContext) {
	defer func() {
		if r := recover(); r != nil {
			a.exceptions.Record(constants.ComponentBuildExecution, domain.ExceptionDetail{
				Type:    "panic",
				Message: fmt.Sprint(r),
				Stack:   string(debug.Stack()),
			})

			build.MarkFailed()
			build.Error = fmt.Sprint(r)
			build.Exceptions = a.exceptions.Records()

			a.logger.Error().
				Str("build_id", build.BuildID).
				Str("error", fmt.Sprint(r)).
				Msg("recovered top-level build failure")

			if a.cfg.Build.AutoCreateBugTickets {
				a.tryTicketIntegration(ctx, build)
			}
		}
	}()

	a.runBuild(ctx, build)
}

// runBuild is the build body. Any panic escaping it is handled by
// runBuildGuarded.
func (a *Agent) runBuild(ctx context.Context, build *domain.BuildContext) {
	// Phase 1: pre-commit checks. Failures are recorded, never fatal.
	if a.cfg.Build.PreCommitChecks {
		a.runPreCommitChecks(ctx)
	}

	// Phase 2: main workflows.
	collected := a.executeAllWorkflows(ctx)
	if data, ok := collected[constants.ModuleTestSuite]; ok {
		build.TestResults = data
	}
	if data, ok := collected[constants.ModuleCodeReview]; ok {
		build.CodeReviewResults = data
	}

	// Any failed result anywhere in the session history fails the build.
	for _, result := range a.results {
		if !result.Success {
			build.MarkFailed()
			break
		}
	}

	build.Exceptions = a.exceptions.Records()

	// Phase 3: exception reporting before any commit happens.
	if a.cfg.Build.ExceptionReporting && a.exceptions.Len() > 0 {
		report := BuildExceptionReport(a.exceptions.Records())
		if err := writeJSONAtomic(a.cfg.Build.ExceptionReportFile, report); err != nil {
			a.logger.Error().Err(err).Msg("failed to save exception report")
		}
		a.logger.Warn().
			Int("count", a.exceptions.Len()).
			Msg(a.msgs.Sprintf(messages.KeyExceptionReport, a.exceptions.Len()))

		if a.cfg.Build.FailOnExceptions {
			build.MarkFailed()
		}
	}

	// Phase 4: conditional integrations. None of these can flip the build
	// back to success, and each is attempted only when its collaborator is
	// registered.
	if build.Success {
		a.tryTicketIntegration(ctx, build)
	}
	a.tryDocumentationIntegration(ctx, build)
	a.trySourceControlIntegration(ctx, build)

	// Phase 5: post-build actions.
	a.runPostBuildActions(ctx, build)

	// Post-build failures are recorded but never change the outcome.
	build.Exceptions = a.exceptions.Records()
}

// runPreCommitChecks invokes the code-review module and a unit-only test run
// before the main workflows. Module failures here are converted into
// exception records and the build proceeds; this is the collect-everything
// policy, deliberately distinct from the workflow runner's short-circuit.
//
// The unit-only narrowing is an explicit context override; the shared test
// configuration is never mutated.
func (a *Agent) runPreCommitChecks(ctx context.Context) {
	a.logger.Info().Msg(a.msgs.Sprintf(messages.KeyPreCommitChecks))

	defer func() {
		if r := recover(); r != nil {
			a.exceptions.Record(constants.ComponentPreCommitChecks, domain.ExceptionDetail{
				Type:    "panic",
				Message: fmt.Sprint(r),
				Stack:   string(debug.Stack()),
			})
		}
	}()

	if module, err := a.registry.Get(constants.ModuleCodeReview); err == nil {
		data, err := a.invoke(ctx, module, a.mergedContext(nil))
		a.recordPreCheckOutcome(constants.ComponentPreCommitCodeReview, constants.ModuleCodeReview, data, err, "code review failed")
	}

	if module, err := a.registry.Get(constants.ModuleTestSuite); err == nil {
		override := map[string]any{
			constants.ContextKeyTestCategories: []string{"unit"},
		}
		data, err := a.invoke(ctx, module, a.mergedContext(override))
		a.recordPreCheckOutcome(constants.ComponentPreCommitTests, constants.ModuleTestSuite, data, err, "pre-commit tests failed")
	}
}

// recordPreCheckOutcome converts a pre-check invocation outcome into an
// exception record when it failed, either through an error return or a
// success=false output mapping.
func (a *Agent) recordPreCheckOutcome(component, moduleName string, data map[string]any, err error, fallbackMsg string) {
	if err != nil {
		a.exceptions.Record(component, domain.ExceptionDetail{
			Type:    "error",
			Message: err.Error(),
			Module:  moduleName,
		})
		return
	}
	if failed, msg := resultIndicatesFailure(data, fallbackMsg); failed {
		a.exceptions.RecordFailure(component, moduleName, msg)
	}
}

// resultIndicatesFailure defensively inspects a module output mapping for
// the well-known success/error keys. Absent keys mean success.
func resultIndicatesFailure(data map[string]any, fallbackMsg string) (bool, string) {
	success, ok := data[constants.ResultKeySuccess].(bool)
	if !ok || success {
		return false, ""
	}
	if msg, ok := data[constants.ResultKeyError].(string); ok && msg != "" {
		return true, msg
	}
	return true, fallbackMsg
}

// executeAllWorkflows runs every named workflow definition in sorted order
// and collects the latest output mapping per module name.
func (a *Agent) executeAllWorkflows(ctx context.Context) map[string]map[string]any {
	collected := make(map[string]map[string]any)
	for _, def := range a.workflows.All() {
		for _, result := range a.ExecuteWorkflow(ctx, def.Modules) {
			if result.Success {
				collected[result.ModuleName] = result.Data
			} else {
				collected[result.ModuleName] = map[string]any{
					constants.ResultKeySuccess: false,
					constants.ResultKeyError:   strings.Join(result.Errors, "; "),
				}
			}
		}
	}
	return collected
}

// tryTicketIntegration asks a registered ticketing collaborator to reconcile
// tickets against this build. The integration result is merged into the
// build context; it never overrides the success flag, and its own failure is
// logged, not re-raised.
func (a *Agent) tryTicketIntegration(ctx context.Context, build *domain.BuildContext) {
	module, err := a.registry.Get(constants.ModuleJira)
	if err != nil {
		return
	}
	integrator, ok := module.(contracts.BuildIntegrator)
	if !ok {
		return
	}

	result, err := integrator.IntegrateWithBuild(ctx, build)
	if err != nil {
		a.logger.Error().Err(err).Msg("ticket integration failed")
		return
	}
	build.AddIntegration("jira_integration", result)
}

// tryDocumentationIntegration publishes test results and the consolidated
// build report when a documentation collaborator is registered and test
// results exist.
func (a *Agent) tryDocumentationIntegration(ctx context.Context, build *domain.BuildContext) {
	if len(build.TestResults) == 0 {
		return
	}
	module, err := a.registry.Get(constants.ModuleConfluence)
	if err != nil {
		return
	}
	publisher, ok := module.(contracts.ResultsPublisher)
	if !ok {
		return
	}

	if result, err := publisher.PublishTestResults(ctx, build); err != nil {
		a.logger.Error().Err(err).Msg("publishing test results failed")
	} else {
		build.AddIntegration("confluence_test_results", result)
	}

	if result, err := publisher.PublishBuildReport(ctx, build); err != nil {
		a.logger.Error().Err(err).Msg("publishing build report failed")
	} else {
		build.AddIntegration("confluence_build_report", result)
	}
}

// trySourceControlIntegration creates the comprehensive commit for a
// successful build and archives test/exception artifacts when test results
// exist.
func (a *Agent) trySourceControlIntegration(ctx context.Context, build *domain.BuildContext) {
	module, err := a.registry.Get(constants.ModuleGitHub)
	if err != nil {
		return
	}
	sc, ok := module.(contracts.SourceControl)
	if !ok {
		return
	}

	if build.Success {
		files, err := sc.ModifiedFiles(ctx)
		if err != nil {
			a.logger.Error().Err(err).Msg("listing modified files failed")
		} else if len(files) > 0 {
			if result, err := sc.CreateBuildCommit(ctx, files, build); err != nil {
				a.logger.Error().Err(err).Msg("comprehensive commit failed")
			} else {
				build.AddIntegration("github_commit", result)
			}
		}
	}

	if len(build.TestResults) > 0 {
		artifacts, err := sc.StoreBuildArtifacts(ctx, build)
		if err != nil {
			a.logger.Error().Err(err).Msg("storing build artifacts failed")
		} else {
			build.Artifacts = append(build.Artifacts, artifacts...)
		}
	}
}

// runPostBuildActions generates the build report artifact and optionally
// annotates code. Failures are recorded as exceptions but never change the
// build outcome.
func (a *Agent) runPostBuildActions(ctx context.Context, build *domain.BuildContext) {
	a.logger.Info().Msg(a.msgs.Sprintf(messages.KeyPostBuildActions))

	defer func() {
		if r := recover(); r != nil {
			a.exceptions.Record(constants.ComponentPostBuildActions, domain.ExceptionDetail{
				Type:    "panic",
				Message: fmt.Sprint(r),
				Stack:   string(debug.Stack()),
			})
		}
	}()

	if a.cfg.Build.ComprehensiveDocumentation {
		if err := a.writeBuildReport(build); err != nil {
			a.exceptions.Record(constants.ComponentPostBuildActions, domain.ExceptionDetail{
				Type:    "error",
				Message: err.Error(),
			})
		}
	}

	if a.cfg.Build.AutoAddComments {
		a.tryCodeAnnotation(ctx, build)
	}
}

// tryCodeAnnotation asks the source-control collaborator to annotate files
// with build information. Best effort only.
func (a *Agent) tryCodeAnnotation(ctx context.Context, build *domain.BuildContext) {
	module, err := a.registry.Get(constants.ModuleGitHub)
	if err != nil {
		return
	}
	sc, ok := module.(contracts.SourceControl)
	if !ok {
		return
	}
	if err := sc.AnnotateFiles(ctx, build); err != nil {
		a.exceptions.Record(constants.ComponentPostBuildActions, domain.ExceptionDetail{
			Type:    "error",
			Message: err.Error(),
		})
	}
}
