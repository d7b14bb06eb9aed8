package agent

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/crucible-dev/crucible/internal/contracts"
	"github.com/crucible-dev/crucible/internal/domain"
	"github.com/crucible-dev/crucible/internal/errors"
	"github.com/crucible-dev/crucible/internal/messages"
)

// ExecuteModule runs one registered module against the shared execution
// context merged with the given per-call overrides.
//
// The result is appended to the session history in every case:
//   - unregistered name: failed result with a "module not found" error
//   - Execute returned an error or panicked: failed result carrying the
//     error's string representation; nothing propagates to the caller
//   - otherwise: successful result wrapping the returned mapping
func (a *Agent) ExecuteModule(ctx context.Context, name string, overrides map[string]any) domain.ExecutionResult {
	module, err := a.registry.Get(name)
	if err != nil {
		a.logger.Error().Str("module", name).Msg("module not found")
		result := domain.NewFailureResult(name, 0, fmt.Sprintf("module %q not found", name))
		a.results = append(a.results, result)
		return result
	}

	execCtx := a.mergedContext(overrides)

	a.logger.Info().Str("module", name).Msg("executing module")
	start := time.Now()

	data, err := a.invoke(ctx, module, execCtx)
	elapsed := time.Since(start)

	var result domain.ExecutionResult
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("module", name).
			Int64("duration_ms", elapsed.Milliseconds()).
			Msg("module execution failed")
		result = domain.NewFailureResult(name, elapsed, fmt.Sprintf("module execution failed: %v", err))
	} else {
		a.logger.Info().
			Str("module", name).
			Int64("duration_ms", elapsed.Milliseconds()).
			Msg("module completed")
		result = domain.NewSuccessResult(name, elapsed, data)
	}

	a.results = append(a.results, result)
	return result
}

// ExecuteWorkflow runs the given ordered module names in sequence.
// Execution short-circuits at the first failed result: remaining names are
// not attempted and the partial result list gathered so far is returned.
// There are no retries at this layer.
func (a *Agent) ExecuteWorkflow(ctx context.Context, moduleNames []string) []domain.ExecutionResult {
	a.logger.Info().
		Str("workflow", strings.Join(moduleNames, " -> ")).
		Msg(a.msgs.Sprintf(messages.KeyWorkflowStarted, strings.Join(moduleNames, " -> ")))

	results := make([]domain.ExecutionResult, 0, len(moduleNames))
	for _, name := range moduleNames {
		result := a.ExecuteModule(ctx, name, nil)
		results = append(results, result)

		if !result.Success {
			a.logger.Error().
				Str("module", name).
				Msg(a.msgs.Sprintf(messages.KeyWorkflowStopped, name))
			break
		}
	}
	return results
}

// ExecuteNamedWorkflow looks up a workflow definition by name and runs it.
func (a *Agent) ExecuteNamedWorkflow(ctx context.Context, name string) ([]domain.ExecutionResult, error) {
	def, err := a.workflows.Get(name)
	if err != nil {
		return nil, err
	}
	return a.ExecuteWorkflow(ctx, def.Modules), nil
}

// invoke calls the module's Execute, converting a panic into an error so
// that a misbehaving module can never crash the pipeline.
func (a *Agent) invoke(ctx context.Context, module contracts.Module, execCtx map[string]any) (data map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().
				Str("module", module.Name()).
				Str("stack", string(debug.Stack())).
				Msg("recovered panic during module execution")
			err = fmt.Errorf("%w: %v", errors.ErrModulePanic, r)
		}
	}()
	return module.Execute(ctx, execCtx)
}
