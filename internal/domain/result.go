// Package domain provides shared domain types for the Crucible automation agent.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case.
package domain

import "time"

// ExecutionResult captures the outcome of one module invocation.
// It is created once by the workflow runner and never mutated afterward.
//
// Example JSON representation:
//
//	{
//	    "success": true,
//	    "module_name": "test_suite",
//	    "execution_time": 12.48,
//	    "data": {"total_tests": 24, "passed": 24},
//	    "errors": [],
//	    "warnings": []
//	}
type ExecutionResult struct {
	// Success indicates whether the module completed without errors.
	Success bool `json:"success"`

	// ModuleName identifies which module produced this result.
	ModuleName string `json:"module_name"`

	// ExecutionTime is the wall-clock duration of the invocation in seconds.
	ExecutionTime float64 `json:"execution_time"`

	// Data holds the module's output mapping. The core treats it as opaque
	// except for well-known convenience keys ("success", "error").
	Data map[string]any `json:"data,omitempty"`

	// Errors holds human-readable error strings when Success is false.
	Errors []string `json:"errors,omitempty"`

	// Warnings holds non-fatal notices emitted during execution.
	Warnings []string `json:"warnings,omitempty"`
}

// NewSuccessResult creates a successful result for a module invocation.
func NewSuccessResult(moduleName string, elapsed time.Duration, data map[string]any) ExecutionResult {
	return ExecutionResult{
		Success:       true,
		ModuleName:    moduleName,
		ExecutionTime: elapsed.Seconds(),
		Data:          data,
	}
}

// NewFailureResult creates a failed result carrying the given error strings.
func NewFailureResult(moduleName string, elapsed time.Duration, errs ...string) ExecutionResult {
	return ExecutionResult{
		Success:       false,
		ModuleName:    moduleName,
		ExecutionTime: elapsed.Seconds(),
		Errors:        errs,
	}
}

// ExecutionSummary aggregates every result recorded in a session.
// This is the persisted results layout: total counts, success rate,
// cumulative execution time, and the full result list.
type ExecutionSummary struct {
	// TotalModules is the number of module invocations recorded.
	TotalModules int `json:"total_modules"`

	// SuccessfulModules is the number of successful invocations.
	SuccessfulModules int `json:"successful_modules"`

	// FailedModules is the number of failed invocations.
	FailedModules int `json:"failed_modules"`

	// SuccessRate is SuccessfulModules/TotalModules as a percentage.
	// Zero when no modules have run.
	SuccessRate float64 `json:"success_rate"`

	// TotalExecutionTime is the sum of all execution times in seconds.
	TotalExecutionTime float64 `json:"total_execution_time"`

	// Results is the ordered session history of module invocations.
	Results []ExecutionResult `json:"results"`
}

// Summarize computes an ExecutionSummary over the given session history.
func Summarize(results []ExecutionResult) ExecutionSummary {
	summary := ExecutionSummary{
		TotalModules: len(results),
		Results:      results,
	}
	for _, r := range results {
		if r.Success {
			summary.SuccessfulModules++
		}
		summary.TotalExecutionTime += r.ExecutionTime
	}
	summary.FailedModules = summary.TotalModules - summary.SuccessfulModules
	if summary.TotalModules > 0 {
		summary.SuccessRate = float64(summary.SuccessfulModules) / float64(summary.TotalModules) * 100
	}
	return summary
}
