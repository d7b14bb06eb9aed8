// Package testutil provides shared test helpers: configurable fake modules
// and collaborator doubles used by the agent and CLI test suites.
package testutil

import (
	"context"
	"sync/atomic"
)

// FakeModule is a configurable Module implementation for tests. Behavior is
// set through the exported fields; call counts are tracked atomically so
// tests can assert exact invocation counts.
type FakeModule struct {
	// ModuleName is returned by Name.
	ModuleName string

	// ConfigValid is returned by ValidateConfig.
	ConfigValid bool

	// ExecuteData is returned by Execute when ExecuteErr is nil.
	ExecuteData map[string]any

	// ExecuteErr, when set, is returned by Execute.
	ExecuteErr error

	// PanicValue, when non-nil, makes Execute panic with this value.
	PanicValue any

	// CapturedContext stores the execution context of the last Execute call.
	CapturedContext map[string]any

	validateCalls int64
	executeCalls  int64
}

// NewFakeModule creates a valid fake module returning the given data.
func NewFakeModule(name string, data map[string]any) *FakeModule {
	return &FakeModule{
		ModuleName:  name,
		ConfigValid: true,
		ExecuteData: data,
	}
}

// Name implements contracts.Module.
func (m *FakeModule) Name() string { return m.ModuleName }

// ValidateConfig implements contracts.Module.
func (m *FakeModule) ValidateConfig() bool {
	atomic.AddInt64(&m.validateCalls, 1)
	return m.ConfigValid
}

// Execute implements contracts.Module.
func (m *FakeModule) Execute(_ context.Context, execCtx map[string]any) (map[string]any, error) {
	atomic.AddInt64(&m.executeCalls, 1)
	m.CapturedContext = execCtx
	if m.PanicValue != nil {
		panic(m.PanicValue)
	}
	if m.ExecuteErr != nil {
		return nil, m.ExecuteErr
	}
	return m.ExecuteData, nil
}

// ValidateCalls returns how many times ValidateConfig was called.
func (m *FakeModule) ValidateCalls() int {
	return int(atomic.LoadInt64(&m.validateCalls))
}

// ExecuteCalls returns how many times Execute was called.
func (m *FakeModule) ExecuteCalls() int {
	return int(atomic.LoadInt64(&m.executeCalls))
}
