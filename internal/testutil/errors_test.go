package testutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockErrorsAreDistinctSentinels(t *testing.T) {
	t.Parallel()

	assert.False(t, errors.Is(ErrMockExecuteFailed, ErrMockGitCommand))
	assert.False(t, errors.Is(ErrMockGitCommand, ErrMockExecuteFailed))
}

func TestMockErrorsMatchThroughWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("running module: %w", ErrMockExecuteFailed)
	assert.True(t, errors.Is(wrapped, ErrMockExecuteFailed))

	unrelated := errors.New("mock module execution failed")
	assert.False(t, errors.Is(unrelated, ErrMockExecuteFailed), "matching is by identity, not message")
}
