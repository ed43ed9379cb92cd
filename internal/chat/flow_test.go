package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/firebase/genkit/go/genkit"

	"github.com/mentorai/mentor/internal/testutil"
)

func TestSentinelErrorsCanBeChecked(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("%w: prompt is empty", ErrInvalidInput)
	if !errors.Is(wrapped, ErrInvalidInput) {
		t.Error("wrapped error should match ErrInvalidInput")
	}

	wrapped = fmt.Errorf("%w: %w", ErrExecutionFailed, errors.New("model down"))
	if !errors.Is(wrapped, ErrExecutionFailed) {
		t.Error("wrapped error should match ErrExecutionFailed")
	}
	if errors.Is(wrapped, ErrInvalidInput) {
		t.Error("execution failure must not match ErrInvalidInput")
	}
}

func TestNewFlowSingleton(t *testing.T) {
	ResetFlowForTesting()
	t.Cleanup(ResetFlowForTesting)

	g := genkit.Init(context.Background())
	fx := newAgentFixture(t, testutil.NewMockLLM("ok"))

	first := NewFlow(g, fx.agent)
	if first == nil {
		t.Fatal("NewFlow() returned nil")
	}
	second := NewFlow(g, fx.agent)
	if first != second {
		t.Error("NewFlow() should return the same flow instance")
	}
}
