package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/firebase/genkit/go/genkit"

	"github.com/mentorai/mentor/internal/testutil"
)

func newTestAnswerer(t *testing.T, mock *testutil.MockLLM) *Answerer {
	t.Helper()

	g := genkit.Init(context.Background())
	mock.RegisterModel(g)

	a, err := NewAnswerer(g, "mock/test-model", testLogger())
	if err != nil {
		t.Fatalf("NewAnswerer() unexpected error: %v", err)
	}
	return a
}

func TestNewAnswererValidation(t *testing.T) {
	g := genkit.Init(context.Background())

	if _, err := NewAnswerer(nil, "m", nil); err == nil {
		t.Error("NewAnswerer(nil genkit) expected error, got nil")
	}
	if _, err := NewAnswerer(g, "", nil); err == nil {
		t.Error("NewAnswerer(empty model) expected error, got nil")
	}
}

// TestAnswerEmptyContextNeverCallsModel is the core grounding guarantee:
// with nothing retrieved, the fixed message comes back and the model stays
// out of the loop.
func TestAnswerEmptyContextNeverCallsModel(t *testing.T) {
	mock := testutil.NewMockLLM("should never be returned")
	a := newTestAnswerer(t, mock)

	ans, err := a.Answer(context.Background(), "what is mitosis", nil)
	if err != nil {
		t.Fatalf("Answer() unexpected error: %v", err)
	}

	if ans.Answer != NoMaterialsMessage {
		t.Errorf("Answer() = %q, want the fixed no-materials message", ans.Answer)
	}
	if len(ans.UsedContext) != 0 {
		t.Errorf("UsedContext = %v, want empty", ans.UsedContext)
	}
	if calls := mock.Calls(); len(calls) != 0 {
		t.Errorf("model was called %d times with empty context, want 0", len(calls))
	}
}

func TestAnswerGroundedResponse(t *testing.T) {
	mock := testutil.NewMockLLM("fallback")
	mock.AddResponse("mitosis", "Mitosis is how cells divide, in four phases.")
	a := newTestAnswerer(t, mock)

	chunks := []string{"Mitosis is cell division. Mitosis has four phases."}
	ans, err := a.Answer(context.Background(), "what is mitosis", chunks)
	if err != nil {
		t.Fatalf("Answer() unexpected error: %v", err)
	}

	if !strings.Contains(strings.ToLower(ans.Answer), "mitosis") {
		t.Errorf("Answer() = %q, want a response referencing mitosis", ans.Answer)
	}
	if len(ans.UsedContext) != 1 || ans.UsedContext[0] != chunks[0] {
		t.Errorf("UsedContext = %v, want the supplied chunk", ans.UsedContext)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("model called %d times, want 1", len(calls))
	}
	// The prompt must enumerate the context verbatim and pose the question.
	if !strings.Contains(calls[0].UserMessage, chunks[0]) {
		t.Error("prompt does not contain the context chunk verbatim")
	}
	if !strings.Contains(calls[0].UserMessage, "what is mitosis") {
		t.Error("prompt does not contain the question")
	}
	if !strings.Contains(calls[0].UserMessage, "Do not use any outside knowledge") {
		t.Error("prompt does not forbid outside knowledge")
	}
}

func TestAnswerEmptyModelOutput(t *testing.T) {
	mock := testutil.NewMockLLM("") // model produces no text
	a := newTestAnswerer(t, mock)

	_, err := a.Answer(context.Background(), "question", []string{"some context"})
	if err == nil {
		t.Fatal("Answer() expected error for empty model output, got nil")
	}
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("Answer() error = %v, want ErrGenerationFailed", err)
	}
}

func TestBuildGroundedPrompt(t *testing.T) {
	prompt := buildGroundedPrompt("why is the sky blue", []string{"chunk A", "chunk B"})

	for _, want := range []string{"chunk A", "chunk B", "why is the sky blue", "CONTEXT:", "QUESTION:"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Context must appear before the question.
	if strings.Index(prompt, "chunk A") > strings.Index(prompt, "why is the sky blue") {
		t.Error("context should precede the question in the prompt")
	}
}

func TestSourcePreviews(t *testing.T) {
	long := strings.Repeat("a", 150)
	previews := SourcePreviews([]string{"short chunk", long})

	if len(previews) != 2 {
		t.Fatalf("SourcePreviews() = %d entries, want 2", len(previews))
	}
	if previews[0] != "short chunk..." {
		t.Errorf("previews[0] = %q, want %q", previews[0], "short chunk...")
	}
	if previews[1] != strings.Repeat("a", 100)+"..." {
		t.Errorf("previews[1] should be truncated to 100 chars plus ellipsis, got %d chars", len(previews[1]))
	}
}
