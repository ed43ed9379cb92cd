package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"
)

// answerTemperature keeps grounded answers near-deterministic. The model is
// summarizing supplied passages, not composing; creativity here means
// fabrication.
const answerTemperature float32 = 0.1

// sourcePreviewLen is the number of leading characters of a chunk shown in
// the sources list returned to API callers.
const sourcePreviewLen = 100

// Answer is a grounded response plus the passages it was grounded on.
type Answer struct {
	Answer      string
	UsedContext []string
}

// Answerer produces answers constrained to supplied context passages.
type Answerer struct {
	g         *genkit.Genkit
	modelName string
	logger    *slog.Logger
}

// NewAnswerer creates an Answerer using the given provider-qualified model
// name (e.g. "googleai/gemini-2.5-flash").
func NewAnswerer(g *genkit.Genkit, modelName string, logger *slog.Logger) (*Answerer, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Answerer{g: g, modelName: modelName, logger: logger}, nil
}

// Answer generates a response to query using only the supplied context
// passages.
//
// With an empty context the fixed NoMaterialsMessage is returned and the
// model is never called: this is both a cost control and a correctness
// guarantee, since the model must not answer from its own knowledge when
// asked to ground in materials. If the model call fails or returns empty
// text, ErrGenerationFailed is reported rather than an empty answer.
func (a *Answerer) Answer(ctx context.Context, query string, contextChunks []string) (*Answer, error) {
	if len(contextChunks) == 0 {
		a.logger.Debug("no context supplied, returning fixed message without model call")
		return &Answer{Answer: NoMaterialsMessage}, nil
	}

	resp, err := genkit.Generate(ctx, a.g,
		ai.WithModelName(a.modelName),
		ai.WithPrompt(buildGroundedPrompt(query, contextChunks)),
		ai.WithConfig(&genai.GenerateContentConfig{
			Temperature: genai.Ptr(answerTemperature),
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("%w: model returned no text", ErrGenerationFailed)
	}

	return &Answer{Answer: text, UsedContext: contextChunks}, nil
}

// buildGroundedPrompt enumerates every context passage verbatim, then poses
// the question with an explicit instruction to decline when the context is
// insufficient.
func buildGroundedPrompt(query string, contextChunks []string) string {
	var b strings.Builder
	b.WriteString("You are an expert study assistant. Your role is to provide clear, concise, ")
	b.WriteString("and accurate answers based *only* on the context provided.\n\n")
	b.WriteString("CONTEXT:\n---\n")
	for _, chunk := range contextChunks {
		b.WriteString(chunk)
		b.WriteString("\n---\n")
	}
	b.WriteString("\nQUESTION:\n\"")
	b.WriteString(query)
	b.WriteString("\"\n\n")
	b.WriteString("Based on the context above, answer the user's question. ")
	b.WriteString("If the context does not contain the answer, state that you cannot answer ")
	b.WriteString("based on the provided materials. Do not use any outside knowledge.")
	return b.String()
}

// SourcePreviews truncates each chunk to a short preview for the sources
// list exposed alongside an answer.
func SourcePreviews(chunks []string) []string {
	previews := make([]string, len(chunks))
	for i, chunk := range chunks {
		runes := []rune(chunk)
		if len(runes) > sourcePreviewLen {
			runes = runes[:sourcePreviewLen]
		}
		previews[i] = string(runes) + "..."
	}
	return previews
}
