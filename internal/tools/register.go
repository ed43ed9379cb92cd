package tools

import (
	"fmt"

	"github.com/firebase/genkit/go/genkit"

	"github.com/mentorai/mentor/internal/log"
	"github.com/mentorai/mentor/internal/rag"
)

// toolNames is the single source of truth for registered tool names.
var toolNames = []string{
	GetStudyGuideAnswerName,
	RecommendResourcesName,
	CareerInsightsName,
	ListEmailsName,
	ReadEmailName,
}

// ToolNames returns all registered tool names.
func ToolNames() []string {
	return toolNames
}

// Deps carries the collaborators the tool handlers need. All fields are
// required except Logger, which defaults to a no-op logger.
type Deps struct {
	Retriever *rag.Retriever
	Answerer  *rag.Answerer
	Inbox     inboxReader
	ModelName string
	Logger    log.Logger
}

// Register wires all five assistant tools into Genkit and returns a
// Registry that resolves them for generate calls.
func Register(g *genkit.Genkit, deps Deps) (*Registry, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	studyGuide, err := NewStudyGuide(deps.Retriever, deps.Answerer, logger.With("tool", GetStudyGuideAnswerName))
	if err != nil {
		return nil, fmt.Errorf("creating study guide tool: %w", err)
	}
	advisor, err := NewAdvisor(g, deps.ModelName, logger.With("tool", "advisor"))
	if err != nil {
		return nil, fmt.Errorf("creating advisor tools: %w", err)
	}
	email, err := NewEmail(deps.Inbox, logger.With("tool", "email"))
	if err != nil {
		return nil, fmt.Errorf("creating email tools: %w", err)
	}

	if _, err := RegisterStudyGuide(g, studyGuide); err != nil {
		return nil, fmt.Errorf("registering study guide tool: %w", err)
	}
	if _, err := RegisterAdvisor(g, advisor); err != nil {
		return nil, fmt.Errorf("registering advisor tools: %w", err)
	}
	if _, err := RegisterEmail(g, email); err != nil {
		return nil, fmt.Errorf("registering email tools: %w", err)
	}

	return NewRegistry(g), nil
}
