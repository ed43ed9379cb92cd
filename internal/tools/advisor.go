package tools

import (
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/mentorai/mentor/internal/log"
)

// Tool name constants for the advisory tools registered with Genkit.
const (
	// RecommendResourcesName is the Genkit tool name for learning resource recommendations.
	RecommendResourcesName = "recommendLearningResources"
	// CareerInsightsName is the Genkit tool name for career field insights.
	CareerInsightsName = "generateCareerInsights"
)

// RecommendInput defines input for the recommendLearningResources tool.
type RecommendInput struct {
	Topic string `json:"topic" jsonschema_description:"The topic to recommend learning resources for, e.g. 'Quantum Computing'"`
}

// CareerInput defines input for the generateCareerInsights tool.
type CareerInput struct {
	Field string `json:"field" jsonschema_description:"The career field to get insights for, e.g. 'software engineering'"`
}

// Advisor holds dependencies for the model-backed advisory tools. Both
// tools are plain completions with fixed prompts, no retrieval involved.
type Advisor struct {
	g         *genkit.Genkit
	modelName string
	logger    log.Logger
}

// NewAdvisor creates an Advisor tool handler.
func NewAdvisor(g *genkit.Genkit, modelName string, logger log.Logger) (*Advisor, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Advisor{g: g, modelName: modelName, logger: logger}, nil
}

// RegisterAdvisor registers both advisory tools with Genkit.
func RegisterAdvisor(g *genkit.Genkit, adv *Advisor) ([]ai.Tool, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if adv == nil {
		return nil, fmt.Errorf("Advisor is required")
	}

	return []ai.Tool{
		genkit.DefineTool(g, RecommendResourcesName,
			"Recommends learning resources like articles and videos for a given topic.",
			WithEvents(RecommendResourcesName, adv.RecommendResources)),
		genkit.DefineTool(g, CareerInsightsName,
			"Provides a summary of trends, skills, and career paths for a specific field.",
			WithEvents(CareerInsightsName, adv.CareerInsights)),
	}, nil
}

// RecommendResources suggests free online learning resources for a topic.
func (a *Advisor) RecommendResources(ctx *ai.ToolContext, input RecommendInput) (Result, error) {
	a.logger.Info("RecommendResources called", "topic", input.Topic)

	if strings.TrimSpace(input.Topic) == "" {
		return errorResult(ErrCodeValidation, "The topic to recommend resources for is missing."), nil
	}

	prompt := fmt.Sprintf(`You are an expert learning assistant AI. Your task is to recommend high-quality, free online resources for a given topic.

For the topic %q, please provide a list of learning resources. Include a mix of:
1. **Articles or Blog Posts**: Link to insightful articles.
2. **Videos**: Link to tutorials or lectures (e.g., on YouTube).
3. **Interactive Tutorials**: Link to websites with hands-on exercises.

Format the output clearly with headings for each resource type.`, input.Topic)

	text, err := a.complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("RecommendResources generation failed", "topic", input.Topic, "error", err)
		return errorResult(ErrCodeExecution,
			"Could not generate resource recommendations right now."), nil
	}

	a.logger.Info("RecommendResources succeeded", "topic", input.Topic)
	return Result{
		Status: StatusSuccess,
		Data:   map[string]any{"recommendations": text},
	}, nil
}

// CareerInsights summarizes trends, skills, and paths for a career field.
func (a *Advisor) CareerInsights(ctx *ai.ToolContext, input CareerInput) (Result, error) {
	a.logger.Info("CareerInsights called", "field", input.Field)

	if strings.TrimSpace(input.Field) == "" {
		return errorResult(ErrCodeValidation, "The career field to analyze is missing."), nil
	}

	prompt := fmt.Sprintf(`You are a career advisor AI. Your goal is to provide up-to-date and relevant career insights for students.

Generate a summary of the latest trends, in-demand skills, and potential career paths for the following field: %s.

Structure your response in clear, easy-to-digest sections.`, input.Field)

	text, err := a.complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("CareerInsights generation failed", "field", input.Field, "error", err)
		return errorResult(ErrCodeExecution,
			"Could not generate career insights right now."), nil
	}

	a.logger.Info("CareerInsights succeeded", "field", input.Field)
	return Result{
		Status: StatusSuccess,
		Data:   map[string]any{"insights": text},
	}, nil
}

func (a *Advisor) complete(ctx *ai.ToolContext, prompt string) (string, error) {
	resp, err := genkit.Generate(ctx.Context, a.g,
		ai.WithModelName(a.modelName),
		ai.WithPrompt(prompt),
	)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("model returned empty response")
	}
	return text, nil
}
