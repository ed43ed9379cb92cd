// Package chat implements the conversational orchestrator.
//
// One Agent serves all users. It is stateless between turns: the caller
// supplies the prompt, the history, and the authenticated identity on
// every call, and the agent threads identity into the tool layer through
// the request context so tools never trust model-supplied user IDs.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"

	"github.com/mentorai/mentor/internal/config"
	"github.com/mentorai/mentor/internal/tools"
)

const (
	// DefaultMaxTurns bounds the agentic tool-calling loop per turn.
	DefaultMaxTurns = 5

	// FallbackResponseMessage is returned when the model produces an
	// empty response with no tool requests.
	FallbackResponseMessage = "I apologize, but I couldn't generate a response. Please try rephrasing your question."
)

// Sentinel errors for agent operations.
var (
	// ErrInvalidInput indicates a missing prompt or user identity.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExecutionFailed indicates the model call failed after retries.
	ErrExecutionFailed = errors.New("execution failed")
)

// Message is one history entry as supplied by the caller. Role is
// "user" or "model"; unknown roles are skipped when building the
// model request.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Input carries one conversation turn. History holds the prior turns;
// the agent keeps no state of its own.
type Input struct {
	UserID   string    `json:"userId"`
	CourseID string    `json:"courseId,omitempty"`
	Prompt   string    `json:"prompt"`
	History  []Message `json:"history"`
}

// Response is the complete result of one turn.
type Response struct {
	FinalText    string
	ToolRequests []*ai.ToolRequest
}

// StreamCallback receives each chunk of the streaming response.
// Returning an error aborts the stream.
type StreamCallback func(ctx context.Context, chunk *ai.ModelResponseChunk) error

// Config contains all required parameters for the chat agent.
type Config struct {
	Genkit    *genkit.Genkit
	Logger    *slog.Logger
	Tools     []ai.Tool // pre-registered via tools.Register
	ModelName string    // provider-qualified, e.g. "googleai/gemini-2.0-flash"

	MaxTurns           int // agentic loop bound (default DefaultMaxTurns)
	MaxHistoryMessages int // history tail kept per turn (default config.DefaultMaxHistoryMessages)

	RetryConfig RetryConfig   // zero value uses defaults
	RateLimiter *rate.Limiter // nil uses the default limiter
}

func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if len(cfg.Tools) == 0 {
		return errors.New("at least one tool is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	return nil
}

// Agent is the conversational agent. All configuration is captured
// immutably at construction, so one instance is safe for concurrent
// turns.
type Agent struct {
	g          *genkit.Genkit
	logger     *slog.Logger
	modelName  string
	maxTurns   int
	maxHistory int

	retryConfig RetryConfig
	rateLimiter *rate.Limiter

	tools     []ai.Tool
	toolRefs  []ai.ToolRef
	toolNames string
}

// New creates an Agent from the given configuration.
func New(cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	retryConfig := cfg.RetryConfig
	if retryConfig.MaxRetries == 0 {
		retryConfig = DefaultRetryConfig()
	}

	rl := cfg.RateLimiter
	if rl == nil {
		rl = rate.NewLimiter(10, 30)
	}

	// Cache tool refs and names at construction.
	toolRefs := make([]ai.ToolRef, len(cfg.Tools))
	names := make([]string, len(cfg.Tools))
	for i, t := range cfg.Tools {
		toolRefs[i] = t
		names[i] = t.Name()
	}

	a := &Agent{
		g:           cfg.Genkit,
		logger:      cfg.Logger,
		modelName:   cfg.ModelName,
		maxTurns:    maxTurns,
		maxHistory:  config.NormalizeMaxHistoryMessages(cfg.MaxHistoryMessages),
		retryConfig: retryConfig,
		rateLimiter: rl,
		tools:       cfg.Tools,
		toolRefs:    toolRefs,
		toolNames:   strings.Join(names, ", "),
	}

	a.logger.Info("chat agent initialized",
		"model", a.modelName,
		"tools", len(a.tools),
		"max_turns", a.maxTurns,
	)
	return a, nil
}

// Execute runs one turn without streaming.
func (a *Agent) Execute(ctx context.Context, input Input) (*Response, error) {
	return a.ExecuteStream(ctx, input, nil)
}

// ExecuteStream runs one turn, invoking callback for each response chunk
// when it is non-nil. The complete final text is always returned.
func (a *Agent) ExecuteStream(ctx context.Context, input Input, callback StreamCallback) (*Response, error) {
	if strings.TrimSpace(input.Prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is empty", ErrInvalidInput)
	}
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrInvalidInput)
	}

	// Thread the authenticated identity to the tool layer. Tools read
	// these instead of trusting model-supplied arguments.
	ctx = tools.ContextWithOwnerID(ctx, input.UserID)
	if input.CourseID != "" {
		ctx = tools.ContextWithCourseID(ctx, input.CourseID)
	}

	a.logger.Debug("executing chat turn",
		"streaming", callback != nil,
		"history_len", len(input.History),
		"course_id", input.CourseID,
	)

	messages := historyMessages(truncateHistory(input.History, a.maxHistory))
	messages = append(messages, ai.NewUserMessage(ai.NewTextPart(input.Prompt)))

	opts := []ai.GenerateOption{
		ai.WithModelName(a.modelName),
		ai.WithSystem(systemPrompt),
		ai.WithMessages(messages...),
		ai.WithTools(a.toolRefs...),
		ai.WithMaxTurns(a.maxTurns),
	}
	if callback != nil {
		opts = append(opts, ai.WithStreaming(callback))
	}

	resp, err := a.generateWithRetry(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}

	responseText := resp.Text()

	// Empty text with tool requests is valid agentic behavior; only a
	// truly empty response degrades to the fallback message.
	if strings.TrimSpace(responseText) == "" && len(resp.ToolRequests()) == 0 {
		a.logger.Warn("model returned empty response with no tool requests")
		responseText = FallbackResponseMessage
	}

	return &Response{
		FinalText:    responseText,
		ToolRequests: resp.ToolRequests(),
	}, nil
}

// truncateHistory keeps the most recent limit messages.
func truncateHistory(history []Message, limit int) []Message {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}

// historyMessages converts caller-supplied history into model messages,
// skipping entries with unknown roles or empty text.
func historyMessages(history []Message) []*ai.Message {
	messages := make([]*ai.Message, 0, len(history)+1)
	for _, m := range history {
		if m.Text == "" {
			continue
		}
		switch m.Role {
		case "user":
			messages = append(messages, ai.NewUserMessage(ai.NewTextPart(m.Text)))
		case "model":
			messages = append(messages, ai.NewModelMessage(ai.NewTextPart(m.Text)))
		}
	}
	return messages
}
