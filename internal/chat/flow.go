package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"
)

// Output defines the response payload from the chat flow.
type Output struct {
	Response string `json:"response"`
}

// StreamChunk is the streaming output type for the chat flow. Each
// chunk carries partial text for immediate display.
type StreamChunk struct {
	Text string `json:"text"`
}

// FlowName is the registered name of the chat flow in Genkit.
const FlowName = "mentor/chat"

// Flow is the type alias for the agent's Genkit streaming flow.
type Flow = core.Flow[Input, Output, StreamChunk]

// Flow registration is a package-level singleton because
// genkit.DefineStreamingFlow panics on re-registration.
var (
	flowOnce sync.Once
	flow     *Flow
)

// NewFlow returns the chat flow singleton, defining it on first call.
func NewFlow(g *genkit.Genkit, agent *Agent) *Flow {
	flowOnce.Do(func() {
		flow = agent.DefineFlow(g)
	})
	return flow
}

// ResetFlowForTesting clears the flow singleton so tests can register
// with a fresh Genkit instance. Not safe for concurrent use.
func ResetFlowForTesting() {
	flowOnce = sync.Once{}
	flow = nil
}

// DefineFlow registers the streaming chat flow. The flow is a thin
// wrapper; ExecuteStream holds the orchestration logic. Use NewFlow
// instead of calling this directly.
func (a *Agent) DefineFlow(g *genkit.Genkit) *Flow {
	return genkit.DefineStreamingFlow(g, FlowName,
		func(ctx context.Context, input Input, streamCb func(context.Context, StreamChunk) error) (Output, error) {
			var callback StreamCallback
			if streamCb != nil {
				callback = func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
					if chunk == nil {
						return nil
					}
					for _, part := range chunk.Content {
						if part.Text == "" {
							continue
						}
						if err := streamCb(ctx, StreamChunk{Text: part.Text}); err != nil {
							return err
						}
					}
					return nil
				}
			}

			resp, err := a.ExecuteStream(ctx, input, callback)
			if err != nil {
				return Output{}, fmt.Errorf("chat flow: %w", err)
			}
			return Output{Response: resp.FinalText}, nil
		},
	)
}
