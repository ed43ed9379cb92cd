package tools

import (
	"context"

	"github.com/firebase/genkit/go/ai"
)

// emitterKey is an unexported context key for the per-request emitter.
type emitterKey struct{}

// EventEmitter receives tool lifecycle events. The SSE layer binds an
// emitter per chat request so the client can show which tool is running;
// non-streaming callers leave it unset and no events are emitted.
type EventEmitter interface {
	OnToolStart(name string)
	OnToolComplete(name string)
	OnToolError(name string)
}

// EmitterFromContext retrieves the EventEmitter from context.
// Returns nil if not set.
func EmitterFromContext(ctx context.Context) EventEmitter {
	emitter, _ := ctx.Value(emitterKey{}).(EventEmitter)
	return emitter
}

// ContextWithEmitter stores an EventEmitter in context.
func ContextWithEmitter(ctx context.Context, emitter EventEmitter) context.Context {
	return context.WithValue(ctx, emitterKey{}, emitter)
}

// WithEvents wraps a tool handler with lifecycle event emission.
// A Result carrying StatusError still counts as an error event even
// though the Go error is nil.
func WithEvents[In any](name string, fn func(*ai.ToolContext, In) (Result, error)) func(*ai.ToolContext, In) (Result, error) {
	return func(ctx *ai.ToolContext, input In) (Result, error) {
		emitter := EmitterFromContext(ctx.Context)
		if emitter != nil {
			emitter.OnToolStart(name)
		}

		result, err := fn(ctx, input)

		if emitter != nil {
			if err != nil || result.Status == StatusError {
				emitter.OnToolError(name)
			} else {
				emitter.OnToolComplete(name)
			}
		}

		return result, err
	}
}
