package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/firebase/genkit/go/ai"

	"github.com/mentorai/mentor/internal/chat"
	"github.com/mentorai/mentor/internal/tools"
)

// maxChatBodyBytes bounds chat request bodies. History rides along in the
// request, so the limit is generous.
const maxChatBodyBytes = 1 << 20

// SSE event types for chat streaming.
const (
	EventChunk        = "chunk"         // partial response text
	EventToolStart    = "tool_start"    // tool execution began
	EventToolComplete = "tool_complete" // tool execution succeeded
	EventToolError    = "tool_error"    // tool execution failed
	EventDone         = "done"          // stream completed successfully
	EventError        = "error"         // error occurred during streaming
)

// ChunkPayload is the SSE data payload for streaming text chunks.
type ChunkPayload struct {
	Text string `json:"text"`
}

// ToolPayload is the SSE data payload for tool lifecycle events.
type ToolPayload struct {
	Name string `json:"name"`
}

// DonePayload is the SSE data payload when streaming completes successfully.
type DonePayload struct {
	Response string `json:"response"`
}

// ErrorPayload is the SSE data payload when an error occurs.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// chatHandler serves the synchronous and streaming chat endpoints over
// one stateless agent.
type chatHandler struct {
	agent  *chat.Agent
	logger *slog.Logger
}

// send handles POST /api/chat: one synchronous turn.
func (h *chatHandler) send(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	resp, err := h.agent.Execute(r.Context(), input)
	if err != nil {
		h.writeAgentError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": resp.FinalText})
}

// stream handles POST /api/chat/stream: one turn streamed over SSE.
// Tool lifecycle events interleave with text chunks so the client can
// show which tool is running.
func (h *chatHandler) stream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var input chat.Input
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		_ = writeEvent(w, flusher, EventError, ErrorPayload{
			Code:    "INVALID_REQUEST",
			Message: "Invalid request body",
		})
		return
	}

	ctx := r.Context()
	h.logger.Debug("SSE stream started", "request_id", requestIDFromContext(ctx))

	// SSE frames must not interleave: the model callback and the tool
	// emitter both write to the same connection.
	sse := &sseWriter{w: w, flusher: flusher}
	ctx = tools.ContextWithEmitter(ctx, sse)

	resp, err := h.agent.ExecuteStream(ctx, input, sse.chunkCallback())
	if err != nil {
		h.streamError(sse, err)
		return
	}

	_ = sse.writeEvent(EventDone, DonePayload{Response: resp.FinalText})
	h.logger.Info("SSE stream completed", "request_id", requestIDFromContext(ctx))
}

func (h *chatHandler) decodeInput(w http.ResponseWriter, r *http.Request) (chat.Input, bool) {
	var input chat.Input
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return chat.Input{}, false
	}
	return input, true
}

// writeAgentError maps agent errors to HTTP status codes for the
// synchronous endpoint.
func (h *chatHandler) writeAgentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, chat.ErrExecutionFailed):
		h.logger.Error("chat turn failed", "error", err)
		writeError(w, http.StatusBadGateway, "execution_failed", "the assistant could not complete the request")
	default:
		h.logger.Error("chat turn failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// streamError maps agent errors to SSE error events.
func (h *chatHandler) streamError(sse *sseWriter, err error) {
	code := "STREAM_ERROR"
	switch {
	case errors.Is(err, chat.ErrInvalidInput):
		code = "INVALID_INPUT"
	case errors.Is(err, chat.ErrExecutionFailed):
		code = "EXECUTION_FAILED"
	}

	h.logger.Error("SSE stream failed", "code", code, "error", err)
	_ = sse.writeEvent(EventError, ErrorPayload{Code: code, Message: err.Error()})
}

// sseWriter serializes SSE frames from the chunk callback and the tool
// event emitter. It implements tools.EventEmitter.
type sseWriter struct {
	mu      sync.Mutex
	w       io.Writer
	flusher http.Flusher
	failed  bool
}

func (s *sseWriter) writeEvent(event string, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed {
		return errors.New("sse connection already failed")
	}
	if err := writeEvent(s.w, s.flusher, event, data); err != nil {
		s.failed = true
		return err
	}
	return nil
}

// chunkCallback adapts the writer into the agent's streaming callback.
// A write failure aborts the stream since it usually means the client
// disconnected.
func (s *sseWriter) chunkCallback() chat.StreamCallback {
	return func(_ context.Context, chunk *ai.ModelResponseChunk) error {
		if chunk == nil {
			return nil
		}
		for _, part := range chunk.Content {
			if part.Text == "" {
				continue
			}
			if err := s.writeEvent(EventChunk, ChunkPayload{Text: part.Text}); err != nil {
				return err
			}
		}
		return nil
	}
}

func (s *sseWriter) OnToolStart(name string) {
	_ = s.writeEvent(EventToolStart, ToolPayload{Name: name})
}

func (s *sseWriter) OnToolComplete(name string) {
	_ = s.writeEvent(EventToolComplete, ToolPayload{Name: name})
}

func (s *sseWriter) OnToolError(name string) {
	_ = s.writeEvent(EventToolError, ToolPayload{Name: name})
}

// writeEvent writes a single SSE event with JSON-encoded data.
// SSE format: "event: <type>\ndata: <json>\n\n"
func writeEvent(w io.Writer, flusher http.Flusher, event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	flusher.Flush()
	return nil
}
