// Package api provides the JSON HTTP server for the mentor backend.
//
// # Architecture
//
// Routing uses Go 1.22+ method patterns with a layered middleware stack:
//
//	Recovery → RequestID → Logging → CORS → RateLimit → Routes
//
// Health probes (/health, /ready) bypass the middleware stack via a
// top-level mux so they stay fast and unauthenticated.
//
// # Endpoints
//
//   - POST /api/index       upload and index a study document
//   - POST /api/chat        synchronous chat turn
//   - POST /api/chat/stream streaming chat turn (SSE)
//   - GET  /api/rag/answer  direct grounded question answering
//   - GET  /health, /ready  liveness and readiness probes
//
// # Error Handling
//
// Success responses encode the handler's payload directly as the body,
// e.g. {"chunksIndexed": 3}. Error responses carry a code and message:
//
//	{"error": {"code": "...", "message": "..."}}
//
// Errors during chat streaming are sent as SSE events (event: error),
// not HTTP error responses, since SSE headers are already committed.
//
// # SSE Streaming
//
// Chat responses stream via Server-Sent Events with typed events:
//
//   - chunk:         incremental text content
//   - tool_start:    tool execution began
//   - tool_complete: tool execution succeeded
//   - tool_error:    tool execution failed
//   - done:          final response text
//   - error:         turn-level error
package api
