package api

import (
	"log/slog"
	"net/http"

	"github.com/mentorai/mentor/internal/rag"
	"github.com/mentorai/mentor/internal/vecstore"
)

// answerHandler serves direct grounded question answering, bypassing the
// conversational agent. Used by clients that only want the study guide.
type answerHandler struct {
	retriever *rag.Retriever
	answerer  *rag.Answerer
	logger    *slog.Logger
}

// answer handles GET /api/rag/answer?query=...&courseId=...&userId=...
func (h *answerHandler) answer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	courseID := q.Get("courseId")
	userID := q.Get("userId")

	if query == "" || courseID == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "missing_fields",
			"query, courseId and userId are all required")
		return
	}

	scope := vecstore.Scope{UserID: userID, CourseID: courseID}
	results, err := h.retriever.Retrieve(r.Context(), query, scope)
	if err != nil {
		h.logger.Error("retrieval failed", "course_id", courseID, "error", err)
		writeError(w, http.StatusBadGateway, "retrieval_failed",
			"Could not search the study materials right now.")
		return
	}

	chunks := make([]string, 0, len(results))
	for _, res := range results {
		chunks = append(chunks, res.Text)
	}

	answer, err := h.answerer.Answer(r.Context(), query, chunks)
	if err != nil {
		h.logger.Error("answer generation failed", "course_id", courseID, "error", err)
		writeError(w, http.StatusBadGateway, "generation_failed",
			"Could not generate an answer right now.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":  answer.Answer,
		"sources": rag.SourcePreviews(answer.UsedContext),
	})
}
