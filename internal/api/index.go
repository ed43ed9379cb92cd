package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mentorai/mentor/internal/extract"
	"github.com/mentorai/mentor/internal/rag"
)

// maxIndexBodyBytes bounds document upload size. Base64 inflates the
// payload by a third, so this allows files of roughly 15 MB.
const maxIndexBodyBytes = 20 << 20

// indexRequest is the POST /api/index payload. FileContent is base64.
type indexRequest struct {
	FileContent string `json:"fileContent"`
	FileName    string `json:"fileName"`
	CourseID    string `json:"courseId"`
	UserID      string `json:"userId"`
}

// indexHandler serves document uploads into the study material index.
type indexHandler struct {
	indexer *rag.Indexer
	logger  *slog.Logger
}

// index handles POST /api/index: decode, extract text, chunk, embed, store.
func (h *indexHandler) index(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxIndexBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	if req.FileContent == "" || req.FileName == "" || req.CourseID == "" || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "missing_fields",
			"fileContent, fileName, courseId and userId are all required")
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.FileContent)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_encoding", "fileContent must be base64-encoded")
		return
	}

	text, err := extract.Text(raw, req.FileName)
	switch {
	case errors.Is(err, extract.ErrNoText):
		writeError(w, http.StatusBadRequest, "no_text",
			"Could not extract any text from the file.")
		return
	case errors.Is(err, extract.ErrUnsupported):
		writeError(w, http.StatusBadRequest, "unsupported_file",
			"The file type is not supported. Upload a PDF or a plain text file.")
		return
	case err != nil:
		h.logger.Error("text extraction failed", "file", req.FileName, "error", err)
		writeError(w, http.StatusBadRequest, "extraction_failed",
			"Could not extract any text from the file.")
		return
	}

	records, err := h.indexer.Index(r.Context(), rag.Document{
		Text:        text,
		UserID:      req.UserID,
		CourseID:    req.CourseID,
		SourceLabel: req.FileName,
	})
	if err != nil {
		h.logger.Error("indexing failed", "file", req.FileName, "course_id", req.CourseID, "error", err)
		writeError(w, http.StatusBadGateway, "indexing_failed",
			"The document could not be indexed right now.")
		return
	}

	h.logger.Info("document indexed",
		"file", req.FileName,
		"course_id", req.CourseID,
		"chunks", len(records),
	)
	writeJSON(w, http.StatusOK, map[string]int{"chunksIndexed": len(records)})
}
