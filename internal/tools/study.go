package tools

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/mentorai/mentor/internal/log"
	"github.com/mentorai/mentor/internal/rag"
	"github.com/mentorai/mentor/internal/vecstore"
)

// GetStudyGuideAnswerName is the Genkit tool name for the RAG lookup tool.
const GetStudyGuideAnswerName = "getStudyGuideAnswer"

// StudyGuideInput defines input for the getStudyGuideAnswer tool.
// UserID is overwritten from the authenticated context before execution.
type StudyGuideInput struct {
	Query    string `json:"query" jsonschema_description:"The question to answer from the student's uploaded study materials"`
	CourseID string `json:"courseId" jsonschema_description:"The course the question is about, e.g. 'BIO-101'"`
	UserID   string `json:"userId" jsonschema_description:"The student's user ID (filled automatically)"`
}

// StudyGuide holds dependencies for the grounded study-material answer tool.
type StudyGuide struct {
	retriever *rag.Retriever
	answerer  *rag.Answerer
	logger    log.Logger
}

// NewStudyGuide creates a StudyGuide tool handler.
func NewStudyGuide(retriever *rag.Retriever, answerer *rag.Answerer, logger log.Logger) (*StudyGuide, error) {
	if retriever == nil {
		return nil, fmt.Errorf("retriever is required")
	}
	if answerer == nil {
		return nil, fmt.Errorf("answerer is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &StudyGuide{retriever: retriever, answerer: answerer, logger: logger}, nil
}

// RegisterStudyGuide registers the getStudyGuideAnswer tool with Genkit.
func RegisterStudyGuide(g *genkit.Genkit, sg *StudyGuide) (ai.Tool, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if sg == nil {
		return nil, fmt.Errorf("StudyGuide is required")
	}

	return genkit.DefineTool(g, GetStudyGuideAnswerName,
		"Answers questions by searching through the user's uploaded study materials "+
			"for a specific course. Use this ONLY when the user explicitly asks about "+
			"their \"notes\", \"documents\", or \"study material\". "+
			"For general academic questions, use your own knowledge.",
		WithEvents(GetStudyGuideAnswerName, sg.GetAnswer)), nil
}

// GetAnswer retrieves course-scoped material and produces a grounded answer.
// The user ID always comes from the authenticated context; a course ID the
// model inferred from conversation is kept, the context fills it otherwise.
func (sg *StudyGuide) GetAnswer(ctx *ai.ToolContext, input StudyGuideInput) (Result, error) {
	if owner := OwnerIDFromContext(ctx.Context); owner != "" {
		input.UserID = owner
	}
	if input.CourseID == "" {
		input.CourseID = CourseIDFromContext(ctx.Context)
	}

	sg.logger.Info("GetStudyGuideAnswer called", "course_id", input.CourseID, "query_len", len(input.Query))

	if input.Query == "" {
		return errorResult(ErrCodeValidation, "The question to look up is missing."), nil
	}
	if input.UserID == "" {
		return errorResult(ErrCodeValidation, "No authenticated user is associated with this request."), nil
	}
	if input.CourseID == "" {
		return errorResult(ErrCodeValidation,
			"No course was specified. Ask the student which course their question is about."), nil
	}

	scope := vecstore.Scope{UserID: input.UserID, CourseID: input.CourseID}
	matches, err := sg.retriever.Retrieve(ctx.Context, input.Query, scope)
	if err != nil {
		sg.logger.Warn("study material retrieval failed", "course_id", input.CourseID, "error", err)
		return errorResult(ErrCodeExecution,
			fmt.Sprintf("Could not search the study materials: %v", err)), nil
	}

	contextChunks := make([]string, 0, len(matches))
	for _, m := range matches {
		contextChunks = append(contextChunks, m.Text)
	}

	answer, err := sg.answerer.Answer(ctx.Context, input.Query, contextChunks)
	if err != nil {
		sg.logger.Warn("grounded answer generation failed", "course_id", input.CourseID, "error", err)
		return errorResult(ErrCodeExecution,
			"The study guide could not generate an answer from the course materials."), nil
	}

	sg.logger.Info("GetStudyGuideAnswer succeeded", "course_id", input.CourseID, "context_chunks", len(contextChunks))
	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"answer":  answer.Answer,
			"sources": rag.SourcePreviews(answer.UsedContext),
		},
	}, nil
}
