package tools

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/mentorai/mentor/internal/log"
	"github.com/mentorai/mentor/internal/mail"
)

// Tool name constants for the email tools registered with Genkit.
const (
	// ListEmailsName is the Genkit tool name for listing inbox messages.
	ListEmailsName = "listEmails"
	// ReadEmailName is the Genkit tool name for reading one message.
	ReadEmailName = "readEmail"
)

// ListEmailsInput defines input for the listEmails tool.
// UserID is overwritten from the authenticated context before execution.
type ListEmailsInput struct {
	UserID     string `json:"userId" jsonschema_description:"The student's user ID (filled automatically)"`
	Query      string `json:"query,omitempty" jsonschema_description:"Gmail search query, e.g. 'is:unread' or 'from:professor'. Defaults to unread mail"`
	MaxResults int64  `json:"maxResults,omitempty" jsonschema_description:"Maximum messages to return (default 10)"`
}

// ReadEmailInput defines input for the readEmail tool.
type ReadEmailInput struct {
	UserID  string `json:"userId" jsonschema_description:"The student's user ID (filled automatically)"`
	EmailID string `json:"emailId" jsonschema_description:"The message ID from a previous listEmails result"`
}

// inboxReader is the slice of the mail client the email tools need.
type inboxReader interface {
	ListEmails(ctx context.Context, userID, query string, maxResults int64) ([]mail.Summary, error)
	ReadEmail(ctx context.Context, userID, emailID string) (*mail.Email, error)
}

// Email holds dependencies for the inbox tools.
type Email struct {
	inbox  inboxReader
	logger log.Logger
}

// NewEmail creates an Email tool handler over the given mail client.
func NewEmail(inbox inboxReader, logger log.Logger) (*Email, error) {
	if inbox == nil {
		return nil, fmt.Errorf("mail client is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Email{inbox: inbox, logger: logger}, nil
}

// RegisterEmail registers both email tools with Genkit.
func RegisterEmail(g *genkit.Genkit, em *Email) ([]ai.Tool, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if em == nil {
		return nil, fmt.Errorf("Email is required")
	}

	return []ai.Tool{
		genkit.DefineTool(g, ListEmailsName,
			"Lists the student's recent emails with subject, sender, and a snippet. "+
				"Defaults to unread mail. Use this when the request involves checking "+
				"or summarizing the inbox.",
			WithEvents(ListEmailsName, em.ListEmails)),
		genkit.DefineTool(g, ReadEmailName,
			"Reads the full body of one email by its ID from a previous listEmails result. "+
				"Use this when the student asks about the details of a specific message.",
			WithEvents(ReadEmailName, em.ReadEmail)),
	}, nil
}

// ListEmails returns inbox summaries for the authenticated student.
func (e *Email) ListEmails(ctx *ai.ToolContext, input ListEmailsInput) (Result, error) {
	if owner := OwnerIDFromContext(ctx.Context); owner != "" {
		input.UserID = owner
	}

	e.logger.Info("ListEmails called", "query", input.Query, "max_results", input.MaxResults)

	if input.UserID == "" {
		return errorResult(ErrCodeValidation, "No authenticated user is associated with this request."), nil
	}

	summaries, err := e.inbox.ListEmails(ctx.Context, input.UserID, input.Query, input.MaxResults)
	if err != nil {
		e.logger.Warn("ListEmails failed", "error", err)
		return errorResult(ErrCodeExecution, mail.UserGuidance(err)), nil
	}

	if len(summaries) == 0 {
		return Result{
			Status: StatusSuccess,
			Data:   map[string]any{"emails": []mail.Summary{}, "message": "No matching emails found."},
		}, nil
	}

	e.logger.Info("ListEmails succeeded", "count", len(summaries))
	return Result{
		Status: StatusSuccess,
		Data:   map[string]any{"emails": summaries, "count": len(summaries)},
	}, nil
}

// ReadEmail returns the full content of one message.
func (e *Email) ReadEmail(ctx *ai.ToolContext, input ReadEmailInput) (Result, error) {
	if owner := OwnerIDFromContext(ctx.Context); owner != "" {
		input.UserID = owner
	}

	e.logger.Info("ReadEmail called", "email_id", input.EmailID)

	if input.UserID == "" {
		return errorResult(ErrCodeValidation, "No authenticated user is associated with this request."), nil
	}
	if input.EmailID == "" {
		return errorResult(ErrCodeValidation,
			"The email ID is missing. List the emails first to get a message ID."), nil
	}

	email, err := e.inbox.ReadEmail(ctx.Context, input.UserID, input.EmailID)
	if err != nil {
		e.logger.Warn("ReadEmail failed", "email_id", input.EmailID, "error", err)
		return errorResult(ErrCodeExecution, mail.UserGuidance(err)), nil
	}

	e.logger.Info("ReadEmail succeeded", "email_id", input.EmailID)
	return Result{
		Status: StatusSuccess,
		Data:   map[string]any{"email": email},
	}, nil
}
