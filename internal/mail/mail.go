// Package mail reads a student's Gmail inbox through the Gmail API.
//
// A Client resolves a per-user access token through a TokenProvider and
// exposes two read-only operations: ListEmails for inbox summaries and
// ReadEmail for a single message body. Token failures map to sentinel
// errors that UserGuidance converts into messages a conversational
// model can relay to the student.
package mail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/mentorai/mentor/internal/log"
)

// ErrNotLinked indicates the user has never connected a Gmail account.
var ErrNotLinked = errors.New("gmail account not linked")

// ErrTokenRevoked indicates the stored credentials are no longer valid.
var ErrTokenRevoked = errors.New("gmail token revoked")

const (
	// DefaultQuery is used when the caller supplies no Gmail search query.
	DefaultQuery = "is:unread"

	// DefaultMaxResults bounds a list call when the caller gives no limit.
	DefaultMaxResults = 10

	// maxResultsCeiling caps how many messages one list call may fetch.
	maxResultsCeiling = 25

	// metadataConcurrency bounds parallel metadata fetches per list call.
	metadataConcurrency = 5
)

// Summary is a lightweight view of a message, enough for the model to
// decide whether a full read is worthwhile.
type Summary struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
	Subject  string `json:"subject"`
	From     string `json:"from"`
	Snippet  string `json:"snippet"`
}

// Email is a fully fetched message including its plain-text body.
type Email struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
	Subject  string `json:"subject"`
	From     string `json:"from"`
	To       string `json:"to"`
	Date     string `json:"date"`
	Snippet  string `json:"snippet"`
	Body     string `json:"body"`
}

// messageAPI is the slice of the Gmail API the client needs.
type messageAPI interface {
	List(ctx context.Context, query string, maxResults int64) ([]*gmailapi.Message, error)
	Metadata(ctx context.Context, id string) (*gmailapi.Message, error)
	Full(ctx context.Context, id string) (*gmailapi.Message, error)
}

// apiFactory builds a messageAPI bound to one user's access token.
type apiFactory func(ctx context.Context, accessToken string) (messageAPI, error)

// Client reads Gmail on behalf of authenticated users.
type Client struct {
	tokens TokenProvider
	newAPI apiFactory
	logger log.Logger
}

// NewClient creates a Gmail client backed by the given token provider.
func NewClient(tokens TokenProvider, logger log.Logger) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("token provider cannot be nil")
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Client{
		tokens: tokens,
		newAPI: newGmailAPI,
		logger: logger,
	}, nil
}

// newClientWithAPI wires a fake Gmail API for tests.
func newClientWithAPI(tokens TokenProvider, factory apiFactory, logger log.Logger) *Client {
	return &Client{tokens: tokens, newAPI: factory, logger: logger}
}

// ListEmails returns summaries of messages matching query, newest first
// in Gmail's own ordering. An empty query defaults to unread mail, a
// non-positive maxResults defaults to DefaultMaxResults.
func (c *Client) ListEmails(ctx context.Context, userID, query string, maxResults int64) ([]Summary, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	if query == "" {
		query = DefaultQuery
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > maxResultsCeiling {
		maxResults = maxResultsCeiling
	}

	api, err := c.apiFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	msgs, err := api.List(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	// Metadata fetches are independent, so run them concurrently but keep
	// Gmail's result order.
	summaries := make([]Summary, len(msgs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(metadataConcurrency)
	for i, m := range msgs {
		eg.Go(func() error {
			meta, err := api.Metadata(egCtx, m.Id)
			if err != nil {
				return fmt.Errorf("fetching message %s: %w", m.Id, err)
			}
			summaries[i] = Summary{
				ID:       meta.Id,
				ThreadID: meta.ThreadId,
				Subject:  header(meta, "Subject", "No Subject"),
				From:     header(meta, "From", "Unknown Sender"),
				Snippet:  meta.Snippet,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("listed emails", "user_id", userID, "query", query, "count", len(summaries))
	return summaries, nil
}

// ReadEmail fetches one message in full and extracts its plain-text
// body. When no text/plain part exists the snippet stands in.
func (c *Client) ReadEmail(ctx context.Context, userID, emailID string) (*Email, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	if emailID == "" {
		return nil, errors.New("email ID cannot be empty")
	}

	api, err := c.apiFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	msg, err := api.Full(ctx, emailID)
	if err != nil {
		return nil, fmt.Errorf("fetching message %s: %w", emailID, err)
	}

	body := plainTextBody(msg.Payload)
	if body == "" {
		body = msg.Snippet
	}

	c.logger.Debug("read email", "user_id", userID, "email_id", emailID, "body_len", len(body))
	return &Email{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Subject:  header(msg, "Subject", "No Subject"),
		From:     header(msg, "From", "Unknown Sender"),
		To:       header(msg, "To", ""),
		Date:     header(msg, "Date", ""),
		Snippet:  msg.Snippet,
		Body:     body,
	}, nil
}

func (c *Client) apiFor(ctx context.Context, userID string) (messageAPI, error) {
	token, err := c.tokens.AccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	api, err := c.newAPI(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("creating gmail client: %w", err)
	}
	return api, nil
}

// UserGuidance turns a mail error into a message the model can relay
// verbatim to the student instead of surfacing a raw failure.
func UserGuidance(err error) string {
	switch {
	case errors.Is(err, ErrNotLinked):
		return "Error: Gmail account not linked. The user needs to link their account first."
	case errors.Is(err, ErrTokenRevoked):
		return "Error: Gmail token is invalid or has been revoked. Please re-link your account."
	default:
		return "Error: Could not retrieve emails. There might be an issue with the connection."
	}
}

// header returns the named header value, or fallback when absent.
func header(msg *gmailapi.Message, name, fallback string) string {
	if msg == nil || msg.Payload == nil {
		return fallback
	}
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) && h.Value != "" {
			return h.Value
		}
	}
	return fallback
}

// plainTextBody walks the MIME tree depth-first and returns the first
// decodable text/plain part.
func plainTextBody(part *gmailapi.MessagePart) string {
	if part == nil {
		return ""
	}
	if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
		if text, err := decodeBody(part.Body.Data); err == nil {
			return text
		}
	}
	for _, child := range part.Parts {
		if text := plainTextBody(child); text != "" {
			return text
		}
	}
	return ""
}

// decodeBody decodes Gmail's base64url message body encoding, which may
// arrive with or without padding.
func decodeBody(data string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return "", fmt.Errorf("decoding message body: %w", err)
	}
	return string(b), nil
}
