package tools

import (
	"context"
	"fmt"
	"testing"

	"github.com/firebase/genkit/go/ai"

	"github.com/mentorai/mentor/internal/log"
	"github.com/mentorai/mentor/internal/mail"
)

type mockInbox struct {
	summaries []mail.Summary
	email     *mail.Email
	err       error
	lastUser  string
	lastQuery string
	lastMax   int64
	lastID    string
}

func (m *mockInbox) ListEmails(_ context.Context, userID, query string, maxResults int64) ([]mail.Summary, error) {
	m.lastUser = userID
	m.lastQuery = query
	m.lastMax = maxResults
	if m.err != nil {
		return nil, m.err
	}
	return m.summaries, nil
}

func (m *mockInbox) ReadEmail(_ context.Context, userID, emailID string) (*mail.Email, error) {
	m.lastUser = userID
	m.lastID = emailID
	if m.err != nil {
		return nil, m.err
	}
	return m.email, nil
}

func toolCtx(ctx context.Context) *ai.ToolContext {
	return &ai.ToolContext{Context: ctx}
}

func TestNewEmailValidation(t *testing.T) {
	if _, err := NewEmail(nil, log.NewNop()); err == nil {
		t.Error("nil inbox expected error")
	}
	if _, err := NewEmail(&mockInbox{}, nil); err == nil {
		t.Error("nil logger expected error")
	}
}

func TestListEmailsOverridesModelSuppliedUser(t *testing.T) {
	inbox := &mockInbox{summaries: []mail.Summary{{ID: "m1", Subject: "hi"}}}
	em, err := NewEmail(inbox, log.NewNop())
	if err != nil {
		t.Fatalf("NewEmail() error = %v", err)
	}

	ctx := toolCtx(ContextWithOwnerID(context.Background(), "real-user"))
	result, err := em.ListEmails(ctx, ListEmailsInput{UserID: "attacker-user"})
	if err != nil {
		t.Fatalf("ListEmails() error = %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("status = %v, error = %+v", result.Status, result.Error)
	}
	if inbox.lastUser != "real-user" {
		t.Errorf("inbox queried as %q, want authenticated real-user", inbox.lastUser)
	}
}

func TestListEmailsNoAuthenticatedUser(t *testing.T) {
	em, err := NewEmail(&mockInbox{}, log.NewNop())
	if err != nil {
		t.Fatalf("NewEmail() error = %v", err)
	}

	result, err := em.ListEmails(toolCtx(context.Background()), ListEmailsInput{})
	if err != nil {
		t.Fatalf("ListEmails() error = %v", err)
	}
	if result.Status != StatusError || result.Error.Code != ErrCodeValidation {
		t.Errorf("result = %+v, want validation error", result)
	}
}

func TestListEmailsNotLinkedGuidance(t *testing.T) {
	inbox := &mockInbox{err: fmt.Errorf("%w: no stored token", mail.ErrNotLinked)}
	em, err := NewEmail(inbox, log.NewNop())
	if err != nil {
		t.Fatalf("NewEmail() error = %v", err)
	}

	ctx := toolCtx(ContextWithOwnerID(context.Background(), "user-1"))
	result, err := em.ListEmails(ctx, ListEmailsInput{})
	if err != nil {
		t.Fatalf("turn should not abort on mail failure, got error %v", err)
	}
	if result.Status != StatusError {
		t.Fatalf("status = %v, want error", result.Status)
	}
	want := "Error: Gmail account not linked. The user needs to link their account first."
	if result.Error.Message != want {
		t.Errorf("message = %q, want %q", result.Error.Message, want)
	}
}

func TestListEmailsEmptyInbox(t *testing.T) {
	em, err := NewEmail(&mockInbox{}, log.NewNop())
	if err != nil {
		t.Fatalf("NewEmail() error = %v", err)
	}

	ctx := toolCtx(ContextWithOwnerID(context.Background(), "user-1"))
	result, err := em.ListEmails(ctx, ListEmailsInput{})
	if err != nil {
		t.Fatalf("ListEmails() error = %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("empty inbox is not an error, got %+v", result)
	}
	if result.Data["message"] != "No matching emails found." {
		t.Errorf("Data = %v", result.Data)
	}
}

func TestReadEmailRequiresID(t *testing.T) {
	em, err := NewEmail(&mockInbox{}, log.NewNop())
	if err != nil {
		t.Fatalf("NewEmail() error = %v", err)
	}

	ctx := toolCtx(ContextWithOwnerID(context.Background(), "user-1"))
	result, err := em.ReadEmail(ctx, ReadEmailInput{})
	if err != nil {
		t.Fatalf("ReadEmail() error = %v", err)
	}
	if result.Status != StatusError || result.Error.Code != ErrCodeValidation {
		t.Errorf("result = %+v, want validation error", result)
	}
}

func TestReadEmailSuccess(t *testing.T) {
	inbox := &mockInbox{email: &mail.Email{ID: "m1", Subject: "Deadline", Body: "Due Friday."}}
	em, err := NewEmail(inbox, log.NewNop())
	if err != nil {
		t.Fatalf("NewEmail() error = %v", err)
	}

	ctx := toolCtx(ContextWithOwnerID(context.Background(), "user-1"))
	result, err := em.ReadEmail(ctx, ReadEmailInput{EmailID: "m1"})
	if err != nil {
		t.Fatalf("ReadEmail() error = %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("result = %+v", result)
	}
	got, ok := result.Data["email"].(*mail.Email)
	if !ok || got.Body != "Due Friday." {
		t.Errorf("Data[email] = %v", result.Data["email"])
	}
	if inbox.lastID != "m1" {
		t.Errorf("inbox fetched %q", inbox.lastID)
	}
}
