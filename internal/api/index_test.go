package api

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"testing"

	"github.com/mentorai/mentor/internal/testutil"
)

func indexBody(fileName, content string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	return fmt.Sprintf(`{"fileContent":%q,"fileName":%q,"courseId":"BIO-101","userId":"student-7"}`,
		encoded, fileName)
}

func TestIndexPlainText(t *testing.T) {
	fx := newTestServer(t, testutil.NewMockLLM("ok"), nil)

	rec := fx.do(http.MethodPost, "/api/index",
		indexBody("notes.txt", "Mitosis is cell division. It has four phases."))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	var body map[string]int
	decodeBody(t, rec, &body)
	if body["chunksIndexed"] < 1 {
		t.Errorf("chunksIndexed = %d, want >= 1", body["chunksIndexed"])
	}
	if fx.index.Len() != body["chunksIndexed"] {
		t.Errorf("index holds %d records, response said %d", fx.index.Len(), body["chunksIndexed"])
	}
}

func TestIndexMissingFields(t *testing.T) {
	fx := newTestServer(t, testutil.NewMockLLM("ok"), nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "empty object", body: `{}`},
		{name: "no user", body: `{"fileContent":"aGk=","fileName":"a.txt","courseId":"BIO-101"}`},
		{name: "no course", body: `{"fileContent":"aGk=","fileName":"a.txt","userId":"student-7"}`},
		{name: "no file name", body: `{"fileContent":"aGk=","courseId":"BIO-101","userId":"student-7"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fx.do(http.MethodPost, "/api/index", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if code := decodeErrorCode(t, rec); code != "missing_fields" {
				t.Errorf("error code = %q", code)
			}
		})
	}
}

func TestIndexInvalidBase64(t *testing.T) {
	fx := newTestServer(t, testutil.NewMockLLM("ok"), nil)

	rec := fx.do(http.MethodPost, "/api/index",
		`{"fileContent":"not-base64!!","fileName":"a.txt","courseId":"BIO-101","userId":"student-7"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "invalid_encoding" {
		t.Errorf("error code = %q", code)
	}
}

func TestIndexNoText(t *testing.T) {
	fx := newTestServer(t, testutil.NewMockLLM("ok"), nil)

	rec := fx.do(http.MethodPost, "/api/index", indexBody("blank.txt", "   \n\t  "))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "no_text" {
		t.Errorf("error code = %q", code)
	}
}

func TestIndexMisnamedPDF(t *testing.T) {
	fx := newTestServer(t, testutil.NewMockLLM("ok"), nil)

	// A .pdf without the PDF magic bytes is rejected, not silently
	// treated as plain text.
	rec := fx.do(http.MethodPost, "/api/index", indexBody("notes.pdf", "just plain text"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "unsupported_file" {
		t.Errorf("error code = %q", code)
	}
}
