// Package extract pulls plain text out of uploaded study materials.
//
// PDF files go through github.com/ledongthuc/pdf; everything else is
// treated as UTF-8 text. Extraction that yields no usable text is an
// error so callers never index empty documents.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned when a file yields no extractable text.
var ErrNoText = errors.New("no text extracted")

// ErrUnsupported is returned for content that is neither a PDF nor valid UTF-8.
var ErrUnsupported = errors.New("unsupported file content")

// pdfMagic is the header every PDF file starts with.
const pdfMagic = "%PDF-"

// Text extracts plain text from data. filename decides the extraction
// strategy: names ending in .pdf are parsed as PDF documents, anything
// else is decoded as UTF-8 text.
func Text(data []byte, filename string) (string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return fromPDF(data)
	}
	return fromPlainText(data)
}

func fromPDF(data []byte) (string, error) {
	if !bytes.HasPrefix(data, []byte(pdfMagic)) {
		return "", fmt.Errorf("%w: file is not a PDF", ErrUnsupported)
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parsing PDF: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading PDF text: %w", err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("reading PDF text: %w", err)
	}
	text := string(out)
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

func fromPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: file is not valid UTF-8 text", ErrUnsupported)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}
