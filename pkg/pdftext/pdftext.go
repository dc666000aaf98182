// Package pdftext extracts plain text from PDF byte buffers without
// rendering. Decoding produces a page/run tree; Assemble flattens it into a
// single string with a blank line between pages.
package pdftext

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Run is a single text run from a page content stream. Position and font are
// carried through from the parser but only Text is used downstream.
type Run struct {
	Text     string
	Font     string
	FontSize float64
	X        float64
	Y        float64
}

// Page holds the runs of one page in content-stream order.
type Page struct {
	Runs []Run
}

// Document is the decoded page tree of one PDF buffer.
type Document struct {
	Pages []Page
}

// DecodeError reports a fatal parse failure. Decoding is deterministic for a
// given buffer, so callers must not retry.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode pdf: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode parses a raw PDF buffer into its page/run tree. Runs are
// percent-decoded individually; a run whose decoding fails is dropped rather
// than failing the document. A page whose content stream cannot be read
// contributes no runs.
func Decode(data []byte) (*Document, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	doc := &Document{}
	for i := 1; i <= reader.NumPage(); i++ {
		doc.Pages = append(doc.Pages, decodePage(reader.Page(i)))
	}
	return doc, nil
}

func decodePage(page pdf.Page) (out Page) {
	// The parser panics on some corrupt content streams; a bad page is
	// skipped instead of invalidating the rest of the document.
	defer func() {
		if r := recover(); r != nil {
			out = Page{}
		}
	}()

	if page.V.IsNull() {
		return Page{}
	}

	for _, t := range page.Content().Text {
		text, ok := decodeRun(t.S)
		if !ok || text == "" {
			continue
		}
		out.Runs = append(out.Runs, Run{
			Text:     text,
			Font:     t.Font,
			FontSize: t.FontSize,
			X:        t.X,
			Y:        t.Y,
		})
	}
	return out
}

// decodeRun resolves percent/URI-style escapes in a raw run. Runs without an
// escape marker pass through unchanged.
func decodeRun(raw string) (string, bool) {
	if !strings.Contains(raw, "%") {
		return raw, true
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", false
	}
	return decoded, true
}

// Assemble flattens the page tree into a single string: runs within a page
// joined by single spaces, two newlines after each page, trailing whitespace
// trimmed from the whole result. A PDF with no extractable text yields "".
func (d *Document) Assemble() string {
	var sb strings.Builder
	for _, page := range d.Pages {
		for i, run := range page.Runs {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(run.Text)
		}
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String())
}

// ExtractText decodes and assembles in one step.
func ExtractText(data []byte) (string, error) {
	doc, err := Decode(data)
	if err != nil {
		return "", err
	}
	return doc.Assemble(), nil
}
