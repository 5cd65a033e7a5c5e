// Package extractor converts uploaded bank statement PDFs into plain text,
// one result per input file, preserving input order.
package extractor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileText is the extracted text of one uploaded statement, keyed by the
// original filename so downstream rows can be traced back to their source.
type FileText struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// Upload is a single inbound document before extraction.
type Upload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// FileUpload wraps an on-disk path as an Upload. The reported filename is the
// base name, matching how browser uploads arrive.
func FileUpload(path string) Upload {
	return Upload{
		Filename: filepath.Base(path),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// ExtractionError reports that a document could not be read into text. One
// failing file aborts the whole batch.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %q: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// DocumentTextExtractor turns an ordered batch of uploads into an ordered
// batch of extracted texts, one-to-one with the input.
type DocumentTextExtractor interface {
	ExtractAll(ctx context.Context, uploads []Upload) ([]FileText, error)
}

// PDFExtractor extracts text from PDF files using the structured PDF library
// with a poppler fallback. It implements DocumentTextExtractor.
type PDFExtractor struct{}

// NewPDFExtractor returns the default PDF-backed extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractAll extracts every upload in order. Non-PDF filenames are rejected
// up front. The first failure aborts the batch and is returned as an
// *ExtractionError naming the offending file.
func (p *PDFExtractor) ExtractAll(ctx context.Context, uploads []Upload) ([]FileText, error) {
	results := make([]FileText, 0, len(uploads))
	for _, up := range uploads {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !IsPDFFilename(up.Filename) {
			return nil, &ExtractionError{Filename: up.Filename, Err: fmt.Errorf("only PDF files are supported")}
		}
		text, err := p.extractOne(up)
		if err != nil {
			return nil, &ExtractionError{Filename: up.Filename, Err: err}
		}
		results = append(results, FileText{Filename: up.Filename, Text: text})
	}
	return results, nil
}

// extractOne spools the upload to a temp file because both the PDF library
// and pdftotext want a seekable path.
func (p *PDFExtractor) extractOne(up Upload) (string, error) {
	src, err := up.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to spool upload: %w", err)
	}
	tmp.Close()

	return ExtractTextCombined(tmp.Name())
}

// IsPDFFilename reports whether a filename carries the .pdf extension. The
// caller filters non-matching uploads before they reach extraction.
func IsPDFFilename(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
