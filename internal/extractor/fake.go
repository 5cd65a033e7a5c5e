package extractor

import "context"

// StaticExtractor is an in-memory DocumentTextExtractor for tests. It returns
// canned text per filename, preserving input order, and fails like the real
// extractor when a filename has no entry.
type StaticExtractor struct {
	Texts map[string]string
}

func (s *StaticExtractor) ExtractAll(_ context.Context, uploads []Upload) ([]FileText, error) {
	results := make([]FileText, 0, len(uploads))
	for _, up := range uploads {
		if !IsPDFFilename(up.Filename) {
			return nil, &ExtractionError{Filename: up.Filename, Err: errNotPDF}
		}
		text, ok := s.Texts[up.Filename]
		if !ok {
			return nil, &ExtractionError{Filename: up.Filename, Err: errNoText}
		}
		results = append(results, FileText{Filename: up.Filename, Text: text})
	}
	return results, nil
}

var (
	errNotPDF = errString("only PDF files are supported")
	errNoText = errString("no canned text for file")
)

type errString string

func (e errString) Error() string { return string(e) }
