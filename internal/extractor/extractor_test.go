package extractor

import (
	"context"
	"errors"
	"testing"
)

func TestIsPDFFilename(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"statement.pdf", true},
		{"Statement.PDF", true},
		{"jan-2024.Pdf", true},
		{"statement.docx", false},
		{"statement", false},
		{"statement.pdf.exe", false},
	}

	for _, tt := range tests {
		if got := IsPDFFilename(tt.name); got != tt.expected {
			t.Errorf("IsPDFFilename(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestTextQuality(t *testing.T) {
	tests := []struct {
		name    string
		pages   []string
		minimum float64
		maximum float64
	}{
		{"clean text", []string{"Total Deposits: $1,234.56"}, 0.9, 1.0},
		{"empty", nil, 0, 0},
		{"binary garbage", []string{"\x00\x01\x02\x03\x04\x05\x06\x07"}, 0, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := textQuality(tt.pages)
			if q < tt.minimum || q > tt.maximum {
				t.Errorf("textQuality = %f, want between %f and %f", q, tt.minimum, tt.maximum)
			}
		})
	}
}

func TestIsReadableText(t *testing.T) {
	goodPage := "CHASE BANK\nChecking Account Statement\nBeginning Balance 1,000.00\nTotal Deposits 5,432.10\nEnding Balance 3,210.98"

	if !isReadableText([]string{goodPage}) {
		t.Error("expected statement-like text to be readable")
	}
	if isReadableText([]string{"too short"}) {
		t.Error("expected short text to be rejected")
	}
	// Long readable text with no statement vocabulary is still suspect.
	if isReadableText([]string{"the quick brown fox jumps over the lazy dog over and over again and again"}) {
		t.Error("expected text without statement words to be rejected")
	}
}

func TestStaticExtractorPreservesOrder(t *testing.T) {
	fake := &StaticExtractor{Texts: map[string]string{
		"feb.pdf": "february text",
		"jan.pdf": "january text",
	}}

	uploads := []Upload{{Filename: "jan.pdf"}, {Filename: "feb.pdf"}}
	results, err := fake.ExtractAll(context.Background(), uploads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Filename != "jan.pdf" || results[1].Filename != "feb.pdf" {
		t.Errorf("order not preserved: %v", results)
	}
	if results[0].Text != "january text" {
		t.Errorf("wrong text for first file: %q", results[0].Text)
	}
}

func TestExtractAllRejectsNonPDF(t *testing.T) {
	p := NewPDFExtractor()
	_, err := p.ExtractAll(context.Background(), []Upload{{Filename: "notes.txt"}})

	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected *ExtractionError, got %T", err)
	}
	if extErr.Filename != "notes.txt" {
		t.Errorf("expected error to name the file, got %q", extErr.Filename)
	}
}

func TestExtractAllAbortsBatchOnFailure(t *testing.T) {
	fake := &StaticExtractor{Texts: map[string]string{"jan.pdf": "text"}}

	_, err := fake.ExtractAll(context.Background(), []Upload{
		{Filename: "jan.pdf"},
		{Filename: "missing.pdf"},
	})
	if err == nil {
		t.Fatal("expected batch to abort on failing file")
	}

	var extErr *ExtractionError
	if !errors.As(err, &extErr) || extErr.Filename != "missing.pdf" {
		t.Errorf("expected extraction error for missing.pdf, got %v", err)
	}
}
