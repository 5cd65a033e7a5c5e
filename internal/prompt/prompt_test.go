package prompt

import (
	"strings"
	"testing"

	"github.com/traceaos/income-analysis-agent/internal/extractor"
	"github.com/traceaos/income-analysis-agent/internal/models"
)

func testBorrower() models.BorrowerContext {
	return models.BorrowerContext{
		SubmittingEmail: "broker@example.com",
		ClientName:      "Jane Doe",
		BusinessName:    "Doe Consulting LLC",
		BusinessType:    "Services",
		NumEmployees:    "2-5",
	}
}

func TestBuildContainsBorrowerBlock(t *testing.T) {
	p := Build(testBorrower(), nil)

	for _, want := range []string{
		"--- BORROWER AND BUSINESS CONTEXT ---",
		"Client Name: Jane Doe",
		"Business Name: Doe Consulting LLC",
		"Type of Business: Services",
		"Number of Full Time Employees: 2-5",
		"--- END OF CONTEXT ---",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildSubstitutesNotProvided(t *testing.T) {
	b := testBorrower()
	b.OwnershipPercentage = ""
	b.NumEmployees = ""
	b.BusinessDescription = "  "

	p := Build(b, nil)

	if !strings.Contains(p, "Ownership %: Not Provided") {
		t.Error("expected Not Provided for empty ownership")
	}
	if !strings.Contains(p, "Number of Full Time Employees: Not Provided") {
		t.Error("expected Not Provided for empty employee count")
	}
	if !strings.Contains(p, "Business Description/Notes: Not Provided") {
		t.Error("expected Not Provided for blank description")
	}
}

func TestBuildDelimitsFiles(t *testing.T) {
	files := []extractor.FileText{
		{Filename: "jan.pdf", Text: "january statement text"},
		{Filename: "feb.pdf", Text: "february statement text"},
	}

	p := Build(testBorrower(), files)

	for _, want := range []string{
		"--- START OF FILE: jan.pdf ---",
		"--- END OF FILE: jan.pdf ---",
		"--- START OF FILE: feb.pdf ---",
		"--- END OF FILE: feb.pdf ---",
		"january statement text",
		"february statement text",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Borrower context comes first, then instructions, then statements.
	ctxIdx := strings.Index(p, "--- BORROWER AND BUSINESS CONTEXT ---")
	insIdx := strings.Index(p, "--- CRITICAL CALCULATION & FORMATTING RULES ---")
	fileIdx := strings.Index(p, "--- START OF FILE: jan.pdf ---")
	if !(ctxIdx < insIdx && insIdx < fileIdx) {
		t.Errorf("prompt sections out of order: ctx=%d instructions=%d files=%d", ctxIdx, insIdx, fileIdx)
	}
}

func TestBuildNoTruncation(t *testing.T) {
	big := strings.Repeat("DEPOSIT 1,000.00\n", 50000)
	p := Build(testBorrower(), []extractor.FileText{{Filename: "big.pdf", Text: big}})

	if !strings.Contains(p, big) {
		t.Error("expected large statement text to pass through untruncated")
	}
}
