// Package prompt assembles the single analysis prompt sent to the reasoning
// service: borrower context, the fixed underwriting instructions, and the
// extracted statement text delimited per source file.
package prompt

import (
	"fmt"
	"strings"

	"github.com/traceaos/income-analysis-agent/internal/extractor"
	"github.com/traceaos/income-analysis-agent/internal/models"
)

const notProvided = "Not Provided"

// Build produces the full prompt string. No size capping or truncation is
// performed; arbitrarily large statement text is passed through as-is.
func Build(borrower models.BorrowerContext, files []extractor.FileText) string {
	var sb strings.Builder

	sb.WriteString(borrowerContextBlock(borrower))
	sb.WriteString("\n\n")
	sb.WriteString(SystemInstructions)
	sb.WriteString("\n\nHere is the text extracted from the bank statements:\n\n")
	sb.WriteString(statementBlock(files))

	return sb.String()
}

// borrowerContextBlock renders each intake field as "Label: value",
// substituting a literal "Not Provided" for empty optional fields.
func borrowerContextBlock(b models.BorrowerContext) string {
	return fmt.Sprintf(`--- BORROWER AND BUSINESS CONTEXT ---
Client Name: %s
Business Name: %s
Ownership %%: %s
Type of Business: %s
Number of Full Time Employees: %s
Business Description/Notes: %s
--- END OF CONTEXT ---`,
		b.ClientName,
		b.BusinessName,
		orNotProvided(b.OwnershipPercentage),
		b.BusinessType,
		orNotProvided(b.NumEmployees),
		orNotProvided(b.BusinessDescription),
	)
}

// statementBlock wraps each file's text in explicit START/END delimiters so
// the model can attribute every transaction to its source statement.
func statementBlock(files []extractor.FileText) string {
	parts := make([]string, 0, len(files))
	for _, f := range files {
		parts = append(parts, fmt.Sprintf("--- START OF FILE: %s ---\n\n%s\n\n--- END OF FILE: %s ---", f.Filename, f.Text, f.Filename))
	}
	return strings.Join(parts, "\n\n")
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}
