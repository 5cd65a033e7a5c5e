/*
Package notify composes the shareable summary email for a completed analysis
and optionally delivers it over SMTP.
*/
package notify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/traceaos/income-analysis-agent/internal/models"
)

// Message is a composed mail ready for the platform's mail client.
type Message struct {
	To      string
	Subject string
	Body    string
}

// riskDefaults are used when the analysis carries no matching risk row for
// one of the four headline checks. The keyword is matched case-insensitively
// as a substring of the row topic; the first matching row wins.
var riskDefaults = []struct {
	keyword string
	result  string
	notes   string
}{
	{"nsf", "No", "No NSF or overdraft fees were identified."},
	{"commingling", "No", "No significant commingling of funds was detected."},
	{"consistent deposits", "Yes", "Deposits appear consistent."},
	{"negative ending balances", "No", "The account maintained a positive daily balance."},
}

// ComposeReportEmail projects the analysis into a plain-text email. It is a
// pure function: no mail-protocol action happens here, the caller hands the
// message to a composer or to the SMTP sender.
func ComposeReportEmail(result *models.AnalysisResult, borrower models.BorrowerContext) Message {
	subject := fmt.Sprintf("IAA Report for: %s - %s", borrower.ClientName, borrower.BusinessName)

	agg := result.TimePeriodAggregates
	numMonths := len(result.QualifiedIncomeCalculation.MonthlyBreakdown)

	nsf := lookupRisk(result.Risk, 0)
	commingling := lookupRisk(result.Risk, 1)
	consistent := lookupRisk(result.Risk, 2)
	negative := lookupRisk(result.Risk, 3)

	noOverdrafts := ""
	if strings.EqualFold(nsf.Result, "No") {
		noOverdrafts = "no"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, `Analysis Summary

This report details the %d-month bank statement analysis for %s, a %s business with %s%% ownership by the borrower, %s. The primary source of income is from %s. The account maintained positive daily balances throughout the period with %s overdrafts or NSF occurrences. A notable risk factor is the commingling of funds: %s.

`,
		numMonths,
		borrower.BusinessName,
		borrower.BusinessType,
		borrower.OwnershipOrDefault(),
		borrower.ClientName,
		strings.Join(result.AnalysisSummary.IncomeCategories, ", "),
		noOverdrafts,
		commingling.Result,
	)

	fmt.Fprintf(&sb, `Income Analysis

Total Deposits (%d Months): %s
Less Non-Qualifying Deposits: %s
Total Qualifying Deposits: %s
Monthly Average Qualifying Deposits: %s

`,
		numMonths,
		FormatCurrency(agg.TotalDeposits.Months12),
		FormatCurrency(agg.TotalDeposits.Months12-agg.TotalIncome.Months12),
		FormatCurrency(agg.TotalIncome.Months12),
		FormatCurrency(agg.AverageIncome.Months12),
	)

	fmt.Fprintf(&sb, `Risk Analysis

NSF / Overdrafts: %s. %s
Commingling of Funds: %s. %s
Consistent Deposits: %s. %s
Negative Ending Balances: %s. %s

`,
		nsf.Result, nsf.Notes,
		commingling.Result, commingling.Notes,
		consistent.Result, consistent.Notes,
		negative.Result, negative.Notes,
	)

	fmt.Fprintf(&sb, `Final Qualified Income Calculation

Total Qualifying Income (%d Months): %s
Expense Factor (%s @ %s%%): %s
Net Income (Pre-Ownership): %s
Ownership Percentage: %s%%
Final Monthly Qualified Income: %s

`,
		numMonths,
		FormatCurrency(agg.TotalIncome.Months12),
		borrower.BusinessType,
		formatNumber(agg.ExpenseFactorPercentage.Months12),
		FormatCurrency(agg.CalculatedExpense.Months12),
		FormatCurrency(agg.IncomeMinusExpense.Months12),
		formatNumber(agg.OwnershipFactorPercentage.Months12),
		FormatCurrency(agg.QualifiedIncome.Months12),
	)

	sb.WriteString("Risk Assessment Details\n")
	for i, r := range result.Risk {
		notes := r.Notes
		if notes == "" {
			notes = "N/A"
		}
		fmt.Fprintf(&sb, "Topic: %s\nResult: %s\nNotes: %s", r.Topic, r.Result, notes)
		if i < len(result.Risk)-1 {
			sb.WriteString("\n\n")
		}
	}
	sb.WriteString("\n")

	return Message{
		To:      borrower.SubmittingEmail,
		Subject: subject,
		Body:    sb.String(),
	}
}

// lookupRisk finds the first risk row whose topic contains the keyword for
// the given headline check, falling back to the fixed default.
func lookupRisk(risk []models.RiskFactor, idx int) models.RiskFactor {
	def := riskDefaults[idx]
	for _, r := range risk {
		if strings.Contains(strings.ToLower(r.Topic), def.keyword) {
			return r
		}
	}
	return models.RiskFactor{Topic: def.keyword, Result: def.result, Notes: def.notes}
}

// FormatCurrency renders a value as $-prefixed, two-decimal, thousands
// separated, e.g. -1234.5 -> "-$1,234.50".
func FormatCurrency(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := strconv.FormatFloat(v, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteByte('$')
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	sb.WriteString(fracPart)
	return sb.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
