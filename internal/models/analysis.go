package models

// AnalysisSummary holds bank identity, statement metadata and aggregate totals
// for the whole review period.
type AnalysisSummary struct {
	BankName           string   `json:"bankName"`
	StatementType      string   `json:"statementType"`
	AccountHolderName  string   `json:"accountHolderName"`
	AccountNumberLast4 string   `json:"accountNumberLast4"`
	TotalDeposits      float64  `json:"totalDeposits"`
	TotalWithdrawals   float64  `json:"totalWithdrawals"`
	CashFlow           float64  `json:"cashFlow"`
	AverageDeposits    float64  `json:"averageDeposits"`
	IncomeCategories   []string `json:"incomeCategories"`
	NonIncomeCategories []string `json:"nonIncomeCategories"`
}

// MonthlyBreakdown is one row of the qualified income calculation, one per
// reviewed statement period. NetDeposits = Deposits - LessTransfers; the
// upstream producer enforces that, it is not re-derived here.
type MonthlyBreakdown struct {
	StatementEndingDate  string  `json:"statementEndingDate"`
	StatementDates       string  `json:"statementDates"`
	UploadedPDFFilename  string  `json:"uploadedPdfFilename"`
	Deposits             float64 `json:"deposits"`
	LessTransfers        float64 `json:"lessTransfers"`
	NetDeposits          float64 `json:"netDeposits"`
}

// BreakdownTotals sums the three numeric columns of the monthly breakdown.
type BreakdownTotals struct {
	Deposits      float64 `json:"deposits"`
	LessTransfers float64 `json:"lessTransfers"`
	NetDeposits   float64 `json:"netDeposits"`
}

// QualifiedIncomeCalculation is the per-statement breakdown with its totals
// row. A full review is expected to carry 12 rows but that is not enforced.
type QualifiedIncomeCalculation struct {
	MonthlyBreakdown          []MonthlyBreakdown `json:"monthlyBreakdown"`
	Totals                    BreakdownTotals    `json:"totals"`
	MonthlyAverageNetDeposits float64            `json:"monthlyAverageNetDeposits"`
}

// LargeDepositThreshold is the strict lower bound above which a deposit must
// carry its amount in LargeDepositAmount. At or below it the flag is 0.
const LargeDepositThreshold = 25000.0

// DepositTransaction is one qualifying deposit line item traced back to its
// source statement file.
type DepositTransaction struct {
	Date               string  `json:"date"`
	Description        string  `json:"description"`
	ShortDescription   string  `json:"shortDescription"`
	Amount             float64 `json:"amount"`
	Day                string  `json:"day"`
	Month              string  `json:"month"`
	AccountNumberLast4 string  `json:"accountNumberLast4"`
	PDFFilename        string  `json:"pdfFilename"`
	LargeDepositAmount float64 `json:"largeDepositAmount"`
}

// TimePeriodValues is one metric split across the first half, second half and
// full twelve months of the review.
type TimePeriodValues struct {
	Months1To6  float64 `json:"months1_6"`
	Months7To12 float64 `json:"months7_12"`
	Months12    float64 `json:"months12"`
}

// TimePeriodAggregates carries the twelve review metrics. The derived ones
// follow the underwriting worksheet: calculatedExpense = averageIncome *
// expenseFactorPercentage/100, incomeMinusExpense = averageIncome -
// calculatedExpense, qualifiedIncome = incomeMinusExpense *
// ownershipFactorPercentage/100. Renderers display them as returned.
type TimePeriodAggregates struct {
	TotalDeposits             TimePeriodValues `json:"totalDeposits"`
	TotalIncome               TimePeriodValues `json:"totalIncome"`
	AverageIncome             TimePeriodValues `json:"averageIncome"`
	ExpenseFactorPercentage   TimePeriodValues `json:"expenseFactorPercentage"`
	CalculatedExpense         TimePeriodValues `json:"calculatedExpense"`
	IncomeMinusExpense        TimePeriodValues `json:"incomeMinusExpense"`
	OwnershipFactorPercentage TimePeriodValues `json:"ownershipFactorPercentage"`
	QualifiedIncome           TimePeriodValues `json:"qualifiedIncome"`
	TotalWithdrawals          TimePeriodValues `json:"totalWithdrawals"`
	NSFCount                  TimePeriodValues `json:"nsfCount"`
	ODCount                   TimePeriodValues `json:"odCount"`
	CashFlow                  TimePeriodValues `json:"cashFlow"`
}

// RiskFactor is one red-flag check. Result is exactly "Yes" or "No"; Notes may
// be empty. Source order is preserved for display.
type RiskFactor struct {
	Topic  string `json:"topic"`
	Result string `json:"result"`
	Notes  string `json:"notes"`
}

// AnalysisResult is the validated structured analysis returned by the
// reasoning service. It is produced atomically by the analysis client and
// immutable afterwards; both the report renderer and the workbook exporter
// consume it as-is.
type AnalysisResult struct {
	AnalysisSummary            AnalysisSummary            `json:"analysisSummary"`
	QualifiedIncomeCalculation QualifiedIncomeCalculation `json:"qualifiedIncomeCalculation"`
	Deposits                   []DepositTransaction       `json:"deposits"`
	TimePeriodAggregates       TimePeriodAggregates       `json:"timePeriodAggregates"`
	Risk                       []RiskFactor               `json:"risk"`
	MarkdownSummary            string                     `json:"markdownSummary"`
}

// MaskAccountNumber renders an account last-4 in the masked form used by both
// the summary and deposits sheets.
func MaskAccountNumber(last4 string) string {
	return "****" + last4
}
