// Package writer serializes an analysis result into the downloadable
// six-sheet review workbook.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/traceaos/income-analysis-agent/internal/models"
)

// ExportFilename is the fixed name of the generated workbook.
const ExportFilename = "Bank_Statement_Analysis_GuideU.xlsx"

// titleBand is the product attribution merged across the top of every sheet.
const titleBand = "TRACE AOS RESULTS (BETA - RESULTS) traceaos.com"

// RenderError reports a failed workbook serialization. The analysis result
// that triggered it is still valid — callers keep it and may retry export.
type RenderError struct {
	Sheet string
	Err   error
}

func (e *RenderError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("workbook render failed: %v", e.Err)
	}
	return fmt.Sprintf("workbook render failed on sheet %q: %v", e.Sheet, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// sheet is one tab of the workbook: the title band merged across mergeCols
// columns, a blank row, then the content rows.
type sheet struct {
	name      string
	mergeCols int
	colWidths []float64
	rows      [][]interface{}
}

// buildSheets assembles the six sheets in their fixed display order.
func buildSheets(result *models.AnalysisResult) []sheet {
	return []sheet{
		findingsSheet(result),
		summarySheet(result),
		incomeCalcSheet(result),
		depositsSheet(result),
		aggregatesSheet(result),
		riskSheet(result),
	}
}

// SheetNames returns the six sheet names in workbook order.
func SheetNames() []string {
	return []string{
		"FINDINGS REPORT",
		"ANALYSIS SUMMARY",
		"1. QUALIFIED INCOME CALCULATION",
		"2. DEPOSITS",
		"3. TIME PERIOD AGGREGATES",
		"4. RISK",
	}
}

func findingsSheet(result *models.AnalysisResult) sheet {
	content := result.MarkdownSummary
	if content == "" {
		content = "Summary not available."
	}
	var rows [][]interface{}
	for _, line := range strings.Split(content, "\n") {
		rows = append(rows, []interface{}{line})
	}
	return sheet{
		name:      "FINDINGS REPORT",
		mergeCols: 6,
		colWidths: []float64{120},
		rows:      rows,
	}
}

func summarySheet(result *models.AnalysisResult) sheet {
	s := result.AnalysisSummary
	return sheet{
		name:      "ANALYSIS SUMMARY",
		mergeCols: 2,
		colWidths: []float64{30, 50},
		rows: [][]interface{}{
			{"Bank Statement Analysis Summary"},
			{"Bank Name", s.BankName},
			{"Bank Statement Type", s.StatementType},
			{"Name on Bank Statements", s.AccountHolderName},
			{"Account Number", models.MaskAccountNumber(s.AccountNumberLast4)},
			{"Total Deposits", s.TotalDeposits},
			{"Total Withdrawals", s.TotalWithdrawals},
			{"Cash Flow", s.CashFlow},
			{"Average Deposits", s.AverageDeposits},
			{"Income Categories", strings.Join(s.IncomeCategories, ", ")},
			{"Non-Income Categories", strings.Join(s.NonIncomeCategories, ", ")},
		},
	}
}

func incomeCalcSheet(result *models.AnalysisResult) sheet {
	calc := result.QualifiedIncomeCalculation
	rows := [][]interface{}{
		{"Statement Ending Date", "Statement Dates (from - to)", "UPLOADED PDF FILENAME", "DEPOSITS", "LESS TRANSFERS", "NET DEPOSITS"},
	}
	for _, row := range calc.MonthlyBreakdown {
		rows = append(rows, []interface{}{
			row.StatementEndingDate,
			row.StatementDates,
			row.UploadedPDFFilename,
			row.Deposits,
			row.LessTransfers,
			row.NetDeposits,
		})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"TOTALS", "", "", calc.Totals.Deposits, calc.Totals.LessTransfers, calc.Totals.NetDeposits},
		[]interface{}{"MONTHLY NET DEPOSITS", "", "", "", "", calc.MonthlyAverageNetDeposits},
	)
	return sheet{
		name:      "1. QUALIFIED INCOME CALCULATION",
		mergeCols: 6,
		colWidths: []float64{20, 25, 30, 15, 15, 15},
		rows:      rows,
	}
}

func depositsSheet(result *models.AnalysisResult) sheet {
	rows := [][]interface{}{
		{"DATE", "DESCRIPTION", "SHORT DESCRIPTION", "AMOUNT", "DAY", "MONTH", "ACCOUNT_NUMBER", "PDF FILENAME", "LARGE DEPOSIT >$25,000"},
	}
	for _, d := range result.Deposits {
		rows = append(rows, []interface{}{
			d.Date,
			d.Description,
			d.ShortDescription,
			d.Amount,
			d.Day,
			d.Month,
			models.MaskAccountNumber(d.AccountNumberLast4),
			d.PDFFilename,
			d.LargeDepositAmount,
		})
	}
	return sheet{
		name:      "2. DEPOSITS",
		mergeCols: 9,
		colWidths: []float64{12, 40, 25, 15, 8, 8, 20, 30, 25},
		rows:      rows,
	}
}

func aggregatesSheet(result *models.AnalysisResult) sheet {
	agg := result.TimePeriodAggregates
	metric := func(label string, v models.TimePeriodValues) []interface{} {
		return []interface{}{label, v.Months1To6, v.Months7To12, v.Months12}
	}
	return sheet{
		name:      "3. TIME PERIOD AGGREGATES",
		mergeCols: 4,
		colWidths: []float64{35, 25, 25, 25},
		rows: [][]interface{}{
			{"DESCRIPTION", "MONTHS 1-6 DEPOSIT TOTALS", "MONTHS 7-12 DEPOSIT TOTALS", "12 MONTH DEPOSIT TOTALS"},
			metric("Total Deposits", agg.TotalDeposits),
			metric("Total Income", agg.TotalIncome),
			metric("A- Average Income", agg.AverageIncome),
			metric("B- Expense Factor %", agg.ExpenseFactorPercentage),
			metric("C- Calculated Expense (A*B)", agg.CalculatedExpense),
			metric("D- Income minus Expense (A-C)", agg.IncomeMinusExpense),
			metric("E- Ownership Factor Default=100%", agg.OwnershipFactorPercentage),
			metric("F- Qualified Income (D*E)", agg.QualifiedIncome),
			metric("Total Withdrawals", agg.TotalWithdrawals),
			metric("NSF Count", agg.NSFCount),
			metric("OD Count", agg.ODCount),
			metric("Cash Flow = (Deposits - Withdrawals)", agg.CashFlow),
		},
	}
}

func riskSheet(result *models.AnalysisResult) sheet {
	rows := [][]interface{}{
		{"Topic", "Result = Yes or No", "Notes"},
	}
	for _, r := range result.Risk {
		rows = append(rows, []interface{}{r.Topic, r.Result, r.Notes})
	}
	return sheet{
		name:      "4. RISK",
		mergeCols: 3,
		colWidths: []float64{35, 20, 50},
		rows:      rows,
	}
}

// BuildWorkbook renders the result into an in-memory workbook. The caller
// owns the returned file and must Close it.
func BuildWorkbook(result *models.AnalysisResult) (*excelize.File, error) {
	f := excelize.NewFile()
	sheets := buildSheets(result)
	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				f.Close()
				return nil, &RenderError{Sheet: sh.name, Err: err}
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			f.Close()
			return nil, &RenderError{Sheet: sh.name, Err: err}
		}
		if err := writeSheet(f, sh); err != nil {
			f.Close()
			return nil, &RenderError{Sheet: sh.name, Err: err}
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write serializes the result workbook to w.
func Write(result *models.AnalysisResult, w io.Writer) error {
	f, err := BuildWorkbook(result)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return &RenderError{Err: err}
	}
	return nil
}

func writeSheet(f *excelize.File, sh sheet) error {
	if err := f.SetCellValue(sh.name, "A1", titleBand); err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(sh.mergeCols, 1)
	if err != nil {
		return err
	}
	if err := f.MergeCell(sh.name, "A1", end); err != nil {
		return err
	}
	for i, width := range sh.colWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sh.name, col, col, width); err != nil {
			return err
		}
	}
	// Row 2 stays blank; content starts on row 3.
	for i, row := range sh.rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
