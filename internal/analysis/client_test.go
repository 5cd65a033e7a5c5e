package analysis

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traceaos/income-analysis-agent/internal/models"
)

const validResultJSON = `{
	"analysisSummary": {
		"bankName": "Chase",
		"statementType": "Business Checking",
		"accountHolderName": "Doe Consulting LLC",
		"accountNumberLast4": "1234",
		"totalDeposits": 120000,
		"totalWithdrawals": 95000,
		"cashFlow": 25000,
		"averageDeposits": 10000,
		"incomeCategories": ["Client Payments"],
		"nonIncomeCategories": ["Transfers"]
	},
	"qualifiedIncomeCalculation": {
		"monthlyBreakdown": [
			{
				"statementEndingDate": "01/31/2024",
				"statementDates": "01/01/2024 - 01/31/2024",
				"uploadedPdfFilename": "jan.pdf",
				"deposits": 10000,
				"lessTransfers": 1000,
				"netDeposits": 9000
			}
		],
		"totals": {"deposits": 10000, "lessTransfers": 1000, "netDeposits": 9000},
		"monthlyAverageNetDeposits": 9000
	},
	"deposits": [
		{
			"date": "01/15/2024",
			"description": "WIRE IN ACME CORP",
			"shortDescription": "Acme Corp",
			"amount": 5000,
			"day": "15",
			"month": "January",
			"accountNumberLast4": "1234",
			"pdfFilename": "jan.pdf",
			"largeDepositAmount": 0
		}
	],
	"timePeriodAggregates": {
		"totalDeposits": {"months1_6": 60000, "months7_12": 60000, "months12": 120000},
		"totalIncome": {"months1_6": 55000, "months7_12": 55000, "months12": 110000},
		"averageIncome": {"months1_6": 9166.67, "months7_12": 9166.67, "months12": 9166.67},
		"expenseFactorPercentage": {"months1_6": 50, "months7_12": 50, "months12": 50},
		"calculatedExpense": {"months1_6": 4583.34, "months7_12": 4583.34, "months12": 4583.34},
		"incomeMinusExpense": {"months1_6": 4583.33, "months7_12": 4583.33, "months12": 4583.33},
		"ownershipFactorPercentage": {"months1_6": 100, "months7_12": 100, "months12": 100},
		"qualifiedIncome": {"months1_6": 4583.33, "months7_12": 4583.33, "months12": 4583.33},
		"totalWithdrawals": {"months1_6": 47500, "months7_12": 47500, "months12": 95000},
		"nsfCount": {"months1_6": 0, "months7_12": 0, "months12": 0},
		"odCount": {"months1_6": 0, "months7_12": 0, "months12": 0},
		"cashFlow": {"months1_6": 12500, "months7_12": 12500, "months12": 25000}
	},
	"risk": [
		{"topic": "NSF / Overdrafts", "result": "No", "notes": ""}
	],
	"markdownSummary": "**Findings Report**"
}`

func TestDecodeResultValid(t *testing.T) {
	result, err := decodeResult([]byte(validResultJSON))
	require.NoError(t, err)

	assert.Equal(t, "Chase", result.AnalysisSummary.BankName)
	assert.Equal(t, "1234", result.AnalysisSummary.AccountNumberLast4)
	assert.Len(t, result.QualifiedIncomeCalculation.MonthlyBreakdown, 1)
	assert.Equal(t, 9000.0, result.QualifiedIncomeCalculation.Totals.NetDeposits)
	assert.Equal(t, "jan.pdf", result.Deposits[0].PDFFilename)
	assert.Equal(t, 100.0, result.TimePeriodAggregates.OwnershipFactorPercentage.Months12)
}

// TestDecodeResultDerivedFieldsConsistent checks the worksheet relations on
// the decoded fixture over every time period: C = A*B/100, D = A-C, F = D*E/100.
// Renderers never recompute these, so the fixture must satisfy them.
func TestDecodeResultDerivedFieldsConsistent(t *testing.T) {
	result, err := decodeResult([]byte(validResultJSON))
	require.NoError(t, err)

	agg := result.TimePeriodAggregates
	periods := []struct {
		name string
		pick func(models.TimePeriodValues) float64
	}{
		{"months1_6", func(v models.TimePeriodValues) float64 { return v.Months1To6 }},
		{"months7_12", func(v models.TimePeriodValues) float64 { return v.Months7To12 }},
		{"months12", func(v models.TimePeriodValues) float64 { return v.Months12 }},
	}
	for _, p := range periods {
		avgIncome := p.pick(agg.AverageIncome)
		expenseFactor := p.pick(agg.ExpenseFactorPercentage)
		calcExpense := p.pick(agg.CalculatedExpense)
		incomeMinusExpense := p.pick(agg.IncomeMinusExpense)
		ownership := p.pick(agg.OwnershipFactorPercentage)
		qualified := p.pick(agg.QualifiedIncome)

		assert.InDelta(t, avgIncome*expenseFactor/100, calcExpense, 0.01, "calculatedExpense %s", p.name)
		assert.InDelta(t, avgIncome-calcExpense, incomeMinusExpense, 0.01, "incomeMinusExpense %s", p.name)
		assert.InDelta(t, incomeMinusExpense*ownership/100, qualified, 0.01, "qualifiedIncome %s", p.name)
	}
}

// resultJSONWithDeposit rewrites the fixture's single deposit with the given
// amount and flag value.
func resultJSONWithDeposit(t *testing.T, amount, flag float64) []byte {
	t.Helper()
	raw := strings.Replace(validResultJSON, `"amount": 5000`, fmt.Sprintf(`"amount": %.2f`, amount), 1)
	raw = strings.Replace(raw, `"largeDepositAmount": 0`, fmt.Sprintf(`"largeDepositAmount": %.2f`, flag), 1)
	return []byte(raw)
}

func TestDecodeResultLargeDepositBoundary(t *testing.T) {
	// Exactly at the threshold the flag must stay 0.
	result, err := decodeResult(resultJSONWithDeposit(t, 25000.00, 0))
	require.NoError(t, err)
	assert.Zero(t, result.Deposits[0].LargeDepositAmount)

	// Just above it the flag carries the amount.
	result, err = decodeResult(resultJSONWithDeposit(t, 25000.01, 25000.01))
	require.NoError(t, err)
	assert.Equal(t, 25000.01, result.Deposits[0].LargeDepositAmount)
}

func TestDecodeResultRejectsInconsistentLargeDepositFlag(t *testing.T) {
	// Flag set at the threshold exactly.
	_, err := decodeResult(resultJSONWithDeposit(t, 25000.00, 25000.00))
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)

	// Flag missing above the threshold.
	_, err = decodeResult(resultJSONWithDeposit(t, 30000.00, 0))
	require.ErrorAs(t, err, &formatErr)
}

func TestDecodeResultRejectsUnknownFields(t *testing.T) {
	raw := []byte(`{"analysisSummary": {}, "unexpectedField": true}`)

	_, err := decodeResult(raw)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestDecodeResultRejectsInvalidJSON(t *testing.T) {
	_, err := decodeResult([]byte("I could not complete the analysis."))

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestDecodeResultRejectsBadRiskResult(t *testing.T) {
	raw := []byte(`{
		"analysisSummary": {"bankName": "x", "statementType": "x", "accountHolderName": "x", "accountNumberLast4": "0000", "totalDeposits": 0, "totalWithdrawals": 0, "cashFlow": 0, "averageDeposits": 0, "incomeCategories": [], "nonIncomeCategories": []},
		"qualifiedIncomeCalculation": {"monthlyBreakdown": [], "totals": {"deposits": 0, "lessTransfers": 0, "netDeposits": 0}, "monthlyAverageNetDeposits": 0},
		"deposits": [],
		"timePeriodAggregates": {"totalDeposits": {"months1_6": 0, "months7_12": 0, "months12": 0}, "totalIncome": {"months1_6": 0, "months7_12": 0, "months12": 0}, "averageIncome": {"months1_6": 0, "months7_12": 0, "months12": 0}, "expenseFactorPercentage": {"months1_6": 0, "months7_12": 0, "months12": 0}, "calculatedExpense": {"months1_6": 0, "months7_12": 0, "months12": 0}, "incomeMinusExpense": {"months1_6": 0, "months7_12": 0, "months12": 0}, "ownershipFactorPercentage": {"months1_6": 0, "months7_12": 0, "months12": 0}, "qualifiedIncome": {"months1_6": 0, "months7_12": 0, "months12": 0}, "totalWithdrawals": {"months1_6": 0, "months7_12": 0, "months12": 0}, "nsfCount": {"months1_6": 0, "months7_12": 0, "months12": 0}, "odCount": {"months1_6": 0, "months7_12": 0, "months12": 0}, "cashFlow": {"months1_6": 0, "months7_12": 0, "months12": 0}},
		"risk": [{"topic": "NSF", "result": "Maybe", "notes": ""}],
		"markdownSummary": "**x**"
	}`)

	_, err := decodeResult(raw)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, err.Error(), "Yes/No")
}

func TestDecodeResultNormalizesMissingArrays(t *testing.T) {
	// The schema requires explicit arrays; if a backend still omits one the
	// renderers must see an empty slice, never nil.
	raw := []byte(`{
		"analysisSummary": {"bankName": "x", "statementType": "x", "accountHolderName": "x", "accountNumberLast4": "0000", "totalDeposits": 0, "totalWithdrawals": 0, "cashFlow": 0, "averageDeposits": 0, "incomeCategories": [], "nonIncomeCategories": []},
		"qualifiedIncomeCalculation": {"totals": {"deposits": 0, "lessTransfers": 0, "netDeposits": 0}, "monthlyAverageNetDeposits": 0},
		"timePeriodAggregates": {"totalDeposits": {"months1_6": 0, "months7_12": 0, "months12": 0}, "totalIncome": {"months1_6": 0, "months7_12": 0, "months12": 0}, "averageIncome": {"months1_6": 0, "months7_12": 0, "months12": 0}, "expenseFactorPercentage": {"months1_6": 0, "months7_12": 0, "months12": 0}, "calculatedExpense": {"months1_6": 0, "months7_12": 0, "months12": 0}, "incomeMinusExpense": {"months1_6": 0, "months7_12": 0, "months12": 0}, "ownershipFactorPercentage": {"months1_6": 0, "months7_12": 0, "months12": 0}, "qualifiedIncome": {"months1_6": 0, "months7_12": 0, "months12": 0}, "totalWithdrawals": {"months1_6": 0, "months7_12": 0, "months12": 0}, "nsfCount": {"months1_6": 0, "months7_12": 0, "months12": 0}, "odCount": {"months1_6": 0, "months7_12": 0, "months12": 0}, "cashFlow": {"months1_6": 0, "months7_12": 0, "months12": 0}},
		"markdownSummary": "**x**"
	}`)

	result, err := decodeResult(raw)
	require.NoError(t, err)

	assert.NotNil(t, result.Deposits)
	assert.NotNil(t, result.Risk)
	assert.NotNil(t, result.QualifiedIncomeCalculation.MonthlyBreakdown)
	assert.Empty(t, result.Deposits)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(t.Context(), Config{}, testLogger())
	require.Error(t, err)
}

func TestServiceErrorMessage(t *testing.T) {
	err := &ServiceError{StatusCode: 503, Message: "overloaded"}
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "overloaded")

	var target *ServiceError
	assert.True(t, errors.As(error(err), &target))
}
