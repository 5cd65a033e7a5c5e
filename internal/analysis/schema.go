package analysis

import "google.golang.org/genai"

// ResponseSchema is the structural contract the reasoning service must
// conform to. Every field of the analysis result is required, arrays must be
// present (empty, never null or absent), and no extra fields are allowed.
// There is exactly one definition of this contract; whichever transport is
// active consumes it.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"analysisSummary":            analysisSummarySchema(),
			"qualifiedIncomeCalculation": qualifiedIncomeSchema(),
			"deposits": {
				Type:  genai.TypeArray,
				Items: depositSchema(),
			},
			"timePeriodAggregates": timePeriodAggregatesSchema(),
			"risk": {
				Type:  genai.TypeArray,
				Items: riskSchema(),
			},
			"markdownSummary": {Type: genai.TypeString},
		},
		Required: []string{
			"analysisSummary", "qualifiedIncomeCalculation", "deposits",
			"timePeriodAggregates", "risk", "markdownSummary",
		},
	}
}

func analysisSummarySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"bankName":           {Type: genai.TypeString},
			"statementType":      {Type: genai.TypeString},
			"accountHolderName":  {Type: genai.TypeString},
			"accountNumberLast4": {Type: genai.TypeString},
			"totalDeposits":      {Type: genai.TypeNumber},
			"totalWithdrawals":   {Type: genai.TypeNumber},
			"cashFlow":           {Type: genai.TypeNumber},
			"averageDeposits":    {Type: genai.TypeNumber},
			"incomeCategories": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"nonIncomeCategories": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{
			"bankName", "statementType", "accountHolderName", "accountNumberLast4",
			"totalDeposits", "totalWithdrawals", "cashFlow", "averageDeposits",
			"incomeCategories", "nonIncomeCategories",
		},
	}
}

func qualifiedIncomeSchema() *genai.Schema {
	monthlyRow := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"statementEndingDate": {Type: genai.TypeString},
			"statementDates":      {Type: genai.TypeString},
			"uploadedPdfFilename": {Type: genai.TypeString},
			"deposits":            {Type: genai.TypeNumber},
			"lessTransfers":       {Type: genai.TypeNumber},
			"netDeposits":         {Type: genai.TypeNumber},
		},
		Required: []string{
			"statementEndingDate", "statementDates", "uploadedPdfFilename",
			"deposits", "lessTransfers", "netDeposits",
		},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"monthlyBreakdown": {
				Type:  genai.TypeArray,
				Items: monthlyRow,
			},
			"totals": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"deposits":      {Type: genai.TypeNumber},
					"lessTransfers": {Type: genai.TypeNumber},
					"netDeposits":   {Type: genai.TypeNumber},
				},
				Required: []string{"deposits", "lessTransfers", "netDeposits"},
			},
			"monthlyAverageNetDeposits": {Type: genai.TypeNumber},
		},
		Required: []string{"monthlyBreakdown", "totals", "monthlyAverageNetDeposits"},
	}
}

func depositSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"date":               {Type: genai.TypeString},
			"description":        {Type: genai.TypeString},
			"shortDescription":   {Type: genai.TypeString},
			"amount":             {Type: genai.TypeNumber},
			"day":                {Type: genai.TypeString},
			"month":              {Type: genai.TypeString},
			"accountNumberLast4": {Type: genai.TypeString},
			"pdfFilename":        {Type: genai.TypeString},
			"largeDepositAmount": {
				Type:        genai.TypeNumber,
				Description: "If the deposit is over $25,000, this field should contain the deposit amount. Otherwise, it must be 0.",
			},
		},
		Required: []string{
			"date", "description", "shortDescription", "amount", "day", "month",
			"accountNumberLast4", "pdfFilename", "largeDepositAmount",
		},
	}
}

// timePeriodMetrics is the fixed order of the twelve aggregate metrics. The
// workbook exporter repeats this order in the aggregates sheet.
var timePeriodMetrics = []string{
	"totalDeposits", "totalIncome", "averageIncome", "expenseFactorPercentage",
	"calculatedExpense", "incomeMinusExpense", "ownershipFactorPercentage",
	"qualifiedIncome", "totalWithdrawals", "nsfCount", "odCount", "cashFlow",
}

func timePeriodAggregatesSchema() *genai.Schema {
	triple := func() *genai.Schema {
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"months1_6":  {Type: genai.TypeNumber},
				"months7_12": {Type: genai.TypeNumber},
				"months12":   {Type: genai.TypeNumber},
			},
			Required: []string{"months1_6", "months7_12", "months12"},
		}
	}

	props := make(map[string]*genai.Schema, len(timePeriodMetrics))
	for _, name := range timePeriodMetrics {
		props[name] = triple()
	}

	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   timePeriodMetrics,
	}
}

func riskSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"topic": {Type: genai.TypeString},
			"result": {
				Type:        genai.TypeString,
				Description: "The result of the risk check. Must be exactly 'Yes' or 'No'.",
			},
			"notes": {
				Type:        genai.TypeString,
				Description: "Optional notes providing context for the risk. Can be an empty string.",
			},
		},
		Required: []string{"topic", "result", "notes"},
	}
}
