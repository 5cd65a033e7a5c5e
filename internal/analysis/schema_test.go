package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// requireAll asserts every property of an object schema is also required, the
// shape of the strict contract: nothing optional, nothing extra.
func requireAll(t *testing.T, s *genai.Schema, path string) {
	t.Helper()
	if s.Type != genai.TypeObject {
		return
	}
	require.Len(t, s.Required, len(s.Properties), "schema %s: required list must cover every property", path)
	for _, name := range s.Required {
		prop, ok := s.Properties[name]
		require.True(t, ok, "schema %s: required field %q has no property", path, name)
		requireAll(t, prop, path+"."+name)
		if prop.Type == genai.TypeArray && prop.Items != nil {
			requireAll(t, prop.Items, path+"."+name+"[]")
		}
	}
}

func TestResponseSchemaIsFullyRequired(t *testing.T) {
	requireAll(t, ResponseSchema(), "root")
}

func TestResponseSchemaTopLevelFields(t *testing.T) {
	s := ResponseSchema()

	assert.ElementsMatch(t, []string{
		"analysisSummary", "qualifiedIncomeCalculation", "deposits",
		"timePeriodAggregates", "risk", "markdownSummary",
	}, s.Required)
}

func TestTimePeriodAggregatesMetrics(t *testing.T) {
	s := timePeriodAggregatesSchema()

	require.Len(t, s.Required, 12)
	assert.Equal(t, []string{
		"totalDeposits", "totalIncome", "averageIncome", "expenseFactorPercentage",
		"calculatedExpense", "incomeMinusExpense", "ownershipFactorPercentage",
		"qualifiedIncome", "totalWithdrawals", "nsfCount", "odCount", "cashFlow",
	}, s.Required)

	for name, prop := range s.Properties {
		assert.Equal(t, genai.TypeObject, prop.Type, "metric %s", name)
		assert.ElementsMatch(t, []string{"months1_6", "months7_12", "months12"}, prop.Required, "metric %s", name)
	}
}
