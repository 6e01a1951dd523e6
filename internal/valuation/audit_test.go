package valuation

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasador/server/internal/models"
)

func auditFixture(t *testing.T) (models.PropertyData, models.MarketData, models.ValuationResult) {
	t.Helper()

	floor := models.FloorMidHigh
	elevator := false
	age := models.AgeVeryOld
	property := models.PropertyData{
		PostalCode:  "46021",
		Area:        100,
		Bedrooms:    3,
		Floor:       &floor,
		HasElevator: &elevator,
		Age:         &age,
	}
	market := registryMarket(2317)

	calc := NewCalculator(logrus.New())
	result, err := calc.Calculate(property, market, nil)
	require.NoError(t, err)

	return property, market, *result
}

func TestGenerate_ReplaysCalculator(t *testing.T) {
	property, market, result := auditFixture(t)
	gen := NewAuditGenerator(logrus.New())

	report := gen.Generate(property, market, result)

	require.NotEmpty(t, report.Steps)
	assert.Equal(t, "base_price", report.Steps[0].Name)
	assert.Equal(t, 231700.0, report.Steps[0].Output)

	// Step indices are contiguous from 1
	for i, step := range report.Steps {
		assert.Equal(t, i+1, step.Index)
		assert.NotEmpty(t, step.Formula)
	}

	// Each step starts where the previous one ended
	for i := 1; i < len(report.Steps); i++ {
		assert.Equal(t, report.Steps[i-1].Output, report.Steps[i].Input)
	}

	last := report.Steps[len(report.Steps)-1]
	assert.InDelta(t, float64(result.AveragePrice), last.Output, auditTolerance)

	assert.Equal(t, len(result.Adjustments), report.Summary.AdjustmentCount)
	assert.InDelta(t, 0.836, report.Summary.CombinedFactor, 1e-9)
	assert.Equal(t, 231700.0, report.Summary.BasePrice)
	assert.InDelta(t, last.Output-231700.0, report.Summary.AbsoluteChange, 1e-9)
}

func TestGenerate_Idempotent(t *testing.T) {
	property, market, result := auditFixture(t)
	gen := NewAuditGenerator(logrus.New())

	first := gen.Generate(property, market, result)
	second := gen.Generate(property, market, result)

	assert.Equal(t, first.Steps, second.Steps)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestValidateAuditReport(t *testing.T) {
	property, market, result := auditFixture(t)
	gen := NewAuditGenerator(logrus.New())

	report := gen.Generate(property, market, result)
	ok, errs := ValidateAuditReport(report)
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestValidateAuditReport_CatchesDefects(t *testing.T) {
	property, market, result := auditFixture(t)
	gen := NewAuditGenerator(logrus.New())
	report := gen.Generate(property, market, result)

	// No steps at all
	broken := report
	broken.Steps = nil
	ok, errs := ValidateAuditReport(broken)
	assert.False(t, ok)
	assert.NotEmpty(t, errs)

	// Tampered stored average
	broken = report
	broken.Result.AveragePrice += 5000
	ok, errs = ValidateAuditReport(broken)
	assert.False(t, ok)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "does not match")

	// Summary count out of sync
	broken = report
	broken.Summary.AdjustmentCount++
	ok, _ = ValidateAuditReport(broken)
	assert.False(t, ok)
}

func TestGenerate_DetailedWithAbsolutesAndCapping(t *testing.T) {
	calc := NewCalculator(logrus.New())
	gen := NewAuditGenerator(logrus.New())

	property := models.PropertyData{PostalCode: "28012", Area: 100, Bedrooms: 3}
	market := models.MarketData{
		PostalCode:      "28012",
		MeanPricePerSqm: 2000,
		MinPricePerSqm:  1950,
		MaxPricePerSqm:  2050,
	}
	detail := models.DetailAttributes{
		HasGarage:  true,
		Finish:     finishPtr(models.FinishLuxury),
		PhotoCount: 5,
	}
	result, err := calc.CalculateDetailed(property, detail, market, nil)
	require.NoError(t, err)
	require.True(t, result.Capping.Applied)

	report := gen.Generate(property, market, *result)
	ok, errs := ValidateAuditReport(report)
	assert.True(t, ok, "errors: %v", errs)

	var names []string
	for _, step := range report.Steps {
		names = append(names, step.Name)
	}
	assert.Contains(t, names, "addition: Garage parking space")
	assert.Contains(t, names, "capping")
}

func TestAuditSerializationRoundTrip(t *testing.T) {
	property, market, result := auditFixture(t)
	gen := NewAuditGenerator(logrus.New())
	report := gen.Generate(property, market, result)

	// Nested form round-trips through JSON
	data, err := json.Marshal(report)
	require.NoError(t, err)
	var decoded models.AuditReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Steps, decoded.Steps)
	assert.Equal(t, report.Summary, decoded.Summary)

	// Flat form carries the same numeric content
	var buf bytes.Buffer
	require.NoError(t, WriteAuditCSV(report, &buf))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(report.Steps)+1)
	for i, step := range report.Steps {
		input, err := strconv.ParseFloat(rows[i+1][4], 64)
		require.NoError(t, err)
		output, err := strconv.ParseFloat(rows[i+1][5], 64)
		require.NoError(t, err)
		assert.Equal(t, step.Input, input)
		assert.Equal(t, step.Output, output)
	}
}
