package valuation

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasador/server/internal/models"
)

func registryMarket(mean float64) models.MarketData {
	return models.MarketData{
		PostalCode:      "46021",
		MeanPricePerSqm: mean,
		MinPricePerSqm:  mean * 0.9,
		MaxPricePerSqm:  mean * 1.1,
		Demand:          models.DemandMedium,
		Trend:           models.TrendStable,
		Source:          models.SourceRegistry,
	}
}

// Registry price "2.015" scaled by 1.15 gives 2317 €/m². With 100 m², no
// adjustment-relevant data and a full photo set the pipeline must land on
// exactly these four figures.
func TestCalculateDetailed_ReferenceScenario(t *testing.T) {
	calc := NewCalculator(logrus.New())

	property := models.PropertyData{
		PostalCode: "46021",
		Area:       100,
		Bedrooms:   3,
	}
	registryPrice := 2317.0
	detail := models.DetailAttributes{PhotoCount: 5}

	result, err := calc.CalculateDetailed(property, detail, registryMarket(2317), &registryPrice)
	require.NoError(t, err)

	// base 231700, zero adjustments, optimism ×1.10 → 254870, ±2%
	assert.Equal(t, 254870, result.AveragePrice)
	assert.Equal(t, 249773, result.MinPrice)
	assert.Equal(t, 259967, result.MaxPrice)
	assert.Equal(t, 2549, result.PricePerSqm)
	assert.Equal(t, "±2%", result.Uncertainty)
	assert.Empty(t, result.Adjustments)
	require.NotNil(t, result.Capping)
	assert.False(t, result.Capping.Applied)
	assert.Equal(t, models.CapWithinRange, result.Capping.Reason)
}

func TestCalculate_Basic(t *testing.T) {
	calc := NewCalculator(logrus.New())

	property := models.PropertyData{PostalCode: "46021", Area: 100, Bedrooms: 3}
	result, err := calc.Calculate(property, registryMarket(2000), nil)
	require.NoError(t, err)

	// 200000 × 1.10 = 220000, ±20%
	assert.Equal(t, 220000, result.AveragePrice)
	assert.Equal(t, 176000, result.MinPrice)
	assert.Equal(t, 264000, result.MaxPrice)
	assert.Equal(t, "±20%", result.Uncertainty)
	assert.Equal(t, 2200, result.PricePerSqm)
	assert.Nil(t, result.Capping)
}

func TestCalculate_RangeOrdering(t *testing.T) {
	calc := NewCalculator(logrus.New())

	floor := models.FloorAttic
	elevator := false
	age := models.AgeVeryOld
	properties := []models.PropertyData{
		{PostalCode: "46021", Area: 30, Bedrooms: 1},
		{PostalCode: "46021", Area: 100, Bedrooms: 3},
		{PostalCode: "46021", Area: 300, Bedrooms: 6, Floor: &floor, HasElevator: &elevator, Age: &age},
	}

	for _, property := range properties {
		result, err := calc.Calculate(property, registryMarket(1850), nil)
		require.NoError(t, err)
		assert.LessOrEqual(t, result.MinPrice, result.AveragePrice)
		assert.LessOrEqual(t, result.AveragePrice, result.MaxPrice)
	}
}

func TestCalculate_PricePerSqmConsistency(t *testing.T) {
	calc := NewCalculator(logrus.New())

	property := models.PropertyData{PostalCode: "46021", Area: 73, Bedrooms: 2}
	result, err := calc.Calculate(property, registryMarket(2133), nil)
	require.NoError(t, err)

	// Independent rounding may drift, but never by more than one unit of
	// rounding error per square meter.
	assert.InDelta(t, float64(result.AveragePrice), float64(result.PricePerSqm)*property.Area, property.Area)
}

func TestCalculate_FailsFast(t *testing.T) {
	calc := NewCalculator(logrus.New())

	property := models.PropertyData{PostalCode: "46021", Area: 0, Bedrooms: 3}
	_, err := calc.Calculate(property, registryMarket(2000), nil)
	assert.ErrorIs(t, err, ErrNonPositiveArea)

	property.Area = 100
	_, err = calc.Calculate(property, models.MarketData{}, nil)
	assert.ErrorIs(t, err, ErrMissingMarketPrice)
}

func TestCalculateDetailed_CapsToZoneCeiling(t *testing.T) {
	calc := NewCalculator(logrus.New())

	property := models.PropertyData{PostalCode: "28012", Area: 100, Bedrooms: 3}
	// Narrow zone band: mean 2000, max 2050. Garage and luxury finish push
	// the optimistic price beyond ceiling 2050*100*1.2 = 246000.
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

	require.NotNil(t, result.Capping)
	assert.True(t, result.Capping.Applied)
	assert.Equal(t, models.CapExceededZoneMax, result.Capping.Reason)
	assert.Equal(t, 246000, result.AveragePrice)
	assert.Greater(t, result.Capping.OriginalPrice, result.Capping.CappedPrice)
}

func TestCalculateDetailed_CapsToZoneFloor(t *testing.T) {
	calc := NewCalculator(logrus.New())

	floor := models.FloorAttic
	elevator := false
	property := models.PropertyData{
		PostalCode:  "46021",
		Area:        100,
		Bedrooms:    3,
		Floor:       &floor,
		HasElevator: &elevator,
	}
	// High zone floor: min 2400 → floor 2400*100*0.8 = 192000. A -20% floor
	// penalty and -15% condition drop the price below it.
	market := models.MarketData{
		PostalCode:      "46021",
		MeanPricePerSqm: 2500,
		MinPricePerSqm:  2400,
		MaxPricePerSqm:  2600,
	}
	detail := models.DetailAttributes{
		Condition:  condPtr(models.ConditionToRenovate),
		PhotoCount: 5,
	}

	result, err := calc.CalculateDetailed(property, detail, market, nil)
	require.NoError(t, err)

	require.NotNil(t, result.Capping)
	assert.True(t, result.Capping.Applied)
	assert.Equal(t, models.CapBelowZoneMin, result.Capping.Reason)
	assert.Equal(t, 192000, result.AveragePrice)
}

func TestDetailedUncertainty(t *testing.T) {
	assert.Equal(t, UncertaintyDetailed, DetailedUncertainty(0))
	assert.Equal(t, UncertaintyWithSomePhotos, DetailedUncertainty(1))
	assert.Equal(t, UncertaintyWithSomePhotos, DetailedUncertainty(2))
	assert.Equal(t, UncertaintyWithPhotoSet, DetailedUncertainty(3))
	assert.Equal(t, UncertaintyWithPhotoSet, DetailedUncertainty(12))
}

func TestUncertaintyLabelRoundTrip(t *testing.T) {
	for _, u := range []float64{0.02, 0.08, 0.12, 0.20} {
		label := UncertaintyLabel(u)
		parsed, err := ParseUncertaintyLabel(label)
		require.NoError(t, err)
		assert.InDelta(t, u, parsed, 1e-9)
	}
}
