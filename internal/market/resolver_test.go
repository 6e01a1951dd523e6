package market

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasador/server/internal/history"
	"tasador/server/internal/models"
	"tasador/server/internal/oracle"
)

// fakeOracle counts calls and returns a canned estimate or error.
type fakeOracle struct {
	calls    int
	estimate *oracle.Estimate
	err      error
}

func (f *fakeOracle) EstimateMarket(ctx context.Context, property models.PropertyData) (*oracle.Estimate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.estimate, nil
}

func newTestResolver(o OracleClient) (*Resolver, *history.UsageTracker) {
	logger := logrus.New()
	usage := history.NewUsageTracker(logger)
	return NewResolver(o, usage, logger), usage
}

func testProperty() models.PropertyData {
	return models.PropertyData{
		PostalCode:   "46021",
		Municipality: "Valencia",
		Area:         100,
		Bedrooms:     3,
	}
}

func TestResolve_RegistryShortCircuit(t *testing.T) {
	fake := &fakeOracle{}
	resolver, usage := newTestResolver(fake)

	price := 2317.0
	res := resolver.Resolve(context.Background(), testProperty(), &price)

	// Hard invariant: registry presence means zero oracle calls
	assert.Equal(t, 0, fake.calls)
	assert.False(t, res.OracleCalled)
	require.NotNil(t, res.RegistryPrice)
	assert.Equal(t, 2317.0, *res.RegistryPrice)

	assert.Equal(t, models.SourceRegistry, res.Market.Source)
	assert.Equal(t, 2317.0, res.Market.MeanPricePerSqm)
	// Synthesized ±10% band around the single registry figure
	assert.Equal(t, 2085.0, res.Market.MinPricePerSqm)
	assert.Equal(t, 2549.0, res.Market.MaxPricePerSqm)
	assert.Equal(t, models.DemandMedium, res.Market.Demand)
	assert.Equal(t, models.TrendStable, res.Market.Trend)

	stats := usage.Stats()
	assert.Equal(t, 0, stats.TotalOracleCalls)
	assert.Greater(t, stats.EstimatedCostSavedEUR, 0.0)
}

func TestResolve_OraclePath(t *testing.T) {
	fake := &fakeOracle{
		estimate: &oracle.Estimate{
			Municipality:    "Valencia",
			Neighborhood:    "Aiora",
			Province:        "Valencia",
			MeanPricePerSqm: 2100,
			MinPricePerSqm:  1800,
			MaxPricePerSqm:  2500,
			Demand:          models.DemandHigh,
			Trend:           models.TrendRising,
			Query:           "Estimate the current market price...",
			ResponseBytes:   240,
		},
	}
	resolver, usage := newTestResolver(fake)

	res := resolver.Resolve(context.Background(), testProperty(), nil)

	assert.Equal(t, 1, fake.calls)
	assert.True(t, res.OracleCalled)
	assert.Nil(t, res.RegistryPrice)
	assert.Equal(t, models.SourceOracle, res.Market.Source)
	assert.Equal(t, 2100.0, res.Market.MeanPricePerSqm)
	assert.Equal(t, models.DemandHigh, res.Market.Demand)
	assert.NotEmpty(t, res.OracleQuery)
	assert.Greater(t, res.EstimatedTokens, 0)
	assert.Greater(t, res.EstimatedCost, 0.0)

	stats := usage.Stats()
	assert.Equal(t, 1, stats.TotalOracleCalls)
	assert.Equal(t, 1, stats.CallsWithoutRegistry)
	assert.Equal(t, 0.0, stats.EstimatedCostSavedEUR)
}

func TestResolve_FallbackOnOracleFailure(t *testing.T) {
	fake := &fakeOracle{err: errors.New("connection refused")}
	resolver, _ := newTestResolver(fake)

	res := resolver.Resolve(context.Background(), testProperty(), nil)

	assert.Equal(t, 1, fake.calls)
	assert.True(t, res.OracleCalled)
	assert.Equal(t, models.SourceFallback, res.Market.Source)
	assert.Equal(t, 1500.0, res.Market.MeanPricePerSqm)
	assert.Equal(t, models.DemandMedium, res.Market.Demand)
	assert.Equal(t, models.TrendStable, res.Market.Trend)
}

func TestResolve_FallbackOnDecodeError(t *testing.T) {
	fake := &fakeOracle{err: &oracle.DecodeError{Field: "demand", Reason: "is not one of high/medium/low"}}
	resolver, usage := newTestResolver(fake)

	res := resolver.Resolve(context.Background(), testProperty(), nil)

	assert.Equal(t, models.SourceFallback, res.Market.Source)
	// The failed call is still counted
	assert.Equal(t, 1, usage.Stats().TotalOracleCalls)
}

func TestResolve_RegistryBandOrdering(t *testing.T) {
	resolver, _ := newTestResolver(&fakeOracle{})

	price := 1234.0
	res := resolver.Resolve(context.Background(), testProperty(), &price)

	assert.LessOrEqual(t, res.Market.MinPricePerSqm, res.Market.MeanPricePerSqm)
	assert.LessOrEqual(t, res.Market.MeanPricePerSqm, res.Market.MaxPricePerSqm)
}
