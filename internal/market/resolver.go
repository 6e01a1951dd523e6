package market

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"tasador/server/internal/history"
	"tasador/server/internal/models"
	"tasador/server/internal/oracle"
)

// Registry prices carry no range or demand signal, so the resolver
// synthesizes a conservative band around the single figure.
const registryBandWidth = 0.10

// Generic fallback signal used when the oracle fails or answers garbage.
// Deliberately conservative; the wider uncertainty of the fallback shows up
// downstream in the valuation range.
const (
	fallbackMeanPricePerSqm = 1500.0
	fallbackBandWidth       = 0.20
)

// OracleClient is the slice of the oracle the resolver needs.
type OracleClient interface {
	EstimateMarket(ctx context.Context, property models.PropertyData) (*oracle.Estimate, error)
}

// Resolution is the tagged outcome of one market-data resolution. The Source
// inside Market records provenance; the accounting fields feed the history
// entry for the request.
type Resolution struct {
	Market          models.MarketData
	RegistryPrice   *float64
	OracleCalled    bool
	OracleQuery     string
	EstimatedTokens int
	EstimatedCost   float64
}

// Resolver decides per request whether the registry price suffices or the
// oracle must be consulted, and reports every outcome to the usage tracker.
type Resolver struct {
	oracle OracleClient
	usage  *history.UsageTracker
	logger *logrus.Logger
}

func NewResolver(oracleClient OracleClient, usage *history.UsageTracker, logger *logrus.Logger) *Resolver {
	return &Resolver{
		oracle: oracleClient,
		usage:  usage,
		logger: logger,
	}
}

// Resolve supplies the MarketData for one valuation request.
//
// The priority policy is strict: a non-nil registry price means the oracle is
// not invoked for this request, ever. Only on a registry miss does the oracle
// run, and any oracle failure degrades to the generic fallback instead of
// failing the request.
func (r *Resolver) Resolve(ctx context.Context, property models.PropertyData, registryPrice *float64) Resolution {
	if registryPrice != nil {
		r.usage.Track(false, true)
		return Resolution{
			Market:        r.fromRegistry(property, *registryPrice),
			RegistryPrice: registryPrice,
		}
	}

	est, err := r.oracle.EstimateMarket(ctx, property)
	r.usage.Track(true, false)

	if err != nil {
		var decodeErr *oracle.DecodeError
		if errors.As(err, &decodeErr) {
			r.logger.WithError(decodeErr).WithField("postal_code", property.PostalCode).
				Warn("Oracle response failed schema validation, using fallback")
		} else {
			r.logger.WithError(err).WithField("postal_code", property.PostalCode).
				Warn("Oracle unavailable, using fallback")
		}
		return Resolution{
			Market:       r.fallback(property),
			OracleCalled: true,
		}
	}

	tokens := history.EstimateTokens(len(est.Query), est.ResponseBytes)
	return Resolution{
		Market:          r.fromOracle(property, est),
		OracleCalled:    true,
		OracleQuery:     est.Query,
		EstimatedTokens: tokens,
		EstimatedCost:   history.EstimateCost(tokens),
	}
}

func (r *Resolver) fromRegistry(property models.PropertyData, price float64) models.MarketData {
	return models.MarketData{
		PostalCode:      property.PostalCode,
		Municipality:    property.Municipality,
		MeanPricePerSqm: price,
		MinPricePerSqm:  math.Round(price * (1 - registryBandWidth)),
		MaxPricePerSqm:  math.Round(price * (1 + registryBandWidth)),
		Demand:          models.DemandMedium,
		Trend:           models.TrendStable,
		Source:          models.SourceRegistry,
		ResolvedAt:      time.Now(),
	}
}

func (r *Resolver) fromOracle(property models.PropertyData, est *oracle.Estimate) models.MarketData {
	municipality := est.Municipality
	if municipality == "" {
		municipality = property.Municipality
	}
	return models.MarketData{
		PostalCode:      property.PostalCode,
		Municipality:    municipality,
		Neighborhood:    est.Neighborhood,
		Province:        est.Province,
		MeanPricePerSqm: est.MeanPricePerSqm,
		MinPricePerSqm:  est.MinPricePerSqm,
		MaxPricePerSqm:  est.MaxPricePerSqm,
		Demand:          est.Demand,
		Trend:           est.Trend,
		ZoneDescription: est.ZoneDescription,
		Source:          models.SourceOracle,
		ResolvedAt:      time.Now(),
	}
}

func (r *Resolver) fallback(property models.PropertyData) models.MarketData {
	return models.MarketData{
		PostalCode:      property.PostalCode,
		Municipality:    property.Municipality,
		MeanPricePerSqm: fallbackMeanPricePerSqm,
		MinPricePerSqm:  math.Round(fallbackMeanPricePerSqm * (1 - fallbackBandWidth)),
		MaxPricePerSqm:  math.Round(fallbackMeanPricePerSqm * (1 + fallbackBandWidth)),
		Demand:          models.DemandMedium,
		Trend:           models.TrendStable,
		ZoneDescription: "Generic estimate, no zone data available",
		Source:          models.SourceFallback,
		ResolvedAt:      time.Now(),
	}
}
