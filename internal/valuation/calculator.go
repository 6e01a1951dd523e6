package valuation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"tasador/server/internal/models"
)

// OptimismFactor is a fixed, disclosed upward bias applied to every
// valuation. A lead-generation policy decision, not a market assessment.
const OptimismFactor = 1.10

// Uncertainty margins. The basic variant answers from minimal declared data
// and keeps a wide band; the detailed variant narrows with photographic
// evidence.
const (
	UncertaintyBasic          = 0.20
	UncertaintyDetailed       = 0.12
	UncertaintyWithSomePhotos = 0.08
	UncertaintyWithPhotoSet   = 0.02
	photoSetMin               = 3
)

// Capping tolerance around the zone band, detailed variant only.
const (
	capCeilingTolerance = 1.2
	capFloorTolerance   = 0.8
)

var (
	ErrMissingMarketPrice = errors.New("market data has no mean price per sqm")
	ErrNonPositiveArea    = errors.New("cannot value a non-positive area")
	ErrRangeInvariant     = errors.New("computed range violates min <= avg <= max")
)

// Calculator composes base price, adjustments, optimism and uncertainty into
// a ValuationResult. Stateless apart from the logger.
type Calculator struct {
	logger *logrus.Logger
}

func NewCalculator(logger *logrus.Logger) *Calculator {
	return &Calculator{logger: logger}
}

// Calculate runs the basic variant: basic rule set, wide uncertainty,
// no capping.
func (c *Calculator) Calculate(property models.PropertyData, market models.MarketData, registryPrice *float64) (*models.ValuationResult, error) {
	adjustments, factor := ComputeAdjustments(property, nil)
	return c.compose(property, market, registryPrice, adjustments, factor, UncertaintyBasic, false)
}

// CalculateDetailed runs the extended rule set, narrows uncertainty with the
// supplied photographic evidence and clamps to the realistic zone band.
func (c *Calculator) CalculateDetailed(property models.PropertyData, detail models.DetailAttributes, market models.MarketData, registryPrice *float64) (*models.ValuationResult, error) {
	adjustments, factor := ComputeAdjustments(property, &detail)
	return c.compose(property, market, registryPrice, adjustments, factor,
		DetailedUncertainty(detail.PhotoCount), true)
}

// DetailedUncertainty picks the detailed-variant margin for the evidence
// supplied.
func DetailedUncertainty(photoCount int) float64 {
	switch {
	case photoCount >= photoSetMin:
		return UncertaintyWithPhotoSet
	case photoCount > 0:
		return UncertaintyWithSomePhotos
	default:
		return UncertaintyDetailed
	}
}

// compose is the shared sequential pipeline. Fails fast on structurally
// unusable inputs instead of producing NaN output.
func (c *Calculator) compose(property models.PropertyData, market models.MarketData, registryPrice *float64, adjustments []models.Adjustment, factor, uncertainty float64, withCapping bool) (*models.ValuationResult, error) {
	if property.Area <= 0 {
		return nil, ErrNonPositiveArea
	}
	if market.MeanPricePerSqm <= 0 {
		return nil, ErrMissingMarketPrice
	}

	basePrice := market.MeanPricePerSqm * property.Area
	adjustedPrice := basePrice*factor + SumAbsolute(adjustments)
	optimisticPrice := adjustedPrice * OptimismFactor

	price := optimisticPrice
	var capping *models.CappingInfo
	if withCapping {
		price, capping = capToZone(optimisticPrice, market, property.Area)
	}

	avg := math.Round(price)
	min := math.Round(price * (1 - uncertainty))
	max := math.Round(price * (1 + uncertainty))

	if min > avg || avg > max {
		c.logger.WithFields(logrus.Fields{
			"min": min,
			"avg": avg,
			"max": max,
		}).Error("Range invariant violated")
		return nil, ErrRangeInvariant
	}

	result := &models.ValuationResult{
		AveragePrice:  int(avg),
		MinPrice:      int(min),
		MaxPrice:      int(max),
		Uncertainty:   UncertaintyLabel(uncertainty),
		PricePerSqm:   int(math.Round(avg / property.Area)),
		RegistryPrice: registryPrice,
		Adjustments:   adjustments,
		Market:        market,
		Capping:       capping,
		ComputedAt:    time.Now(),
	}
	return result, nil
}

// capToZone clamps a price to the realistic band derived from the zone's
// min/max price per square meter, widened by the fixed tolerance.
func capToZone(price float64, market models.MarketData, area float64) (float64, *models.CappingInfo) {
	info := &models.CappingInfo{
		OriginalPrice: price,
		CappedPrice:   price,
		Reason:        models.CapWithinRange,
	}

	if market.MinPricePerSqm <= 0 || market.MaxPricePerSqm <= 0 {
		return price, info
	}

	ceiling := market.MaxPricePerSqm * area * capCeilingTolerance
	floor := market.MinPricePerSqm * area * capFloorTolerance

	switch {
	case price > ceiling:
		info.Applied = true
		info.CappedPrice = ceiling
		info.Reason = models.CapExceededZoneMax
		return ceiling, info
	case price < floor:
		info.Applied = true
		info.CappedPrice = floor
		info.Reason = models.CapBelowZoneMin
		return floor, info
	default:
		return price, info
	}
}

// UncertaintyLabel renders a fractional margin as its canonical label
// ("±8%").
func UncertaintyLabel(uncertainty float64) string {
	return fmt.Sprintf("±%g%%", uncertainty*100)
}

// ParseUncertaintyLabel recovers the fractional margin from its canonical
// label form.
func ParseUncertaintyLabel(label string) (float64, error) {
	var pct float64
	if _, err := fmt.Sscanf(label, "±%f%%", &pct); err != nil {
		return 0, fmt.Errorf("malformed uncertainty label %q: %w", label, err)
	}
	return pct / 100, nil
}
