package models

import "time"

// Adjustment is one named multiplicative (or absolute) effect on the price.
// The numeric percentage and the display string always agree in sign.
type Adjustment struct {
	Label       string  `json:"label"`
	Display     string  `json:"display"`
	Percent     float64 `json:"percent"`
	Description string  `json:"description,omitempty"`
	// Absolute adjustments carry a flat currency amount instead of a
	// percentage (parking and storage add-ons).
	Absolute bool    `json:"absolute,omitempty"`
	Amount   float64 `json:"amount,omitempty"`
}

// CapReason records why (or that no) price capping was applied.
type CapReason string

const (
	CapWithinRange     CapReason = "within_range"
	CapExceededZoneMax CapReason = "exceeded_zone_max"
	CapBelowZoneMin    CapReason = "below_zone_min"
)

// CappingInfo describes the clamp of an adjusted price to the realistic
// zone-derived band, when the detailed variant applied one.
type CappingInfo struct {
	Applied       bool      `json:"applied"`
	OriginalPrice float64   `json:"original_price"`
	CappedPrice   float64   `json:"capped_price"`
	Reason        CapReason `json:"reason"`
}

// ValuationResult is the final output of one valuation request. Produced
// exactly once per request and immutable afterwards.
type ValuationResult struct {
	AveragePrice  int          `json:"average_price"`
	MinPrice      int          `json:"min_price"`
	MaxPrice      int          `json:"max_price"`
	Uncertainty   string       `json:"uncertainty"`
	PricePerSqm   int          `json:"price_per_sqm"`
	RegistryPrice *float64     `json:"registry_price,omitempty"`
	Adjustments   []Adjustment `json:"adjustments"`
	Market        MarketData   `json:"market"`
	Capping       *CappingInfo `json:"capping,omitempty"`
	ComputedAt    time.Time    `json:"computed_at"`
}
