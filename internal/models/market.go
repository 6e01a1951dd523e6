package models

import (
	"fmt"
	"time"
)

// DemandLevel describes buyer pressure in a zone.
type DemandLevel int

const (
	DemandHigh DemandLevel = iota
	DemandMedium
	DemandLow
)

func (d DemandLevel) String() string {
	switch d {
	case DemandHigh:
		return "high"
	case DemandMedium:
		return "medium"
	case DemandLow:
		return "low"
	default:
		return "unknown"
	}
}

// ParseDemandLevel maps a wire value back to a DemandLevel.
func ParseDemandLevel(s string) (DemandLevel, error) {
	switch s {
	case "high":
		return DemandHigh, nil
	case "medium":
		return DemandMedium, nil
	case "low":
		return DemandLow, nil
	default:
		return 0, fmt.Errorf("unknown demand level: %q", s)
	}
}

// Trend describes the direction prices are moving in a zone.
type Trend int

const (
	TrendRising Trend = iota
	TrendStable
	TrendFalling
)

func (t Trend) String() string {
	switch t {
	case TrendRising:
		return "rising"
	case TrendStable:
		return "stable"
	case TrendFalling:
		return "falling"
	default:
		return "unknown"
	}
}

// ParseTrend maps a wire value back to a Trend.
func ParseTrend(s string) (Trend, error) {
	switch s {
	case "rising":
		return TrendRising, nil
	case "stable":
		return TrendStable, nil
	case "falling":
		return TrendFalling, nil
	default:
		return 0, fmt.Errorf("unknown trend: %q", s)
	}
}

// MarketSource identifies where a MarketData value came from.
type MarketSource int

const (
	SourceRegistry MarketSource = iota
	SourceOracle
	SourceFallback
)

func (s MarketSource) String() string {
	switch s {
	case SourceRegistry:
		return "registry"
	case SourceOracle:
		return "oracle"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// ParseMarketSource maps a wire value back to a MarketSource.
func ParseMarketSource(s string) (MarketSource, error) {
	switch s {
	case "registry":
		return SourceRegistry, nil
	case "oracle":
		return SourceOracle, nil
	case "fallback":
		return SourceFallback, nil
	default:
		return 0, fmt.Errorf("unknown market source: %q", s)
	}
}

// MarketData is the resolved price signal for one location. Created once per
// valuation request and never mutated afterwards.
type MarketData struct {
	PostalCode      string       `json:"postal_code"`
	Municipality    string       `json:"municipality"`
	Neighborhood    string       `json:"neighborhood,omitempty"`
	Province        string       `json:"province"`
	MeanPricePerSqm float64      `json:"mean_price_per_sqm"`
	MinPricePerSqm  float64      `json:"min_price_per_sqm"`
	MaxPricePerSqm  float64      `json:"max_price_per_sqm"`
	Demand          DemandLevel  `json:"demand"`
	Trend           Trend        `json:"trend"`
	ZoneDescription string       `json:"zone_description,omitempty"`
	Source          MarketSource `json:"source"`
	ResolvedAt      time.Time    `json:"resolved_at"`
}
