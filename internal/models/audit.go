package models

import "time"

// AuditStep records one arithmetic operation of a valuation replay, with the
// numeric state before and after it.
type AuditStep struct {
	Index       int     `json:"index"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Input       float64 `json:"input"`
	Output      float64 `json:"output"`
	Formula     string  `json:"formula,omitempty"`
}

// AuditSummary aggregates the replay against the unadjusted base price.
type AuditSummary struct {
	AdjustmentCount int     `json:"adjustment_count"`
	CombinedFactor  float64 `json:"combined_factor"`
	BasePrice       float64 `json:"base_price"`
	FinalPrice      float64 `json:"final_price"`
	AbsoluteChange  float64 `json:"absolute_change"`
	PercentChange   float64 `json:"percent_change"`
}

// AuditReport is a step-by-step reconstruction of one ValuationResult.
// Derived and read-only; generated on demand, never stored as truth.
type AuditReport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Property    PropertyData    `json:"property"`
	Market      MarketData      `json:"market"`
	Steps       []AuditStep     `json:"steps"`
	Result      ValuationResult `json:"result"`
	Summary     AuditSummary    `json:"summary"`
}
