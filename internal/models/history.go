package models

import "time"

// HistoryEntry is the archival record of one past valuation.
type HistoryEntry struct {
	ID              string          `json:"id"`
	Timestamp       time.Time       `json:"timestamp"`
	Property        PropertyData    `json:"property"`
	Market          MarketData      `json:"market"`
	Result          ValuationResult `json:"result"`
	FromRegistry    bool            `json:"from_registry"`
	OracleCalled    bool            `json:"oracle_called"`
	RegistryPrice   *float64        `json:"registry_price,omitempty"`
	EstimatedTokens int             `json:"estimated_tokens"`
	EstimatedCost   float64         `json:"estimated_cost"`
	OracleQuery     string          `json:"oracle_query,omitempty"`
	Duration        time.Duration   `json:"-"`
	DurationMs      int64           `json:"duration_ms"`
}

// UsageStats are the process-wide oracle usage counters. Volatile by design.
type UsageStats struct {
	TotalOracleCalls      int     `json:"total_oracle_calls"`
	CallsWithRegistryHit  int     `json:"calls_with_registry_hit"`
	CallsWithoutRegistry  int     `json:"calls_without_registry"`
	EstimatedCostSavedEUR float64 `json:"estimated_cost_saved_eur"`
}

// HistoryStats aggregates the retained history entries.
type HistoryStats struct {
	Total              int     `json:"total"`
	WithRegistry       int     `json:"with_registry"`
	WithOracle         int     `json:"with_oracle"`
	TotalEstimatedCost float64 `json:"total_estimated_cost"`
	AverageDurationMs  float64 `json:"average_duration_ms"`
}
