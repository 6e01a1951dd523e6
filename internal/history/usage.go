package history

import (
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"tasador/server/internal/models"
)

// Oracle cost accounting. The estimation service bills per token; a typical
// call runs around AvgCallTokens including prompt and answer.
const (
	CostPerTokenEUR = 0.00002
	AvgCallTokens   = 1200
)

// EstimateTokens approximates the token count of an oracle exchange from its
// prompt and response byte sizes.
func EstimateTokens(promptLen, responseLen int) int {
	return int(math.Ceil(float64(promptLen+responseLen) / 4))
}

// EstimateCost converts a token count to euros.
func EstimateCost(tokens int) float64 {
	return float64(tokens) * CostPerTokenEUR
}

// UsageTracker holds the process-wide oracle usage counters. Injected from
// the composition root; never a package-level singleton.
type UsageTracker struct {
	mu     sync.Mutex
	stats  models.UsageStats
	logger *logrus.Logger
}

func NewUsageTracker(logger *logrus.Logger) *UsageTracker {
	return &UsageTracker{logger: logger}
}

// Track records the outcome of one market-data resolution. A registry hit
// that skipped the oracle credits the cost-saved accumulator with one average
// call; an oracle call made despite a registry hit should not happen and is
// counted separately so it shows up in operational reports.
func (t *UsageTracker) Track(oracleCalled, registryHadPrice bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if oracleCalled {
		t.stats.TotalOracleCalls++
		if registryHadPrice {
			t.stats.CallsWithRegistryHit++
			t.logger.Warn("Oracle called despite registry hit")
		} else {
			t.stats.CallsWithoutRegistry++
		}
		return
	}

	if registryHadPrice {
		t.stats.EstimatedCostSavedEUR += EstimateCost(AvgCallTokens)
	}
}

// Stats returns a snapshot of the counters.
func (t *UsageTracker) Stats() models.UsageStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Reset zeroes all counters.
func (t *UsageTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats = models.UsageStats{}
	t.logger.Info("Usage statistics reset")
}
