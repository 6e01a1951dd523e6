package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tasador/server/internal/models"
)

// DefaultMaxEntries bounds the retained valuation history.
const DefaultMaxEntries = 100

// Store keeps a bounded, most-recent-first list of past valuations. It is the
// process's only shared mutable state besides the usage tracker, so every
// method serializes on the mutex. Volatile: nothing survives a restart.
type Store struct {
	mu      sync.RWMutex
	entries []models.HistoryEntry
	max     int
	logger  *logrus.Logger
}

// NewStore creates a history store retaining at most maxEntries valuations.
func NewStore(maxEntries int, logger *logrus.Logger) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		entries: make([]models.HistoryEntry, 0, maxEntries),
		max:     maxEntries,
		logger:  logger,
	}
}

// Append prepends one entry, assigning its identifier and timestamp, and
// evicts the oldest entries beyond the bound. Returns the stored entry.
func (s *Store) Append(entry models.HistoryEntry) models.HistoryEntry {
	entry.ID = uuid.NewString()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.DurationMs = entry.Duration.Milliseconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]models.HistoryEntry{entry}, s.entries...)
	if len(s.entries) > s.max {
		s.entries = s.entries[:s.max]
	}

	s.logger.WithFields(logrus.Fields{
		"id":            entry.ID,
		"postal_code":   entry.Property.PostalCode,
		"from_registry": entry.FromRegistry,
	}).Debug("Appended valuation to history")

	return entry
}

// List returns a copy of the retained entries, most recent first.
func (s *Store) List() []models.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the entry with the given identifier, or nil.
func (s *Store) Get(id string) *models.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			entry := s.entries[i]
			return &entry
		}
	}
	return nil
}

// Clear atomically drops all retained entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = s.entries[:0]
	s.logger.Info("Valuation history cleared")
}

// Len returns the current number of retained entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats aggregates the retained entries for operational reporting.
func (s *Store) Stats() models.HistoryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.HistoryStats{Total: len(s.entries)}
	var totalMs int64
	for i := range s.entries {
		if s.entries[i].FromRegistry {
			stats.WithRegistry++
		}
		if s.entries[i].OracleCalled {
			stats.WithOracle++
		}
		stats.TotalEstimatedCost += s.entries[i].EstimatedCost
		totalMs += s.entries[i].DurationMs
	}
	if len(s.entries) > 0 {
		stats.AverageDurationMs = float64(totalMs) / float64(len(s.entries))
	}
	return stats
}
