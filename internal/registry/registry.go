package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// StalenessFactor compensates for the lag of the reference table behind the
// present market. Applied to every registry price before use.
const StalenessFactor = 1.15

// Entry is one row of the authoritative price-per-sqm reference table. The
// price stays a locale-formatted string exactly as published; parsing happens
// on lookup so malformed rows degrade to "no data" instead of poisoning the
// table.
type Entry struct {
	PostalCode   string `gorm:"primaryKey;column:postal_code" json:"postal_code"`
	Municipality string `gorm:"column:municipality" json:"municipality"`
	Province     string `gorm:"column:province" json:"province"`
	PriceRaw     string `gorm:"column:price_raw" json:"price"`
	Year         int    `gorm:"column:year" json:"year,omitempty"`
	Operations   int    `gorm:"column:operations" json:"operations,omitempty"`
}

func (Entry) TableName() string {
	return "registry_prices"
}

// Registry wraps the reference price table.
type Registry struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRegistry opens (or creates) the sqlite-backed reference table.
func NewRegistry(dbPath string, log *logrus.Logger) (*Registry, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate registry schema: %w", err)
	}

	return &Registry{db: db, logger: log}, nil
}

// SeedFromJSON loads reference entries from a JSON file when the table is
// empty. A missing seed file is not an error; the registry simply starts
// empty and every request takes the oracle path.
func (r *Registry) SeedFromJSON(path string) error {
	var count int64
	if err := r.db.Model(&Entry{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count registry entries: %w", err)
	}
	if count > 0 {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Warnf("No registry seed file at %s, starting empty", path)
			return nil
		}
		return fmt.Errorf("failed to read registry seed: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse registry seed: %w", err)
	}

	if len(entries) == 0 {
		return nil
	}

	if err := r.db.Create(&entries).Error; err != nil {
		return fmt.Errorf("failed to insert registry seed: %w", err)
	}

	r.logger.Infof("Seeded registry with %d postal codes", len(entries))
	return nil
}

// Lookup returns the staleness-adjusted reference price per square meter for
// a postal code, or nil when the code is absent or its price field is
// malformed. Malformed rows are treated exactly like missing ones.
func (r *Registry) Lookup(postalCode string) *float64 {
	var entry Entry
	err := r.db.Where("postal_code = ?", postalCode).First(&entry).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.WithError(err).WithField("postal_code", postalCode).
				Error("Registry lookup failed")
		}
		return nil
	}

	raw, ok := ParseLocalePrice(entry.PriceRaw)
	if !ok {
		r.logger.WithFields(logrus.Fields{
			"postal_code": postalCode,
			"price_raw":   entry.PriceRaw,
		}).Warn("Registry entry has unparsable price, treating as absent")
		return nil
	}

	price := math.Round(raw * StalenessFactor)
	return &price
}

// Find returns the stored entry for a postal code without price
// normalization, for operational inspection.
func (r *Registry) Find(postalCode string) (*Entry, error) {
	var entry Entry
	err := r.db.Where("postal_code = ?", postalCode).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}
