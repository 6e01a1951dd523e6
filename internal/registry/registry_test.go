package registry

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	logger := logrus.New()
	reg, err := NewRegistry(":memory:", logger)
	require.NoError(t, err)
	return reg
}

func TestRegistry_Lookup(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.db.Create(&Entry{
		PostalCode:   "46021",
		Municipality: "Valencia",
		PriceRaw:     "2.015",
	}).Error)

	price := reg.Lookup("46021")
	require.NotNil(t, price)
	// 2015 scaled by the staleness factor, rounded
	assert.Equal(t, 2317.0, *price)
}

func TestRegistry_Lookup_StalenessRounding(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.db.Create(&Entry{
		PostalCode: "41010",
		PriceRaw:   "1.866",
	}).Error)

	price := reg.Lookup("41010")
	require.NotNil(t, price)
	// 1866 * 1.15 = 2145.9, rounds to 2146
	assert.Equal(t, 2146.0, *price)
}

func TestRegistry_Lookup_Missing(t *testing.T) {
	reg := newTestRegistry(t)
	assert.Nil(t, reg.Lookup("99999"))
}

func TestRegistry_Lookup_MalformedPrice(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.db.Create(&Entry{
		PostalCode: "28012",
		PriceRaw:   "n/a",
	}).Error)
	require.NoError(t, reg.db.Create(&Entry{
		PostalCode: "28013",
		PriceRaw:   "",
	}).Error)

	// Malformed prices behave exactly like missing entries
	assert.Nil(t, reg.Lookup("28012"))
	assert.Nil(t, reg.Lookup("28013"))
}

func TestRegistry_Find(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.db.Create(&Entry{
		PostalCode:   "08025",
		Municipality: "Barcelona",
		PriceRaw:     "3.640",
		Year:         2023,
	}).Error)

	entry, err := reg.Find("08025")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Barcelona", entry.Municipality)
	assert.Equal(t, "3.640", entry.PriceRaw)

	entry, err = reg.Find("00000")
	require.NoError(t, err)
	assert.Nil(t, entry)
}
