package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiadhikary/BVDU-Bank/book"
	"github.com/kaiadhikary/BVDU-Bank/market"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir())
}

func TestLoadMissingFilesYieldEmpty(t *testing.T) {
	s := newTestStore(t)

	assets, err := s.LoadPrices()
	assert.NoError(t, err)
	assert.Empty(t, assets)

	positions, err := s.LoadPositions()
	assert.NoError(t, err)
	assert.Empty(t, positions)

	_, ok, err := s.LoadRates()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestPricesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	stamp := time.Date(2025, 3, 10, 14, 30, 5, 0, time.Local)

	in := []market.Asset{
		{ID: "AAPL", Name: "Apple Inc", Price: 190.0, Volatility: 0.02, Market: market.US, LastUpdate: stamp, OpenHour: 9, CloseHour: 17},
		{ID: "BTC", Name: "Bitcoin", Price: 35000.1234, Volatility: 0.05, Market: market.US, LastUpdate: stamp, OpenHour: 0, CloseHour: 24},
	}
	require.NoError(t, s.SavePrices(in))

	out, err := s.LoadPrices()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in, out)
}

func TestPricesFileFormat(t *testing.T) {
	s := newTestStore(t)
	stamp := time.Date(2025, 3, 10, 14, 30, 5, 0, time.Local)

	require.NoError(t, s.SavePrices([]market.Asset{
		{ID: "AAPL", Name: "Apple Inc", Price: 190.0, Volatility: 0.02, Market: market.US, LastUpdate: stamp, OpenHour: 9, CloseHour: 17},
	}))

	data, err := os.ReadFile(filepath.Join(s.Dir(), PricesFile))
	require.NoError(t, err)
	assert.Equal(t, "AAPL|Apple Inc|190.0000|0.020000|US|2025-03-10 14:30:05|9|17\n", string(data))
}

func TestRatesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	stamp := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	in := market.Rates{INRPerUSD: 83.5, INRPerEUR: 88.2, LastUpdate: stamp}
	require.NoError(t, s.SaveRates(in))

	out, ok, err := s.LoadRates()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, out)

	data, err := os.ReadFile(filepath.Join(s.Dir(), FXFile))
	require.NoError(t, err)
	assert.Equal(t, "83.500000|88.200000|2025-03-10 09:00:00\n", string(data))
}

func TestPositionsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	in := []book.Position{
		{Account: 1001, AssetID: "AAPL", AssetName: "Apple Inc", Qty: 2, AvgPrice: 190.0, Market: market.US},
		{Account: 1002, AssetID: "INFY", AssetName: "Infosys Ltd", Qty: 10.5, AvgPrice: 1500.25, Market: market.IN},
	}
	require.NoError(t, s.SavePositions(in))

	out, err := s.LoadPositions()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoadStopsAtMalformedLine(t *testing.T) {
	s := newTestStore(t)

	content := "1001|AAPL|Apple Inc|2.000000|190.0000|US\n" +
		"1002|INFY|Infosys Ltd|not-a-number|1500.0000|IN\n" +
		"1003|TCS|TCS|1.000000|3200.0000|IN\n"
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), PositionsFile), []byte(content), 0o644))

	out, err := s.LoadPositions()
	require.NoError(t, err)
	// Fail-soft: the first record survives, the bad line and everything
	// after it is dropped.
	require.Len(t, out, 1)
	assert.Equal(t, "AAPL", out[0].AssetID)
}

func TestLoadStopsAtTruncatedLine(t *testing.T) {
	s := newTestStore(t)

	content := "AAPL|Apple Inc|190.0000|0.020000|US|2025-03-10 14:30:05|9|17\n" +
		"NVDA|NVIDIA Corp|190.0000\n"
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), PricesFile), []byte(content), 0o644))

	out, err := s.LoadPrices()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "AAPL", out[0].ID)
}

func TestAtomicWriteLeavesNoTempFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SavePrices([]market.Asset{{ID: "X", Name: "X", Price: 1, Market: market.IN}}))

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestAtomicWriteReplacesPrevious(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SavePrices([]market.Asset{{ID: "OLD", Name: "Old", Price: 1, Market: market.IN}}))
	require.NoError(t, s.SavePrices([]market.Asset{{ID: "NEW", Name: "New", Price: 2, Market: market.IN}}))

	out, err := s.LoadPrices()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "NEW", out[0].ID)
}

func TestFieldSafe(t *testing.T) {
	assert.True(t, FieldSafe("Apple Inc"))
	assert.False(t, FieldSafe("Apple|Inc"))
	assert.False(t, FieldSafe("two\nlines"))
}
