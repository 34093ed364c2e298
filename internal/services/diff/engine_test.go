package diff

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whaletrack/internal/models"
)

func position(ticker string, shares int64, value string) models.RawPosition {
	return models.RawPosition{Ticker: ticker, Shares: shares, Value: decimal.RequireFromString(value)}
}

func snapshot(filedAt time.Time, positions ...models.RawPosition) *models.HoldingsSnapshot {
	return models.NewHoldingsSnapshot(positions, filedAt)
}

func TestDiffBootstrap(t *testing.T) {
	engine := NewEngine()
	current := snapshot(time.Now(),
		position("MSFT", 50, "2000"),
		position("AAPL", 100, "15000"),
	)

	changes := engine.Diff(nil, current)

	require.Len(t, changes, 2)
	for _, ch := range changes {
		assert.Equal(t, models.ChangeNew, ch.Category)
		assert.Zero(t, ch.PreviousShares)
	}
	// Ascending ticker within the single NEW group.
	assert.Equal(t, "AAPL", changes[0].Ticker)
	assert.Equal(t, "MSFT", changes[1].Ticker)
}

func TestDiffClassification(t *testing.T) {
	filed := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	previous := snapshot(filed,
		position("AAPL", 100, "15000"), // unchanged
		position("BAC", 500, "20000"),  // decreased
		position("KO", 300, "18000"),   // closed
		position("OXY", 50, "3000"),    // increased
	)
	current := snapshot(filed.AddDate(0, 3, 0),
		position("AAPL", 100, "15500"),
		position("BAC", 200, "8400"),
		position("OXY", 80, "4800"),
		position("TSM", 60, "6000"), // new
	)

	engine := NewEngine()
	changes := engine.Diff(previous, current)
	require.Len(t, changes, 5)

	byTicker := make(map[string]models.PositionChange)
	for _, ch := range changes {
		byTicker[ch.Ticker] = ch
	}

	assert.Equal(t, models.ChangeUnchanged, byTicker["AAPL"].Category)
	assert.Equal(t, models.ChangeDecreased, byTicker["BAC"].Category)
	assert.Equal(t, models.ChangeClosed, byTicker["KO"].Category)
	assert.Equal(t, models.ChangeIncreased, byTicker["OXY"].Category)
	assert.Equal(t, models.ChangeNew, byTicker["TSM"].Category)

	// Closed entries carry the previous side only.
	closed := byTicker["KO"]
	assert.Equal(t, int64(300), closed.PreviousShares)
	assert.Zero(t, closed.CurrentShares)
	assert.Equal(t, "18000", closed.PreviousValue.String())

	// New entries carry the current side only.
	added := byTicker["TSM"]
	assert.Zero(t, added.PreviousShares)
	assert.Equal(t, int64(60), added.CurrentShares)

	// Both sides populated for survivors.
	trimmed := byTicker["BAC"]
	assert.Equal(t, int64(500), trimmed.PreviousShares)
	assert.Equal(t, int64(200), trimmed.CurrentShares)
	assert.Equal(t, int64(-300), trimmed.SharesDelta())
}

func TestDiffOrdering(t *testing.T) {
	filed := time.Now()
	previous := snapshot(filed,
		position("ZZ", 10, "100"), // will close
		position("AA", 10, "100"), // will close
		position("MM", 10, "100"), // will decrease
		position("KK", 10, "100"), // unchanged
	)
	current := snapshot(filed.AddDate(0, 3, 0),
		position("MM", 5, "50"),
		position("KK", 10, "100"),
		position("XX", 10, "100"), // new
		position("BB", 10, "100"), // new
	)

	changes := NewEngine().Diff(previous, current)

	var got []string
	for _, ch := range changes {
		got = append(got, ch.Category.String()+":"+ch.Ticker)
	}
	// Fixed category order, ascending ticker within each category.
	assert.Equal(t, []string{
		"CLOSED:AA", "CLOSED:ZZ",
		"DECREASED:MM",
		"NEW:BB", "NEW:XX",
		"UNCHANGED:KK",
	}, got)
}

func TestDiffReentryAfterClose(t *testing.T) {
	engine := NewEngine()
	t1 := snapshot(time.Now(), position("KO", 300, "18000"))
	t2 := snapshot(time.Now(), position("AAPL", 10, "1500"))
	t3 := snapshot(time.Now(),
		position("AAPL", 10, "1500"),
		position("KO", 100, "6000"),
	)

	// KO exits between t1 and t2.
	changes := engine.Diff(t1, t2)
	byTicker := make(map[string]models.PositionChange)
	for _, ch := range changes {
		byTicker[ch.Ticker] = ch
	}
	assert.Equal(t, models.ChangeClosed, byTicker["KO"].Category)

	// Re-entry between t2 and t3 reports as NEW, carrying no memory of
	// the earlier position.
	changes = engine.Diff(t2, t3)
	byTicker = make(map[string]models.PositionChange)
	for _, ch := range changes {
		byTicker[ch.Ticker] = ch
	}
	assert.Equal(t, models.ChangeNew, byTicker["KO"].Category)
	assert.Zero(t, byTicker["KO"].PreviousShares)
}

func TestDiffEmptyCurrent(t *testing.T) {
	previous := snapshot(time.Now(),
		position("AAPL", 100, "15000"),
		position("KO", 300, "18000"),
	)
	current := snapshot(time.Now())

	changes := NewEngine().Diff(previous, current)
	require.Len(t, changes, 2)
	for _, ch := range changes {
		assert.Equal(t, models.ChangeClosed, ch.Category)
	}
}

func TestSaleRecordsFor(t *testing.T) {
	filed := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	previous := snapshot(filed,
		position("AAPL", 100, "15000"),
		position("BAC", 500, "20000"),
		position("KO", 300, "18000"),
	)
	current := snapshot(filed.AddDate(0, 3, 0),
		position("AAPL", 100, "15500"),
		position("BAC", 200, "8400"),
		position("TSM", 60, "6000"),
	)

	engine := NewEngine()
	changes := engine.Diff(previous, current)
	recordedAt := time.Date(2026, 8, 14, 9, 0, 0, 0, time.UTC)
	records := engine.SaleRecordsFor(changes, "abc123", recordedAt)

	// Only CLOSED and DECREASED produce sale records.
	require.Len(t, records, 2)
	byTicker := make(map[string]models.SaleRecord)
	for _, rec := range records {
		byTicker[rec.Ticker] = rec
	}

	// Full exit: entire last reported value.
	exit := byTicker["KO"]
	assert.Equal(t, models.SaleFullExit, exit.SaleType)
	assert.Equal(t, int64(300), exit.SharesSold)
	assert.Zero(t, exit.RemainingShares)
	assert.Equal(t, "18000", exit.ValueAtSale.String())

	// Partial: sold shares at the surviving position's per-share value.
	// 8400 / 200 = 42 per share, 300 sold → 12600.
	trim := byTicker["BAC"]
	assert.Equal(t, models.SalePartial, trim.SaleType)
	assert.Equal(t, int64(300), trim.SharesSold)
	assert.Equal(t, int64(200), trim.RemainingShares)
	assert.Equal(t, "12600", trim.ValueAtSale.String())

	for _, rec := range records {
		assert.NoError(t, rec.Validate())
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, "abc123", rec.Cycle)
		assert.Equal(t, recordedAt, rec.RecordedAt)
	}
}

func TestSaleRecordsForNoSales(t *testing.T) {
	filed := time.Now()
	previous := snapshot(filed, position("AAPL", 100, "15000"))
	current := snapshot(filed.AddDate(0, 3, 0),
		position("AAPL", 150, "23000"),
		position("TSM", 60, "6000"),
	)

	engine := NewEngine()
	records := engine.SaleRecordsFor(engine.Diff(previous, current), "cycle", time.Now())
	assert.Empty(t, records)
}

func TestTransitionKey(t *testing.T) {
	filed := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	a := snapshot(filed, position("AAPL", 100, "15000"))
	b := snapshot(filed.AddDate(0, 3, 0), position("AAPL", 50, "7800"))

	key := TransitionKey(a, b)
	assert.Len(t, key, 16)

	// Deterministic for identical inputs, distinct for different ones.
	assert.Equal(t, key, TransitionKey(a, b))
	assert.NotEqual(t, key, TransitionKey(b, a))
	assert.NotEqual(t, key, TransitionKey(nil, b))

	// Bootstrap (nil previous) keys differently than an empty snapshot.
	empty := snapshot(filed)
	assert.NotEqual(t, TransitionKey(nil, b), TransitionKey(empty, b))
}
