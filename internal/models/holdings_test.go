package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func rawPos(ticker string, shares int64, value int64) RawPosition {
	return RawPosition{Ticker: ticker, Shares: shares, Value: decimal.NewFromInt(value)}
}

func TestNewHoldingsSnapshotDropsEmptyEntries(t *testing.T) {
	filed := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	snap := NewHoldingsSnapshot([]RawPosition{
		rawPos("AAPL", 100, 21000),
		rawPos("KO", 0, 500),
		rawPos("", 50, 1000),
	}, filed)

	if snap.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (zero-share and unnamed entries dropped)", snap.Len())
	}
	if _, ok := snap.Get("KO"); ok {
		t.Error("zero-share position entered the snapshot")
	}
	if !snap.FiledAt.Equal(filed) {
		t.Errorf("FiledAt = %v, want %v", snap.FiledAt, filed)
	}
}

func TestFingerprintStableAcrossInputOrder(t *testing.T) {
	filed := time.Now()
	a := NewHoldingsSnapshot([]RawPosition{
		rawPos("AAPL", 100, 21000),
		rawPos("KO", 200, 12000),
		rawPos("BAC", 50, 2500),
	}, filed)
	b := NewHoldingsSnapshot([]RawPosition{
		rawPos("BAC", 50, 2500),
		rawPos("KO", 200, 12000),
		rawPos("AAPL", 100, 21000),
	}, filed)

	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("fingerprints differ across input order: %s vs %s", a.Fingerprint(), b.Fingerprint())
	}
}

func TestFingerprintReflectsContent(t *testing.T) {
	filed := time.Now()
	a := NewHoldingsSnapshot([]RawPosition{rawPos("AAPL", 100, 21000)}, filed)
	b := NewHoldingsSnapshot([]RawPosition{rawPos("AAPL", 60, 12600)}, filed)
	empty := NewHoldingsSnapshot(nil, filed)

	if a.Fingerprint() == b.Fingerprint() {
		t.Error("different share counts produced the same fingerprint")
	}
	if a.Fingerprint() == empty.Fingerprint() {
		t.Error("empty snapshot shares a fingerprint with a populated one")
	}
}

func TestSnapshotTotalValue(t *testing.T) {
	snap := NewHoldingsSnapshot([]RawPosition{
		rawPos("AAPL", 100, 21000),
		rawPos("KO", 200, 12000),
	}, time.Now())

	if !snap.TotalValue().Equal(decimal.NewFromInt(33000)) {
		t.Errorf("TotalValue = %s, want 33000", snap.TotalValue())
	}
}

func TestPerShareValue(t *testing.T) {
	p := Position{Ticker: "AAPL", Shares: 100, Value: decimal.NewFromInt(21000)}
	if !p.PerShareValue().Equal(decimal.NewFromInt(210)) {
		t.Errorf("PerShareValue = %s, want 210", p.PerShareValue())
	}

	empty := Position{Ticker: "X"}
	if !empty.PerShareValue().IsZero() {
		t.Errorf("PerShareValue for empty position = %s, want 0", empty.PerShareValue())
	}
}
