// Package models defines the core data types for Whaletrack
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RawPosition is one already-parsed holding tuple supplied by the filing
// client. Shares and value are trusted non-negative.
type RawPosition struct {
	Ticker string          `json:"ticker"`
	Shares int64           `json:"shares"`
	Value  decimal.Decimal `json:"value"`
}

// Position is one holding within a snapshot. Value is the market value
// reported by the filing, never negative.
type Position struct {
	Ticker string          `json:"ticker"`
	Shares int64           `json:"shares"`
	Value  decimal.Decimal `json:"value"`
}

// PerShareValue returns the reported value divided by shares, or zero for
// an empty position.
func (p Position) PerShareValue() decimal.Decimal {
	if p.Shares <= 0 {
		return decimal.Zero
	}
	return p.Value.Div(decimal.NewFromInt(p.Shares))
}

// HoldingsSnapshot is one point-in-time portfolio state: ticker → Position,
// tagged with the filing timestamp. Treat as immutable once constructed;
// a later filing supersedes it, never mutates it.
type HoldingsSnapshot struct {
	FiledAt   time.Time           `json:"filed_at"`
	Positions map[string]Position `json:"positions"`
}

// NewHoldingsSnapshot builds a snapshot from raw filing positions.
// Zero-share entries never enter a snapshot: a position sold to zero
// disappears from the set, surfacing later as CLOSED rather than as a
// zero-share residue.
func NewHoldingsSnapshot(raw []RawPosition, filedAt time.Time) *HoldingsSnapshot {
	positions := make(map[string]Position, len(raw))
	for _, rp := range raw {
		if rp.Ticker == "" || rp.Shares <= 0 {
			continue
		}
		positions[rp.Ticker] = Position{
			Ticker: rp.Ticker,
			Shares: rp.Shares,
			Value:  rp.Value,
		}
	}
	return &HoldingsSnapshot{
		FiledAt:   filedAt,
		Positions: positions,
	}
}

// Get returns the position for a ticker, if held.
func (s *HoldingsSnapshot) Get(ticker string) (Position, bool) {
	p, ok := s.Positions[ticker]
	return p, ok
}

// Tickers returns all held tickers in ascending lexical order.
func (s *HoldingsSnapshot) Tickers() []string {
	tickers := make([]string, 0, len(s.Positions))
	for t := range s.Positions {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// Len returns the number of held positions.
func (s *HoldingsSnapshot) Len() int {
	return len(s.Positions)
}

// IsEmpty reports whether the snapshot holds no positions.
func (s *HoldingsSnapshot) IsEmpty() bool {
	return len(s.Positions) == 0
}

// TotalValue sums the reported market value of every position.
func (s *HoldingsSnapshot) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Positions {
		total = total.Add(p.Value)
	}
	return total
}

// Fingerprint returns a deterministic digest of the position set, stable
// across input ordering. Used as the identity of a snapshot in cycle
// bookkeeping.
func (s *HoldingsSnapshot) Fingerprint() string {
	h := sha256.New()
	for _, ticker := range s.Tickers() {
		p := s.Positions[ticker]
		fmt.Fprintf(h, "%s|%d|%s\n", p.Ticker, p.Shares, p.Value.String())
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
