package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ChangeCategory classifies how a position moved between two snapshots.
// The numeric order is the fixed report grouping order.
type ChangeCategory int

const (
	ChangeClosed ChangeCategory = iota
	ChangeDecreased
	ChangeNew
	ChangeIncreased
	ChangeUnchanged
)

var changeCategoryNames = map[ChangeCategory]string{
	ChangeClosed:    "CLOSED",
	ChangeDecreased: "DECREASED",
	ChangeNew:       "NEW",
	ChangeIncreased: "INCREASED",
	ChangeUnchanged: "UNCHANGED",
}

// String returns the category name.
func (c ChangeCategory) String() string {
	if name, ok := changeCategoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ChangeCategory(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler so categories serialize by name.
func (c ChangeCategory) MarshalText() ([]byte, error) {
	name, ok := changeCategoryNames[c]
	if !ok {
		return nil, fmt.Errorf("unknown change category %d", int(c))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ChangeCategory) UnmarshalText(text []byte) error {
	for cat, name := range changeCategoryNames {
		if name == string(text) {
			*c = cat
			return nil
		}
	}
	return fmt.Errorf("unknown change category %q", string(text))
}

// IsSale reports whether entries of this category produce a sale record.
func (c ChangeCategory) IsSale() bool {
	return c == ChangeClosed || c == ChangeDecreased
}

// PositionChange is one classified delta between consecutive snapshots.
// Produced fresh each diff cycle and never persisted as-is; only the
// sale facts derived from CLOSED/DECREASED entries reach the ledger.
type PositionChange struct {
	Ticker         string          `json:"ticker"`
	Category       ChangeCategory  `json:"category"`
	PreviousShares int64           `json:"previous_shares"`
	CurrentShares  int64           `json:"current_shares"`
	PreviousValue  decimal.Decimal `json:"previous_value"`
	CurrentValue   decimal.Decimal `json:"current_value"`
}

// SharesDelta returns current minus previous shares.
func (pc PositionChange) SharesDelta() int64 {
	return pc.CurrentShares - pc.PreviousShares
}

// CountByCategory tallies a change set by category.
func CountByCategory(changes []PositionChange) map[ChangeCategory]int {
	counts := make(map[ChangeCategory]int, len(changeCategoryNames))
	for _, ch := range changes {
		counts[ch.Category]++
	}
	return counts
}
