package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRecord is one cached market quote. Price and FetchedAt are always
// set; the remaining quote fields are report enrichment and may be zero
// when the provider omits them.
type PriceRecord struct {
	Ticker      string          `json:"ticker"`
	Price       decimal.Decimal `json:"price"`
	DayHigh     decimal.Decimal `json:"day_high"`
	DayLow      decimal.Decimal `json:"day_low"`
	PrevClose   decimal.Decimal `json:"prev_close"`
	Volume      int64           `json:"volume,omitempty"`
	Change1MPct float64         `json:"change_1m_pct,omitempty"`
	FetchedAt   time.Time       `json:"fetched_at"`
}

// Age returns how old the record is relative to now.
func (r *PriceRecord) Age(now time.Time) time.Duration {
	return now.Sub(r.FetchedAt)
}
