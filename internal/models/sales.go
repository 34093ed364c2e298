package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SaleType distinguishes a complete exit from a trim.
type SaleType string

const (
	SaleFullExit SaleType = "FULL_EXIT"
	SalePartial  SaleType = "PARTIAL"
)

// SaleRecord is one realized sale/exit fact derived from a diff.
// Append-only: once written to the ledger it is never mutated or removed.
// FullExit implies the ticker's post-sale shares were zero in the
// corresponding snapshot.
type SaleRecord struct {
	ID              string          `json:"id"`
	Cycle           string          `json:"cycle"` // snapshot-transition key that produced this record
	Ticker          string          `json:"ticker"`
	SharesSold      int64           `json:"shares_sold"`
	SaleType        SaleType        `json:"sale_type"`
	ValueAtSale     decimal.Decimal `json:"value_at_sale"`
	RemainingShares int64           `json:"remaining_shares"`
	RecordedAt      time.Time       `json:"recorded_at"`
}

// Validate checks the ledger invariants for a single record.
func (r *SaleRecord) Validate() error {
	if r.Ticker == "" {
		return fmt.Errorf("sale record missing ticker")
	}
	if r.SharesSold <= 0 {
		return fmt.Errorf("sale record for %s has non-positive shares_sold %d", r.Ticker, r.SharesSold)
	}
	switch r.SaleType {
	case SaleFullExit:
		if r.RemainingShares != 0 {
			return fmt.Errorf("full exit for %s left %d remaining shares", r.Ticker, r.RemainingShares)
		}
	case SalePartial:
		if r.RemainingShares <= 0 {
			return fmt.Errorf("partial sale for %s left %d remaining shares", r.Ticker, r.RemainingShares)
		}
	default:
		return fmt.Errorf("sale record for %s has unknown sale type %q", r.Ticker, r.SaleType)
	}
	return nil
}
