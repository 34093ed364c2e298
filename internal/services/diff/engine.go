// Package diff computes classified position changes between consecutive
// holdings snapshots and derives the sale facts they imply.
package diff

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"whaletrack/internal/models"
)

// Engine classifies movements between two snapshots.
type Engine struct{}

// NewEngine creates a new diff engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Diff classifies every ticker in the union of previous and current into
// exactly one category. A nil previous snapshot is the bootstrap case:
// every current position is NEW, never a spray of false CLOSED entries.
//
// Output ordering is fixed: CLOSED, DECREASED, NEW, INCREASED, UNCHANGED,
// ascending ticker within each category.
func (e *Engine) Diff(previous, current *models.HoldingsSnapshot) []models.PositionChange {
	if previous == nil {
		changes := make([]models.PositionChange, 0, current.Len())
		for _, ticker := range current.Tickers() {
			p, _ := current.Get(ticker)
			changes = append(changes, models.PositionChange{
				Ticker:        ticker,
				Category:      models.ChangeNew,
				CurrentShares: p.Shares,
				CurrentValue:  p.Value,
			})
		}
		return changes
	}

	union := make(map[string]bool, previous.Len()+current.Len())
	for t := range previous.Positions {
		union[t] = true
	}
	for t := range current.Positions {
		union[t] = true
	}

	changes := make([]models.PositionChange, 0, len(union))
	for ticker := range union {
		prev, hadPrev := previous.Get(ticker)
		cur, hasCur := current.Get(ticker)

		ch := models.PositionChange{Ticker: ticker}
		switch {
		case hadPrev && !hasCur:
			ch.Category = models.ChangeClosed
			ch.PreviousShares = prev.Shares
			ch.PreviousValue = prev.Value
		case !hadPrev && hasCur:
			ch.Category = models.ChangeNew
			ch.CurrentShares = cur.Shares
			ch.CurrentValue = cur.Value
		default:
			ch.PreviousShares = prev.Shares
			ch.PreviousValue = prev.Value
			ch.CurrentShares = cur.Shares
			ch.CurrentValue = cur.Value
			switch {
			case cur.Shares > prev.Shares:
				ch.Category = models.ChangeIncreased
			case cur.Shares < prev.Shares:
				ch.Category = models.ChangeDecreased
			default:
				ch.Category = models.ChangeUnchanged
			}
		}
		changes = append(changes, ch)
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Category != changes[j].Category {
			return changes[i].Category < changes[j].Category
		}
		return changes[i].Ticker < changes[j].Ticker
	})
	return changes
}

// SaleRecordsFor derives the realized-sale facts from a change set. Only
// CLOSED and DECREASED entries produce records. A full exit is valued at
// the position's entire last reported value; a partial sale at the sold
// shares times the surviving position's per-share value. Every record is
// stamped with the transition key that produced it.
func (e *Engine) SaleRecordsFor(changes []models.PositionChange, cycle string, recordedAt time.Time) []models.SaleRecord {
	var records []models.SaleRecord
	for _, ch := range changes {
		if !ch.Category.IsSale() {
			continue
		}
		sharesSold := ch.PreviousShares - ch.CurrentShares
		rec := models.SaleRecord{
			ID:              uuid.New().String(),
			Cycle:           cycle,
			Ticker:          ch.Ticker,
			SharesSold:      sharesSold,
			RemainingShares: ch.CurrentShares,
			RecordedAt:      recordedAt,
		}
		if ch.Category == models.ChangeClosed {
			rec.SaleType = models.SaleFullExit
			rec.ValueAtSale = ch.PreviousValue
		} else {
			rec.SaleType = models.SalePartial
			perShare := ch.CurrentValue.Div(decimal.NewFromInt(ch.CurrentShares))
			rec.ValueAtSale = perShare.Mul(decimal.NewFromInt(sharesSold))
		}
		records = append(records, rec)
	}
	return records
}

// TransitionKey returns the deterministic identity of a snapshot
// transition, used to stamp sale records and detect replayed cycles.
// The nil previous (bootstrap) side hashes as empty, which stays
// distinct from an empty snapshot's fingerprint.
func TransitionKey(previous, current *models.HoldingsSnapshot) string {
	prevFP := ""
	if previous != nil {
		prevFP = previous.Fingerprint()
	}
	h := sha256.Sum256([]byte(prevFP + "|" + current.Fingerprint()))
	return hex.EncodeToString(h[:])[:16]
}
