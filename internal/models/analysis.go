package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricedHolding pairs a current position with its resolved quote.
// Stale means the quote on hand is older than the cache TTL (the fresh
// fetch failed); Unavailable means no quote exists at all. Weight is the
// position's share of total portfolio value, in percent.
type PricedHolding struct {
	Position    Position     `json:"position"`
	Price       *PriceRecord `json:"price,omitempty"`
	Stale       bool         `json:"stale,omitempty"`
	Unavailable bool         `json:"unavailable,omitempty"`
	WeightPct   float64      `json:"weight_pct"`
}

// PortfolioAnalysis is the report-ready result of one analysis cycle.
// Changes are grouped CLOSED, DECREASED, NEW, INCREASED, UNCHANGED and
// ticker-ordered within each group; Holdings are ticker-ordered; sale
// slices are chronological.
type PortfolioAnalysis struct {
	Institution string           `json:"institution"`
	CIK         string           `json:"cik"`
	GeneratedAt time.Time        `json:"generated_at"`
	FiledAt     time.Time        `json:"filed_at"`
	AccessionNo string           `json:"accession_no,omitempty"`
	Changes     []PositionChange `json:"changes"`
	Holdings    []PricedHolding  `json:"holdings"`
	RecentSales []SaleRecord     `json:"recent_sales"`
	SaleHistory []SaleRecord     `json:"sale_history"`
	TotalValue  decimal.Decimal  `json:"total_value"`
	Suspicious  bool             `json:"suspicious,omitempty"`
	Warnings    []string         `json:"warnings,omitempty"`
	Persisted   bool             `json:"persisted"`
}

// ChangesInCategory returns the subset of changes with the given category,
// preserving order.
func (a *PortfolioAnalysis) ChangesInCategory(cat ChangeCategory) []PositionChange {
	var out []PositionChange
	for _, ch := range a.Changes {
		if ch.Category == cat {
			out = append(out, ch)
		}
	}
	return out
}

// HeldTickers returns the set of currently held tickers.
func (a *PortfolioAnalysis) HeldTickers() map[string]bool {
	held := make(map[string]bool, len(a.Holdings))
	for _, h := range a.Holdings {
		held[h.Position.Ticker] = true
	}
	return held
}

// ArchivedReport is the durable copy of a rendered analysis report.
// It carries the full analysis alongside the rendered markdown so the
// status server can serve results without touching the live stores.
type ArchivedReport struct {
	Name        string             `json:"name"` // archive key, e.g. berkshire_analysis_20260515_0900
	Institution string             `json:"institution"`
	GeneratedAt time.Time          `json:"generated_at"`
	FiledAt     time.Time          `json:"filed_at"`
	Markdown    string             `json:"markdown"`
	ChartPNG    []byte             `json:"chart_png,omitempty"`
	Summary     string             `json:"summary,omitempty"`
	Analysis    *PortfolioAnalysis `json:"analysis,omitempty"`
}
