package report

import (
	"fmt"
	"strings"

	"whaletrack/internal/common"
	"whaletrack/internal/models"
)

// formatAnalysis renders the full markdown report. Section order is fixed:
// header, completely sold, recent sales, sale history, position changes,
// current holdings, commentary, warnings.
func formatAnalysis(analysis *models.PortfolioAnalysis, commentary string) string {
	var sb strings.Builder

	sb.WriteString(formatHeader(analysis))
	sb.WriteString(formatCompletelySold(analysis))
	sb.WriteString(formatSaleTable("Recent Sales (Last 30 Days)", analysis.RecentSales, "No sales in the last 30 days."))
	sb.WriteString(formatSaleTable("Complete Sale History", analysis.SaleHistory, "No historical sales recorded yet."))
	sb.WriteString(formatPositionChanges(analysis))
	sb.WriteString(formatHoldings(analysis))

	if commentary != "" {
		sb.WriteString("## Commentary\n\n")
		sb.WriteString(strings.TrimSpace(commentary))
		sb.WriteString("\n\n")
	}

	sb.WriteString(formatWarnings(analysis))

	return sb.String()
}

func formatHeader(analysis *models.PortfolioAnalysis) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Holdings Analysis: %s\n\n", analysis.Institution))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n", analysis.GeneratedAt.Format("2006-01-02 15:04")))
	if !analysis.FiledAt.IsZero() {
		sb.WriteString(fmt.Sprintf("**Filing Date:** %s\n", analysis.FiledAt.Format("2006-01-02")))
	}
	if analysis.AccessionNo != "" {
		sb.WriteString(fmt.Sprintf("**Accession:** %s\n", analysis.AccessionNo))
	}
	if analysis.CIK != "" {
		sb.WriteString(fmt.Sprintf("**CIK:** %s\n", analysis.CIK))
	}
	sb.WriteString(fmt.Sprintf("**Positions:** %d\n", len(analysis.Holdings)))
	sb.WriteString(fmt.Sprintf("**Reported Value:** %s\n\n", common.FormatCompactMoney(analysis.TotalValue)))

	return sb.String()
}

// formatCompletelySold lists FULL_EXIT tickers no longer held, most
// recent exit first. A ticker re-entered since its exit stays out of
// this view; its exit remains visible in the history tables.
func formatCompletelySold(analysis *models.PortfolioAnalysis) string {
	var sb strings.Builder

	sb.WriteString("## Completely Sold Positions\n\n")

	held := analysis.HeldTickers()
	var exits []models.SaleRecord
	for _, rec := range analysis.SaleHistory {
		if rec.SaleType == models.SaleFullExit && !held[rec.Ticker] {
			exits = append(exits, rec)
		}
	}

	if len(exits) == 0 {
		sb.WriteString("No completely sold positions recorded yet.\n\n")
		return sb.String()
	}

	// SaleHistory is ascending; walk backwards for most-recent-first.
	sb.WriteString("| Ticker | Exit Date | Shares Sold | Exit Value |\n")
	sb.WriteString("|--------|-----------|-------------|------------|\n")
	for i := len(exits) - 1; i >= 0; i-- {
		rec := exits[i]
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			rec.Ticker, rec.RecordedAt.Format("2006-01-02"),
			common.FormatShares(rec.SharesSold), common.FormatMoney(rec.ValueAtSale)))
	}
	sb.WriteString("\n")

	return sb.String()
}

func formatSaleTable(title string, sales []models.SaleRecord, emptyNote string) string {
	var sb strings.Builder

	sb.WriteString("## " + title + "\n\n")

	if len(sales) == 0 {
		sb.WriteString(emptyNote + "\n\n")
		return sb.String()
	}

	sb.WriteString("| Date | Ticker | Type | Shares Sold | Sale Value | Remaining |\n")
	sb.WriteString("|------|--------|------|-------------|------------|-----------|\n")
	for _, rec := range sales {
		saleType := "Partial"
		remaining := common.FormatShares(rec.RemainingShares)
		if rec.SaleType == models.SaleFullExit {
			saleType = "Full Exit"
			remaining = "-"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			rec.RecordedAt.Format("2006-01-02"), rec.Ticker, saleType,
			common.FormatShares(rec.SharesSold), common.FormatMoney(rec.ValueAtSale), remaining))
	}
	sb.WriteString("\n")

	return sb.String()
}

// formatPositionChanges renders the change set grouped in its fixed
// category order. Changes arrive already grouped and ticker-sorted, so
// the formatter only splits on category boundaries.
func formatPositionChanges(analysis *models.PortfolioAnalysis) string {
	var sb strings.Builder

	sb.WriteString("## Position Changes\n\n")

	if len(analysis.Changes) == 0 {
		sb.WriteString("No positions to compare.\n\n")
		return sb.String()
	}

	sections := []struct {
		category models.ChangeCategory
		title    string
	}{
		{models.ChangeClosed, "Closed Positions (Complete Sales)"},
		{models.ChangeDecreased, "Decreased Positions (Partial Sales)"},
		{models.ChangeNew, "New Positions"},
		{models.ChangeIncreased, "Increased Positions"},
		{models.ChangeUnchanged, "Unchanged Positions"},
	}

	for _, section := range sections {
		changes := analysis.ChangesInCategory(section.category)
		if len(changes) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("### %s\n\n", section.title))
		sb.WriteString("| Ticker | Previous Shares | Current Shares | Shares Change | Previous Value | Current Value |\n")
		sb.WriteString("|--------|-----------------|----------------|---------------|----------------|---------------|\n")
		for _, ch := range changes {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
				ch.Ticker,
				common.FormatShares(ch.PreviousShares), common.FormatShares(ch.CurrentShares),
				formatSharesDelta(ch.SharesDelta()),
				common.FormatMoney(ch.PreviousValue), common.FormatMoney(ch.CurrentValue)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatHoldings(analysis *models.PortfolioAnalysis) string {
	var sb strings.Builder

	sb.WriteString("## Current Holdings\n\n")

	if len(analysis.Holdings) == 0 {
		sb.WriteString("No current holdings.\n\n")
		return sb.String()
	}

	sb.WriteString("| Ticker | Shares | Price | Day Range | Volume | 1M Change | Reported Value | Weight |\n")
	sb.WriteString("|--------|--------|-------|-----------|--------|-----------|----------------|--------|\n")
	for _, h := range analysis.Holdings {
		price, dayRange, volume, change := "n/a", "-", "-", "-"
		if h.Price != nil {
			price = common.FormatMoney(h.Price.Price)
			if h.Stale {
				price += " (stale)"
			}
			if h.Price.DayLow.IsPositive() && h.Price.DayHigh.IsPositive() {
				dayRange = fmt.Sprintf("%s - %s", common.FormatMoney(h.Price.DayLow), common.FormatMoney(h.Price.DayHigh))
			}
			if h.Price.Volume > 0 {
				volume = common.FormatShares(h.Price.Volume)
			}
			if h.Price.Change1MPct != 0 {
				change = common.FormatSignedPct(h.Price.Change1MPct)
			}
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %.1f%% |\n",
			h.Position.Ticker, common.FormatShares(h.Position.Shares), price,
			dayRange, volume, change,
			common.FormatMoney(h.Position.Value), h.WeightPct))
	}
	sb.WriteString("\n")

	return sb.String()
}

func formatWarnings(analysis *models.PortfolioAnalysis) string {
	if len(analysis.Warnings) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Warnings\n\n")
	if analysis.Suspicious {
		sb.WriteString("**This analysis is flagged suspicious; durable state was not updated.**\n\n")
	}
	for _, w := range analysis.Warnings {
		sb.WriteString(fmt.Sprintf("- %s\n", w))
	}
	sb.WriteString("\n")
	return sb.String()
}

func formatSharesDelta(delta int64) string {
	if delta > 0 {
		return "+" + common.FormatShares(delta)
	}
	return common.FormatShares(delta)
}
