// Package interfaces defines service contracts for Whaletrack
package interfaces

import (
	"context"

	"whaletrack/internal/models"
)

// FilingClient provides access to the institutional holdings disclosures
type FilingClient interface {
	// LatestFiling retrieves the most recent holdings filing for a CIK,
	// with positions already aggregated and ticker-resolved.
	LatestFiling(ctx context.Context, cik string) (*models.InstitutionalFiling, error)
}

// PriceProvider resolves a live market quote for one ticker
type PriceProvider interface {
	// Quote retrieves a fresh quote. Failures surface per ticker; the
	// caller decides whether to degrade or abort.
	Quote(ctx context.Context, ticker string) (*models.PriceRecord, error)
}

// PriceLookupFunc adapts a bare lookup function to PriceProvider.
type PriceLookupFunc func(ctx context.Context, ticker string) (*models.PriceRecord, error)

// Quote implements PriceProvider.
func (f PriceLookupFunc) Quote(ctx context.Context, ticker string) (*models.PriceRecord, error) {
	return f(ctx, ticker)
}

// GeminiClient provides access to Gemini API
type GeminiClient interface {
	// GenerateContent generates AI content from a prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// Commentary generates reviewer notes for an analysis result
	Commentary(ctx context.Context, analysis *models.PortfolioAnalysis) (string, error)
}
