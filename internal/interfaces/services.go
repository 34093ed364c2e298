// Package interfaces defines service contracts for Whaletrack
package interfaces

import (
	"context"

	"whaletrack/internal/models"
)

// TrackerService drives one full analysis cycle
type TrackerService interface {
	// RunCycle diffs the filing against the stored previous snapshot,
	// records sales, merges prices, and returns the report-ready result.
	// Durable state is persisted only after the cycle completes.
	RunCycle(ctx context.Context, filing *models.InstitutionalFiling) (*models.PortfolioAnalysis, error)
}

// ReportService renders and stores analysis reports
type ReportService interface {
	// Generate renders the analysis to markdown (plus the concentration
	// chart when enabled), writes the files, and archives the report.
	Generate(ctx context.Context, analysis *models.PortfolioAnalysis) (*models.ArchivedReport, error)
}
