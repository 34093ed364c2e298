// Package report renders portfolio analyses to markdown, draws the
// holdings-concentration chart, writes both to the reports directory,
// and archives a durable copy.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"whaletrack/internal/common"
	"whaletrack/internal/interfaces"
	"whaletrack/internal/models"
)

// Service implements ReportService
type Service struct {
	storage interfaces.StorageManager
	gemini  interfaces.GeminiClient // nil when no API key is configured
	config  *common.Config
	logger  *common.Logger
}

// NewService creates a new report service. gemini may be nil, which
// disables the commentary section and nothing else.
func NewService(storage interfaces.StorageManager, gemini interfaces.GeminiClient, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		gemini:  gemini,
		config:  config,
		logger:  logger,
	}
}

// Generate renders the analysis, writes the markdown (and chart PNG when
// enabled) to the reports directory, and archives the report. Commentary
// and chart failures degrade the report; a failed file write or archive
// save fails the call.
func (s *Service) Generate(ctx context.Context, analysis *models.PortfolioAnalysis) (*models.ArchivedReport, error) {
	if analysis == nil {
		return nil, fmt.Errorf("no analysis to report")
	}

	name := fmt.Sprintf("%s_analysis_%s", s.config.Institution.Slug, analysis.GeneratedAt.Format("20060102_1504"))

	commentary := ""
	if s.gemini != nil {
		text, err := s.gemini.Commentary(ctx, analysis)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Commentary generation failed; section omitted")
		} else {
			commentary = text
		}
	}

	markdown := formatAnalysis(analysis, commentary)

	if err := os.MkdirAll(s.config.Reports.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create reports dir: %w", err)
	}

	mdPath := filepath.Join(s.config.Reports.Dir, name+".md")
	if err := os.WriteFile(mdPath, []byte(markdown), 0644); err != nil {
		return nil, fmt.Errorf("failed to write report file: %w", err)
	}

	var chartPNG []byte
	if s.config.Reports.Chart && len(analysis.Holdings) > 0 {
		png, err := RenderConcentrationChart(analysis.Holdings)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Concentration chart render failed; report continues without it")
		} else {
			chartPNG = png
			chartName := fmt.Sprintf("%s_concentration_%s.png", s.config.Institution.Slug, analysis.GeneratedAt.Format("20060102_1504"))
			if err := os.WriteFile(filepath.Join(s.config.Reports.Dir, chartName), png, 0644); err != nil {
				s.logger.Warn().Err(err).Str("chart", chartName).Msg("Failed to write chart file")
			}
		}
	}

	archived := &models.ArchivedReport{
		Name:        name,
		Institution: analysis.Institution,
		GeneratedAt: analysis.GeneratedAt,
		FiledAt:     analysis.FiledAt,
		Markdown:    markdown,
		ChartPNG:    chartPNG,
		Summary:     summarize(analysis),
		Analysis:    analysis,
	}

	if err := s.storage.Internal().SaveReport(ctx, archived); err != nil {
		return nil, fmt.Errorf("failed to archive report: %w", err)
	}

	s.logger.Info().
		Str("report", name).
		Str("path", mdPath).
		Int("bytes", len(markdown)).
		Bool("chart", chartPNG != nil).
		Bool("commentary", commentary != "").
		Msg("Report generated")

	return archived, nil
}

// summarize builds the one-line archive summary.
func summarize(analysis *models.PortfolioAnalysis) string {
	counts := models.CountByCategory(analysis.Changes)
	return fmt.Sprintf("%d positions, %s reported; %d new, %d increased, %d decreased, %d closed",
		len(analysis.Holdings), common.FormatCompactMoney(analysis.TotalValue),
		counts[models.ChangeNew], counts[models.ChangeIncreased],
		counts[models.ChangeDecreased], counts[models.ChangeClosed])
}

// Ensure Service implements ReportService
var _ interfaces.ReportService = (*Service)(nil)
