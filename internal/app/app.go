// Package app wires configuration, storage, clients, and services into
// a running application. It is the shared core used by cmd/whaletrack-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"whaletrack/internal/clients/edgar"
	"whaletrack/internal/clients/gemini"
	"whaletrack/internal/clients/yahoo"
	"whaletrack/internal/common"
	"whaletrack/internal/interfaces"
	"whaletrack/internal/services/report"
	"whaletrack/internal/services/tracker"
	"whaletrack/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Storage       interfaces.StorageManager
	FilingClient  interfaces.FilingClient
	PriceProvider interfaces.PriceProvider
	GeminiClient  interfaces.GeminiClient
	Tracker       interfaces.TrackerService
	Report        interfaces.ReportService
	Scheduler     *Scheduler
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services from configuration.
// configPath may be empty, in which case the default resolution logic is
// used: WHALETRACK_CONFIG, whaletrack.toml next to the binary, then
// config/whaletrack.toml.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	common.LoadVersionFromFile()

	binDir := getBinaryDir()
	if configPath == "" {
		configPath = os.Getenv("WHALETRACK_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "whaletrack.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/whaletrack.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage paths to the binary directory so the
	// daemon is self-contained wherever it is installed.
	if config.Storage.Data.Path != "" && !filepath.IsAbs(config.Storage.Data.Path) {
		config.Storage.Data.Path = filepath.Join(binDir, config.Storage.Data.Path)
	}
	if config.Storage.Internal.Path != "" && !filepath.IsAbs(config.Storage.Internal.Path) {
		config.Storage.Internal.Path = filepath.Join(binDir, config.Storage.Internal.Path)
	}
	if config.Reports.Dir != "" && !filepath.IsAbs(config.Reports.Dir) {
		config.Reports.Dir = filepath.Join(binDir, config.Reports.Dir)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	filingClient := edgar.NewClient(config.Filings.UserAgent,
		edgar.WithSubmissionsURL(config.Filings.SubmissionsURL),
		edgar.WithArchivesURL(config.Filings.ArchivesURL),
		edgar.WithLogger(logger.WithComponent("edgar")),
		edgar.WithRateLimit(config.Filings.RateLimit),
		edgar.WithTimeout(config.Filings.GetTimeout()),
		edgar.WithTickerOverrides(config.Filings.TickerOverrides),
	)

	priceProvider := yahoo.NewClient(
		yahoo.WithBaseURL(config.Prices.BaseURL),
		yahoo.WithLogger(logger.WithComponent("yahoo")),
		yahoo.WithRateLimit(config.Prices.RateLimit),
		yahoo.WithTimeout(config.Prices.GetTimeout()),
	)

	var geminiClient interfaces.GeminiClient
	if config.Gemini.APIKey != "" {
		client, err := gemini.NewClient(context.Background(), config.Gemini.APIKey,
			gemini.WithLogger(logger.WithComponent("gemini")),
			gemini.WithModel(config.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client; commentary disabled")
		} else {
			geminiClient = client
		}
	} else {
		logger.Info().Msg("Gemini API key not configured; commentary disabled")
	}

	trackerService := tracker.NewService(storageManager, priceProvider, config, logger.WithComponent("tracker"))
	reportService := report.NewService(storageManager, geminiClient, config, logger.WithComponent("report"))

	a := &App{
		Config:        config,
		Logger:        logger,
		Storage:       storageManager,
		FilingClient:  filingClient,
		PriceProvider: priceProvider,
		GeminiClient:  geminiClient,
		Tracker:       trackerService,
		Report:        reportService,
		Scheduler:     NewScheduler(logger),
		StartupTime:   startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// RunAnalysisCycle fetches the latest filing and drives one full cycle:
// diff, ledger, prices, report. Returns the archive name on success.
func (a *App) RunAnalysisCycle(ctx context.Context) error {
	start := time.Now()
	cik := a.Config.Institution.PaddedCIK()

	filing, err := a.FilingClient.LatestFiling(ctx, cik)
	if err != nil {
		return fmt.Errorf("filing fetch failed: %w", err)
	}

	analysis, err := a.Tracker.RunCycle(ctx, filing)
	if err != nil {
		return fmt.Errorf("analysis cycle failed: %w", err)
	}

	archived, err := a.Report.Generate(ctx, analysis)
	if err != nil {
		// The cycle's durable state is already persisted; only the
		// rendering failed.
		return fmt.Errorf("report generation failed: %w", err)
	}

	a.Logger.Info().
		Str("report", archived.Name).
		Str("accession", filing.AccessionNo).
		Bool("suspicious", analysis.Suspicious).
		Dur("elapsed", time.Since(start)).
		Msg("Analysis cycle finished")

	return nil
}

// ScheduleAnalysis registers the analysis cycle on the cron scheduler
// using the configured spec and starts it.
func (a *App) ScheduleAnalysis() error {
	err := a.Scheduler.AddJob(a.Config.Schedule.Spec, "analysis-cycle", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()
		return a.RunAnalysisCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule analysis cycle: %w", err)
	}
	a.Scheduler.Start()
	return nil
}

// Close releases all resources held by the App.
// Shutdown order: stop the scheduler, then close storage.
func (a *App) Close() {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
