// Package tracker drives one holdings analysis cycle end to end: diff the
// incoming filing against the stored snapshot, record realized sales,
// merge market prices, and persist the new state.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"whaletrack/internal/common"
	"whaletrack/internal/interfaces"
	"whaletrack/internal/models"
	"whaletrack/internal/services/diff"
)

// kvLastTransition is the internal-db key recording the most recently
// completed snapshot transition.
const kvLastTransition = "last_transition"

// Service implements TrackerService.
type Service struct {
	storage interfaces.StorageManager
	prices  interfaces.PriceProvider
	engine  *diff.Engine
	config  *common.Config
	logger  *common.Logger
	now     func() time.Time // injectable clock for testing

	mu sync.Mutex // serializes RunCycle; a manual run never overlaps a scheduled one
}

// NewService creates a new tracker service.
func NewService(storage interfaces.StorageManager, prices interfaces.PriceProvider, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		prices:  prices,
		engine:  diff.NewEngine(),
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

var _ interfaces.TrackerService = (*Service)(nil)

// RunCycle processes one filing. Durable state (ledger, transition marker,
// snapshot, price cache) is written only at the end of a successful cycle,
// ledger first, so that an abort at any point leaves a state the next run
// can heal from without duplicating sale records.
func (s *Service) RunCycle(ctx context.Context, filing *models.InstitutionalFiling) (*models.PortfolioAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if filing == nil {
		return nil, fmt.Errorf("no filing to process")
	}
	start := time.Now()

	current := models.NewHoldingsSnapshot(filing.Positions, filing.FiledAt)
	previous := s.storage.Snapshots().Get()
	key := diff.TransitionKey(previous, current)

	changes := s.engine.Diff(previous, current)
	counts := models.CountByCategory(changes)

	analysis := &models.PortfolioAnalysis{
		Institution: filing.CompanyName,
		CIK:         filing.CIK,
		GeneratedAt: s.now(),
		FiledAt:     filing.FiledAt,
		AccessionNo: filing.AccessionNo,
		Changes:     changes,
		TotalValue:  current.TotalValue(),
	}
	if analysis.Institution == "" {
		analysis.Institution = s.config.Institution.Name
	}
	if filing.Unresolved > 0 {
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("%d filed positions could not be resolved to tickers and were dropped", filing.Unresolved))
	}

	// An all-positions-gone filing is far more likely a bad parse than a
	// genuine liquidation. Produce the analysis but leave durable state
	// untouched unless explicitly allowed.
	suspicious := current.IsEmpty() && previous != nil && previous.Len() > 0
	persistAllowed := !suspicious || s.config.Filings.AllowEmpty
	if suspicious {
		analysis.Suspicious = true
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("filing %s reports zero positions against %d previously held; treating as suspicious", filing.AccessionNo, previous.Len()))
		s.logger.Warn().
			Str("accession", filing.AccessionNo).
			Int("previous_positions", previous.Len()).
			Bool("allow_empty", s.config.Filings.AllowEmpty).
			Msg("Empty filing against non-empty history")
	}

	// Idempotence guard: the same snapshot transition is recorded once,
	// no matter how many times the cycle replays. The ledger's own cycle
	// index backs up the KV marker in case a prior run persisted the
	// ledger but crashed before the marker.
	lastTransition, err := s.storage.Internal().GetSystemKV(ctx, kvLastTransition)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read last transition marker; relying on ledger index")
		lastTransition = ""
	}
	alreadyRecorded := lastTransition == key || s.storage.Ledger().HasCycle(key)

	salesRecorded := 0
	if persistAllowed && !alreadyRecorded {
		saleRecords := s.engine.SaleRecordsFor(changes, key, s.now())
		if len(saleRecords) > 0 {
			if err := s.storage.Ledger().Append(saleRecords...); err != nil {
				return nil, fmt.Errorf("failed to record sales: %w", err)
			}
			salesRecorded = len(saleRecords)
		}
	} else if alreadyRecorded && counts[models.ChangeClosed]+counts[models.ChangeDecreased] > 0 {
		s.logger.Info().
			Str("transition", key).
			Msg("Transition already recorded; skipping sale records")
	}

	analysis.Holdings = s.resolveHoldings(ctx, current, analysis)
	analysis.RecentSales = s.storage.Ledger().Query(s.now().Add(-common.FreshnessSaleAge))
	analysis.SaleHistory = s.storage.Ledger().Query(time.Time{})

	if persistAllowed {
		if err := s.persistCycle(ctx, key, current); err != nil {
			return nil, err
		}
		analysis.Persisted = true
	}

	s.logger.Info().
		Str("accession", filing.AccessionNo).
		Str("transition", key).
		Int("positions", current.Len()).
		Int("new", counts[models.ChangeNew]).
		Int("increased", counts[models.ChangeIncreased]).
		Int("decreased", counts[models.ChangeDecreased]).
		Int("closed", counts[models.ChangeClosed]).
		Int("unchanged", counts[models.ChangeUnchanged]).
		Int("sales_recorded", salesRecorded).
		Bool("persisted", analysis.Persisted).
		Dur("duration", time.Since(start)).
		Msg("Analysis cycle complete")

	return analysis, nil
}

// resolveHoldings pairs every current position with a quote. Cache hits
// are served as-is; misses go to the provider and refill the cache. A
// failed lookup never aborts the cycle: the holding degrades to stale
// (old record on hand) or unavailable (none).
func (s *Service) resolveHoldings(ctx context.Context, current *models.HoldingsSnapshot, analysis *models.PortfolioAnalysis) []models.PricedHolding {
	total := current.TotalValue()
	holdings := make([]models.PricedHolding, 0, current.Len())
	staleCount, unavailableCount := 0, 0

	for _, ticker := range current.Tickers() {
		position, _ := current.Get(ticker)
		holding := models.PricedHolding{Position: position}
		if total.IsPositive() {
			holding.WeightPct = position.Value.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}

		if rec, ok := s.storage.Prices().Get(ticker); ok {
			holding.Price = rec
		} else if quote, err := s.prices.Quote(ctx, ticker); err == nil {
			s.storage.Prices().Put(quote)
			holding.Price = quote
		} else if stale, ok := s.storage.Prices().GetStale(ticker); ok {
			holding.Price = stale
			holding.Stale = true
			staleCount++
			s.logger.Warn().Err(err).
				Str("ticker", ticker).
				Time("fetched_at", stale.FetchedAt).
				Msg("Quote fetch failed; serving stale record")
		} else {
			holding.Unavailable = true
			unavailableCount++
			s.logger.Warn().Err(err).
				Str("ticker", ticker).
				Msg("Quote fetch failed with no cached record")
		}

		holdings = append(holdings, holding)
	}

	if staleCount > 0 {
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("%d holdings priced from expired cache records", staleCount))
	}
	if unavailableCount > 0 {
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("%d holdings have no price available", unavailableCount))
	}
	return holdings
}

// persistCycle writes the durable state for a completed cycle. Order
// matters: ledger before marker before snapshot. A crash between steps
// leaves the guard able to detect the partial write on the next run.
func (s *Service) persistCycle(ctx context.Context, key string, current *models.HoldingsSnapshot) error {
	if err := s.storage.Ledger().Persist(); err != nil {
		return fmt.Errorf("failed to persist sale ledger: %w", err)
	}
	if err := s.storage.Internal().SetSystemKV(ctx, kvLastTransition, key); err != nil {
		return fmt.Errorf("failed to record transition marker: %w", err)
	}
	s.storage.Snapshots().Set(current)
	if err := s.storage.Snapshots().Persist(); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	if err := s.storage.Prices().Persist(); err != nil {
		return fmt.Errorf("failed to persist price cache: %w", err)
	}
	return nil
}
