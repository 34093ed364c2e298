// Package filestore implements file-based storage for the snapshot,
// price cache, and sale ledger. Each store is one JSON document, written
// atomically, held in memory between explicit persists.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"whaletrack/internal/common"
	"whaletrack/internal/interfaces"
	"whaletrack/internal/models"
)

const (
	holdingsFile = "holdings.json"
	pricesFile   = "prices.json"
	salesFile    = "sales.json"
)

// Store provides the three durable file-backed stores. An absent file
// means "start empty"; a file that fails to deserialize fails the
// constructor with models.ErrCorruptStore.
type Store struct {
	basePath string
	logger   *common.Logger
	now      func() time.Time

	snapshots *snapshotStore
	prices    *priceCache
	ledger    *saleLedger
}

// NewStore opens the store directory and loads all three documents.
func NewStore(logger *common.Logger, path string, priceTTL time.Duration) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store path %s: %w", path, err)
	}

	s := &Store{
		basePath: path,
		logger:   logger,
		now:      time.Now,
	}

	snapshots, err := loadSnapshots(s)
	if err != nil {
		return nil, err
	}
	prices, err := loadPrices(s, priceTTL)
	if err != nil {
		return nil, err
	}
	ledger, err := loadLedger(s)
	if err != nil {
		return nil, err
	}

	s.snapshots = snapshots
	s.prices = prices
	s.ledger = ledger

	logger.Info().
		Str("path", path).
		Int("cached_prices", len(prices.records)).
		Int("ledger_records", len(ledger.records)).
		Bool("has_snapshot", snapshots.snapshot != nil).
		Msg("File store opened")
	return s, nil
}

// DataPath returns the base data path.
func (s *Store) DataPath() string {
	return s.basePath
}

// Snapshots returns the previous-snapshot store.
func (s *Store) Snapshots() interfaces.SnapshotStore {
	return s.snapshots
}

// Prices returns the price cache.
func (s *Store) Prices() interfaces.PriceCache {
	return s.prices
}

// Ledger returns the sale ledger.
func (s *Store) Ledger() interfaces.SaleLedger {
	return s.ledger
}

// Close is a no-op for file-based storage.
func (s *Store) Close() error {
	return nil
}

// --- helpers ---

// readDocument loads one JSON document. Absent file yields (false, nil);
// unreadable or undecodable content yields ErrCorruptStore.
func readDocument(path string, dest interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return false, fmt.Errorf("%s is empty: %w", path, models.ErrCorruptStore)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode %s: %v: %w", path, err, models.ErrCorruptStore)
	}
	return true, nil
}

// writeDocument writes one JSON document atomically via temp file + rename.
func writeDocument(path string, data interface{}) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// --- snapshot store ---

type snapshotStore struct {
	store    *Store
	snapshot *models.HoldingsSnapshot
}

func loadSnapshots(s *Store) (*snapshotStore, error) {
	ss := &snapshotStore{store: s}

	var snapshot models.HoldingsSnapshot
	found, err := readDocument(filepath.Join(s.basePath, holdingsFile), &snapshot)
	if err != nil {
		return nil, err
	}
	if found {
		ss.snapshot = &snapshot
	}
	return ss, nil
}

func (ss *snapshotStore) Get() *models.HoldingsSnapshot {
	return ss.snapshot
}

func (ss *snapshotStore) Set(snapshot *models.HoldingsSnapshot) {
	ss.snapshot = snapshot
}

func (ss *snapshotStore) Persist() error {
	if ss.snapshot == nil {
		return nil
	}
	if err := writeDocument(filepath.Join(ss.store.basePath, holdingsFile), ss.snapshot); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	ss.store.logger.Debug().
		Int("positions", ss.snapshot.Len()).
		Time("filed_at", ss.snapshot.FiledAt).
		Msg("Snapshot persisted")
	return nil
}

// --- price cache ---

type priceCache struct {
	store   *Store
	ttl     time.Duration
	records map[string]*models.PriceRecord
}

func loadPrices(s *Store, ttl time.Duration) (*priceCache, error) {
	pc := &priceCache{
		store:   s,
		ttl:     ttl,
		records: make(map[string]*models.PriceRecord),
	}

	if _, err := readDocument(filepath.Join(s.basePath, pricesFile), &pc.records); err != nil {
		return nil, err
	}
	return pc, nil
}

func (pc *priceCache) Get(ticker string) (*models.PriceRecord, bool) {
	rec, ok := pc.records[ticker]
	if !ok || pc.IsExpired(rec) {
		return nil, false
	}
	return rec, true
}

func (pc *priceCache) GetStale(ticker string) (*models.PriceRecord, bool) {
	rec, ok := pc.records[ticker]
	return rec, ok
}

func (pc *priceCache) Put(record *models.PriceRecord) {
	pc.records[record.Ticker] = record
}

func (pc *priceCache) IsExpired(record *models.PriceRecord) bool {
	return !common.IsFreshAt(record.FetchedAt, pc.store.now(), pc.ttl)
}

func (pc *priceCache) Tickers() []string {
	tickers := make([]string, 0, len(pc.records))
	for t := range pc.records {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

func (pc *priceCache) Persist() error {
	if err := writeDocument(filepath.Join(pc.store.basePath, pricesFile), pc.records); err != nil {
		return fmt.Errorf("failed to persist price cache: %w", err)
	}
	pc.store.logger.Debug().Int("tickers", len(pc.records)).Msg("Price cache persisted")
	return nil
}

// --- sale ledger ---

type saleLedger struct {
	store   *Store
	records []models.SaleRecord
	cycles  map[string]bool
}

func loadLedger(s *Store) (*saleLedger, error) {
	sl := &saleLedger{
		store:  s,
		cycles: make(map[string]bool),
	}

	if _, err := readDocument(filepath.Join(s.basePath, salesFile), &sl.records); err != nil {
		return nil, err
	}

	sort.SliceStable(sl.records, func(i, j int) bool {
		return sl.records[i].RecordedAt.Before(sl.records[j].RecordedAt)
	})
	for _, r := range sl.records {
		if r.Cycle != "" {
			sl.cycles[r.Cycle] = true
		}
	}
	return sl, nil
}

func (sl *saleLedger) Append(records ...models.SaleRecord) error {
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return fmt.Errorf("rejected ledger append: %w", err)
		}
	}
	for _, r := range records {
		sl.records = append(sl.records, r)
		if r.Cycle != "" {
			sl.cycles[r.Cycle] = true
		}
	}
	return nil
}

func (sl *saleLedger) Query(since time.Time) []models.SaleRecord {
	out := make([]models.SaleRecord, 0, len(sl.records))
	for _, r := range sl.records {
		if since.IsZero() || !r.RecordedAt.Before(since) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	return out
}

func (sl *saleLedger) HasCycle(cycle string) bool {
	return cycle != "" && sl.cycles[cycle]
}

func (sl *saleLedger) Len() int {
	return len(sl.records)
}

func (sl *saleLedger) Persist() error {
	if err := writeDocument(filepath.Join(sl.store.basePath, salesFile), sl.records); err != nil {
		return fmt.Errorf("failed to persist sale ledger: %w", err)
	}
	sl.store.logger.Debug().Int("records", len(sl.records)).Msg("Sale ledger persisted")
	return nil
}

// Compile-time interface checks
var (
	_ interfaces.SnapshotStore = (*snapshotStore)(nil)
	_ interfaces.PriceCache    = (*priceCache)(nil)
	_ interfaces.SaleLedger    = (*saleLedger)(nil)
)
