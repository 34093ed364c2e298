// Package interfaces defines service contracts for Whaletrack
package interfaces

import (
	"context"
	"time"

	"whaletrack/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	// Storage accessors
	Snapshots() SnapshotStore
	Prices() PriceCache
	Ledger() SaleLedger
	Internal() InternalStore

	// DataPath returns the base directory of the file-backed stores.
	DataPath() string

	// Lifecycle
	Close() error
}

// SnapshotStore owns the previous holdings snapshot across cycles.
// Absent file means no previous snapshot (first run), never an error.
type SnapshotStore interface {
	// Get returns the stored snapshot, or nil when none exists yet.
	Get() *models.HoldingsSnapshot

	// Set replaces the in-memory snapshot. Durable only after Persist.
	Set(snapshot *models.HoldingsSnapshot)

	// Persist writes the snapshot to stable storage atomically.
	Persist() error
}

// PriceCache is the durable ticker → quote store with TTL expiry.
// No eviction beyond the staleness check: known tickers are retained
// until overwritten.
type PriceCache interface {
	// Get returns the record for a ticker only while it is fresh per TTL.
	// ok=false is a MISS: absent, or present but expired.
	Get(ticker string) (*models.PriceRecord, bool)

	// GetStale returns whatever record exists regardless of age.
	GetStale(ticker string) (*models.PriceRecord, bool)

	// Put stores a record, overwriting any previous one for the ticker.
	Put(record *models.PriceRecord)

	// IsExpired reports whether a record has outlived the cache TTL.
	IsExpired(record *models.PriceRecord) bool

	// Tickers returns all cached tickers in ascending order.
	Tickers() []string

	// Persist writes the full cache to stable storage atomically.
	Persist() error
}

// SaleLedger is the durable append-only record of realized sale events.
type SaleLedger interface {
	// Append adds records to the ledger. Existing records are never
	// mutated or removed.
	Append(records ...models.SaleRecord) error

	// Query returns records with RecordedAt >= since in ascending
	// chronological order; a zero since returns the complete history.
	Query(since time.Time) []models.SaleRecord

	// HasCycle reports whether any record was produced by the given
	// snapshot-transition key.
	HasCycle(cycle string) bool

	// Len returns the number of records in the ledger.
	Len() int

	// Persist writes the ledger to stable storage atomically.
	Persist() error
}

// InternalStore holds cycle bookkeeping and the report archive.
type InternalStore interface {
	// System key-value (cycle bookkeeping)
	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error

	// Report archive
	SaveReport(ctx context.Context, report *models.ArchivedReport) error
	GetReport(ctx context.Context, name string) (*models.ArchivedReport, error)
	LatestReport(ctx context.Context) (*models.ArchivedReport, error)
	ListReports(ctx context.Context) ([]string, error)

	Close() error
}
