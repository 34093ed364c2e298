// Package internaldb implements InternalStore using BadgerHold.
// It holds cycle bookkeeping (system key-value pairs) and the archive
// of rendered analysis reports.
package internaldb

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"whaletrack/internal/common"
	"whaletrack/internal/interfaces"
	"whaletrack/internal/models"

	"github.com/timshannon/badgerhold/v4"
)

// latestReportKey is the system KV key pointing at the most recently
// archived report name.
const latestReportKey = "latest_report"

// Store implements interfaces.InternalStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

var _ interfaces.InternalStore = (*Store)(nil)

// NewStore opens (creating if necessary) the internal database at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create internal db path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open internal db at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("Internal database opened")
	return &Store{db: db, logger: logger}, nil
}

// --- System key-value ---

// GetSystemKV returns the value for key, or "" when the key has never
// been set. Absence is not an error: an empty transition marker simply
// means no cycle has completed yet.
func (s *Store) GetSystemKV(_ context.Context, key string) (string, error) {
	var kv models.KVEntry
	if err := s.db.Get(key, &kv); err != nil {
		if err == badgerhold.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to get system kv '%s': %w", key, err)
	}
	return kv.Value, nil
}

func (s *Store) SetSystemKV(_ context.Context, key, value string) error {
	version := 1
	var existing models.KVEntry
	if err := s.db.Get(key, &existing); err == nil {
		version = existing.Version + 1
	}

	kv := &models.KVEntry{
		Key:       key,
		Value:     value,
		Version:   version,
		UpdatedAt: time.Now(),
	}
	if err := s.db.Upsert(key, kv); err != nil {
		return fmt.Errorf("failed to set system kv '%s': %w", key, err)
	}
	return nil
}

// --- Report archive ---

func (s *Store) SaveReport(ctx context.Context, report *models.ArchivedReport) error {
	if report == nil || report.Name == "" {
		return fmt.Errorf("report name is required")
	}
	if err := s.db.Upsert(report.Name, report); err != nil {
		return fmt.Errorf("failed to save report '%s': %w", report.Name, err)
	}
	if err := s.SetSystemKV(ctx, latestReportKey, report.Name); err != nil {
		return fmt.Errorf("failed to update latest report pointer: %w", err)
	}
	s.logger.Debug().Str("report", report.Name).Msg("Report archived")
	return nil
}

func (s *Store) GetReport(_ context.Context, name string) (*models.ArchivedReport, error) {
	var report models.ArchivedReport
	if err := s.db.Get(name, &report); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("report '%s': %w", name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get report '%s': %w", name, err)
	}
	return &report, nil
}

func (s *Store) LatestReport(ctx context.Context) (*models.ArchivedReport, error) {
	name, err := s.GetSystemKV(ctx, latestReportKey)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("no reports archived yet: %w", models.ErrNotFound)
	}
	return s.GetReport(ctx, name)
}

func (s *Store) ListReports(_ context.Context) ([]string, error) {
	var reports []models.ArchivedReport
	if err := s.db.Find(&reports, nil); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	names := make([]string, len(reports))
	for i, r := range reports {
		names[i] = r.Name
	}
	sort.Strings(names)
	return names, nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
