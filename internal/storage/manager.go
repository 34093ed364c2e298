// Package storage provides the top-level StorageManager that coordinates
// the 2 storage areas: the file-backed tracking stores and the internal
// BadgerHold database.
package storage

import (
	"fmt"

	"whaletrack/internal/common"
	"whaletrack/internal/interfaces"
	"whaletrack/internal/storage/filestore"
	"whaletrack/internal/storage/internaldb"
)

// Manager implements interfaces.StorageManager using 2 storage areas.
type Manager struct {
	files    *filestore.Store
	internal *internaldb.Store
	logger   *common.Logger
}

// NewManager creates a new StorageManager with the 2 storage areas.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	fileStore, err := filestore.NewStore(logger, config.Storage.Data.Path, config.Prices.GetTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to create file store: %w", err)
	}

	internalStore, err := internaldb.NewStore(logger, config.Storage.Internal.Path)
	if err != nil {
		fileStore.Close()
		return nil, fmt.Errorf("failed to create internal store: %w", err)
	}

	logger.Info().
		Str("data", config.Storage.Data.Path).
		Str("internal", config.Storage.Internal.Path).
		Msg("Storage manager initialized (2 areas)")

	return &Manager{
		files:    fileStore,
		internal: internalStore,
		logger:   logger,
	}, nil
}

func (m *Manager) Snapshots() interfaces.SnapshotStore {
	return m.files.Snapshots()
}

func (m *Manager) Prices() interfaces.PriceCache {
	return m.files.Prices()
}

func (m *Manager) Ledger() interfaces.SaleLedger {
	return m.files.Ledger()
}

func (m *Manager) Internal() interfaces.InternalStore {
	return m.internal
}

func (m *Manager) DataPath() string {
	return m.files.DataPath()
}

func (m *Manager) Close() error {
	var firstErr error
	if err := m.files.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := m.internal.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
