// Package localstore keeps a device-local copy of persisted entries in a
// SQLite file. Each record carries a sync status, but nothing reconciles the
// cache against the server; the store is a write-through mirror only.
package localstore

import (
	"errors"
	"fmt"
	"time"

	"quill/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SyncStatus labels a cached record's relation to the server.
type SyncStatus string

const (
	// StatusPending means the record was written locally but the server
	// outcome is not recorded yet.
	StatusPending SyncStatus = "pending"
	// StatusSynced means the server accepted the entry this record mirrors.
	StatusSynced SyncStatus = "synced"
	// StatusFailed means the last submit of this entry failed.
	StatusFailed SyncStatus = "failed"
)

// Record is one cached entry snapshot, keyed by the client-chosen Key.
type Record struct {
	Key        string     `gorm:"primaryKey" json:"key"`
	EntryID    uint       `json:"entryId"`
	Payload    string     `json:"payload"`
	SyncStatus SyncStatus `json:"syncStatus"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Store is the SQLite-backed cache.
type Store struct {
	db *gorm.DB
}

// Open creates or opens the cache database at path and migrates its schema.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening local cache: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrating local cache: %w", err)
	}
	return &Store{db: db}, nil
}

// Put writes or replaces the record under key.
func (s *Store) Put(key string, entryID uint, payload string, status SyncStatus) error {
	rec := Record{
		Key:        key,
		EntryID:    entryID,
		Payload:    payload,
		SyncStatus: status,
		UpdatedAt:  time.Now(),
	}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&rec)
	if result.Error != nil {
		return fmt.Errorf("writing cache record: %w", result.Error)
	}
	return nil
}

// Get returns the record under key, or NOT_FOUND.
func (s *Store) Get(key string) (*Record, error) {
	var rec Record
	if err := s.db.First(&rec, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("cached record", key)
		}
		return nil, fmt.Errorf("reading cache record: %w", err)
	}
	return &rec, nil
}

// ListByStatus returns all records with the given status, most recent first.
func (s *Store) ListByStatus(status SyncStatus) ([]Record, error) {
	var recs []Record
	if err := s.db.Where("sync_status = ?", status).
		Order("updated_at desc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing cache records: %w", err)
	}
	return recs, nil
}

// Delete removes the record under key. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) error {
	if err := s.db.Delete(&Record{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("deleting cache record: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
