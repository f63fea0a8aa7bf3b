// Package sqlite implements the ability to read and write records to a
// SQLite database through gorm.
package sqlite

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Record is the row stored for each key.
type Record struct {
	gorm.Model
	Key   string `gorm:"column:record_key;uniqueIndex;not null"`
	Value []byte
}

// SQLite represents the storage implementation backed by SQLite. This
// implements the storage.Store interface.
type SQLite struct {
	db *gorm.DB
}

// New opens or creates the database at the specified path and migrates the
// schema.
func New(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrating: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Get returns the value stored for the key.
func (s *SQLite) Get(key string) ([]byte, error) {
	var rec Record
	if err := s.db.Where("record_key = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	return rec.Value, nil
}

// Put inserts or replaces the value for the key.
func (s *SQLite) Put(key string, value []byte) error {
	rec := Record{Key: key, Value: value}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
}

// Delete removes the key.
func (s *SQLite) Delete(key string) error {
	return s.db.Unscoped().Where("record_key = ?", key).Delete(&Record{}).Error
}
