package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntrySchema represents the database schema for the session_entries table.
type EntrySchema struct {
	Key       string    `gorm:"column:entry_key;primaryKey;size:191"` // store key
	Value     string    `gorm:"not null"`            // opaque value
	UpdatedAt time.Time // last write
}

// TableName specifies the table name for the EntrySchema model.
func (EntrySchema) TableName() string {
	return "session_entries"
}

// GormStore implements Store on any GORM dialect (PostgreSQL for the service,
// SQLite for the terminal client).
type GormStore struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewGormStore creates a new GORM-backed session store.
func NewGormStore(db *gorm.DB, log *zap.Logger) *GormStore {
	return &GormStore{db: db, log: log}
}

// Migrate creates or updates the session_entries table.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&EntrySchema{}); err != nil {
		return fmt.Errorf("failed to migrate session store: %w", err)
	}
	return nil
}

// Get retrieves a value by key.
func (s *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var model EntrySchema
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		s.log.Error("failed to get session entry from db", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("failed to get session entry: %w", err)
	}
	return model.Value, true, nil
}

// Set upserts a value.
func (s *GormStore) Set(ctx context.Context, key, value string) error {
	model := EntrySchema{Key: key, Value: value, UpdatedAt: time.Now()}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		s.log.Error("failed to set session entry in db", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set session entry: %w", err)
	}
	return nil
}

// Remove deletes a value by key.
func (s *GormStore) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&EntrySchema{}).Error; err != nil {
		s.log.Error("failed to delete session entry from db", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete session entry: %w", err)
	}
	return nil
}
