package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type slotRow struct {
	Key       string `gorm:"column:slot_key;type:varchar(191);primaryKey"`
	Payload   []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (slotRow) TableName() string { return "slots" }

// SQLSlot keeps every key as one row of the slots table.
type SQLSlot struct {
	db     *gorm.DB
	driver Driver
}

// NewSQLSlot migrates the slots table and returns a slot over db.
func NewSQLSlot(db *gorm.DB, driver Driver) (*SQLSlot, error) {
	if err := db.AutoMigrate(&slotRow{}); err != nil {
		return nil, fmt.Errorf("migrate slots: %w", err)
	}
	return &SQLSlot{db: db, driver: driver}, nil
}

func (s *SQLSlot) Driver() Driver { return s.driver }

func (s *SQLSlot) Read(ctx context.Context, key string) ([]byte, error) {
	var row slotRow
	err := s.db.WithContext(ctx).Where("slot_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.Payload, nil
}

func (s *SQLSlot) Write(ctx context.Context, key string, data []byte) error {
	row := slotRow{Key: key, Payload: data, UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
}
