package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// CartRecord is one persisted cart blob keyed by session.
type CartRecord struct {
	Key       string    `gorm:"column:cart_key;primaryKey;size:191"`
	Data      []byte    `gorm:"not null"`
	UpdatedAt time.Time
}

func (CartRecord) TableName() string {
	return "cart_records"
}

// Database persists carts in a relational table through gorm.
type Database struct {
	db *gorm.DB
}

// OpenPostgres opens the production database connection.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func NewDatabase(db *gorm.DB) (*Database, error) {
	if err := db.AutoMigrate(&CartRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cart_records: %w", err)
	}
	return &Database{db: db}, nil
}

func (d *Database) Load(ctx context.Context, key string) ([]byte, error) {
	var record CartRecord
	err := d.db.WithContext(ctx).Where("cart_key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record.Data, nil
}

func (d *Database) Save(ctx context.Context, key string, data []byte) error {
	record := CartRecord{Key: key, Data: data, UpdatedAt: time.Now()}
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&record).Error
}

func (d *Database) Delete(ctx context.Context, key string) error {
	return d.db.WithContext(ctx).Where("cart_key = ?", key).Delete(&CartRecord{}).Error
}
