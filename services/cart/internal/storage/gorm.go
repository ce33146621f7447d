package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/shop_cart/services/cart/internal/models"
)

type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) Migrate(ctx context.Context) error {
	return s.DB.WithContext(ctx).AutoMigrate(&models.StoredValue{})
}

func (s *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	var row models.StoredValue
	err := s.DB.WithContext(ctx).Where("storage_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *GormStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	row := models.StoredValue{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}
