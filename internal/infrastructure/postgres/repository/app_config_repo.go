package repository

import (
	"context"

	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultAppConfigRepository struct {
	DB *gorm.DB
}

func NewDefaultAppConfigRepository(db *gorm.DB) *DefaultAppConfigRepository {
	return &DefaultAppConfigRepository{DB: db}
}

func (r *DefaultAppConfigRepository) GetRates(ctx context.Context, keys ...string) (map[string]decimal.Decimal, error) {
	var rows []models.AppConfigModel
	query := r.DB.WithContext(ctx)
	if len(keys) > 0 {
		query = query.Where("key IN ?", keys)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	rates := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		rates[row.Key] = row.Value
	}
	return rates, nil
}

func (r *DefaultAppConfigRepository) SetRate(ctx context.Context, key string, value decimal.Decimal) error {
	row := models.AppConfigModel{Key: key, Value: value}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}
