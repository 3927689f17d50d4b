package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPriceTierRepository struct {
	DB *gorm.DB
}

func NewDefaultPriceTierRepository(db *gorm.DB) *DefaultPriceTierRepository {
	return &DefaultPriceTierRepository{DB: db}
}

func (r *DefaultPriceTierRepository) ListTiers(ctx context.Context) ([]domain.PriceTier, error) {
	var tierModels []models.PriceTierModel
	if err := r.DB.WithContext(ctx).
		Order("direction ASC").
		Order("min_quantity ASC").
		Order("sort_order ASC").
		Find(&tierModels).Error; err != nil {
		return nil, err
	}
	return toDomainTiers(tierModels), nil
}

func (r *DefaultPriceTierRepository) ListTiersByDirection(ctx context.Context, direction domain.Direction) ([]domain.PriceTier, error) {
	var tierModels []models.PriceTierModel
	if err := r.DB.WithContext(ctx).
		Where("direction = ?", direction).
		Order("min_quantity ASC").
		Order("sort_order ASC").
		Find(&tierModels).Error; err != nil {
		return nil, err
	}
	return toDomainTiers(tierModels), nil
}

// ReplaceTiers удаляет старую лестницу и пишет новую в одной транзакции,
// триггер шлет одно уведомление на весь statement
func (r *DefaultPriceTierRepository) ReplaceTiers(ctx context.Context, direction domain.Direction, tiers []domain.PriceTier) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("direction = ?", direction).Delete(&models.PriceTierModel{}).Error; err != nil {
			return fmt.Errorf("delete old tiers: %w", err)
		}
		if len(tiers) == 0 {
			return nil
		}
		tierModels := make([]*models.PriceTierModel, len(tiers))
		for i := range tiers {
			tierModels[i] = mappers.ToGORMPriceTier(&tiers[i])
		}
		if err := tx.Create(tierModels).Error; err != nil {
			return fmt.Errorf("insert tiers: %w", err)
		}
		return nil
	})
}

func toDomainTiers(tierModels []models.PriceTierModel) []domain.PriceTier {
	tiers := make([]domain.PriceTier, len(tierModels))
	for i := range tierModels {
		tiers[i] = mappers.ToDomainPriceTier(&tierModels[i])
	}
	return tiers
}
