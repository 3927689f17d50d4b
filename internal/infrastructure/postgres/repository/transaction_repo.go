package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultTransactionRepository struct {
	DB *gorm.DB
}

func NewDefaultTransactionRepository(db *gorm.DB) *DefaultTransactionRepository {
	return &DefaultTransactionRepository{DB: db}
}

func (r *DefaultTransactionRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	return r.DB.WithContext(ctx).Create(mappers.ToGORMTransaction(tx)).Error
}

func (r *DefaultTransactionRepository) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var model models.TransactionModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return mappers.ToDomainTransaction(&model), nil
}

func (r *DefaultTransactionRepository) GetTransactionsByUserID(
	ctx context.Context,
	userID string,
	page, limit int64,
	filters domain.TransactionFilters,
) ([]*domain.Transaction, int64, error) {
	var txModels []models.TransactionModel
	var total int64

	baseQuery := r.DB.WithContext(ctx).Model(&models.TransactionModel{}).Where("user_id = ?", userID)

	// Применяем фильтры
	if len(filters.Statuses) > 0 {
		baseQuery = baseQuery.Where("status IN ?", filters.Statuses)
	}
	if filters.Direction != "" {
		baseQuery = baseQuery.Where("transaction_type = ?", filters.Direction)
	}
	if !filters.DateFrom.IsZero() {
		baseQuery = baseQuery.Where("created_at >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		baseQuery = baseQuery.Where("created_at <= ?", filters.DateTo)
	}

	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	offset := (page - 1) * limit
	if err := baseQuery.
		Order("created_at DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&txModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find transactions: %w", err)
	}

	txs := make([]*domain.Transaction, len(txModels))
	for i := range txModels {
		txs[i] = mappers.ToDomainTransaction(&txModels[i])
	}
	return txs, total, nil
}
