package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type PriceTierRepository interface {
	ListTiers(ctx context.Context) ([]PriceTier, error)
	ListTiersByDirection(ctx context.Context, direction Direction) ([]PriceTier, error)
	ReplaceTiers(ctx context.Context, direction Direction, tiers []PriceTier) error
}

// Ключи app_config
const (
	ConfigKeyBuyRate  = "buy_rate"
	ConfigKeySellRate = "sell_rate"
)

type AppConfigRepository interface {
	GetRates(ctx context.Context, keys ...string) (map[string]decimal.Decimal, error)
	SetRate(ctx context.Context, key string, value decimal.Decimal) error
}

type TransactionRepository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*Transaction, error)
	GetTransactionsByUserID(ctx context.Context, userID string, page, limit int64, filters TransactionFilters) ([]*Transaction, int64, error)
}
