package domain

import (
	"context"
	"time"
)

type MarketPrice struct {
	CoinID       string    `json:"id"`
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	CurrentPrice float64   `json:"current_price"`
	Change24hPct float64   `json:"price_change_percentage_24h"`
	ImageURL     string    `json:"image"`
	VsCurrency   string    `json:"vs_currency"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type MarketQuery struct {
	CoinIDs    []string
	VsCurrency string
}

type MarketPriceProvider interface {
	GetPrices(ctx context.Context, query *MarketQuery) ([]MarketPrice, error)
	GetName() string
	IsHealthy(ctx context.Context) bool
}
