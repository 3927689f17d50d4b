package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LockedQuote фиксирует курс в момент подтверждения пользователем.
// Транзакция копирует значения отсюда как есть.
type LockedQuote struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Direction       Direction       `json:"direction"`
	Strategy        string          `json:"strategy"`
	Amount          decimal.Decimal `json:"amount"`
	UnitRate        decimal.Decimal `json:"unit_rate"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
	TierID          string          `json:"tier_id"`
	TierLabel       string          `json:"tier_label"`
	CreatedAt       time.Time       `json:"created_at"`
	ExpiresAt       time.Time       `json:"expires_at"`
}

type QuoteStore interface {
	Save(ctx context.Context, quote *LockedQuote, ttl time.Duration) error
	Get(ctx context.Context, id string) (*LockedQuote, error)
	// Take returns the quote and removes it, so a quote backs at most one transaction.
	Take(ctx context.Context, id string) (*LockedQuote, error)
}
