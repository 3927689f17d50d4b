package logger

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuoteLockedEvent - журнал зафиксированных котировок для разбора споров
type QuoteLockedEvent struct {
	ID              uint   `gorm:"primaryKey"`
	QuoteID         string `gorm:"type:uuid;index"`
	UserID          string `gorm:"index"`
	Direction       string
	Strategy        string
	TierID          string
	TierLabel       string
	Amount          decimal.Decimal `gorm:"type:numeric(20,6)"`
	UnitRate        decimal.Decimal `gorm:"type:numeric(20,6)"`
	ConvertedAmount decimal.Decimal `gorm:"type:numeric(20,6)"`
	ExpiresAt       time.Time
	Timestamp       time.Time
}

type PGQuoteEventLogger struct {
	db *gorm.DB
}

func NewPGQuoteEventLogger(db *gorm.DB) *PGQuoteEventLogger {
	return &PGQuoteEventLogger{db: db}
}

func (l *PGQuoteEventLogger) LogQuoteLocked(ctx context.Context, quote *domain.LockedQuote) error {
	event := QuoteLockedEvent{
		QuoteID:         quote.ID,
		UserID:          quote.UserID,
		Direction:       string(quote.Direction),
		Strategy:        quote.Strategy,
		TierID:          quote.TierID,
		TierLabel:       quote.TierLabel,
		Amount:          quote.Amount,
		UnitRate:        quote.UnitRate,
		ConvertedAmount: quote.ConvertedAmount,
		ExpiresAt:       quote.ExpiresAt,
		Timestamp:       quote.CreatedAt,
	}
	return l.db.WithContext(ctx).Create(&event).Error
}
