package models

import (
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/shopspring/decimal"
)

type TransactionModel struct {
	ID              string             `gorm:"primaryKey;type:uuid"`
	Reference       string             `gorm:"type:varchar(16);uniqueIndex"`
	UserID          string             `gorm:"type:varchar(64);not null;index:idx_tx_user_created"`
	TransactionType domain.Direction   `gorm:"type:varchar(8);not null"`
	QuoteID         string             `gorm:"type:uuid"`
	TierID          string             `gorm:"type:varchar(64)"`
	AmountInput     decimal.Decimal    `gorm:"type:numeric(20,6);not null"`
	ConvertedAmount decimal.Decimal    `gorm:"type:numeric(20,6);not null"`
	AmountINR       decimal.Decimal    `gorm:"column:amount_inr;type:numeric(20,6);not null"`
	AmountUSDT      decimal.Decimal    `gorm:"column:amount_usdt;type:numeric(20,6);not null"`
	ExchangeRate    decimal.Decimal    `gorm:"type:numeric(20,6);not null"`
	NetworkType     domain.NetworkType `gorm:"type:varchar(8)"`
	WalletAddress   string
	PayoutMethod    domain.PayoutMethod      `gorm:"type:varchar(8)"`
	UPIID           string                   `gorm:"column:upi_id"`
	UTRNumber       string                   `gorm:"column:utr_number"`
	PaymentProofURL string                   `gorm:"column:payment_proof_url"`
	Status          domain.TransactionStatus `gorm:"type:varchar(16);not null;index"`
	TimerExpiresAt  time.Time
	CreatedAt       time.Time `gorm:"index:idx_tx_user_created"`
	UpdatedAt       time.Time
}

func (TransactionModel) TableName() string {
	return "transactions"
}
