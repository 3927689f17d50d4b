package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

// Переходы статусов делает бэк-офис, сервис создает только pending
const (
	TransactionPending    TransactionStatus = "pending"
	TransactionProcessing TransactionStatus = "processing"
	TransactionCompleted  TransactionStatus = "completed"
	TransactionFailed     TransactionStatus = "failed"
	TransactionCancelled  TransactionStatus = "cancelled"
)

type NetworkType string

const (
	NetworkTRC20 NetworkType = "TRC20"
	NetworkERC20 NetworkType = "ERC20"
)

func ParseNetwork(s string) (NetworkType, error) {
	switch NetworkType(s) {
	case NetworkTRC20, NetworkERC20:
		return NetworkType(s), nil
	}
	return "", ErrInvalidNetwork
}

type PayoutMethod string

const (
	PayoutUPI  PayoutMethod = "upi"
	PayoutBank PayoutMethod = "bank"
)

type Transaction struct {
	ID        string
	Reference string
	UserID    string
	Direction Direction
	QuoteID   string
	TierID    string

	// AmountInput - то, что ввел пользователь: INR для покупки, USDT для продажи
	AmountInput     decimal.Decimal
	ConvertedAmount decimal.Decimal
	UnitRate        decimal.Decimal
	AmountINR       decimal.Decimal
	AmountUSDT      decimal.Decimal

	Network         NetworkType
	WalletAddress   string
	PayoutMethod    PayoutMethod
	UPIID           string
	UTRNumber       string
	PaymentProofURL string

	Status         TransactionStatus
	TimerExpiresAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type TransactionFilters struct {
	Statuses  []TransactionStatus
	Direction Direction
	DateFrom  time.Time
	DateTo    time.Time
}
