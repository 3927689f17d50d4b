package kafka

import "time"

type TransactionEvent struct {
	TransactionID  string    `json:"transaction_id"`
	Reference      string    `json:"reference"`
	UserID         string    `json:"user_id"`
	Direction      string    `json:"direction"`
	Status         string    `json:"status"`
	AmountINR      string    `json:"amount_inr"`
	AmountUSDT     string    `json:"amount_usdt"`
	UnitRate       string    `json:"unit_rate"`
	Network        string    `json:"network"`
	PayoutMethod   string    `json:"payout_method,omitempty"`
	TimerExpiresAt time.Time `json:"timer_expires_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// TierChangedEvent уходит после записи тиров или курса из admin API,
// его же читает KafkaChangeNotifier на других инстансах
type TierChangedEvent struct {
	Table     string    `json:"table"`
	Operation string    `json:"operation"`
	Direction string    `json:"direction"`
	Count     int       `json:"count"`
	ChangedAt time.Time `json:"changed_at"`
}
