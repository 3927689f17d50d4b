package notifier

import "time"

type CallbackPayload struct {
	Event          string    `json:"event"`
	TransactionID  string    `json:"transaction_id"`
	Reference      string    `json:"reference"`
	UserID         string    `json:"user_id"`
	Direction      string    `json:"direction"`
	Status         string    `json:"status"`
	AmountINR      string    `json:"amount_inr"`
	AmountUSDT     string    `json:"amount_usdt"`
	UnitRate       string    `json:"unit_rate"`
	Network        string    `json:"network"`
	TimerExpiresAt time.Time `json:"timer_expires_at"`
	CreatedAt      time.Time `json:"created_at"`
}
