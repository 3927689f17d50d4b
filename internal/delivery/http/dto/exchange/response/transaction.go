package response

import "time"

type TransactionResponse struct {
	ID              string    `json:"id"`
	Reference       string    `json:"reference"`
	UserID          string    `json:"user_id"`
	TransactionType string    `json:"transaction_type"`
	QuoteID         string    `json:"quote_id"`
	TierID          string    `json:"tier_id"`
	AmountINR       string    `json:"amount_inr"`
	AmountUSDT      string    `json:"amount_usdt"`
	ExchangeRate    string    `json:"exchange_rate"`
	NetworkType     string    `json:"network_type"`
	WalletAddress   string    `json:"wallet_address,omitempty"`
	PayoutMethod    string    `json:"payout_method,omitempty"`
	UPIID           string    `json:"upi_id,omitempty"`
	UTRNumber       string    `json:"utr_number,omitempty"`
	PaymentProofURL string    `json:"payment_proof_url,omitempty"`
	Status          string    `json:"status"`
	TimerExpiresAt  time.Time `json:"timer_expires_at"`
	CreatedAt       time.Time `json:"created_at"`
}

type TransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Page         int64                 `json:"page"`
	Limit        int64                 `json:"limit"`
}
