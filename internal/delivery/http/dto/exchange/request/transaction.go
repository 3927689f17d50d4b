package request

type CreateTransactionRequest struct {
	QuoteID         string `json:"quote_id" binding:"required"`
	UserID          string `json:"user_id" binding:"required"`
	Network         string `json:"network" binding:"required"`
	WalletAddress   string `json:"wallet_address"`
	PayoutMethod    string `json:"payout_method"`
	UPIID           string `json:"upi_id"`
	UTRNumber       string `json:"utr_number"`
	PaymentProofURL string `json:"payment_proof_url"`
}
