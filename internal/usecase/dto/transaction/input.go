package transactiondto

import "github.com/LavaJover/shvark-exchange-service/internal/domain"

type CreateTransactionInput struct {
	QuoteID         string
	UserID          string
	Network         string
	WalletAddress   string
	PayoutMethod    string
	UPIID           string
	UTRNumber       string
	PaymentProofURL string
}

type ListTransactionsInput struct {
	UserID  string
	Page    int64
	Limit   int64
	Filters domain.TransactionFilters
}
