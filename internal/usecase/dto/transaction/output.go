package transactiondto

import "github.com/LavaJover/shvark-exchange-service/internal/domain"

type TransactionsOutput struct {
	Transactions []*domain.Transaction
	Total        int64
	Page         int64
	Limit        int64
}
