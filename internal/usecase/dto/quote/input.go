package quotedto

import (
	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/shopspring/decimal"
)

// UserID нужен только для Lock: котировка закрепляется за пользователем
type QuoteInput struct {
	UserID    string
	Direction domain.Direction
	Amount    decimal.Decimal
}
