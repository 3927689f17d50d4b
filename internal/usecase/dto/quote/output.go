package quotedto

import (
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/LavaJover/shvark-exchange-service/internal/usecase/pricing"
)

type QuoteState string

// loading и unavailable - разные состояния, клиент показывает их по-разному
const (
	QuoteLoading     QuoteState = "loading"
	QuoteUnavailable QuoteState = "unavailable"
	QuoteUnresolved  QuoteState = "unresolved"
	QuoteResolved    QuoteState = "resolved"
)

type QuoteOutput struct {
	State     QuoteState
	Result    pricing.Result
	RatesAsOf time.Time
}

func (o *QuoteOutput) Committable() bool {
	return o.State == QuoteResolved
}

type LockedQuoteOutput struct {
	Quote domain.LockedQuote
}
