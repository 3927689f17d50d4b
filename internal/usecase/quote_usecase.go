package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	quotedto "github.com/LavaJover/shvark-exchange-service/internal/usecase/dto/quote"
	"github.com/LavaJover/shvark-exchange-service/internal/usecase/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type QuoteUsecase interface {
	Preview(ctx context.Context, input *quotedto.QuoteInput) (*quotedto.QuoteOutput, error)
	Lock(ctx context.Context, input *quotedto.QuoteInput) (*quotedto.LockedQuoteOutput, error)
	GetLockedQuote(ctx context.Context, quoteID string) (*domain.LockedQuote, error)
}

type RatesView interface {
	View() (BookState, *TierSnapshot)
}

type QuoteMetrics interface {
	RecordQuote(direction, strategy, state string)
}

type QuoteEventLogger interface {
	LogQuoteLocked(ctx context.Context, quote *domain.LockedQuote) error
}

type PricingSettings struct {
	BuyStrategy      string
	SellStrategy     string
	FallbackBuyRate  decimal.Decimal
	FallbackSellRate decimal.Decimal
	QuoteTTL         time.Duration
}

type DefaultQuoteUsecase struct {
	book     RatesView
	store    domain.QuoteStore
	events   QuoteEventLogger
	settings PricingSettings
	metrics  QuoteMetrics
	logger   *slog.Logger
	now      func() time.Time
}

func NewDefaultQuoteUsecase(
	book RatesView,
	store domain.QuoteStore,
	events QuoteEventLogger,
	settings PricingSettings,
	metrics QuoteMetrics,
	logger *slog.Logger,
) (*DefaultQuoteUsecase, error) {
	for _, name := range []string{settings.BuyStrategy, settings.SellStrategy} {
		if _, err := pricing.StrategyByName(name, decimal.Zero); err != nil {
			return nil, err
		}
	}
	if settings.QuoteTTL <= 0 {
		settings.QuoteTTL = 2 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultQuoteUsecase{
		book:     book,
		store:    store,
		events:   events,
		settings: settings,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Preview пересчитывается на каждое изменение суммы, ничего не сохраняет
func (uc *DefaultQuoteUsecase) Preview(ctx context.Context, input *quotedto.QuoteInput) (*quotedto.QuoteOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: empty quote input", domain.ErrInvalidAmount)
	}
	if _, err := domain.ParseDirection(string(input.Direction)); err != nil {
		return nil, err
	}

	state, snapshot := uc.book.View()
	out := &quotedto.QuoteOutput{}
	strategy := uc.strategyFor(input.Direction, snapshot)

	switch {
	case state == BookUnavailable:
		out.State = quotedto.QuoteUnavailable
	case snapshot == nil:
		out.State = quotedto.QuoteLoading
	default:
		var tiers []domain.PriceTier
		strategy, tiers = pricing.ForLadder(strategy, input.Direction, snapshot.TiersFor(input.Direction))
		out.RatesAsOf = snapshot.LoadedAt
		out.Result = pricing.Resolve(strategy, input.Direction, input.Amount, tiers)
		switch {
		case state == BookLoading:
			// считаем по старому снимку, но подтвердить нельзя
			out.State = quotedto.QuoteLoading
		case out.Result.Resolved():
			out.State = quotedto.QuoteResolved
		default:
			out.State = quotedto.QuoteUnresolved
		}
	}

	if uc.metrics != nil {
		uc.metrics.RecordQuote(string(input.Direction), strategy.Name(), string(out.State))
	}
	return out, nil
}

// Lock resolves the quote and stores it for QuoteTTL so that the transaction
// is created with exactly these numbers.
func (uc *DefaultQuoteUsecase) Lock(ctx context.Context, input *quotedto.QuoteInput) (*quotedto.LockedQuoteOutput, error) {
	if input == nil || strings.TrimSpace(input.UserID) == "" {
		return nil, fmt.Errorf("%w: user_id", domain.ErrMissingField)
	}
	out, err := uc.Preview(ctx, input)
	if err != nil {
		return nil, err
	}
	switch out.State {
	case quotedto.QuoteLoading:
		return nil, domain.ErrRatesLoading
	case quotedto.QuoteUnavailable:
		return nil, domain.ErrRatesUnavailable
	case quotedto.QuoteUnresolved:
		return nil, fmt.Errorf("%w: %s", domain.ErrQuoteUnresolved, out.Result.Reason)
	}

	now := uc.now()
	res := out.Result
	quote := domain.LockedQuote{
		ID:              uuid.New().String(),
		UserID:          strings.TrimSpace(input.UserID),
		Direction:       res.Direction,
		Strategy:        res.Strategy,
		Amount:          res.Amount,
		UnitRate:        res.UnitRate,
		ConvertedAmount: res.ConvertedAmount,
		TierID:          res.Tier.ID,
		TierLabel:       res.Tier.RangeLabel,
		CreatedAt:       now,
		ExpiresAt:       now.Add(uc.settings.QuoteTTL),
	}
	if err := uc.store.Save(ctx, &quote, uc.settings.QuoteTTL); err != nil {
		return nil, fmt.Errorf("save quote: %w", err)
	}

	if uc.events != nil {
		if err := uc.events.LogQuoteLocked(ctx, &quote); err != nil {
			uc.logger.Error("failed to log locked quote", "quote_id", quote.ID, "error", err)
		}
	}

	uc.logger.Info("quote locked",
		"quote_id", quote.ID,
		"user_id", quote.UserID,
		"direction", quote.Direction,
		"amount", quote.Amount.String(),
		"rate", quote.UnitRate.String(),
		"converted", quote.ConvertedAmount.StringFixed(pricing.AssetPrecision),
	)
	return &quotedto.LockedQuoteOutput{Quote: quote}, nil
}

func (uc *DefaultQuoteUsecase) GetLockedQuote(ctx context.Context, quoteID string) (*domain.LockedQuote, error) {
	if quoteID == "" {
		return nil, fmt.Errorf("%w: quote_id", domain.ErrMissingField)
	}
	return uc.store.Get(ctx, quoteID)
}

func (uc *DefaultQuoteUsecase) strategyFor(direction domain.Direction, snapshot *TierSnapshot) pricing.Strategy {
	name, key, fallback := uc.settings.BuyStrategy, domain.ConfigKeyBuyRate, uc.settings.FallbackBuyRate
	if direction == domain.DirectionSell {
		name, key, fallback = uc.settings.SellStrategy, domain.ConfigKeySellRate, uc.settings.FallbackSellRate
	}
	rate, ok := snapshot.Rate(key)
	if !ok {
		rate = fallback
	}
	// имена проверены в конструкторе
	strategy, _ := pricing.StrategyByName(name, rate)
	return strategy
}
