package setup

import (
	"context"
	"fmt"

	infrastructure "github.com/LavaJover/shvark-exchange-service/internal/infrastructure/exchange_providers"
	eventlog "github.com/LavaJover/shvark-exchange-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/notifier"
	"github.com/LavaJover/shvark-exchange-service/internal/usecase"
	"github.com/shopspring/decimal"
)

type UseCases struct {
	TierBook           *usecase.TierBook
	QuoteUsecase       usecase.QuoteUsecase
	TransactionUsecase usecase.TransactionUsecase
	TierUsecase        usecase.TierUsecase
	MarketService      usecase.MarketPriceService
}

// InitializeUseCases builds the usecases and starts the tier book. Call
// UseCases.Close on shutdown.
func InitializeUseCases(ctx context.Context, deps *Dependencies) (*UseCases, error) {
	cfg := deps.Config

	book := usecase.NewTierBook(
		deps.Repositories.TierRepo,
		deps.Repositories.ConfigRepo,
		deps.Notifier,
		deps.Logger,
		deps.Metrics,
		cfg.Notifier.RefreshTimeout,
	)

	settings, err := pricingSettings(deps)
	if err != nil {
		return nil, err
	}
	quoteUsecase, err := usecase.NewDefaultQuoteUsecase(
		book,
		deps.QuoteStore,
		eventlog.NewPGQuoteEventLogger(deps.DB),
		settings,
		deps.Metrics,
		deps.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("quote usecase: %w", err)
	}

	transactionUsecase, err := usecase.NewDefaultTransactionUsecase(
		deps.Repositories.TransactionRepo,
		deps.QuoteStore,
		transactionPublisher(deps),
		deps.Metrics,
		usecase.TransactionTimers{Buy: cfg.Pricing.BuyTimer, Sell: cfg.Pricing.SellTimer},
		deps.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("transaction usecase: %w", err)
	}

	var tierPublisher usecase.TierEventPublisher
	if deps.Publisher != nil {
		tierPublisher = deps.Publisher
	}
	tierUsecase := usecase.NewDefaultTierUsecase(
		deps.Repositories.TierRepo,
		deps.Repositories.ConfigRepo,
		tierPublisher,
		book,
		deps.Logger,
	)

	marketService := usecase.NewDefaultMarketPriceService(usecase.MarketSettings{
		Provider:          cfg.MarketData.Provider,
		FallbackProviders: cfg.MarketData.FallbackProviders,
		CoinIDs:           cfg.MarketData.CoinIDs,
		VsCurrency:        cfg.MarketData.VsCurrency,
		CacheTTL:          cfg.MarketData.CacheTTL,
	}, deps.Metrics, deps.Logger)
	marketService.RegisterProvider(infrastructure.NewCoinGeckoProvider(cfg.MarketData.BaseURL, cfg.MarketData.RequestTimeout))

	if err := book.Start(ctx); err != nil {
		return nil, fmt.Errorf("tier book: %w", err)
	}

	return &UseCases{
		TierBook:           book,
		QuoteUsecase:       quoteUsecase,
		TransactionUsecase: transactionUsecase,
		TierUsecase:        tierUsecase,
		MarketService:      marketService,
	}, nil
}

func (u *UseCases) Close() {
	u.TierBook.Close()
}

func pricingSettings(deps *Dependencies) (usecase.PricingSettings, error) {
	p := deps.Config.Pricing
	settings := usecase.PricingSettings{
		BuyStrategy:  p.BuyStrategy,
		SellStrategy: p.SellStrategy,
		QuoteTTL:     p.QuoteTTL,
	}
	var err error
	if settings.FallbackBuyRate, err = parseRate(p.FallbackBuyRate); err != nil {
		return settings, fmt.Errorf("pricing.fallback_buy_rate: %w", err)
	}
	if settings.FallbackSellRate, err = parseRate(p.FallbackSellRate); err != nil {
		return settings, fmt.Errorf("pricing.fallback_sell_rate: %w", err)
	}
	return settings, nil
}

func parseRate(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// transactionPublisher: kafka, если настроена, иначе HTTP callback
func transactionPublisher(deps *Dependencies) usecase.TransactionEventPublisher {
	if deps.Publisher != nil {
		return deps.Publisher
	}
	if deps.Config.Callback.URL != "" {
		return notifier.NewCallbackNotifier(deps.Config.Callback.URL, deps.Config.Callback.Secret, deps.Config.Callback.Timeout)
	}
	return nil
}
