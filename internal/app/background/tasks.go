package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/usecase"
)

type BackgroundTasks struct {
	MarketService   usecase.MarketPriceService
	RefreshInterval time.Duration
	Logger          *slog.Logger

	wg sync.WaitGroup
}

func NewBackgroundTasks(marketService usecase.MarketPriceService, refreshInterval time.Duration, logger *slog.Logger) *BackgroundTasks {
	if refreshInterval <= 0 {
		refreshInterval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BackgroundTasks{
		MarketService:   marketService,
		RefreshInterval: refreshInterval,
		Logger:          logger,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	bt.wg.Add(1)
	go func() {
		defer bt.wg.Done()
		bt.startMarketPricesUpdate(ctx)
	}()
}

// Wait blocks until every task has returned after ctx cancellation.
func (bt *BackgroundTasks) Wait() {
	bt.wg.Wait()
}

func (bt *BackgroundTasks) startMarketPricesUpdate(ctx context.Context) {
	bt.refreshMarket(ctx)

	ticker := time.NewTicker(bt.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.refreshMarket(ctx)
		}
	}
}

func (bt *BackgroundTasks) refreshMarket(ctx context.Context) {
	if err := bt.MarketService.Refresh(ctx); err != nil && ctx.Err() == nil {
		bt.Logger.Error("market prices update failed", "error", err)
	}
}
