package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
)

type MarketPriceService interface {
	GetPrices(ctx context.Context) ([]domain.MarketPrice, string, error)
	Refresh(ctx context.Context) error
	GetAvailableProviders() []string
	HealthCheck(ctx context.Context) map[string]error
}

type MarketMetrics interface {
	RecordMarketFetch(provider string, err error)
}

type MarketSettings struct {
	Provider          string
	FallbackProviders []string
	CoinIDs           []string
	VsCurrency        string
	CacheTTL          time.Duration
}

type DefaultMarketPriceService struct {
	providers map[string]domain.MarketPriceProvider
	cache     *MarketPriceCache
	settings  MarketSettings
	metrics   MarketMetrics
	logger    *slog.Logger
}

type MarketPriceCache struct {
	prices map[string]CachedPrices
	ttl    time.Duration
	mu     sync.RWMutex
}

type CachedPrices struct {
	prices    []domain.MarketPrice
	timestamp time.Time
	provider  string
}

func NewDefaultMarketPriceService(settings MarketSettings, metrics MarketMetrics, logger *slog.Logger) *DefaultMarketPriceService {
	if settings.CacheTTL <= 0 {
		settings.CacheTTL = time.Minute
	}
	if settings.VsCurrency == "" {
		settings.VsCurrency = "inr"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultMarketPriceService{
		providers: make(map[string]domain.MarketPriceProvider),
		cache: &MarketPriceCache{
			prices: make(map[string]CachedPrices),
			ttl:    settings.CacheTTL,
		},
		settings: settings,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *DefaultMarketPriceService) RegisterProvider(provider domain.MarketPriceProvider) {
	s.providers[provider.GetName()] = provider
}

// GetPrices отдает цены основного провайдера, при ошибке пробует запасные
func (s *DefaultMarketPriceService) GetPrices(ctx context.Context) ([]domain.MarketPrice, string, error) {
	prices, err := s.getPricesWithProvider(ctx, s.settings.Provider)
	if err == nil {
		return prices, s.settings.Provider, nil
	}

	for _, name := range s.settings.FallbackProviders {
		if name == s.settings.Provider {
			continue
		}
		fallbackPrices, fallbackErr := s.getPricesWithProvider(ctx, name)
		if fallbackErr == nil {
			s.logger.Warn("using fallback market provider",
				"primary", s.settings.Provider,
				"fallback", name,
				"error", err)
			return fallbackPrices, name, nil
		}
	}

	return nil, "", fmt.Errorf("all market providers failed: %w", err)
}

// Refresh drops the cache and refetches, used by the background ticker.
func (s *DefaultMarketPriceService) Refresh(ctx context.Context) error {
	s.cache.Clear()
	prices, provider, err := s.GetPrices(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("market prices updated", "provider", provider, "coins", len(prices))
	return nil
}

func (s *DefaultMarketPriceService) getPricesWithProvider(ctx context.Context, providerName string) ([]domain.MarketPrice, error) {
	cacheKey := s.cacheKey(providerName)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.prices, nil
	}

	provider, exists := s.providers[providerName]
	if !exists {
		return nil, fmt.Errorf("market provider %s not found", providerName)
	}

	prices, err := provider.GetPrices(ctx, &domain.MarketQuery{
		CoinIDs:    s.settings.CoinIDs,
		VsCurrency: s.settings.VsCurrency,
	})
	if s.metrics != nil {
		s.metrics.RecordMarketFetch(providerName, err)
	}
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, prices, providerName)
	return prices, nil
}

func (s *DefaultMarketPriceService) cacheKey(provider string) string {
	return fmt.Sprintf("%s_%s_%s", provider, s.settings.VsCurrency, strings.Join(s.settings.CoinIDs, ","))
}

func (s *DefaultMarketPriceService) GetAvailableProviders() []string {
	providers := make([]string, 0, len(s.providers))
	for name := range s.providers {
		providers = append(providers, name)
	}
	return providers
}

func (s *DefaultMarketPriceService) HealthCheck(ctx context.Context) map[string]error {
	errs := make(map[string]error)
	for name, provider := range s.providers {
		if !provider.IsHealthy(ctx) {
			errs[name] = fmt.Errorf("provider %s is unhealthy", name)
		}
	}
	return errs
}

func (c *MarketPriceCache) Get(key string) (CachedPrices, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, exists := c.prices[key]
	if !exists || time.Since(cached.timestamp) > c.ttl {
		return CachedPrices{}, false
	}
	return cached, true
}

func (c *MarketPriceCache) Set(key string, prices []domain.MarketPrice, provider string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prices[key] = CachedPrices{
		prices:    prices,
		timestamp: time.Now(),
		provider:  provider,
	}
}

func (c *MarketPriceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices = make(map[string]CachedPrices)
}
