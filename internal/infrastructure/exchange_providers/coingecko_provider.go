package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
)

const defaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
}

type CoinGeckoMarket struct {
	ID                       string    `json:"id"`
	Symbol                   string    `json:"symbol"`
	Name                     string    `json:"name"`
	Image                    string    `json:"image"`
	CurrentPrice             float64   `json:"current_price"`
	PriceChangePercentage24h float64   `json:"price_change_percentage_24h"`
	LastUpdated              time.Time `json:"last_updated"`
}

func NewCoinGeckoProvider(baseURL string, timeout time.Duration) *CoinGeckoProvider {
	if baseURL == "" {
		baseURL = defaultCoinGeckoURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CoinGeckoProvider{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (p *CoinGeckoProvider) GetName() string {
	return "coingecko"
}

func (p *CoinGeckoProvider) GetPrices(ctx context.Context, query *domain.MarketQuery) ([]domain.MarketPrice, error) {
	if query == nil || len(query.CoinIDs) == 0 {
		return nil, fmt.Errorf("no coins requested")
	}
	vs := strings.ToLower(query.VsCurrency)

	params := url.Values{}
	params.Set("vs_currency", vs)
	params.Set("ids", strings.Join(query.CoinIDs, ","))
	params.Set("order", "market_cap_desc")
	params.Set("sparkline", "false")
	endpoint := p.baseURL + "/coins/markets?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get prices from CoinGecko: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko API returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var markets []CoinGeckoMarket
	if err := json.Unmarshal(body, &markets); err != nil {
		return nil, fmt.Errorf("failed to parse CoinGecko response: %w", err)
	}

	prices := make([]domain.MarketPrice, 0, len(markets))
	for _, m := range markets {
		prices = append(prices, domain.MarketPrice{
			CoinID:       m.ID,
			Symbol:       strings.ToUpper(m.Symbol),
			Name:         m.Name,
			CurrentPrice: m.CurrentPrice,
			Change24hPct: m.PriceChangePercentage24h,
			ImageURL:     m.Image,
			VsCurrency:   vs,
			UpdatedAt:    m.LastUpdated,
		})
	}
	return prices, nil
}

func (p *CoinGeckoProvider) IsHealthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/ping", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
