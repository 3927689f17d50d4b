package response

import "github.com/LavaJover/shvark-exchange-service/internal/domain"

type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

type MarketPricesResponse struct {
	Provider string               `json:"provider"`
	Prices   []domain.MarketPrice `json:"prices"`
}
