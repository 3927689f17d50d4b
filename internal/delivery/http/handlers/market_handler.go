package handlers

import (
	"log/slog"
	"net/http"

	exchangeResponse "github.com/LavaJover/shvark-exchange-service/internal/delivery/http/dto/exchange/response"
	"github.com/LavaJover/shvark-exchange-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

type MarketHandler struct {
	Service usecase.MarketPriceService
	Logger  *slog.Logger
}

func NewMarketHandler(service usecase.MarketPriceService, logger *slog.Logger) *MarketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarketHandler{Service: service, Logger: logger}
}

// Prices: GET /api/v1/market/prices
func (h *MarketHandler) Prices(c *gin.Context) {
	prices, provider, err := h.Service.GetPrices(c.Request.Context())
	if err != nil {
		h.Logger.Warn("market prices unavailable", "error", err)
		writeError(c, http.StatusBadGateway, CodeRatesUnavailable, "market prices unavailable")
		return
	}
	c.JSON(http.StatusOK, exchangeResponse.MarketPricesResponse{Provider: provider, Prices: prices})
}
