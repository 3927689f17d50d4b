package handlers

import (
	"log/slog"

	"github.com/LavaJover/shvark-exchange-service/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Quotes       usecase.QuoteUsecase
	Transactions usecase.TransactionUsecase
	Tiers        usecase.TierUsecase
	Market       usecase.MarketPriceService
	Book         usecase.RatesView
	Gatherer     prometheus.Gatherer
	AdminToken   string
	Logger       *slog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))

	health := NewHealthHandler(deps.Book)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	quotes := NewQuoteHandler(deps.Quotes, logger)
	transactions := NewTransactionHandler(deps.Transactions, logger)
	tiers := NewTierHandler(deps.Tiers, logger)

	api := r.Group("/api/v1")
	api.GET("/quote", quotes.Preview)
	api.POST("/quotes", quotes.Lock)
	api.POST("/transactions", transactions.Create)
	api.GET("/transactions/:id", transactions.Get)
	api.GET("/users/:user_id/transactions", transactions.ListByUser)
	api.GET("/tiers", tiers.List)
	if deps.Market != nil {
		api.GET("/market/prices", NewMarketHandler(deps.Market, logger).Prices)
	}

	admin := api.Group("/admin", AdminAuth(deps.AdminToken))
	admin.PUT("/tiers/:direction", tiers.Replace)
	admin.PUT("/rates/:direction", tiers.SetRate)

	return r
}
