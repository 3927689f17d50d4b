package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var bookStates = []string{"loading", "ready", "unavailable"}

// ExchangeMetrics содержит все метрики сервиса
type ExchangeMetrics struct {
	// Котировки
	QuotesTotal *prometheus.CounterVec

	// Загрузка тиров
	TierRefreshTotal    *prometheus.CounterVec
	TierRefreshDuration prometheus.Histogram
	TierBookState       *prometheus.GaugeVec
	TiersLoaded         prometheus.Gauge

	// Транзакции
	TransactionsCreatedTotal *prometheus.CounterVec
	TransactionsAmountINR    *prometheus.CounterVec
	TransactionsAmountUSDT   *prometheus.CounterVec

	// Рыночные цены
	MarketFetchTotal *prometheus.CounterVec

	// Ошибки
	ErrorsTotal *prometheus.CounterVec
}

// NewExchangeMetrics регистрирует метрики в reg; nil - глобальный регистр
func NewExchangeMetrics(reg prometheus.Registerer) *ExchangeMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &ExchangeMetrics{
		QuotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_quotes_total",
				Help: "Количество рассчитанных котировок по состоянию",
			},
			[]string{"direction", "strategy", "state"},
		),

		TierRefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_tier_refresh_total",
				Help: "Количество перезагрузок тиров",
			},
			[]string{"result"},
		),

		TierRefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "exchange_tier_refresh_duration_seconds",
				Help:    "Время загрузки тиров и курсов",
				Buckets: prometheus.DefBuckets,
			},
		),

		TierBookState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "exchange_tier_book_state",
				Help: "Текущее состояние снимка тиров (1 - активное)",
			},
			[]string{"state"},
		),

		TiersLoaded: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "exchange_tiers_loaded",
				Help: "Количество тиров в текущем снимке",
			},
		),

		TransactionsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_transactions_created_total",
				Help: "Количество созданных транзакций",
			},
			[]string{"direction", "network"},
		),

		TransactionsAmountINR: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_transactions_amount_inr_total",
				Help: "Сумма созданных транзакций в INR",
			},
			[]string{"direction"},
		),

		TransactionsAmountUSDT: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_transactions_amount_usdt_total",
				Help: "Сумма созданных транзакций в USDT",
			},
			[]string{"direction"},
		),

		MarketFetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_market_fetch_total",
				Help: "Запросы к провайдерам рыночных цен",
			},
			[]string{"provider", "result"},
		),

		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_errors_total",
				Help: "Ошибки по операциям",
			},
			[]string{"operation", "error_type"},
		),
	}
}

func (m *ExchangeMetrics) RecordQuote(direction, strategy, state string) {
	m.QuotesTotal.WithLabelValues(direction, strategy, state).Inc()
}

func (m *ExchangeMetrics) ObserveTierRefresh(duration time.Duration, err error) {
	m.TierRefreshDuration.Observe(duration.Seconds())
	m.TierRefreshTotal.WithLabelValues(result(err)).Inc()
}

func (m *ExchangeMetrics) SetTierBookState(state string) {
	for _, s := range bookStates {
		v := 0.0
		if s == state {
			v = 1
		}
		m.TierBookState.WithLabelValues(s).Set(v)
	}
}

func (m *ExchangeMetrics) SetTiersLoaded(count int) {
	m.TiersLoaded.Set(float64(count))
}

func (m *ExchangeMetrics) RecordTransactionCreated(direction, network string, amountINR, amountUSDT float64) {
	m.TransactionsCreatedTotal.WithLabelValues(direction, network).Inc()
	m.TransactionsAmountINR.WithLabelValues(direction).Add(amountINR)
	m.TransactionsAmountUSDT.WithLabelValues(direction).Add(amountUSDT)
}

func (m *ExchangeMetrics) RecordMarketFetch(provider string, err error) {
	m.MarketFetchTotal.WithLabelValues(provider, result(err)).Inc()
}

func (m *ExchangeMetrics) RecordError(operation, errorType string) {
	m.ErrorsTotal.WithLabelValues(operation, errorType).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
