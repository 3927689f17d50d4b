package setup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-exchange-service/internal/config"
	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/cache"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/pgnotify"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.ExchangeConfig
	Logger       *slog.Logger
	DB           *gorm.DB
	QuoteStore   domain.QuoteStore
	Publisher    *kafka.DefaultKafkaPublisher
	Notifier     domain.ChangeNotifier
	Metrics      *metrics.ExchangeMetrics
	Registry     *prometheus.Registry
	Repositories *Repositories

	closers []func() error
}

type Repositories struct {
	TierRepo        domain.PriceTierRepository
	ConfigRepo      domain.AppConfigRepository
	TransactionRepo domain.TransactionRepository
}

func InitializeDependencies(ctx context.Context, cfg *config.ExchangeConfig, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.NewExchangeMetrics(deps.Registry)

	deps.DB = postgres.MustInitDB(cfg)
	deps.Repositories = &Repositories{
		TierRepo:        repository.NewDefaultPriceTierRepository(deps.DB),
		ConfigRepo:      repository.NewDefaultAppConfigRepository(deps.DB),
		TransactionRepo: repository.NewDefaultTransactionRepository(deps.DB),
	}

	store, err := initQuoteStore(ctx, cfg, logger)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("quote store: %w", err)
	}
	deps.QuoteStore = store.store
	deps.addCloser(store.close)

	if cfg.KafkaService.Host != "" {
		pub, err := kafka.NewDefaultKafkaPublisher(kafkaConfig(cfg), kafka.Topics{
			Transactions: cfg.KafkaService.Topics.Transactions,
			TierChanges:  cfg.KafkaService.Topics.TierChanges,
		}, logger)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("kafka publisher: %w", err)
		}
		deps.Publisher = pub
		deps.addCloser(pub.Close)
	}

	if err := deps.initNotifier(ctx); err != nil {
		deps.Close()
		return nil, fmt.Errorf("change notifier: %w", err)
	}

	return deps, nil
}

func (d *Dependencies) initNotifier(ctx context.Context) error {
	cfg := d.Config
	switch cfg.Notifier.Driver {
	case "postgres":
		listener := pgnotify.NewListener(cfg.ExchangeDB.Dsn, cfg.Notifier.MinReconnect, cfg.Notifier.MaxReconnect, d.Logger)
		d.Notifier = listener
		d.addCloser(listener.Close)
	case "kafka":
		if cfg.KafkaService.Host == "" {
			return fmt.Errorf("kafka notifier requires kafka-service.host")
		}
		sub := kafka.NewDefaultKafkaSubscriber(kafkaConfig(cfg), d.Logger)
		groupID := kafka.InstanceGroupID(cfg.Notifier.ConsumerGroup)
		notifier := kafka.NewKafkaChangeNotifier(sub, cfg.KafkaService.Topics.TierChanges, groupID,
			cfg.Notifier.MinReconnect, cfg.Notifier.MaxReconnect, d.Logger)
		if err := notifier.Start(ctx); err != nil {
			return err
		}
		d.Logger.Info("kafka change notifier started", "group_id", groupID)
		d.Notifier = notifier
		d.addCloser(notifier.Close)
	case "none", "":
		// тиры перечитываются только после записи через admin API
		d.Logger.Warn("change notifier disabled")
	default:
		return fmt.Errorf("unknown notifier driver %q", cfg.Notifier.Driver)
	}
	return nil
}

type quoteStore struct {
	store domain.QuoteStore
	close func() error
}

func initQuoteStore(ctx context.Context, cfg *config.ExchangeConfig, logger *slog.Logger) (quoteStore, error) {
	if cfg.RedisService.Addr == "" {
		logger.Warn("redis is not configured, locked quotes are kept in memory")
		return quoteStore{store: cache.NewMemoryQuoteStore(), close: func() error { return nil }}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisService.Addr,
		Password: cfg.RedisService.Password,
		DB:       cfg.RedisService.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return quoteStore{}, fmt.Errorf("ping redis: %w", err)
	}
	return quoteStore{store: cache.NewRedisQuoteStore(client), close: client.Close}, nil
}

func kafkaConfig(cfg *config.ExchangeConfig) kafka.KafkaConfig {
	return kafka.KafkaConfig{
		Brokers:    []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)},
		Username:   cfg.KafkaService.Username,
		Password:   cfg.KafkaService.Password,
		Mechanism:  cfg.KafkaService.Mechanism,
		TLSEnabled: cfg.KafkaService.TLSEnabled,
	}
}

func (d *Dependencies) addCloser(fn func() error) {
	d.closers = append(d.closers, fn)
}

// Close releases resources in reverse order of creation.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.Logger.Error("failed to close dependency", "error", err)
		}
	}
	d.closers = nil
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
