package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type ExchangeConfig struct {
	Env          string `yaml:"env" env:"EXCHANGE_ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	ExchangeDB   `yaml:"exchange_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	RedisService `yaml:"redis-service"`
	Notifier     `yaml:"notifier"`
	Pricing      `yaml:"pricing"`
	MarketData   `yaml:"market_data"`
	Admin        `yaml:"admin"`
	Callback     `yaml:"callback"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"50061"`
}

type ExchangeDB struct {
	Dsn            string `yaml:"dsn" env:"EXCHANGE_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

type KafkaService struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	Username   string `yaml:"username" env:"KAFKA_USERNAME"`
	Password   string `yaml:"password" env:"KAFKA_PASSWORD"`
	Mechanism  string `yaml:"mechanism" env-default:"PLAIN"`
	TLSEnabled bool   `yaml:"tls_enabled"`
	Topics     `yaml:"topics"`
}

type Topics struct {
	Transactions string `yaml:"transactions" env-default:"exchange-transactions"`
	TierChanges  string `yaml:"tier_changes" env-default:"exchange-tier-changes"`
}

type RedisService struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"`
}

// Notifier выбирает источник сигналов об изменении тиров: postgres, kafka или none
type Notifier struct {
	Driver         string        `yaml:"driver" env-default:"postgres"`
	MinReconnect   time.Duration `yaml:"min_reconnect" env-default:"1s"`
	MaxReconnect   time.Duration `yaml:"max_reconnect" env-default:"30s"`
	ConsumerGroup  string        `yaml:"consumer_group" env-default:"exchange-tier-book"` // префикс, группа у каждого инстанса своя
	RefreshTimeout time.Duration `yaml:"refresh_timeout" env-default:"5s"`
}

type Pricing struct {
	BuyStrategy      string        `yaml:"buy_strategy" env-default:"quantity"`
	SellStrategy     string        `yaml:"sell_strategy" env-default:"fixed"`
	FallbackBuyRate  string        `yaml:"fallback_buy_rate"`
	FallbackSellRate string        `yaml:"fallback_sell_rate" env-default:"90"`
	QuoteTTL         time.Duration `yaml:"quote_ttl" env-default:"2m"`
	BuyTimer         time.Duration `yaml:"buy_timer" env-default:"5m"`
	SellTimer        time.Duration `yaml:"sell_timer" env-default:"15m"`
}

type MarketData struct {
	Provider          string        `yaml:"provider" env-default:"coingecko"`
	FallbackProviders []string      `yaml:"fallback_providers"`
	BaseURL           string        `yaml:"base_url" env-default:"https://api.coingecko.com/api/v3"`
	CoinIDs           []string      `yaml:"coin_ids" env-default:"bitcoin,ethereum,tether"`
	VsCurrency        string        `yaml:"vs_currency" env-default:"inr"`
	CacheTTL          time.Duration `yaml:"cache_ttl" env-default:"60s"`
	RefreshInterval   time.Duration `yaml:"refresh_interval" env-default:"60s"`
	RequestTimeout    time.Duration `yaml:"request_timeout" env-default:"10s"`
}

// Callback используется вместо kafka, если брокеры не заданы
type Callback struct {
	URL     string        `yaml:"url"`
	Secret  string        `yaml:"secret" env:"EXCHANGE_CALLBACK_SECRET"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type Admin struct {
	Token string `yaml:"token" env:"EXCHANGE_ADMIN_TOKEN"`
}

func MustLoad() *ExchangeConfig {

	// Processing env config variable and file
	configPath := os.Getenv("EXCHANGE_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("EXCHANGE_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return cfg
}

func Load(configPath string) (*ExchangeConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, err
	}

	// YAML to struct object
	var cfg ExchangeConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
