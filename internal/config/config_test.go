package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
exchange_db:
  dsn: "postgres://localhost/exchange"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPServer.Port)
	assert.Equal(t, 15*time.Second, cfg.HTTPServer.ShutdownTimeout)
	assert.Equal(t, "postgres", cfg.Notifier.Driver)
	assert.Equal(t, "quantity", cfg.Pricing.BuyStrategy)
	assert.Equal(t, "fixed", cfg.Pricing.SellStrategy)
	assert.Equal(t, "90", cfg.Pricing.FallbackSellRate)
	assert.Equal(t, 2*time.Minute, cfg.Pricing.QuoteTTL)
	assert.Equal(t, 5*time.Minute, cfg.Pricing.BuyTimer)
	assert.Equal(t, 15*time.Minute, cfg.Pricing.SellTimer)
	assert.Equal(t, []string{"bitcoin", "ethereum", "tether"}, cfg.MarketData.CoinIDs)
	assert.Equal(t, "exchange-transactions", cfg.KafkaService.Topics.Transactions)
}

func TestLoadReadsFileAndEnv(t *testing.T) {
	t.Setenv("EXCHANGE_ADMIN_TOKEN", "s3cret")
	path := writeConfig(t, `
env: "prod"
pricing:
  buy_strategy: "amount"
  quote_ttl: 30s
notifier:
  driver: "kafka"
redis-service:
  addr: "redis:6379"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "amount", cfg.Pricing.BuyStrategy)
	assert.Equal(t, 30*time.Second, cfg.Pricing.QuoteTTL)
	assert.Equal(t, "kafka", cfg.Notifier.Driver)
	assert.Equal(t, "redis:6379", cfg.RedisService.Addr)
	assert.Equal(t, "s3cret", cfg.Admin.Token)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
