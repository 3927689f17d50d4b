package postgres

import (
	"log"

	"github.com/LavaJover/shvark-exchange-service/internal/config"
	eventlog "github.com/LavaJover/shvark-exchange-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func MustInitDB(cfg *config.ExchangeConfig) *gorm.DB {
	dsn := cfg.ExchangeDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	// триггеры NOTIFY есть только в SQL-миграциях, AutoMigrate годится для локального запуска
	if cfg.ExchangeDB.MigrationsPath != "" {
		if err := migrate.Apply(db, cfg.ExchangeDB.MigrationsPath, nil); err != nil {
			log.Fatalf("failed to apply migrations: %v\n", err)
		}
		return db
	}

	if err := db.AutoMigrate(
		&models.PriceTierModel{},
		&models.AppConfigModel{},
		&models.TransactionModel{},
		&eventlog.QuoteLockedEvent{},
	); err != nil {
		log.Fatalf("failed to automigrate: %v\n", err)
	}

	return db
}
