package models

import (
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/shopspring/decimal"
)

type AppConfigModel struct {
	Key       string          `gorm:"primaryKey;type:varchar(64)"`
	Value     decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AppConfigModel) TableName() string {
	return domain.TableAppConfig
}
