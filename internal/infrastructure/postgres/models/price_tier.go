package models

import (
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/shopspring/decimal"
)

type PriceTierModel struct {
	ID          string              `gorm:"primaryKey;type:uuid"`
	Direction   domain.Direction    `gorm:"type:varchar(8);not null;index:idx_tier_direction_min"`
	Kind        domain.TierKind     `gorm:"type:varchar(16);not null;default:quantity"`
	RangeLabel  string              `gorm:"type:varchar(64)"`
	MinQuantity decimal.Decimal     `gorm:"type:numeric(20,6);not null;index:idx_tier_direction_min"`
	MaxQuantity decimal.NullDecimal `gorm:"type:numeric(20,6)"`
	UnitRate    decimal.Decimal     `gorm:"type:numeric(20,6);not null"`
	SortOrder   int32               `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PriceTierModel) TableName() string {
	return domain.TablePriceTiers
}
