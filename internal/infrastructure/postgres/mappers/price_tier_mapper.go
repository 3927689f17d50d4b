package mappers

import (
	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
)

func ToDomainPriceTier(model *models.PriceTierModel) domain.PriceTier {
	tier := domain.PriceTier{
		ID:          model.ID,
		Direction:   model.Direction,
		Kind:        model.Kind,
		RangeLabel:  model.RangeLabel,
		MinQuantity: model.MinQuantity,
		UnitRate:    model.UnitRate,
		SortOrder:   model.SortOrder,
	}
	if model.MaxQuantity.Valid {
		upper := model.MaxQuantity.Decimal
		tier.MaxQuantity = &upper
	}
	return tier
}

func ToGORMPriceTier(tier *domain.PriceTier) *models.PriceTierModel {
	model := &models.PriceTierModel{
		ID:          tier.ID,
		Direction:   tier.Direction,
		Kind:        tier.Kind,
		RangeLabel:  tier.RangeLabel,
		MinQuantity: tier.MinQuantity,
		UnitRate:    tier.UnitRate,
		SortOrder:   tier.SortOrder,
	}
	if tier.MaxQuantity != nil {
		model.MaxQuantity = decimal.NewNullDecimal(*tier.MaxQuantity)
	}
	return model
}
