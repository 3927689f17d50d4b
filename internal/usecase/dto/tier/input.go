package tierdto

import "github.com/shopspring/decimal"

// TierInput задается либо меткой ("100-499", "1000+"), либо явными границами
type TierInput struct {
	RangeLabel  string
	MinQuantity *decimal.Decimal
	MaxQuantity *decimal.Decimal
	UnitRate    decimal.Decimal
	Kind        string
}
