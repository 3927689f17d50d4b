// Package pricing maps an input amount and a tier ladder to the applicable unit
// rate and the converted amount. Everything here is pure: no I/O, no state.
package pricing

import (
	"fmt"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/shopspring/decimal"
)

// AssetPrecision is the number of decimal places USDT amounts are rounded to.
const AssetPrecision int32 = 6

// промежуточное деление (предварительное количество) считаем точнее итога
const provisionalPrecision int32 = 18

type Status string

const (
	StatusResolved   Status = "resolved"
	StatusUnresolved Status = "unresolved"
)

type Reason string

const (
	ReasonNone              Reason = ""
	ReasonNonPositiveAmount Reason = "non_positive_amount"
	ReasonNoTiers           Reason = "no_tiers"
	ReasonAboveRange        Reason = "above_range"
	ReasonInvalidRate       Reason = "invalid_rate"
)

type Result struct {
	Status          Status
	Reason          Reason
	Strategy        string
	Direction       domain.Direction
	Amount          decimal.Decimal
	Tier            *domain.PriceTier
	UnitRate        decimal.Decimal
	ConvertedAmount decimal.Decimal
}

func (r Result) Resolved() bool {
	return r.Status == StatusResolved
}

// Strategy picks the tier whose rate applies to amount. tiers are sorted
// ascending by minimum quantity and never empty.
type Strategy interface {
	Name() string
	SelectTier(direction domain.Direction, amount decimal.Decimal, tiers []domain.PriceTier) (*domain.PriceTier, Reason)
}

// Resolve never fails: every input without an applicable rate comes back as
// an unresolved Result carrying the reason.
func Resolve(strategy Strategy, direction domain.Direction, amount decimal.Decimal, tiers []domain.PriceTier) Result {
	res := Result{
		Status:    StatusUnresolved,
		Strategy:  strategy.Name(),
		Direction: direction,
		Amount:    amount,
	}
	if !amount.IsPositive() {
		res.Reason = ReasonNonPositiveAmount
		return res
	}
	if len(tiers) == 0 {
		res.Reason = ReasonNoTiers
		return res
	}

	sorted := make([]domain.PriceTier, len(tiers))
	copy(sorted, tiers)
	domain.SortTiers(sorted)

	tier, reason := strategy.SelectTier(direction, amount, sorted)
	if tier == nil {
		res.Reason = reason
		return res
	}
	if !tier.UnitRate.IsPositive() {
		res.Reason = ReasonInvalidRate
		return res
	}

	res.Status = StatusResolved
	res.Tier = tier
	res.UnitRate = tier.UnitRate
	res.ConvertedAmount = Convert(direction, amount, tier.UnitRate)
	return res
}

// Convert applies rate to amount: buy divides INR by the rate, sell multiplies
// USDT by it. The result is rounded to AssetPrecision places.
func Convert(direction domain.Direction, amount, rate decimal.Decimal) decimal.Decimal {
	if direction == domain.DirectionSell {
		return amount.Mul(rate).Round(AssetPrecision)
	}
	return amount.DivRound(rate, AssetPrecision)
}

func StrategyByName(name string, fixedRate decimal.Decimal) (Strategy, error) {
	switch name {
	case StrategyQuantity:
		return QuantityTiered{}, nil
	case StrategyAmount:
		return AmountTiered{}, nil
	case StrategyFixed:
		return FixedRate{Rate: fixedRate}, nil
	}
	return nil, fmt.Errorf("unknown pricing strategy %q", name)
}
