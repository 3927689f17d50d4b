package pricing

import (
	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	StrategyQuantity = "quantity"
	StrategyAmount   = "amount"
	StrategyFixed    = "fixed"
)

// QuantityTiered resolves tiers defined by USDT quantity ranges.
//
// For buys the input is INR, so the quantity is not known up front: a
// provisional quantity is computed at the lowest rate of the ladder, and the
// tier containing it supplies the final rate. The second pass is final even if
// the recomputed quantity drops below the tier's minimum.
type QuantityTiered struct{}

func (QuantityTiered) Name() string { return StrategyQuantity }

func (QuantityTiered) SelectTier(direction domain.Direction, amount decimal.Decimal, tiers []domain.PriceTier) (*domain.PriceTier, Reason) {
	if len(tiers) == 0 {
		return nil, ReasonNoTiers
	}

	quantity := amount
	if direction == domain.DirectionBuy {
		best := lowestRate(tiers)
		if !best.UnitRate.IsPositive() {
			return nil, ReasonInvalidRate
		}
		quantity = amount.DivRound(best.UnitRate, provisionalPrecision)
	}

	for i := range tiers {
		if tiers[i].Contains(quantity) {
			return &tiers[i], ReasonNone
		}
	}

	// выше последнего закрытого диапазона подходящего тира нет
	top := tiers[len(tiers)-1]
	if !top.Unbounded() && quantity.GreaterThanOrEqual(*top.MaxQuantity) {
		return nil, ReasonAboveRange
	}
	return &tiers[0], ReasonNone
}

// AmountTiered resolves tiers defined by minimum thresholds. Tiers are scanned
// from the highest threshold down; the first one whose minimum INR amount
// (MinQuantity * UnitRate) is covered by the input wins. Sells compare the
// input quantity with MinQuantity directly.
type AmountTiered struct{}

func (AmountTiered) Name() string { return StrategyAmount }

func (AmountTiered) SelectTier(direction domain.Direction, amount decimal.Decimal, tiers []domain.PriceTier) (*domain.PriceTier, Reason) {
	if len(tiers) == 0 {
		return nil, ReasonNoTiers
	}
	for i := len(tiers) - 1; i >= 0; i-- {
		threshold := tiers[i].MinQuantity
		if direction == domain.DirectionBuy {
			threshold = threshold.Mul(tiers[i].UnitRate)
		}
		if threshold.LessThanOrEqual(amount) {
			return &tiers[i], ReasonNone
		}
	}
	return &tiers[0], ReasonNone
}

const FixedTierID = "fixed"

// FixedRate applies a single configured rate. Its ladder is the one
// unbounded tier returned by Ladder.
type FixedRate struct {
	Rate decimal.Decimal
}

func (FixedRate) Name() string { return StrategyFixed }

func (f FixedRate) SelectTier(direction domain.Direction, _ decimal.Decimal, _ []domain.PriceTier) (*domain.PriceTier, Reason) {
	if !f.Rate.IsPositive() {
		return nil, ReasonInvalidRate
	}
	tier := f.tier(direction)
	return &tier, ReasonNone
}

func (f FixedRate) Ladder(direction domain.Direction) []domain.PriceTier {
	return []domain.PriceTier{f.tier(direction)}
}

func (f FixedRate) tier(direction domain.Direction) domain.PriceTier {
	return domain.PriceTier{
		ID:          FixedTierID,
		Direction:   direction,
		Kind:        domain.TierKindQuantity,
		RangeLabel:  "0+",
		MinQuantity: decimal.Zero,
		UnitRate:    f.Rate,
	}
}

// ForLadder returns the strategy and tiers to resolve with. A configured
// FixedRate resolves against its own ladder. Otherwise the tier kind of the
// ladder decides: amount thresholds go to AmountTiered, quantity ranges to
// QuantityTiered, whatever the configured tiered strategy is.
func ForLadder(configured Strategy, direction domain.Direction, tiers []domain.PriceTier) (Strategy, []domain.PriceTier) {
	if f, ok := configured.(FixedRate); ok {
		return f, f.Ladder(direction)
	}
	if len(tiers) == 0 {
		return configured, tiers
	}
	switch tiers[0].Kind {
	case domain.TierKindAmount:
		return AmountTiered{}, tiers
	case domain.TierKindQuantity:
		return QuantityTiered{}, tiers
	}
	return configured, tiers
}

func lowestRate(tiers []domain.PriceTier) domain.PriceTier {
	best := tiers[0]
	for _, t := range tiers[1:] {
		if t.UnitRate.LessThan(best.UnitRate) {
			best = t
		}
	}
	return best
}
