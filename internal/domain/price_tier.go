package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionBuy, DirectionSell:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// TierKind говорит, в чем заданы границы тира: в USDT или в INR
type TierKind string

const (
	TierKindQuantity TierKind = "quantity"
	TierKindAmount   TierKind = "amount"
)

type PriceTier struct {
	ID          string
	Direction   Direction
	Kind        TierKind
	RangeLabel  string
	MinQuantity decimal.Decimal
	// nil - верхний открытый тир
	MaxQuantity *decimal.Decimal
	UnitRate    decimal.Decimal
	SortOrder   int32
}

func (t PriceTier) Unbounded() bool {
	return t.MaxQuantity == nil
}

// Contains reports whether q falls into the half-open range [MinQuantity, MaxQuantity).
func (t PriceTier) Contains(q decimal.Decimal) bool {
	if q.LessThan(t.MinQuantity) {
		return false
	}
	return t.MaxQuantity == nil || q.LessThan(*t.MaxQuantity)
}

// SortTiers orders tiers ascending by minimum quantity, then by sort order.
func SortTiers(tiers []PriceTier) {
	sort.SliceStable(tiers, func(i, j int) bool {
		if !tiers[i].MinQuantity.Equal(tiers[j].MinQuantity) {
			return tiers[i].MinQuantity.LessThan(tiers[j].MinQuantity)
		}
		return tiers[i].SortOrder < tiers[j].SortOrder
	})
}

// ValidateTierSet checks that the tiers form a contiguous ladder of one kind with
// positive rates and at most one unbounded tier at the top. tiers must already be sorted.
func ValidateTierSet(tiers []PriceTier) error {
	for i, tier := range tiers {
		// одна лестница - один способ задания границ
		if tier.Kind != tiers[0].Kind {
			return fmt.Errorf("%w: tier %d is %s, ladder is %s", ErrInvalidTierSet, i, tier.Kind, tiers[0].Kind)
		}
		if !tier.UnitRate.IsPositive() {
			return fmt.Errorf("%w: tier %d has non-positive rate %s", ErrInvalidTierSet, i, tier.UnitRate)
		}
		if tier.MinQuantity.IsNegative() {
			return fmt.Errorf("%w: tier %d has negative minimum", ErrInvalidTierSet, i)
		}
		if tier.MaxQuantity != nil && !tier.MaxQuantity.GreaterThan(tier.MinQuantity) {
			return fmt.Errorf("%w: tier %d has empty range [%s, %s)", ErrInvalidTierSet, i, tier.MinQuantity, tier.MaxQuantity)
		}
		if i == len(tiers)-1 {
			break
		}
		next := tiers[i+1]
		// у amount-тиров есть только нижний порог
		if tier.Kind == TierKindAmount {
			if !next.MinQuantity.GreaterThan(tier.MinQuantity) {
				return fmt.Errorf("%w: tier thresholds %d and %d are not increasing", ErrInvalidTierSet, i, i+1)
			}
			continue
		}
		if tier.Unbounded() {
			return fmt.Errorf("%w: unbounded tier %d must be the last one", ErrInvalidTierSet, i)
		}
		if !tier.MaxQuantity.Equal(next.MinQuantity) {
			return fmt.Errorf("%w: tiers %d and %d are not contiguous (%s != %s)",
				ErrInvalidTierSet, i, i+1, tier.MaxQuantity, next.MinQuantity)
		}
	}
	return nil
}

// FilterTiers returns the tiers for one direction, keeping their order.
func FilterTiers(tiers []PriceTier, direction Direction) []PriceTier {
	out := make([]PriceTier, 0, len(tiers))
	for _, t := range tiers {
		if t.Direction == direction {
			out = append(out, t)
		}
	}
	return out
}
