package pricing

import (
	"testing"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func qtyTier(id, min string, max *decimal.Decimal, rate string) domain.PriceTier {
	return domain.PriceTier{
		ID:          id,
		Direction:   domain.DirectionBuy,
		Kind:        domain.TierKindQuantity,
		MinQuantity: d(min),
		MaxQuantity: max,
		UnitRate:    d(rate),
	}
}

func buyLadder() []domain.PriceTier {
	return []domain.PriceTier{
		qtyTier("small", "0", dp("100"), "100"),
		qtyTier("medium", "100", dp("500"), "95"),
		qtyTier("large", "500", nil, "90"),
	}
}

func amountLadder() []domain.PriceTier {
	tiers := []domain.PriceTier{
		qtyTier("r1", "0", nil, "100"),
		qtyTier("r2", "1000", nil, "95"),
		qtyTier("r3", "5000", nil, "90"),
	}
	for i := range tiers {
		tiers[i].Kind = domain.TierKindAmount
	}
	return tiers
}

func TestResolveNonPositiveAmountIsUnresolved(t *testing.T) {
	strategies := []Strategy{QuantityTiered{}, AmountTiered{}, FixedRate{Rate: d("90")}}
	ladders := [][]domain.PriceTier{nil, buyLadder(), amountLadder()}
	amounts := []string{"0", "-1", "-0.000001", "-100000"}

	for _, s := range strategies {
		for _, tiers := range ladders {
			for _, a := range amounts {
				for _, dir := range []domain.Direction{domain.DirectionBuy, domain.DirectionSell} {
					res := Resolve(s, dir, d(a), tiers)
					assert.False(t, res.Resolved(), "%s %s %s", s.Name(), dir, a)
					assert.Equal(t, ReasonNonPositiveAmount, res.Reason)
					assert.Nil(t, res.Tier)
					assert.True(t, res.ConvertedAmount.IsZero())
				}
			}
		}
	}
}

func TestResolveEmptyTiersIsUnresolved(t *testing.T) {
	for _, s := range []Strategy{QuantityTiered{}, AmountTiered{}, FixedRate{Rate: d("90")}} {
		res := Resolve(s, domain.DirectionBuy, d("5000"), nil)
		assert.Equal(t, StatusUnresolved, res.Status)
		assert.Equal(t, ReasonNoTiers, res.Reason)

		res = Resolve(s, domain.DirectionBuy, d("5000"), []domain.PriceTier{})
		assert.Equal(t, ReasonNoTiers, res.Reason)
	}
}

func TestQuantityTieredBoundaryBelongsToUpperTier(t *testing.T) {
	// 9000 / 90 = 100 USDT provisionally, which is the lower edge of "medium"
	res := Resolve(QuantityTiered{}, domain.DirectionBuy, d("9000"), buyLadder())

	require.True(t, res.Resolved())
	assert.Equal(t, "medium", res.Tier.ID)
	assert.True(t, d("95").Equal(res.UnitRate))
	assert.Equal(t, "94.736842", res.ConvertedAmount.StringFixed(AssetPrecision))
}

func TestQuantityTieredJustBelowBoundary(t *testing.T) {
	res := Resolve(QuantityTiered{}, domain.DirectionBuy, d("8999.99"), buyLadder())

	require.True(t, res.Resolved())
	assert.Equal(t, "small", res.Tier.ID)
	assert.Equal(t, "89.999900", res.ConvertedAmount.StringFixed(AssetPrecision))
}

func TestQuantityTieredHalfOpenUpperEdge(t *testing.T) {
	tiers := []domain.PriceTier{qtyTier("only", "100", dp("500"), "95")}

	// 499 * 95
	res := Resolve(QuantityTiered{}, domain.DirectionBuy, d("47405"), tiers)
	require.True(t, res.Resolved())
	assert.Equal(t, "only", res.Tier.ID)
	assert.Equal(t, "499.000000", res.ConvertedAmount.StringFixed(AssetPrecision))

	// 500 * 95: nothing above the closed top tier
	res = Resolve(QuantityTiered{}, domain.DirectionBuy, d("47500"), tiers)
	assert.False(t, res.Resolved())
	assert.Equal(t, ReasonAboveRange, res.Reason)
	assert.Nil(t, res.Tier)
}

func TestQuantityTieredHalfOpenUpperEdgeWithHigherTier(t *testing.T) {
	tiers := []domain.PriceTier{
		qtyTier("mid", "100", dp("500"), "95"),
		qtyTier("top", "500", nil, "95"),
	}
	res := Resolve(QuantityTiered{}, domain.DirectionBuy, d("47500"), tiers)
	require.True(t, res.Resolved())
	assert.Equal(t, "top", res.Tier.ID)
}

func TestQuantityTieredBelowFirstTierFallsBackToLowestTier(t *testing.T) {
	tiers := []domain.PriceTier{qtyTier("only", "100", dp("500"), "95")}

	res := Resolve(QuantityTiered{}, domain.DirectionBuy, d("950"), tiers)
	require.True(t, res.Resolved())
	assert.Equal(t, "only", res.Tier.ID)
	assert.Equal(t, "10.000000", res.ConvertedAmount.StringFixed(AssetPrecision))
}

func TestQuantityTieredUnboundedTopTier(t *testing.T) {
	res := Resolve(QuantityTiered{}, domain.DirectionBuy, d("1000000000"), buyLadder())
	require.True(t, res.Resolved())
	assert.Equal(t, "large", res.Tier.ID)
	assert.Equal(t, "11111111.111111", res.ConvertedAmount.StringFixed(AssetPrecision))
}

func TestQuantityTieredSellUsesQuantityDirectly(t *testing.T) {
	tiers := []domain.PriceTier{
		qtyTier("s1", "0", dp("100"), "88"),
		qtyTier("s2", "100", nil, "89.5"),
	}
	res := Resolve(QuantityTiered{}, domain.DirectionSell, d("150"), tiers)
	require.True(t, res.Resolved())
	assert.Equal(t, "s2", res.Tier.ID)
	assert.Equal(t, "13425.000000", res.ConvertedAmount.StringFixed(AssetPrecision))

	res = Resolve(QuantityTiered{}, domain.DirectionSell, d("99.999999"), tiers)
	require.True(t, res.Resolved())
	assert.Equal(t, "s1", res.Tier.ID)
	assert.Equal(t, "8799.999912", res.ConvertedAmount.StringFixed(AssetPrecision))
}

func TestQuantityTieredMonotonicRates(t *testing.T) {
	tiers := buyLadder()
	prevRate := decimal.Zero
	prevConverted := decimal.Zero

	for a := int64(1); a <= 200000; a += 37 {
		res := Resolve(QuantityTiered{}, domain.DirectionBuy, decimal.NewFromInt(a), tiers)
		require.True(t, res.Resolved(), "amount %d", a)
		if !prevRate.IsZero() {
			assert.True(t, res.UnitRate.LessThanOrEqual(prevRate), "rate went up at amount %d", a)
			assert.True(t, res.ConvertedAmount.GreaterThanOrEqual(prevConverted), "converted went down at amount %d", a)
		}
		prevRate = res.UnitRate
		prevConverted = res.ConvertedAmount
	}
}

func TestResolveIsIdempotentAndDoesNotMutateInput(t *testing.T) {
	tiers := []domain.PriceTier{
		qtyTier("large", "500", nil, "90"),
		qtyTier("small", "0", dp("100"), "100"),
		qtyTier("medium", "100", dp("500"), "95"),
	}

	first := Resolve(QuantityTiered{}, domain.DirectionBuy, d("12345.67"), tiers)
	second := Resolve(QuantityTiered{}, domain.DirectionBuy, d("12345.67"), tiers)

	assert.Equal(t, first, second)
	assert.Equal(t, "medium", first.Tier.ID)
	assert.Equal(t, "large", tiers[0].ID)
	assert.Equal(t, "small", tiers[1].ID)
}

func TestAmountTieredScansFromTopThreshold(t *testing.T) {
	cases := []struct {
		amount    string
		tier      string
		converted string
	}{
		// 5000*90 = 450000 and 1000*95 = 95000 are both above 4000
		{"4000", "r1", "40.000000"},
		{"94999.99", "r1", "949.999900"},
		{"95000", "r2", "1000.000000"},
		{"449999.99", "r2", "4736.842000"},
		{"450000", "r3", "5000.000000"},
		{"0.01", "r1", "0.000100"},
	}
	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			res := Resolve(AmountTiered{}, domain.DirectionBuy, d(tc.amount), amountLadder())
			require.True(t, res.Resolved())
			assert.Equal(t, tc.tier, res.Tier.ID)
			assert.Equal(t, tc.converted, res.ConvertedAmount.StringFixed(AssetPrecision))
		})
	}
}

func TestAmountTieredFallsBackToLowestTier(t *testing.T) {
	tiers := amountLadder()[1:]

	res := Resolve(AmountTiered{}, domain.DirectionBuy, d("10"), tiers)
	require.True(t, res.Resolved())
	assert.Equal(t, "r2", res.Tier.ID)
	assert.Equal(t, "0.105263", res.ConvertedAmount.StringFixed(AssetPrecision))
}

func TestAmountTieredSellComparesQuantity(t *testing.T) {
	res := Resolve(AmountTiered{}, domain.DirectionSell, d("1000"), amountLadder())
	require.True(t, res.Resolved())
	assert.Equal(t, "r2", res.Tier.ID)
	assert.Equal(t, "95000.000000", res.ConvertedAmount.StringFixed(AssetPrecision))
}

func TestFixedRate(t *testing.T) {
	fixed := FixedRate{Rate: d("90")}
	res := Resolve(fixed, domain.DirectionSell, d("10.5"), fixed.Ladder(domain.DirectionSell))
	require.True(t, res.Resolved())
	assert.Equal(t, FixedTierID, res.Tier.ID)
	assert.Equal(t, "945.000000", res.ConvertedAmount.StringFixed(AssetPrecision))

	res = Resolve(fixed, domain.DirectionBuy, d("100"), fixed.Ladder(domain.DirectionBuy))
	require.True(t, res.Resolved())
	assert.Equal(t, "1.111111", res.ConvertedAmount.StringFixed(AssetPrecision))

	res = Resolve(FixedRate{}, domain.DirectionSell, d("10"), FixedRate{}.Ladder(domain.DirectionSell))
	assert.False(t, res.Resolved())
	assert.Equal(t, ReasonInvalidRate, res.Reason)
}

func TestForLadderFollowsTierKind(t *testing.T) {
	// настроен quantity, а админ завел пороги в INR
	cases := []struct {
		amount string
		tier   string
		rate   string
	}{
		{"4000", "r1", "100"},
		{"95000", "r2", "95"},
		{"1000000", "r3", "90"},
	}
	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			s, tiers := ForLadder(QuantityTiered{}, domain.DirectionBuy, amountLadder())
			assert.Equal(t, StrategyAmount, s.Name())

			res := Resolve(s, domain.DirectionBuy, d(tc.amount), tiers)
			require.True(t, res.Resolved())
			assert.Equal(t, tc.tier, res.Tier.ID)
			assert.True(t, res.UnitRate.Equal(d(tc.rate)))
		})
	}

	s, _ := ForLadder(AmountTiered{}, domain.DirectionBuy, buyLadder())
	assert.Equal(t, StrategyQuantity, s.Name())

	s, tiers := ForLadder(QuantityTiered{}, domain.DirectionBuy, nil)
	assert.Equal(t, StrategyQuantity, s.Name())
	assert.Empty(t, tiers)
}

func TestForLadderFixedOverridesTiers(t *testing.T) {
	s, tiers := ForLadder(FixedRate{Rate: d("90")}, domain.DirectionSell, amountLadder())
	assert.Equal(t, StrategyFixed, s.Name())
	require.Len(t, tiers, 1)
	assert.Equal(t, FixedTierID, tiers[0].ID)

	_, tiers = ForLadder(FixedRate{Rate: d("90")}, domain.DirectionSell, nil)
	res := Resolve(s, domain.DirectionSell, d("10"), tiers)
	require.True(t, res.Resolved())
	assert.True(t, res.ConvertedAmount.Equal(d("900")))
}

func TestResolveRejectsNonPositiveTierRate(t *testing.T) {
	tiers := []domain.PriceTier{qtyTier("zero", "0", nil, "0")}
	res := Resolve(AmountTiered{}, domain.DirectionBuy, d("100"), tiers)
	assert.False(t, res.Resolved())
	assert.Equal(t, ReasonInvalidRate, res.Reason)

	res = Resolve(QuantityTiered{}, domain.DirectionBuy, d("100"), tiers)
	assert.Equal(t, ReasonInvalidRate, res.Reason)
}

func TestStrategyByName(t *testing.T) {
	s, err := StrategyByName("quantity", decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, StrategyQuantity, s.Name())

	s, err = StrategyByName("fixed", d("90"))
	require.NoError(t, err)
	assert.Equal(t, FixedRate{Rate: d("90")}, s)

	_, err = StrategyByName("bisect", decimal.Zero)
	assert.Error(t, err)
}
