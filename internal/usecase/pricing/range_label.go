package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseRangeLabel turns a display label such as "100-499" or "1000+" into a
// half-open range. Labels describe whole USDT, so "100-499" covers [100, 500).
func ParseRangeLabel(label string) (decimal.Decimal, *decimal.Decimal, error) {
	s := strings.NewReplacer(",", "", " ", "", "–", "-", "—", "-").Replace(strings.TrimSpace(label))
	if s == "" {
		return decimal.Zero, nil, fmt.Errorf("empty range label")
	}

	if strings.HasSuffix(s, "+") {
		lower, err := parseWhole(strings.TrimSuffix(s, "+"))
		if err != nil {
			return decimal.Zero, nil, fmt.Errorf("range label %q: %w", label, err)
		}
		return lower, nil, nil
	}

	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return decimal.Zero, nil, fmt.Errorf("range label %q: expected \"min-max\" or \"min+\"", label)
	}
	lower, err := parseWhole(lo)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("range label %q: %w", label, err)
	}
	upper, err := parseWhole(hi)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("range label %q: %w", label, err)
	}
	if upper.LessThan(lower) {
		return decimal.Zero, nil, fmt.Errorf("range label %q: upper bound below lower bound", label)
	}
	end := upper.Add(decimal.NewFromInt(1))
	return lower, &end, nil
}

func parseWhole(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad number %q", s)
	}
	if d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return decimal.Zero, fmt.Errorf("bound %q must be a whole non-negative number", s)
	}
	return d, nil
}

// FormatRangeLabel is the inverse of ParseRangeLabel for whole bounds.
func FormatRangeLabel(lower decimal.Decimal, upper *decimal.Decimal) string {
	if upper == nil {
		return lower.String() + "+"
	}
	return fmt.Sprintf("%s-%s", lower.String(), upper.Sub(decimal.NewFromInt(1)).String())
}
