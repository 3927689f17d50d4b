package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRangeLabel(t *testing.T) {
	cases := []struct {
		label string
		min   string
		max   string
	}{
		{"0-99", "0", "100"},
		{"100-499", "100", "500"},
		{" 500 – 999 ", "500", "1000"},
		{"1,000-4,999", "1000", "5000"},
		{"1000+", "1000", ""},
		{"5000 +", "5000", ""},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			min, max, err := ParseRangeLabel(tc.label)
			require.NoError(t, err)
			assert.Equal(t, tc.min, min.String())
			if tc.max == "" {
				assert.Nil(t, max)
				return
			}
			require.NotNil(t, max)
			assert.Equal(t, tc.max, max.String())
		})
	}
}

func TestParseRangeLabelErrors(t *testing.T) {
	for _, label := range []string{"", "abc", "100", "499-100", "1.5-3", "-5+", "10-x"} {
		_, _, err := ParseRangeLabel(label)
		assert.Error(t, err, label)
	}
}

func TestFormatRangeLabelRoundTrip(t *testing.T) {
	for _, label := range []string{"0-99", "100-499", "1000+"} {
		min, max, err := ParseRangeLabel(label)
		require.NoError(t, err)
		assert.Equal(t, label, FormatRangeLabel(min, max))
	}
}
