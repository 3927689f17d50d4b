package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTiers = `
buy:
  strategy: quantity
  tiers:
    - range: "1-99"
      rate: "95"
    - range: "100-499"
      rate: "94.5"
    - range: "500-999"
      rate: "94"
    - range: "1000+"
      rate: "93.5"
sell:
  strategy: fixed
  rate: "90"
`

func writeTiers(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	path := writeTiers(t, sampleTiers)

	out, err := run(t, "validate", "--tiers", path)
	require.NoError(t, err)
	assert.Contains(t, out, "buy: ok (quantity, 4 tiers)")
	assert.Contains(t, out, "sell: ok (fixed, 0 tiers)")
	assert.Contains(t, out, "1000+")
}

func TestValidateRejectsGap(t *testing.T) {
	path := writeTiers(t, `
buy:
  tiers:
    - range: "1-99"
      rate: "95"
    - range: "200+"
      rate: "94"
`)
	_, err := run(t, "validate", "-t", path)
	assert.ErrorContains(t, err, "not contiguous")
}

func TestQuoteBuy(t *testing.T) {
	path := writeTiers(t, sampleTiers)

	out, err := run(t, "quote", "9500", "-t", path)
	require.NoError(t, err)
	assert.Contains(t, out, "tier:      100-499")
	assert.Contains(t, out, "rate:      94.5")
	assert.Contains(t, out, "100.529101 USDT")
}

func TestQuoteAmountLadderIgnoresQuantityStrategy(t *testing.T) {
	path := writeTiers(t, `
buy:
  strategy: quantity
  tiers:
    - range: "0+"
      rate: "100"
      kind: amount
    - range: "1000+"
      rate: "95"
      kind: amount
    - range: "5000+"
      rate: "90"
      kind: amount
`)
	out, err := run(t, "validate", "-t", path)
	require.NoError(t, err)
	assert.Contains(t, out, "buy: ok (amount, 3 tiers)")

	out, err = run(t, "quote", "95000", "-t", path)
	require.NoError(t, err)
	assert.Contains(t, out, "strategy:  amount")
	assert.Contains(t, out, "rate:      95")
	assert.Contains(t, out, "1000.000000 USDT")
}

func TestQuoteSell(t *testing.T) {
	path := writeTiers(t, sampleTiers)

	out, err := run(t, "quote", "10", "-d", "sell", "-t", path)
	require.NoError(t, err)
	assert.Contains(t, out, "900.00 INR")
}

func TestQuoteUnresolved(t *testing.T) {
	path := writeTiers(t, sampleTiers)

	out, err := run(t, "quote", "0", "-t", path)
	require.NoError(t, err)
	assert.Contains(t, out, "unresolved: non_positive_amount")
}

func TestQuoteBadInput(t *testing.T) {
	path := writeTiers(t, sampleTiers)

	_, err := run(t, "quote", "abc", "-t", path)
	assert.Error(t, err)
	_, err = run(t, "quote", "10", "-d", "swap", "-t", path)
	assert.Error(t, err)
	_, err = run(t, "validate", "-t", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
