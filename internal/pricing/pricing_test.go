package pricing

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_ScenarioA(t *testing.T) {
	lines := []Line{
		{UnitPrice: 1500, Quantity: 2},
		{UnitPrice: 1000, Quantity: 1},
	}

	got, err := Compute(lines, decimal.NewFromInt(18))
	require.NoError(t, err)

	assert.Equal(t, int64(4000), got.Subtotal)
	assert.Equal(t, int64(720), got.Tax)
	assert.Equal(t, int64(4720), got.Total)
}

func TestTax_RoundHalfUp(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		rate     string
		expected int64
	}{
		{"exact", 1000, "10", 100},
		{"half rounds up", 50, "1", 1},         // 0.5
		{"below half rounds down", 49, "1", 0}, // 0.49
		{"fractional rate", 1999, "5.5", 110},  // 109.945
		{"zero rate", 12345, "0", 0},
		{"zero subtotal", 0, "18", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tax(tt.subtotal, decimal.RequireFromString(tt.rate)))
		})
	}
}

func TestCompute_TotalIsSubtotalPlusTax(t *testing.T) {
	rates := []string{"0", "2.5", "7", "10", "18", "19.6", "33.333"}
	subtotals := [][]Line{
		{},
		{{UnitPrice: 1, Quantity: 1}},
		{{UnitPrice: 333, Quantity: 3}, {UnitPrice: 99, Quantity: 7}},
		{{UnitPrice: 125000, Quantity: 12}},
	}

	for _, r := range rates {
		for _, lines := range subtotals {
			got, err := Compute(lines, decimal.RequireFromString(r))
			require.NoError(t, err)
			assert.Equal(t, got.Subtotal+got.Tax, got.Total, "rate %s", r)
			assert.GreaterOrEqual(t, got.Tax, int64(0))
		}
	}
}

func TestCompute_RejectsNegativeInput(t *testing.T) {
	_, err := Compute([]Line{{UnitPrice: 100, Quantity: 1}}, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrNegativeTaxRate)

	_, err = Compute([]Line{{UnitPrice: -100, Quantity: 1}}, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestCompute_RejectsOverflow(t *testing.T) {
	t.Run("LineProduct", func(t *testing.T) {
		_, err := Compute([]Line{{UnitPrice: 1 << 40, Quantity: 1 << 24}}, decimal.NewFromInt(18))
		assert.ErrorIs(t, err, ErrAmountOverflow)
	})

	t.Run("SumOfLines", func(t *testing.T) {
		lines := []Line{
			{UnitPrice: math.MaxInt64 / 2, Quantity: 1},
			{UnitPrice: math.MaxInt64 / 2, Quantity: 1},
			{UnitPrice: 2, Quantity: 1},
		}
		_, err := Compute(lines, decimal.Zero)
		assert.ErrorIs(t, err, ErrAmountOverflow)
	})

	t.Run("TaxPushesTotalOver", func(t *testing.T) {
		_, err := Compute([]Line{{UnitPrice: math.MaxInt64 - 10, Quantity: 1}}, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrAmountOverflow)
	})

	t.Run("LargestFittingTotal", func(t *testing.T) {
		got, err := Compute([]Line{{UnitPrice: math.MaxInt64, Quantity: 1}}, decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, int64(math.MaxInt64), got.Total)
	})
}
