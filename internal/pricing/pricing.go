// Package pricing computes order totals in integer currency minor units.
package pricing

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrNegativeTaxRate = errors.New("tax rate must not be negative")
	ErrAmountOverflow  = errors.New("amount exceeds the representable range")
)

var (
	hundred  = decimal.NewFromInt(100)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// Line is one priced order line.
type Line struct {
	UnitPrice int64
	Quantity  int
}

type Breakdown struct {
	Subtotal int64
	Tax      int64
	Total    int64
}

// Subtotal returns the sum of unit price times quantity over all lines.
// Callers with untrusted input use Compute, which reports overflow.
func Subtotal(lines []Line) int64 {
	return subtotal(lines).IntPart()
}

func subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromInt(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// Tax returns subtotal * ratePercent / 100 rounded half-up to a whole minor unit.
func Tax(subtotal int64, ratePercent decimal.Decimal) int64 {
	return tax(decimal.NewFromInt(subtotal), ratePercent).IntPart()
}

func tax(subtotal, ratePercent decimal.Decimal) decimal.Decimal {
	// Round is half away from zero, which is half-up for non-negative input.
	return subtotal.Mul(ratePercent).Div(hundred).Round(0)
}

func Total(subtotal, tax int64) int64 {
	return subtotal + tax
}

// Compute prices all lines at the given tax rate. Amounts that do not fit
// in int64 minor units yield ErrAmountOverflow.
func Compute(lines []Line, ratePercent decimal.Decimal) (Breakdown, error) {
	if ratePercent.IsNegative() {
		return Breakdown{}, ErrNegativeTaxRate
	}
	for _, l := range lines {
		if l.UnitPrice < 0 || l.Quantity < 0 {
			return Breakdown{}, ErrNegativeAmount
		}
	}

	sub := subtotal(lines)
	t := tax(sub, ratePercent)
	total := sub.Add(t)
	if total.GreaterThan(maxMinor) {
		return Breakdown{}, ErrAmountOverflow
	}

	return Breakdown{
		Subtotal: sub.IntPart(),
		Tax:      t.IntPart(),
		Total:    total.IntPart(),
	}, nil
}
