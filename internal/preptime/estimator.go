// Package preptime estimates how long the kitchen needs for an order.
package preptime

const (
	// DefaultMinutes is used when no item carries a prep time, and is the
	// floor of every estimate.
	DefaultMinutes = 10
	// MaxOverheadMinutes caps the per-line coordination overhead.
	MaxOverheadMinutes = 15

	minutesPerLine = 2
)

// Estimate returns max(item prep time, DefaultMinutes) plus
// min(2 * number of lines, MaxOverheadMinutes). Nil entries are lines
// whose menu item has no prep time.
func Estimate(prepTimes []*int) int {
	slowest := DefaultMinutes
	for _, p := range prepTimes {
		if p != nil && *p > slowest {
			slowest = *p
		}
	}

	overhead := minutesPerLine * len(prepTimes)
	if overhead > MaxOverheadMinutes {
		overhead = MaxOverheadMinutes
	}

	return slowest + overhead
}
