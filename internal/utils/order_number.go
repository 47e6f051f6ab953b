package utils

import (
	"fmt"
	"time"
)

const OrderNumberPrefix = "CMD"

// GenerateOrderNumber formats the human readable order identifier
// CMD-YYYYMMDD-NNN. seq is the 1-based position of the order within the
// restaurant's business day and is supplied by the caller.
func GenerateOrderNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", OrderNumberPrefix, day.Format("20060102"), seq)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
