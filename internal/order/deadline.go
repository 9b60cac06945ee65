package order

import (
	"math"
	"time"
)

// The delivery estimate assumes a fixed production throughput of ten hours
// of work per day.
const hoursPerWorkday = 10.0

// deliveryDays converts total production hours into whole days, rounding up.
// Zero hours add zero days.
func deliveryDays(totalHours float64) int {
	if totalHours <= 0 {
		return 0
	}
	return int(math.Ceil(totalHours / hoursPerWorkday))
}

// estimateDeadline returns the delivery deadline for an order created at the
// given time, as a date.
func estimateDeadline(createdAt time.Time, totalHours float64) time.Time {
	deadline := createdAt.AddDate(0, 0, deliveryDays(totalHours))
	return time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, time.UTC)
}
