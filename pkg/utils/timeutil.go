package utils

import (
	"math"
	"time"
)

// HoursUntil returns the fractional hours from now until t. Negative when
// t is in the past.
func HoursUntil(t, now time.Time) float64 {
	return t.Sub(now).Hours()
}

// DaysUntilDate returns the number of whole calendar days between now's
// local date and the given date, ignoring the time of day on both sides.
// A date of tomorrow returns 1 regardless of the current hour.
func DaysUntilDate(date, now time.Time) int {
	d := startOfDay(date)
	n := startOfDay(now)
	// A DST transition makes the local day 23 or 25 hours long, so the
	// midnight-to-midnight gap is not always a multiple of 24h. Rounding
	// keeps the count in whole calendar days.
	return int(math.Round(d.Sub(n).Hours() / 24))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
