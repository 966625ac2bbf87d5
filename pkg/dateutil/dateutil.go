package dateutil

import "time"

// AnnualDates returns n dates one year apart starting at start. Useful for
// building standard cliff-then-annual vesting schedules.
func AnnualDates(start time.Time, n int) []time.Time {
	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, start.AddDate(i, 0, 0))
	}
	return dates
}

// QuarterlyDates returns n dates three months apart starting at start.
func QuarterlyDates(start time.Time, n int) []time.Time {
	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, start.AddDate(0, 3*i, 0))
	}
	return dates
}

// YearsBetween returns the number of whole calendar years from a to b.
func YearsBetween(a, b time.Time) int {
	return b.Year() - a.Year()
}
