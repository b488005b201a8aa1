package engine

import "time"

// TetEntry is a row of the Tết table prepared for display.
// It decouples the UI from the lookup and ICS generation.
type TetEntry struct {
	Year int

	// Date is the local midnight of Tết.
	Date time.Time

	// DaysUntil counts calendar days from today to Date. Negative for past years.
	DaysUntil int

	// IsToday is set when Date falls on the current local day.
	IsToday bool
}

// daysBetween counts calendar days from a to b, ignoring time of day and DST shifts.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
