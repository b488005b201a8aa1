package engine

import "fmt"

// Millisecond constants used by the decomposition, largest unit first.
const (
	MsPerSecond int64 = 1000
	MsPerMinute       = 60 * MsPerSecond
	MsPerHour         = 60 * MsPerMinute
	MsPerDay          = 24 * MsPerHour
)

// Snapshot is the remaining time until a countdown target split into
// day/hour/minute/second components. The sub-second remainder is kept in
// RemainingMs but dropped from the components.
type Snapshot struct {
	RemainingMs int64 `json:"remaining_ms"`
	Days        int   `json:"days"`
	Hours       int   `json:"hours"`
	Minutes     int   `json:"minutes"`
	Seconds     int   `json:"seconds"`
	Finished    bool  `json:"finished"`
}

// Decompose splits remainingMs into components. Any value <= 0 yields the
// all-zero finished snapshot.
func Decompose(remainingMs int64) Snapshot {
	if remainingMs <= 0 {
		return Snapshot{Finished: true}
	}

	afterDays := remainingMs % MsPerDay
	afterHours := afterDays % MsPerHour
	afterMinutes := afterHours % MsPerMinute

	return Snapshot{
		RemainingMs: remainingMs,
		Days:        int(remainingMs / MsPerDay),
		Hours:       int(afterDays / MsPerHour),
		Minutes:     int(afterHours / MsPerMinute),
		Seconds:     int(afterMinutes / MsPerSecond),
	}
}

// Clock renders the sub-day part as HH:MM:SS.
func (s Snapshot) Clock() string {
	return PadZero(s.Hours) + ":" + PadZero(s.Minutes) + ":" + PadZero(s.Seconds)
}

// PadZero formats a non-negative integer with at least two digits (7 -> "07").
func PadZero(n int) string {
	return fmt.Sprintf("%02d", n)
}
