package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-tet/internal/engine"
)

func TestDecompose(t *testing.T) {
	tests := []struct {
		name string
		ms   int64
		want engine.Snapshot
	}{
		{"Zero", 0, engine.Snapshot{Finished: true}},
		{"Negative", -1500, engine.Snapshot{Finished: true}},
		{"Sub-second", 999, engine.Snapshot{RemainingMs: 999}},
		{"Ten seconds", 10_000, engine.Snapshot{RemainingMs: 10_000, Seconds: 10}},
		{"One of each", engine.MsPerDay + engine.MsPerHour + engine.MsPerMinute + engine.MsPerSecond + 250,
			engine.Snapshot{RemainingMs: 90_061_250, Days: 1, Hours: 1, Minutes: 1, Seconds: 1}},
		{"Just under a day", engine.MsPerDay - 1,
			engine.Snapshot{RemainingMs: 86_399_999, Hours: 23, Minutes: 59, Seconds: 59}},
		{"Exactly a day", engine.MsPerDay, engine.Snapshot{RemainingMs: 86_400_000, Days: 1}},
		{"Long range", 111*engine.MsPerDay + 5*engine.MsPerHour + 42*engine.MsPerMinute + 7*engine.MsPerSecond,
			engine.Snapshot{RemainingMs: 9_610_927_000, Days: 111, Hours: 5, Minutes: 42, Seconds: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Decompose(tt.ms))
		})
	}
}

// TestDecompose_Invariants sweeps a range of values and checks the component
// bounds and the reconstruction of the total rounded down to the second.
func TestDecompose_Invariants(t *testing.T) {
	for ms := int64(1); ms < 400*engine.MsPerDay; ms = ms*3 + 7 {
		s := engine.Decompose(ms)

		assert.Equal(t, int(ms/engine.MsPerDay), s.Days)
		assert.GreaterOrEqual(t, s.Hours, 0)
		assert.Less(t, s.Hours, 24)
		assert.GreaterOrEqual(t, s.Minutes, 0)
		assert.Less(t, s.Minutes, 60)
		assert.GreaterOrEqual(t, s.Seconds, 0)
		assert.Less(t, s.Seconds, 60)
		assert.False(t, s.Finished)

		rebuilt := ((int64(s.Days)*24+int64(s.Hours))*60+int64(s.Minutes))*engine.MsPerMinute + int64(s.Seconds)*engine.MsPerSecond
		assert.Equal(t, ms-ms%engine.MsPerSecond, rebuilt, "ms=%d", ms)
		assert.Equal(t, ms, s.RemainingMs)
	}
}

func TestPadZero(t *testing.T) {
	assert.Equal(t, "00", engine.PadZero(0))
	assert.Equal(t, "07", engine.PadZero(7))
	assert.Equal(t, "13", engine.PadZero(13))
	assert.Equal(t, "120", engine.PadZero(120))
}

func TestSnapshot_Clock(t *testing.T) {
	s := engine.Snapshot{Hours: 3, Minutes: 4, Seconds: 59}
	assert.Equal(t, "03:04:59", s.Clock())
	assert.Equal(t, "00:00:00", engine.Snapshot{Finished: true}.Clock())
}
