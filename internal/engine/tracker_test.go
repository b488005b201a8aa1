package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-tet/internal/engine"
	"github.com/tartampluch/go-tet/internal/lunar"
)

func TestTracker_RefreshPicksUpcomingTet(t *testing.T) {
	clock := NewManualClock(time.Date(2026, 10, 18, 9, 0, 0, 0, time.Local))

	var gotTarget time.Time
	tr := &engine.Tracker{
		Clock:  clock,
		OnTick: func(target time.Time, _ engine.Snapshot) { gotTarget = target },
	}
	t.Cleanup(tr.Stop)

	target, changed, err := tr.Refresh()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, time.Date(2027, 2, 6, 0, 0, 0, 0, time.Local), target)
	assert.Equal(t, target, tr.Target())
	assert.Equal(t, target, gotTarget, "OnTick is tagged with the target")

	c := tr.Countdown()
	require.NotNil(t, c)
	assert.Equal(t, engine.StateRunning, c.State())
	assert.Equal(t, 110, c.Snapshot().Days)

	// Same day: nothing to do.
	_, changed, err = tr.Refresh()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Same(t, c, tr.Countdown())
}

func TestTracker_RetargetsAfterTet(t *testing.T) {
	clock := NewManualClock(time.Date(2027, 2, 6, 12, 0, 0, 0, time.Local))
	tr := &engine.Tracker{Clock: clock}
	t.Cleanup(tr.Stop)

	_, _, err := tr.Refresh()
	require.NoError(t, err)
	first := tr.Countdown()
	assert.Equal(t, engine.StateFinished, first.State(), "the Tết day itself reads as finished")

	clock.Set(time.Date(2027, 2, 7, 0, 0, 1, 0, time.Local))
	target, changed, err := tr.Refresh()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, time.Date(2028, 1, 26, 0, 0, 0, 0, time.Local), target)

	second := tr.Countdown()
	assert.NotSame(t, first, second)
	assert.Equal(t, engine.StateRunning, second.State())
	assert.Equal(t, engine.StateFinished, first.State(), "stopping a finished countdown keeps it finished")
}

func TestTracker_StopsOldCountdownOnRetarget(t *testing.T) {
	clock := NewManualClock(time.Date(2026, 10, 18, 9, 0, 0, 0, time.Local))
	tr := &engine.Tracker{Clock: clock}
	t.Cleanup(tr.Stop)

	_, _, err := tr.Refresh()
	require.NoError(t, err)
	first := tr.Countdown()

	tr.Fixed = time.Date(2040, 1, 1, 0, 0, 0, 0, time.Local)
	target, changed, err := tr.Refresh()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, tr.Fixed, target)
	assert.Equal(t, engine.StateStopped, first.State())
}

func TestTracker_LookupMiss(t *testing.T) {
	clock := NewManualClock(time.Date(2040, 6, 1, 0, 0, 0, 0, time.Local))
	tr := &engine.Tracker{Clock: clock}

	_, changed, err := tr.Refresh()
	assert.ErrorIs(t, err, lunar.ErrYearNotFound)
	assert.False(t, changed)
	assert.Nil(t, tr.Countdown())
	assert.NotPanics(t, tr.Stop)
}

func TestTracker_FixedTargetOutsideTable(t *testing.T) {
	now := time.Date(2040, 6, 1, 0, 0, 0, 0, time.Local)
	tr := &engine.Tracker{
		Clock: NewManualClock(now),
		Fixed: now.Add(36 * time.Hour),
	}
	t.Cleanup(tr.Stop)

	_, _, err := tr.Refresh()
	require.NoError(t, err)

	snap := tr.Countdown().Snapshot()
	assert.Equal(t, 1, snap.Days)
	assert.Equal(t, 12, snap.Hours)
}
