package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-tet/internal/config"
	"github.com/tartampluch/go-tet/internal/lunar"
)

// Tracker owns the countdown towards the upcoming Tết and swaps it for a new
// one when the target changes (e.g. the day after Tết).
type Tracker struct {
	Clock Clock

	// Fixed, when non-zero, replaces the table lookup. It serves targets the
	// table does not cover.
	Fixed time.Time

	// OnTick forwards every snapshot of the current countdown with its target.
	OnTick func(target time.Time, s Snapshot)

	mu        sync.Mutex
	target    time.Time
	countdown *Countdown
}

// NewTracker creates a tracker using the real clock.
func NewTracker() *Tracker {
	return &Tracker{Clock: RealClock{}}
}

// Refresh resolves the target and restarts the countdown when it changed.
// It reports the target in use and whether a new countdown was started.
// On a lookup miss the running countdown, if any, is left untouched.
func (t *Tracker) Refresh() (time.Time, bool, error) {
	if t.Clock == nil {
		t.Clock = RealClock{}
	}

	target := t.Fixed
	if target.IsZero() {
		var err error
		target, err = lunar.Upcoming(t.Clock.Now())
		if err != nil {
			slog.Warn(config.MsgTargetMissing,
				config.LogKeyComponent, config.CompTracker,
				config.LogKeyError, err,
			)
			return time.Time{}, false, err
		}
	}

	t.mu.Lock()
	if t.countdown != nil && t.target.Equal(target) {
		t.mu.Unlock()
		return target, false, nil
	}

	old := t.countdown
	c := &Countdown{
		Target: target,
		Clock:  t.Clock,
		Period: config.TickPeriod,
	}
	if t.OnTick != nil {
		onTick := t.OnTick
		c.OnTick = func(s Snapshot) { onTick(target, s) }
	}
	t.target = target
	t.countdown = c
	t.mu.Unlock()

	if old != nil {
		old.Stop()
	}

	slog.Info(config.MsgTargetChanged,
		config.LogKeyComponent, config.CompTracker,
		config.LogKeyTarget, target.Format(time.RFC3339),
	)
	c.Start()
	return target, true, nil
}

// Countdown returns the current countdown, or nil before the first successful Refresh.
func (t *Tracker) Countdown() *Countdown {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.countdown
}

// Target returns the target of the current countdown.
func (t *Tracker) Target() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target
}

// Stop tears down the current countdown. Safe to call repeatedly.
func (t *Tracker) Stop() {
	if c := t.Countdown(); c != nil {
		c.Stop()
	}
}
