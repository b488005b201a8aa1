package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-tet/internal/config"
)

// State is the lifecycle phase of a Countdown.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateFinished
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return config.StateNameIdle
	case StateRunning:
		return config.StateNameRunning
	case StateFinished:
		return config.StateNameFinished
	case StateStopped:
		return config.StateNameStopped
	default:
		return config.StateNameUnknown
	}
}

// Countdown keeps a periodically refreshed Snapshot of the time left until Target.
//
// Target, Clock, Period and OnTick must be set before Start and not changed
// afterwards. A target in the past is valid input: the countdown finishes on
// its first computation.
type Countdown struct {
	Target time.Time
	Clock  Clock         // Injected for tests; RealClock when nil.
	Period time.Duration // Tick period; config.TickPeriod when <= 0.

	// OnTick receives every new snapshot (start and each tick), one call at a
	// time and outside the internal lock. The initial call runs on the
	// goroutine calling Start, later ones on the countdown goroutine.
	OnTick func(Snapshot)

	mu    sync.Mutex
	state State
	snap  Snapshot
	stop  chan struct{}
	done  chan struct{}
}

// NewCountdown creates an idle countdown towards target using the real clock.
func NewCountdown(target time.Time) *Countdown {
	return &Countdown{
		Target: target,
		Clock:  RealClock{},
		Period: config.TickPeriod,
		done:   make(chan struct{}),
	}
}

// Start moves Idle -> Running. The first snapshot is computed and delivered
// to OnTick before the tick goroutine exists, so OnTick calls never overlap.
// Calling Start in any other state is a no-op.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return
	}
	if c.Clock == nil {
		c.Clock = RealClock{}
	}
	if c.Period <= 0 {
		c.Period = config.TickPeriod
	}

	c.state = StateRunning
	snap := c.recomputeLocked()
	c.mu.Unlock()

	slog.Debug(config.MsgCountdownStart,
		config.LogKeyComponent, config.CompCountdown,
		config.LogKeyTarget, c.Target.Format(time.RFC3339),
		config.LogKeyRemaining, snap.RemainingMs,
	)
	c.notify(snap)
	if snap.Finished {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Stop may have run during the initial OnTick.
	if c.state == StateRunning {
		c.stop = make(chan struct{})
		go c.loop(c.Clock.NewTicker(c.Period), c.stop)
	}
}

// Stop tears the countdown down. It is idempotent and safe in every state:
// after a self-finish or a previous Stop it does nothing.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle && c.state != StateRunning {
		return
	}
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.state = StateStopped
	c.closeDoneLocked()

	slog.Debug(config.MsgCountdownStop, config.LogKeyComponent, config.CompCountdown)
}

// Snapshot returns the latest computed snapshot. All fields come from the same
// computation. Before the first computation it is the zero, finished snapshot.
func (c *Countdown) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.snap
	s.Finished = s.RemainingMs <= 0
	return s
}

// State returns the current lifecycle phase.
func (c *Countdown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed when the countdown reaches Finished or Stopped.
func (c *Countdown) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == nil {
		c.done = make(chan struct{})
	}
	return c.done
}

// loop owns the ticker; it exits on Stop or once the target is reached.
func (c *Countdown) loop(t Ticker, stop <-chan struct{}) {
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			if !c.tick() {
				return
			}
		}
	}
}

// tick recomputes the snapshot and reports whether the countdown keeps running.
func (c *Countdown) tick() bool {
	c.mu.Lock()
	if c.state != StateRunning {
		// Lost the race against Stop.
		c.mu.Unlock()
		return false
	}
	snap := c.recomputeLocked()
	c.mu.Unlock()

	c.notify(snap)
	return !snap.Finished
}

// recomputeLocked refreshes c.snap from the clock and enters Finished when the
// target is reached. c.mu must be held.
func (c *Countdown) recomputeLocked() Snapshot {
	remaining := c.Target.Sub(c.Clock.Now()).Milliseconds()
	c.snap = Decompose(remaining)

	if c.snap.Finished {
		// The loop goroutine exits on its own after this tick.
		c.stop = nil
		c.state = StateFinished
		c.closeDoneLocked()

		slog.Info(config.MsgCountdownDone,
			config.LogKeyComponent, config.CompCountdown,
			config.LogKeyTarget, c.Target.Format(time.RFC3339),
		)
	}
	return c.snap
}

func (c *Countdown) closeDoneLocked() {
	if c.done == nil {
		c.done = make(chan struct{})
	}
	close(c.done)
}

func (c *Countdown) notify(s Snapshot) {
	if c.OnTick != nil {
		c.OnTick(s)
	}
}
