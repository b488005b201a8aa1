package engine_test

import (
	"sync"
	"testing"
	"time"

	"github.com/tartampluch/go-tet/internal/engine"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// ManualClock controls time and ticks for deterministic testing.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*ManualTicker
}

func NewManualClock(now time.Time) *ManualClock {
	return &ManualClock{now: now}
}

func (m *ManualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *ManualClock) Set(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *ManualClock) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}

func (m *ManualClock) NewTicker(d time.Duration) engine.Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &ManualTicker{Period: d, ch: make(chan time.Time), stopped: make(chan struct{})}
	m.tickers = append(m.tickers, t)
	return t
}

// Tickers returns every ticker handed out so far.
func (m *ManualClock) Tickers() []*ManualTicker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*ManualTicker(nil), m.tickers...)
}

// ManualTicker delivers ticks only when the test fires them.
type ManualTicker struct {
	Period  time.Duration
	ch      chan time.Time
	once    sync.Once
	stopped chan struct{}
}

func (t *ManualTicker) C() <-chan time.Time { return t.ch }

func (t *ManualTicker) Stop() { t.once.Do(func() { close(t.stopped) }) }

// Fire delivers one tick and fails the test if nobody receives it.
func (t *ManualTicker) Fire(tb testing.TB, at time.Time) {
	tb.Helper()
	select {
	case t.ch <- at:
	case <-time.After(time.Second):
		tb.Fatal("tick was not consumed")
	}
}

// TryFire delivers one tick if the loop is still listening.
func (t *ManualTicker) TryFire(at time.Time) bool {
	select {
	case t.ch <- at:
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

func (t *ManualTicker) IsStopped() bool {
	select {
	case <-t.stopped:
		return true
	default:
		return false
	}
}
