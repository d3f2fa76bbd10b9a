package countdown

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemaining(t *testing.T) {
	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 45*time.Minute, Remaining(created, created, DefaultGoal))
	assert.Equal(t, 15*time.Minute, Remaining(created, created.Add(30*time.Minute), DefaultGoal))
	assert.Equal(t, time.Duration(0), Remaining(created, created.Add(45*time.Minute), DefaultGoal))
	assert.Equal(t, -5*time.Minute, Remaining(created, created.Add(50*time.Minute), DefaultGoal))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "44m 59s", Display(44*time.Minute+59*time.Second))
	assert.Equal(t, "0m 1s", Display(time.Second))
	assert.Equal(t, "12m 0s", Display(12*time.Minute))

	// Sub-second remainders floor to whole seconds.
	assert.Equal(t, "3m 7s", Display(3*time.Minute+7*time.Second+900*time.Millisecond))

	assert.Equal(t, Late, Display(0))
	assert.Equal(t, Late, Display(-time.Minute))
}

func TestTrackerLatchesLate(t *testing.T) {
	tracker := NewTracker(DefaultGoal)
	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "15m 0s", tracker.Status("BUF-AAAAAA", created, created.Add(30*time.Minute)))
	assert.Equal(t, Late, tracker.Status("BUF-AAAAAA", created, created.Add(46*time.Minute)))

	// Once late, an earlier clock sample must not revive the countdown.
	assert.Equal(t, Late, tracker.Status("BUF-AAAAAA", created, created.Add(10*time.Minute)))

	// Other orders are unaffected by the latch.
	assert.Equal(t, "35m 0s", tracker.Status("SP-BBBBBB", created, created.Add(10*time.Minute)))
}

func TestTickerStops(t *testing.T) {
	var ticks atomic.Int64
	ticker := Start(context.Background(), func(time.Time) {
		ticks.Add(1)
	})

	require.Eventually(t, func() bool {
		return ticks.Load() >= 1
	}, 3*time.Second, 10*time.Millisecond)

	ticker.Stop()
	settled := ticks.Load()
	time.Sleep(1100 * time.Millisecond)
	assert.Equal(t, settled, ticks.Load(), "ticks must not continue after Stop")

	// Stop is idempotent.
	ticker.Stop()
}

func TestTickerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := Start(ctx, func(time.Time) {})
	cancel()

	done := make(chan struct{})
	go func() {
		ticker.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
}
