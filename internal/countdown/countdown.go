package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultGoal is the kitchen's preparation deadline per order.
const DefaultGoal = 45 * time.Minute

const Late = "LATE"

// Remaining computes (createdAt + goal) - now. A non-positive result means
// the order is late.
func Remaining(createdAt, now time.Time, goal time.Duration) time.Duration {
	return createdAt.Add(goal).Sub(now)
}

// Display renders a remaining duration the way the dashboard shows it:
// "LATE" once the deadline has passed, otherwise "{m}m {s}s" floored to whole
// seconds.
func Display(remaining time.Duration) string {
	if remaining <= 0 {
		return Late
	}
	mins := int(remaining / time.Minute)
	secs := int(remaining/time.Second) % 60
	return fmt.Sprintf("%dm %ds", mins, secs)
}

// Tracker derives per-order countdown strings and latches LATE: once an order
// has been reported late within a view session it never reverts to a numeric
// countdown, regardless of the clock sample.
type Tracker struct {
	goal time.Duration

	mu   sync.Mutex
	late map[string]bool
}

func NewTracker(goal time.Duration) *Tracker {
	if goal <= 0 {
		goal = DefaultGoal
	}
	return &Tracker{
		goal: goal,
		late: make(map[string]bool),
	}
}

// Status returns the display string for one order at the given clock sample.
func (t *Tracker) Status(orderID string, createdAt, now time.Time) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.late[orderID] {
		return Late
	}

	remaining := Remaining(createdAt, now, t.goal)
	if remaining <= 0 {
		t.late[orderID] = true
		return Late
	}
	return Display(remaining)
}

// Ticker recomputes countdowns at a fixed one-second cadence for as long as
// the consuming view is mounted. Stop cancels the cadence; it is safe to call
// from deferred teardown paths.
type Ticker struct {
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// Start invokes tick once per second with the current time until Stop or ctx
// cancellation.
func Start(ctx context.Context, tick func(now time.Time)) *Ticker {
	tickCtx, cancel := context.WithCancel(ctx)
	t := &Ticker{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-tickCtx.Done():
				return
			case now := <-ticker.C:
				tick(now)
			}
		}
	}()

	return t
}

func (t *Ticker) Stop() {
	t.stopOnce.Do(func() {
		t.cancel()
		<-t.done
	})
}
