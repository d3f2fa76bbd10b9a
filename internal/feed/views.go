package feed

import (
	"context"
	"sync"
	"time"

	"safi-kitchen/internal/countdown"
	"safi-kitchen/internal/logger"
	"safi-kitchen/internal/models"
)

// Row is one rendered dashboard line: the order plus its derived countdown
// state. The deadline value is never written back to the store.
type Row struct {
	*models.Order
	Deadline string `json:"deadline"`
}

// Dashboard is the kitchen control view: an unbounded projection fed by its
// own realtime subscription, with a one-second countdown cadence. Mount
// acquires the subscription and ticker; Unmount releases both on every exit
// path.
type Dashboard struct {
	Projection *Projection

	tracker *countdown.Tracker
	sub     *Subscription
	ticker  *countdown.Ticker

	mu        sync.RWMutex
	now       time.Time
	lastAlert string
}

// MountDashboard loads the initial order list, opens the realtime
// subscription, and starts the countdown cadence.
func MountDashboard(ctx context.Context, brokers []string, groupID string, load func() ([]*models.Order, error), goal time.Duration, log *logger.Logger) (*Dashboard, error) {
	orders, err := load()
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Projection: NewProjection(),
		tracker:    countdown.NewTracker(goal),
		now:        time.Now(),
	}
	d.Projection.Load(orders)

	sub, err := Open(ctx, brokers, groupID, d.Projection, d.onNewOrder, log)
	if err != nil {
		return nil, err
	}
	d.sub = sub

	d.ticker = countdown.Start(ctx, func(now time.Time) {
		d.mu.Lock()
		d.now = now
		d.mu.Unlock()
	})

	return d, nil
}

func (d *Dashboard) onNewOrder(order *models.Order) {
	d.mu.Lock()
	d.lastAlert = order.ID
	d.mu.Unlock()
}

// LastAlert returns the id of the most recent realtime arrival, the banner
// the dashboard flashes.
func (d *Dashboard) LastAlert() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastAlert
}

// Rows renders the projection with per-order countdown state, optionally
// filtered by an id substring. Filtering never mutates the projection.
func (d *Dashboard) Rows(query string) []Row {
	d.mu.RLock()
	now := d.now
	d.mu.RUnlock()

	var orders []*models.Order
	if query != "" {
		orders = d.Projection.Search(query)
	} else {
		orders = d.Projection.Snapshot()
	}

	rows := make([]Row, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, Row{
			Order:    o,
			Deadline: d.tracker.Status(o.ID, o.CreatedAt, now),
		})
	}
	return rows
}

// Unmount releases the subscription and the countdown cadence. Safe to call
// repeatedly.
func (d *Dashboard) Unmount() {
	if d.ticker != nil {
		d.ticker.Stop()
	}
	if d.sub != nil {
		d.sub.Close()
	}
}

// MountStaticDashboard builds the dashboard view without a realtime
// subscription (Kafka mock mode). The countdown cadence still runs.
func MountStaticDashboard(ctx context.Context, load func() ([]*models.Order, error), goal time.Duration) (*Dashboard, error) {
	orders, err := load()
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Projection: NewProjection(),
		tracker:    countdown.NewTracker(goal),
		now:        time.Now(),
	}
	d.Projection.Load(orders)

	d.ticker = countdown.Start(ctx, func(now time.Time) {
		d.mu.Lock()
		d.now = now
		d.mu.Unlock()
	})

	return d, nil
}

// MiniFeed is the landing page's live kitchen signal: the three most recent
// orders, fed by its own independent subscription.
type MiniFeed struct {
	Projection *Projection
	sub        *Subscription
}

func MountMiniFeed(ctx context.Context, brokers []string, groupID string, alert AlertFunc, log *logger.Logger) (*MiniFeed, error) {
	f := &MiniFeed{Projection: NewBounded(3)}

	sub, err := Open(ctx, brokers, groupID, f.Projection, alert, log)
	if err != nil {
		return nil, err
	}
	f.sub = sub
	return f, nil
}

// MountStaticMiniFeed builds an empty bounded feed with no subscription
// (Kafka mock mode).
func MountStaticMiniFeed() *MiniFeed {
	return &MiniFeed{Projection: NewBounded(3)}
}

func (f *MiniFeed) Orders() []*models.Order {
	return f.Projection.Snapshot()
}

func (f *MiniFeed) Unmount() {
	if f.sub != nil {
		f.sub.Close()
	}
}
