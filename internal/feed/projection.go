package feed

import (
	"strings"
	"sync"

	"safi-kitchen/internal/models"
)

// Projection is the view-local, newest-first mirror of the order list. The
// dashboard holds an unbounded one; the mini kitchen feed caps itself at the
// three most recent entries. Inbound realtime events are prepended as
// delivered, without deduplication against rows already loaded.
type Projection struct {
	mu     sync.RWMutex
	orders []*models.Order
	bound  int // 0 means unbounded
}

func NewProjection() *Projection {
	return &Projection{}
}

// NewBounded keeps only the `bound` most recent entries; older ones are
// dropped from the view, never deleted from the store.
func NewBounded(bound int) *Projection {
	return &Projection{bound: bound}
}

// Load replaces the projection contents with the result of an initial
// newest-first store query.
func (p *Projection) Load(orders []*models.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.orders = make([]*models.Order, 0, len(orders))
	for _, o := range orders {
		copied := *o
		p.orders = append(p.orders, &copied)
	}
	p.trim()
}

// ApplyInsert prepends a realtime-inserted order, preserving newest-first
// order.
func (p *Projection) ApplyInsert(order *models.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()

	copied := *order
	p.orders = append([]*models.Order{&copied}, p.orders...)
	p.trim()
}

// ApplyStatus replaces the status of the matching entry in place. Unknown ids
// are ignored.
func (p *Projection) ApplyStatus(orderID string, status models.OrderStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, o := range p.orders {
		if o.ID == orderID {
			o.Status = status
			return
		}
	}
}

// ApplyBulkDelivered marks every non-Delivered entry Delivered in place and
// returns the ids it touched.
func (p *Projection) ApplyBulkDelivered() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var touched []string
	for _, o := range p.orders {
		if o.Status != models.StatusDelivered {
			o.Status = models.StatusDelivered
			touched = append(touched, o.ID)
		}
	}
	return touched
}

// Search returns entries whose id contains the query, case-insensitively on
// the query side (ids are already uppercase). Pure read; the underlying
// sequence is untouched.
func (p *Projection) Search(query string) []*models.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()

	q := strings.ToUpper(query)
	var matches []*models.Order
	for _, o := range p.orders {
		if strings.Contains(o.ID, q) {
			copied := *o
			matches = append(matches, &copied)
		}
	}
	return matches
}

// Snapshot returns a copy of the current sequence for rendering.
func (p *Projection) Snapshot() []*models.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*models.Order, 0, len(p.orders))
	for _, o := range p.orders {
		copied := *o
		out = append(out, &copied)
	}
	return out
}

func (p *Projection) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.orders)
}

func (p *Projection) trim() {
	if p.bound > 0 && len(p.orders) > p.bound {
		p.orders = p.orders[:p.bound]
	}
}
