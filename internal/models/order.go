package models

import (
	"time"

	"github.com/uptrace/bun"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusDelivered OrderStatus = "Delivered"
)

// statusCycle is the single-click-advance sequence used by the kitchen
// dashboard. Advancing past Delivered wraps back to Pending; that mirrors the
// original control and is kept as-is.
var statusCycle = []OrderStatus{StatusPending, StatusPreparing, StatusDelivered}

// NextStatus returns the state the advance control moves an order into.
// Unknown values are treated as Pending so the cycle stays total.
func NextStatus(s OrderStatus) OrderStatus {
	for i, st := range statusCycle {
		if st == s {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return StatusPending
}

// Valid reports whether s is one of the three persisted statuses. The store
// enforces membership only, not transition order.
func (s OrderStatus) Valid() bool {
	for _, st := range statusCycle {
		if st == s {
			return true
		}
	}
	return false
}

// Order is the sole persisted entity. The id prefix (BUF- or SP-) doubles as
// the category discriminant; no separate category column exists.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID           string      `json:"id" bun:"id,pk"`
	CustomerName string      `json:"customer_name" bun:"customer_name"`
	Items        string      `json:"items" bun:"items"`
	TotalPrice   int64       `json:"total_price" bun:"total_price"`
	Status       OrderStatus `json:"status" bun:"status"`
	CreatedAt    time.Time   `json:"created_at" bun:"created_at"`
}

// OrderDraft is what the client supplies on insert. created_at is assigned by
// the store, never by the caller.
type OrderDraft struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customer_name"`
	Items        string      `json:"items"`
	TotalPrice   int64       `json:"total_price"`
	Status       OrderStatus `json:"status"`
}

type OrderRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	OrderType    string `json:"order_type" binding:"required,oneof=SP BUF"`
}

// QuickOrderRequest backs the landing-page one-click buttons. Juices are the
// optional buffet add-ons appended to the items description.
type QuickOrderRequest struct {
	Item   string   `json:"item" binding:"required"`
	Juices []string `json:"juices"`
}

type LoginRequest struct {
	Passkey string `json:"passkey" binding:"required"`
}

// OrderEvent is the realtime channel payload: the fully-formed inserted row.
type OrderEvent struct {
	Type      string    `json:"type"`
	Order     *Order    `json:"order"`
	Timestamp time.Time `json:"timestamp"`
}

const EventOrderCreated = "order.created"

// DashboardStats aggregates the figures the admin overview renders.
type DashboardStats struct {
	Revenue        int64          `json:"revenue"`
	DailyGoal      int64          `json:"daily_goal"`
	GoalPercentage float64        `json:"goal_percentage"`
	BuffetCount    int            `json:"buffet_count"`
	SingleCount    int            `json:"single_count"`
	RecentRevenue  []RevenuePoint `json:"recent_revenue"`
}

// RevenuePoint is one sample of the revenue-velocity chart (last ten orders,
// oldest first).
type RevenuePoint struct {
	Time   string `json:"time"`
	Amount int64  `json:"amount"`
}
