package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"safi-kitchen/internal/config"
	"safi-kitchen/internal/logger"
	"safi-kitchen/internal/models"
	"safi-kitchen/internal/storage"
	"safi-kitchen/internal/utils"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)

// Menu prices in whole KES, matching the storefront.
const (
	PriceBuffet = 2500
	PriceSingle = 600

	ItemBuffet = "Elite Buffet"
	ItemSingle = "Single Pilau"
)

// EventPublisher is the realtime channel side of the order service.
type EventPublisher interface {
	PublishOrderCreated(order *models.Order) error
}

// Dispatcher is the fire-and-forget operator alert side channel.
type Dispatcher interface {
	Dispatch(order *models.Order)
	Link(order *models.Order) string
}

type OrderService struct {
	store     storage.Store
	publisher EventPublisher
	notifier  Dispatcher
	log       *logger.Logger
	kitchen   config.KitchenConfig
}

func NewOrderService(store storage.Store, publisher EventPublisher, notifier Dispatcher, log *logger.Logger, kitchen config.KitchenConfig) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		notifier:  notifier,
		log:       log,
		kitchen:   kitchen,
	}
}

// PlaceResult is what the order form's confirmation screen renders.
type PlaceResult struct {
	Order        *models.Order `json:"order"`
	WhatsAppLink string        `json:"whatsapp_link"`
}

// PlaceOrder runs the customer order form flow: generate the id, persist the
// draft, then publish the realtime event and fire the operator alert. On
// store failure nothing downstream runs and no local state may be updated by
// the caller.
func (s *OrderService) PlaceOrder(ctx context.Context, req *models.OrderRequest) (*PlaceResult, error) {
	category := utils.CategorySingle
	items := ItemSingle
	price := int64(PriceSingle)
	if req.OrderType == utils.CategoryBuffet {
		category = utils.CategoryBuffet
		items = ItemBuffet
		price = PriceBuffet
	}

	return s.place(ctx, category, req.CustomerName, items, price)
}

// QuickOrder is the landing-page one-click flow. Buffet menus and the header
// CTA count as BUF; everything else is a single portion. Juice add-ons are
// appended to the item description.
func (s *OrderService) QuickOrder(ctx context.Context, req *models.QuickOrderRequest) (*PlaceResult, error) {
	isBuffet := strings.Contains(req.Item, "Menu") || req.Item == "Header CTA"

	category := utils.CategorySingle
	price := int64(PriceSingle)
	if isBuffet {
		category = utils.CategoryBuffet
		price = PriceBuffet
	}

	items := req.Item
	if len(req.Juices) > 0 {
		items = fmt.Sprintf("%s (+ %s)", items, strings.Join(req.Juices, ", "))
	}

	return s.place(ctx, category, "Web Customer", items, price)
}

func (s *OrderService) place(ctx context.Context, category, customer, items string, price int64) (*PlaceResult, error) {
	orderID := utils.GenerateOrderID(category)
	s.log.LogOrder("CREATE", orderID, fmt.Sprintf("Placing order for %s: %s", customer, items))

	draft := &models.OrderDraft{
		ID:           orderID,
		CustomerName: customer,
		Items:        items,
		TotalPrice:   price,
		Status:       models.StatusPending,
	}

	order, err := s.store.SaveOrder(draft)
	if err != nil {
		s.log.Error("ORDER", fmt.Sprintf("Failed to place order %s: %v", orderID, err))
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Insert succeeded; the realtime event and the operator alert are
	// independent best-effort steps from here on.
	if err := s.publisher.PublishOrderCreated(order); err != nil {
		s.log.Warn("ORDER", fmt.Sprintf("Order %s persisted but event publish failed: %v", order.ID, err))
	}
	s.notifier.Dispatch(order)

	s.log.LogOrder("PLACED", order.ID, fmt.Sprintf("Order placed, total %d", order.TotalPrice))
	return &PlaceResult{
		Order:        order,
		WhatsAppLink: s.notifier.Link(order),
	}, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]*models.Order, error) {
	orders, err := s.store.ListOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// AdvanceStatus moves an order one step along the Pending -> Preparing ->
// Delivered cycle (wrapping back to Pending, as the dashboard control does).
// The store write commits before the caller may reflect the change locally.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next := models.NextStatus(order.Status)
	if err := s.store.UpdateOrderStatus(orderID, next); err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to advance status: %w", err)
	}

	order.Status = next
	s.log.LogOrder("STATUS", orderID, fmt.Sprintf("Advanced to %s", next))
	return order, nil
}

// ClearPending marks every non-Delivered order Delivered with a single bulk
// update and returns the affected ids.
func (s *OrderService) ClearPending(ctx context.Context) ([]string, error) {
	orders, err := s.store.ListOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	var ids []string
	for _, o := range orders {
		if o.Status != models.StatusDelivered {
			ids = append(ids, o.ID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if err := s.store.UpdateStatusBulk(ids, models.StatusDelivered); err != nil {
		return nil, fmt.Errorf("failed to clear pending orders: %w", err)
	}

	s.log.LogOrder("STATUS", fmt.Sprintf("%d orders", len(ids)), "Bulk marked Delivered")
	return ids, nil
}

// Stats aggregates the dashboard overview figures from the current order
// list.
func (s *OrderService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	orders, err := s.store.ListOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	stats := &models.DashboardStats{DailyGoal: s.kitchen.DailyGoal}
	for _, o := range orders {
		stats.Revenue += o.TotalPrice
		switch utils.CategoryOf(o.ID) {
		case utils.CategoryBuffet:
			stats.BuffetCount++
		case utils.CategorySingle:
			stats.SingleCount++
		}
	}

	if stats.DailyGoal > 0 {
		pct := float64(stats.Revenue) / float64(stats.DailyGoal) * 100
		if pct > 100 {
			pct = 100
		}
		stats.GoalPercentage = pct
	}

	// Last ten orders, oldest first, for the revenue-velocity chart.
	recent := orders
	if len(recent) > 10 {
		recent = recent[:10]
	}
	for i := len(recent) - 1; i >= 0; i-- {
		stats.RecentRevenue = append(stats.RecentRevenue, models.RevenuePoint{
			Time:   recent[i].CreatedAt.Format("15:04"),
			Amount: recent[i].TotalPrice,
		})
	}

	return stats, nil
}
