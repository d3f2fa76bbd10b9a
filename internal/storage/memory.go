package storage

import (
	"sync"
	"time"

	"safi-kitchen/internal/models"
)

// InMemoryStore backs tests and mock-mode runs. It mimics the MySQL store's
// contract, including store-assigned created_at and newest-first listing.
type InMemoryStore struct {
	orders map[string]*models.Order
	seq    []string // insertion order, oldest first
	mutex  sync.RWMutex

	now func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		orders: make(map[string]*models.Order),
		now:    time.Now,
	}
}

func (s *InMemoryStore) SaveOrder(draft *models.OrderDraft) (*models.Order, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	order := &models.Order{
		ID:           draft.ID,
		CustomerName: draft.CustomerName,
		Items:        draft.Items,
		TotalPrice:   draft.TotalPrice,
		Status:       draft.Status,
		CreatedAt:    s.now(),
	}

	s.orders[order.ID] = order
	s.seq = append(s.seq, order.ID)

	copied := *order
	return &copied, nil
}

func (s *InMemoryStore) GetOrder(orderID string) (*models.Order, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	order, exists := s.orders[orderID]
	if !exists {
		return nil, ErrOrderNotFound
	}

	copied := *order
	return &copied, nil
}

func (s *InMemoryStore) ListOrders() ([]*models.Order, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	orders := make([]*models.Order, 0, len(s.seq))
	for i := len(s.seq) - 1; i >= 0; i-- {
		copied := *s.orders[s.seq[i]]
		orders = append(orders, &copied)
	}

	return orders, nil
}

func (s *InMemoryStore) UpdateOrderStatus(orderID string, status models.OrderStatus) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	order, exists := s.orders[orderID]
	if !exists {
		return ErrOrderNotFound
	}

	order.Status = status
	return nil
}

func (s *InMemoryStore) UpdateStatusBulk(orderIDs []string, status models.OrderStatus) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, id := range orderIDs {
		if order, exists := s.orders[id]; exists {
			order.Status = status
		}
	}
	return nil
}

func (s *InMemoryStore) HealthCheck() error { return nil }

func (s *InMemoryStore) Close() error { return nil }
