package storage

import (
	"safi-kitchen/internal/models"
)

type Store interface {
	// SaveOrder inserts a draft and returns the stored row with the
	// store-assigned created_at.
	SaveOrder(draft *models.OrderDraft) (*models.Order, error)
	GetOrder(orderID string) (*models.Order, error)
	// ListOrders returns every order, newest first.
	ListOrders() ([]*models.Order, error)
	UpdateOrderStatus(orderID string, status models.OrderStatus) error
	// UpdateStatusBulk applies one status to every id in a single statement.
	UpdateStatusBulk(orderIDs []string, status models.OrderStatus) error

	HealthCheck() error
	Close() error
}
