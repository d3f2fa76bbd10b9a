package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safi-kitchen/internal/config"
	"safi-kitchen/internal/logger"
	"safi-kitchen/internal/models"
	"safi-kitchen/internal/notify"
	"safi-kitchen/internal/services"
	"safi-kitchen/internal/storage"
)

type fakePublisher struct {
	published []*models.Order
	err       error
}

func (f *fakePublisher) PublishOrderCreated(order *models.Order) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, order)
	return nil
}

type fakeDispatcher struct {
	dispatched []*models.Order
}

func (f *fakeDispatcher) Dispatch(order *models.Order) {
	f.dispatched = append(f.dispatched, order)
}

func (f *fakeDispatcher) Link(order *models.Order) string {
	return notify.WhatsAppLink("254700000000", notify.ComposeMessage(order.ID, order.CustomerName, order.Items))
}

// recordingStore counts bulk update calls on top of the in-memory store.
type recordingStore struct {
	*storage.InMemoryStore
	bulkCalls [][]string
}

func (r *recordingStore) UpdateStatusBulk(ids []string, status models.OrderStatus) error {
	r.bulkCalls = append(r.bulkCalls, ids)
	return r.InMemoryStore.UpdateStatusBulk(ids, status)
}

// failingStore simulates a store outage on insert.
type failingStore struct {
	*storage.InMemoryStore
}

func (f *failingStore) SaveOrder(draft *models.OrderDraft) (*models.Order, error) {
	return nil, errors.New("store unavailable")
}

func newService(store storage.Store) (*services.OrderService, *fakePublisher, *fakeDispatcher) {
	publisher := &fakePublisher{}
	dispatcher := &fakeDispatcher{}
	svc := services.NewOrderService(store, publisher, dispatcher, logger.NewLogger(), config.KitchenConfig{
		ContactPhone: "254700000000",
		DailyGoal:    50000,
	})
	return svc, publisher, dispatcher
}

func TestPlaceOrderBuffet(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc, publisher, dispatcher := newService(store)

	result, err := svc.PlaceOrder(context.Background(), &models.OrderRequest{
		CustomerName: "Ahmed O.",
		OrderType:    "BUF",
	})
	require.NoError(t, err)

	assert.Regexp(t, `^BUF-[A-Z0-9]{6}$`, result.Order.ID)
	assert.Equal(t, "Elite Buffet", result.Order.Items)
	assert.Equal(t, int64(2500), result.Order.TotalPrice)
	assert.Equal(t, models.StatusPending, result.Order.Status)
	assert.False(t, result.Order.CreatedAt.IsZero())

	// The new order sits at position 0 of the newest-first list.
	orders, err := store.ListOrders()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, result.Order.ID, orders[0].ID)

	// Event and notification fired after the successful insert.
	require.Len(t, publisher.published, 1)
	require.Len(t, dispatcher.dispatched, 1)

	msg := notify.ComposeMessage(result.Order.ID, result.Order.CustomerName, result.Order.Items)
	assert.Contains(t, msg, result.Order.ID)
	assert.Contains(t, msg, "Elite Buffet")
	assert.Contains(t, result.WhatsAppLink, "wa.me")
}

func TestPlaceOrderSinglePortion(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc, _, _ := newService(store)

	result, err := svc.PlaceOrder(context.Background(), &models.OrderRequest{
		CustomerName: "Sarah W.",
		OrderType:    "SP",
	})
	require.NoError(t, err)

	assert.Regexp(t, `^SP-[A-Z0-9]{6}$`, result.Order.ID)
	assert.Equal(t, "Single Pilau", result.Order.Items)
	assert.Equal(t, int64(600), result.Order.TotalPrice)
}

func TestPlaceOrderStoreFailure(t *testing.T) {
	store := &failingStore{storage.NewInMemoryStore()}
	svc, publisher, dispatcher := newService(store)

	_, err := svc.PlaceOrder(context.Background(), &models.OrderRequest{
		CustomerName: "Ahmed O.",
		OrderType:    "BUF",
	})
	require.Error(t, err)

	// Nothing downstream may run on a failed insert: no event, no
	// notification, no stored row.
	assert.Empty(t, publisher.published)
	assert.Empty(t, dispatcher.dispatched)

	orders, listErr := store.ListOrders()
	require.NoError(t, listErr)
	assert.Empty(t, orders)
}

func TestPlaceOrderSurvivesPublishFailure(t *testing.T) {
	store := storage.NewInMemoryStore()
	publisher := &fakePublisher{err: errors.New("brokers down")}
	dispatcher := &fakeDispatcher{}
	svc := services.NewOrderService(store, publisher, dispatcher, logger.NewLogger(), config.KitchenConfig{})

	result, err := svc.PlaceOrder(context.Background(), &models.OrderRequest{
		CustomerName: "Kevin K.",
		OrderType:    "SP",
	})
	require.NoError(t, err)

	// The order persists and the operator alert still fires; only the
	// realtime event is lost.
	orders, _ := store.ListOrders()
	assert.Len(t, orders, 1)
	assert.Len(t, dispatcher.dispatched, 1)
	assert.NotNil(t, result.Order)
}

func TestQuickOrderBuffetWithJuices(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc, _, _ := newService(store)

	result, err := svc.QuickOrder(context.Background(), &models.QuickOrderRequest{
		Item:   "Menu 1",
		Juices: []string{"Mango", "Passion"},
	})
	require.NoError(t, err)

	assert.Regexp(t, `^BUF-[A-Z0-9]{6}$`, result.Order.ID)
	assert.Equal(t, "Menu 1 (+ Mango, Passion)", result.Order.Items)
	assert.Equal(t, int64(2500), result.Order.TotalPrice)
	assert.Equal(t, "Web Customer", result.Order.CustomerName)
}

func TestQuickOrderHeaderCTA(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc, _, _ := newService(store)

	result, err := svc.QuickOrder(context.Background(), &models.QuickOrderRequest{Item: "Header CTA"})
	require.NoError(t, err)
	assert.Regexp(t, `^BUF-`, result.Order.ID)
}

func TestQuickOrderSinglePortion(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc, _, _ := newService(store)

	result, err := svc.QuickOrder(context.Background(), &models.QuickOrderRequest{Item: "Mutton Pilau"})
	require.NoError(t, err)

	assert.Regexp(t, `^SP-[A-Z0-9]{6}$`, result.Order.ID)
	assert.Equal(t, "Mutton Pilau", result.Order.Items)
	assert.Equal(t, int64(600), result.Order.TotalPrice)
}

func TestAdvanceStatusCycles(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc, _, _ := newService(store)

	placed, err := svc.PlaceOrder(context.Background(), &models.OrderRequest{
		CustomerName: "Joy M.",
		OrderType:    "SP",
	})
	require.NoError(t, err)
	id := placed.Order.ID

	expected := []models.OrderStatus{
		models.StatusPreparing,
		models.StatusDelivered,
		models.StatusPending, // wraparound on repeated clicks
	}
	for _, want := range expected {
		order, err := svc.AdvanceStatus(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, want, order.Status)

		stored, err := store.GetOrder(id)
		require.NoError(t, err)
		assert.Equal(t, want, stored.Status, "store committed before local reflect")
	}
}

func TestAdvanceStatusUnknownOrder(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc, _, _ := newService(store)

	_, err := svc.AdvanceStatus(context.Background(), "SP-MISSING")
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}

func TestClearPending(t *testing.T) {
	store := &recordingStore{InMemoryStore: storage.NewInMemoryStore()}
	svc, _, _ := newService(store)

	for _, seed := range []struct {
		id     string
		status models.OrderStatus
	}{
		{"SP-AAAAAA", models.StatusPending},
		{"BUF-BBBBBB", models.StatusPreparing},
		{"SP-CCCCCC", models.StatusDelivered},
	} {
		_, err := store.SaveOrder(&models.OrderDraft{
			ID:           seed.id,
			CustomerName: "Test Customer",
			Items:        "Single Pilau",
			TotalPrice:   600,
			Status:       seed.status,
		})
		require.NoError(t, err)
	}

	ids, err := svc.ClearPending(context.Background())
	require.NoError(t, err)

	// Exactly one bulk call, covering exactly the two non-Delivered ids.
	require.Len(t, store.bulkCalls, 1)
	assert.ElementsMatch(t, []string{"SP-AAAAAA", "BUF-BBBBBB"}, store.bulkCalls[0])
	assert.ElementsMatch(t, []string{"SP-AAAAAA", "BUF-BBBBBB"}, ids)

	orders, err := store.ListOrders()
	require.NoError(t, err)
	for _, o := range orders {
		assert.Equal(t, models.StatusDelivered, o.Status)
	}
}

func TestClearPendingNothingToDo(t *testing.T) {
	store := &recordingStore{InMemoryStore: storage.NewInMemoryStore()}
	svc, _, _ := newService(store)

	ids, err := svc.ClearPending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, store.bulkCalls, "no bulk call when nothing is pending")
}

func TestStats(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc, _, _ := newService(store)

	_, err := svc.PlaceOrder(context.Background(), &models.OrderRequest{CustomerName: "A", OrderType: "BUF"})
	require.NoError(t, err)
	_, err = svc.PlaceOrder(context.Background(), &models.OrderRequest{CustomerName: "B", OrderType: "SP"})
	require.NoError(t, err)
	_, err = svc.PlaceOrder(context.Background(), &models.OrderRequest{CustomerName: "C", OrderType: "SP"})
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2500+600+600), stats.Revenue)
	assert.Equal(t, 1, stats.BuffetCount)
	assert.Equal(t, 2, stats.SingleCount)
	assert.Equal(t, int64(50000), stats.DailyGoal)
	assert.InDelta(t, float64(3700)/50000*100, stats.GoalPercentage, 0.001)
	assert.Len(t, stats.RecentRevenue, 3)
	// Chart points run oldest first.
	assert.Equal(t, int64(2500), stats.RecentRevenue[0].Amount)
}
