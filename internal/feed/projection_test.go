package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safi-kitchen/internal/models"
)

func order(id string, status models.OrderStatus) *models.Order {
	return &models.Order{
		ID:           id,
		CustomerName: "Test Customer",
		Items:        "Single Pilau",
		TotalPrice:   600,
		Status:       status,
		CreatedAt:    time.Now(),
	}
}

func TestProjectionApplyInsertPrepends(t *testing.T) {
	p := NewProjection()
	p.Load([]*models.Order{order("SP-AAAAAA", models.StatusPending)})

	p.ApplyInsert(order("BUF-BBBBBB", models.StatusPending))
	p.ApplyInsert(order("SP-CCCCCC", models.StatusPending))

	snap := p.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "SP-CCCCCC", snap[0].ID)
	assert.Equal(t, "BUF-BBBBBB", snap[1].ID)
	assert.Equal(t, "SP-AAAAAA", snap[2].ID)
}

func TestBoundedProjectionNeverExceedsCap(t *testing.T) {
	p := NewBounded(3)

	for i := 0; i < 10; i++ {
		p.ApplyInsert(order(fmt.Sprintf("SP-%06d", i), models.StatusPending))
		assert.LessOrEqual(t, p.Len(), 3, "after %d inserts", i+1)
	}

	snap := p.Snapshot()
	require.Len(t, snap, 3)
	// Newest three survive, newest first.
	assert.Equal(t, "SP-000009", snap[0].ID)
	assert.Equal(t, "SP-000008", snap[1].ID)
	assert.Equal(t, "SP-000007", snap[2].ID)
}

func TestProjectionApplyStatusInPlace(t *testing.T) {
	p := NewProjection()
	p.Load([]*models.Order{
		order("SP-AAAAAA", models.StatusPending),
		order("BUF-BBBBBB", models.StatusPending),
	})

	p.ApplyStatus("BUF-BBBBBB", models.StatusPreparing)

	snap := p.Snapshot()
	assert.Equal(t, models.StatusPending, snap[0].Status)
	assert.Equal(t, models.StatusPreparing, snap[1].Status)
	// Positions unchanged.
	assert.Equal(t, "SP-AAAAAA", snap[0].ID)
	assert.Equal(t, "BUF-BBBBBB", snap[1].ID)

	// Unknown id is a no-op.
	p.ApplyStatus("SP-ZZZZZZ", models.StatusDelivered)
	assert.Equal(t, 2, p.Len())
}

func TestProjectionApplyBulkDelivered(t *testing.T) {
	p := NewProjection()
	p.Load([]*models.Order{
		order("SP-AAAAAA", models.StatusPending),
		order("BUF-BBBBBB", models.StatusPreparing),
		order("SP-CCCCCC", models.StatusDelivered),
	})

	touched := p.ApplyBulkDelivered()

	assert.ElementsMatch(t, []string{"SP-AAAAAA", "BUF-BBBBBB"}, touched)
	for _, o := range p.Snapshot() {
		assert.Equal(t, models.StatusDelivered, o.Status)
	}

	// A second pass finds nothing left to touch.
	assert.Empty(t, p.ApplyBulkDelivered())
}

func TestProjectionSearchIsPure(t *testing.T) {
	p := NewProjection()
	p.Load([]*models.Order{
		order("BUF-XK93MA", models.StatusPending),
		order("SP-XK93MB", models.StatusPending),
		order("SP-QQQQQQ", models.StatusPending),
	})

	matches := p.Search("xk93")
	assert.Len(t, matches, 2)

	matches = p.Search("BUF")
	require.Len(t, matches, 1)
	assert.Equal(t, "BUF-XK93MA", matches[0].ID)

	// Mutating a search result must not leak into the projection.
	matches[0].Status = models.StatusDelivered
	assert.Equal(t, models.StatusPending, p.Snapshot()[0].Status)

	assert.Equal(t, 3, p.Len())
}

func TestProjectionDoesNotDeduplicate(t *testing.T) {
	// A realtime event racing the initial load may repeat a known row; the
	// projection takes it as delivered.
	p := NewProjection()
	p.Load([]*models.Order{order("SP-AAAAAA", models.StatusPending)})
	p.ApplyInsert(order("SP-AAAAAA", models.StatusPending))

	assert.Equal(t, 2, p.Len())
}
