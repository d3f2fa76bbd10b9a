package handlers

import (
	"net/http"

	"safi-kitchen/internal/feed"
	"safi-kitchen/internal/notify"
	"safi-kitchen/internal/services"
	"safi-kitchen/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the kitchen control dashboard. Status changes follow
// the write-then-reflect contract: the store commits first, the dashboard
// projection updates only after success.
type AdminHandler struct {
	orderService *services.OrderService
	dashboard    *feed.Dashboard
	miniFeed     *feed.MiniFeed
}

func NewAdminHandler(orderService *services.OrderService, dashboard *feed.Dashboard, miniFeed *feed.MiniFeed) *AdminHandler {
	return &AdminHandler{
		orderService: orderService,
		dashboard:    dashboard,
		miniFeed:     miniFeed,
	}
}

// ListOrders renders the dashboard table: projection rows with countdown
// state, optionally filtered by id substring via ?q=.
func (h *AdminHandler) ListOrders(c *gin.Context) {
	rows := h.dashboard.Rows(c.Query("q"))

	c.JSON(http.StatusOK, utils.SuccessResponse("Orders retrieved", gin.H{
		"orders":     rows,
		"last_alert": h.dashboard.LastAlert(),
	}))
}

// AdvanceStatus is the single-click advance control.
func (h *AdminHandler) AdvanceStatus(c *gin.Context) {
	orderID := c.Param("id")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Order ID is required", ""))
		return
	}

	order, err := h.orderService.AdvanceStatus(c.Request.Context(), orderID)
	if err != nil {
		if err == services.ErrOrderNotFound {
			c.JSON(http.StatusNotFound, utils.ErrorResponse("Order not found", err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Status update failed", err.Error()))
		return
	}

	h.dashboard.Projection.ApplyStatus(order.ID, order.Status)
	c.JSON(http.StatusOK, utils.SuccessResponse("Status advanced", order))
}

// DeliverAll is the "clear all pending" control: one bulk store update, then
// the projection follows.
func (h *AdminHandler) DeliverAll(c *gin.Context) {
	ids, err := h.orderService.ClearPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Bulk update failed", err.Error()))
		return
	}

	h.dashboard.Projection.ApplyBulkDelivered()
	c.JSON(http.StatusOK, utils.SuccessResponse("Pending orders delivered", gin.H{
		"updated": ids,
	}))
}

// Receipt returns the printable HTML fragment for one order.
func (h *AdminHandler) Receipt(c *gin.Context) {
	orderID := c.Param("id")

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if err == services.ErrOrderNotFound {
			c.JSON(http.StatusNotFound, utils.ErrorResponse("Order not found", err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to retrieve order", err.Error()))
		return
	}

	html, err := notify.Receipt(order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to render receipt", err.Error()))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Stats serves the dashboard overview figures.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.orderService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to compute stats", err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Stats retrieved", stats))
}

// Feed serves the landing page's live kitchen signal (three most recent
// orders).
func (h *AdminHandler) Feed(c *gin.Context) {
	c.JSON(http.StatusOK, utils.SuccessResponse("Feed retrieved", h.miniFeed.Orders()))
}
