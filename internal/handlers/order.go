package handlers

import (
	"net/http"

	"safi-kitchen/internal/models"
	"safi-kitchen/internal/services"
	"safi-kitchen/internal/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// PlaceOrder backs the customer order form. A store failure means no
// confirmation screen and no notification; the client gets a plain error.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req models.OrderRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	result, err := h.orderService.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Order placement failed", err.Error()))
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("Order placed", result))
}

// QuickOrder backs the landing-page one-click buttons.
func (h *OrderHandler) QuickOrder(c *gin.Context) {
	var req models.QuickOrderRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	result, err := h.orderService.QuickOrder(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Order placement failed", err.Error()))
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("Order placed", result))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID := c.Param("id")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Order ID is required", ""))
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if err == services.ErrOrderNotFound {
			c.JSON(http.StatusNotFound, utils.ErrorResponse("Order not found", err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to retrieve order", err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Order retrieved", order))
}
