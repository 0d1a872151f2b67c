package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dineflow/ordering-api/auth"
	"github.com/dineflow/ordering-api/backend"
	"github.com/dineflow/ordering-api/lifecycle"
	"github.com/dineflow/ordering-api/models"
)

type AdvanceStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message"`
}

func parseOrderID(c *gin.Context) (uint, bool) {
	raw := c.Param("orderID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return 0, false
	}
	return uint(id), true
}

// GET /user/orders
func GetUserOrders(b backend.OrderBackend, lc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		orders, err := b.OrdersForCustomer(c.Request.Context(), user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		for i := range orders {
			lc.Decorate(&orders[i])
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders/:orderID
func GetUserOrder(b backend.OrderBackend, lc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, ok := parseOrderID(c)
		if !ok {
			return
		}

		order, err := b.Order(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		if order == nil || order.CustomerID != user.ID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		lc.Decorate(order)
		c.JSON(http.StatusOK, order)
	}
}

// POST /user/orders/:orderID/cancel
func CancelOrder(lc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, ok := parseOrderID(c)
		if !ok {
			return
		}

		order, err := lc.Cancel(c.Request.Context(), id, user.ID)
		if err != nil {
			var terr *lifecycle.TransitionError
			if errors.As(err, &terr) {
				status := http.StatusConflict
				if terr.Reason == "order not found" {
					status = http.StatusNotFound
				}
				c.JSON(status, gin.H{"error": terr.Reason, "kind": "transition"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /staff/orders
func GetAllOrders(b backend.OrderBackend, lc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := b.AllOrders(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		for i := range orders {
			lc.Decorate(&orders[i])
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /staff/orders/:orderID/status
func AdvanceOrderStatus(lc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseOrderID(c)
		if !ok {
			return
		}

		var req AdvanceStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		next := models.OrderStatus(req.Status)
		if !next.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order status"})
			return
		}

		order, err := lc.Advance(c.Request.Context(), id, next, req.Message)
		if err != nil {
			var terr *lifecycle.TransitionError
			if errors.As(err, &terr) {
				status := http.StatusConflict
				if terr.Reason == "order not found" {
					status = http.StatusNotFound
				}
				c.JSON(status, gin.H{"error": terr.Reason, "kind": "transition"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
