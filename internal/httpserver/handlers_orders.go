package httpserver

import (
	"log"
	"net/http"

	"shoplab/internal/domain"

	"github.com/gin-gonic/gin"
)

// placeOrderRequest only reads the address. Totals and owner ids sent by a
// client are not part of the contract.
type placeOrderRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func placeOrderHandler(svc OrderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req placeOrderRequest
		if !bindJSON(c, &req) {
			return
		}
		o, err := svc.Place(c.Request.Context(), currentUser(c), req.ShippingAddress)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order": toOrderView(*o)})
	}
}

func listOrdersHandler(svc OrderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.List(c.Request.Context(), currentUser(c))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": toOrderViews(orders)})
	}
}

func getOrderHandler(svc OrderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		o, err := svc.Get(c.Request.Context(), currentUser(c), id)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": toOrderView(*o)})
	}
}

func updateOrderStatusHandler(svc OrderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req updateOrderStatusRequest
		if !bindJSON(c, &req) {
			return
		}
		o, err := svc.UpdateStatus(c.Request.Context(), currentUser(c), id, domain.OrderStatus(req.Status))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": toOrderView(*o)})
	}
}

func cancelOrderHandler(svc OrderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		o, err := svc.Cancel(c.Request.Context(), currentUser(c), id)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": toOrderView(*o)})
	}
}
