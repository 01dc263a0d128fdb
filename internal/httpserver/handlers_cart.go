package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type addCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  *int   `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func getCartHandler(svc CartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Get(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toCartView(*cart))
	}
}

func addCartItemHandler(svc CartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if !bindJSON(c, &req) {
			return
		}
		qty := 1
		if req.Quantity != nil {
			qty = *req.Quantity
		}
		item, err := svc.AddItem(c.Request.Context(), currentUser(c).ID, req.ProductID, qty)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"item": toCartItemView(*item)})
	}
}

func updateCartItemHandler(svc CartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req updateCartItemRequest
		if !bindJSON(c, &req) {
			return
		}
		item, err := svc.UpdateQuantity(c.Request.Context(), currentUser(c).ID, id, req.Quantity)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": toCartItemView(*item)})
	}
}

func removeCartItemHandler(svc CartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := svc.RemoveItem(c.Request.Context(), currentUser(c).ID, id); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func clearCartHandler(svc CartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), currentUser(c).ID); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
