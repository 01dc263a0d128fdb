package httpserver

import (
	"log"
	"net/http"

	reviewsvc "shoplab/internal/service/review"

	"github.com/gin-gonic/gin"
)

type createReviewRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type updateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func createReviewHandler(svc ReviewService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createReviewRequest
		if !bindJSON(c, &req) {
			return
		}
		rv, err := svc.Create(c.Request.Context(), currentUser(c), reviewsvc.Input{
			ProductID: req.ProductID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"review": toReviewView(*rv)})
	}
}

func productReviewsHandler(svc ReviewService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := pathID(c, "productId")
		if !ok {
			return
		}
		reviews, err := svc.ListByProduct(c.Request.Context(), productID)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		out := make([]reviewView, 0, len(reviews))
		for _, rv := range reviews {
			out = append(out, toReviewView(rv))
		}
		c.JSON(http.StatusOK, gin.H{"count": len(out), "reviews": out})
	}
}

func updateReviewHandler(svc ReviewService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req updateReviewRequest
		if !bindJSON(c, &req) {
			return
		}
		rv, err := svc.Update(c.Request.Context(), currentUser(c), id, req.Rating, req.Comment)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"review": toReviewView(*rv)})
	}
}

func deleteReviewHandler(svc ReviewService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), currentUser(c), id); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
