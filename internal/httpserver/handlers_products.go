package httpserver

import (
	"log"
	"net/http"

	productsvc "shoplab/internal/service/product"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Prices are accepted as JSON numbers or strings.
type createProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Category    string           `json:"category"`
	ImageURL    string           `json:"image_url"`
	Stock       int              `json:"stock"`
}

type updateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"image_url"`
	Stock       *int             `json:"stock"`
}

func listProductsHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context(), productsvc.ListInput{
			Search:   c.Query("search"),
			Category: c.Query("category"),
			MinPrice: c.Query("min_price"),
			MaxPrice: c.Query("max_price"),
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"count":    len(products),
			"products": toProductViews(products),
		})
	}
}

func categoriesHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := svc.Categories(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		if cats == nil {
			cats = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"categories": cats})
	}
}

func getProductHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		p, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": toProductView(*p)})
	}
}

func createProductHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProductRequest
		if !bindJSON(c, &req) {
			return
		}
		p, err := svc.Create(c.Request.Context(), currentUser(c), productsvc.CreateInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price.String(),
			Category:    req.Category,
			ImageURL:    req.ImageURL,
			Stock:       req.Stock,
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"product": toProductView(*p)})
	}
}

func updateProductHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req updateProductRequest
		if !bindJSON(c, &req) {
			return
		}
		var price *string
		if req.Price != nil {
			v := req.Price.String()
			price = &v
		}
		p, err := svc.Update(c.Request.Context(), currentUser(c), id, productsvc.UpdateInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       price,
			Category:    req.Category,
			ImageURL:    req.ImageURL,
			Stock:       req.Stock,
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": toProductView(*p)})
	}
}

func deleteProductHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
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
