package httpserver

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.AuthSvc == nil || deps.UserSvc == nil || deps.ProductSvc == nil || deps.CartSvc == nil ||
		deps.OrderSvc == nil || deps.ReviewSvc == nil || deps.AdminSvc == nil {
		return nil, errors.New("httpserver: all services are required")
	}
	for _, o := range deps.CORSOrigins {
		if o == "*" {
			return nil, errors.New("httpserver: wildcard CORS origin is not allowed")
		}
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	// Only method, path, status and latency are logged; never bodies or headers.
	router.Use(
		requestIDMiddleware(),
		gin.LoggerWithWriter(logger.Writer()),
		gin.Recovery(),
	)
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Authorization", "Content-Type", requestIDHeader},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/", indexHandler)
	router.GET("/healthz", healthHandler)
	router.GET("/health", healthHandler)
	router.GET("/readyz", readyHandler(db))

	authed := authMiddleware(deps.AuthSvc, deps.UserSvc, logger)
	admin := requireAdmin()

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", registerHandler(deps.AuthSvc, logger))
	auth.POST("/login", loginHandler(deps.AuthSvc, logger))
	auth.POST("/forgot-password", forgotPasswordHandler(deps.AuthSvc, logger))
	auth.POST("/reset-password", resetPasswordHandler(deps.AuthSvc, logger))

	users := api.Group("/users", authed)
	users.GET("", admin, listUsersHandler(deps.UserSvc, logger))
	users.GET("/me", meHandler)
	users.GET("/:id", getUserHandler(deps.UserSvc, logger))
	users.PUT("/:id", updateUserHandler(deps.UserSvc, logger))
	users.DELETE("/:id", deleteUserHandler(deps.UserSvc, logger))

	products := api.Group("/products")
	products.GET("", listProductsHandler(deps.ProductSvc, logger))
	products.GET("/categories", categoriesHandler(deps.ProductSvc, logger))
	products.GET("/:id", getProductHandler(deps.ProductSvc, logger))

	cart := api.Group("/cart", authed)
	cart.GET("", getCartHandler(deps.CartSvc, logger))
	cart.DELETE("", clearCartHandler(deps.CartSvc, logger))
	cart.POST("/items", addCartItemHandler(deps.CartSvc, logger))
	cart.PUT("/items/:id", updateCartItemHandler(deps.CartSvc, logger))
	cart.DELETE("/items/:id", removeCartItemHandler(deps.CartSvc, logger))

	orders := api.Group("/orders", authed)
	orders.POST("", placeOrderHandler(deps.OrderSvc, logger))
	orders.GET("", listOrdersHandler(deps.OrderSvc, logger))
	orders.GET("/:id", getOrderHandler(deps.OrderSvc, logger))
	orders.PUT("/:id", admin, updateOrderStatusHandler(deps.OrderSvc, logger))
	orders.DELETE("/:id", cancelOrderHandler(deps.OrderSvc, logger))

	reviews := api.Group("/reviews")
	reviews.GET("/product/:productId", productReviewsHandler(deps.ReviewSvc, logger))
	reviews.POST("", authed, createReviewHandler(deps.ReviewSvc, logger))
	reviews.PUT("/:id", authed, updateReviewHandler(deps.ReviewSvc, logger))
	reviews.DELETE("/:id", authed, deleteReviewHandler(deps.ReviewSvc, logger))

	adm := api.Group("/admin", authed, admin)
	adm.GET("/users", listUsersHandler(deps.UserSvc, logger))
	adm.PUT("/users/:id/role", setRoleHandler(deps.UserSvc, logger))
	adm.GET("/orders", adminOrdersHandler(deps.AdminSvc, logger))
	adm.GET("/stats", adminStatsHandler(deps.AdminSvc, logger))
	adm.POST("/products", createProductHandler(deps.ProductSvc, logger))
	adm.PUT("/products/:id", updateProductHandler(deps.ProductSvc, logger))
	adm.DELETE("/products/:id", deleteProductHandler(deps.ProductSvc, logger))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router, nil
}
