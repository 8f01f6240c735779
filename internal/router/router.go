package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rkarim/cartify-backend/config"
	"github.com/rkarim/cartify-backend/internal/app/controller"
	"github.com/rkarim/cartify-backend/internal/errors"
	"github.com/rkarim/cartify-backend/internal/middleware"
)

type Router struct {
	userController    *controller.UserController
	productController *controller.ProductController
	cartController    *controller.CartController
	orderController   *controller.OrderController
	uploadController  *controller.UploadController
	config            *config.Config
	dbAvailable       bool
}

func NewRouter(
	userController *controller.UserController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	uploadController *controller.UploadController,
	cfg *config.Config,
	dbAvailable bool,
) *Router {
	return &Router{
		userController:    userController,
		productController: productController,
		cartController:    cartController,
		orderController:   orderController,
		uploadController:  uploadController,
		config:            cfg,
		dbAvailable:       dbAvailable,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Cartify API is running",
		})
	})

	guard := databaseGuard(r.dbAvailable)

	api := router.Group("/api")
	{
		users := api.Group("/users")
		users.Use(guard)
		{
			users.GET("", r.userController.ListUsers)
			users.GET("/:id", r.userController.GetUser)
			users.POST("", r.userController.CreateUser)
			users.PUT("/:id", r.userController.UpdateUser)
			users.DELETE("/:id", r.userController.DeleteUser)
		}

		products := api.Group("/products")
		products.Use(guard)
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
			products.POST("", r.productController.CreateProduct)
			products.PUT("/:id", r.productController.UpdateProduct)
			products.DELETE("/:id", r.productController.DeleteProduct)
		}

		carts := api.Group("/carts")
		carts.Use(guard)
		{
			carts.GET("", r.cartController.ListCarts)
			carts.GET("/:user_id", r.cartController.GetCart)
			carts.POST("", r.cartController.CreateCart)
			carts.PUT("/:user_id", r.cartController.UpdateCart)
			carts.DELETE("/:user_id", r.cartController.DeleteCart)
		}

		orders := api.Group("/orders")
		orders.Use(guard)
		{
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("", r.orderController.CreateOrder)
			orders.PUT("/:id", r.orderController.UpdateOrder)
			orders.PATCH("/:id/status", r.orderController.UpdateOrderStatus)
			orders.DELETE("/:id", r.orderController.DeleteOrder)

			// Gin rejects a static "user" segment next to the ":id"
			// wildcard, so the history route runs through the
			// parameterized tree with a literal check.
			orders.GET("/:id/:user_id", func(c *gin.Context) {
				if c.Param("id") != "user" {
					errors.NotFound(c, errors.ResourceNotFound, "Route not found")
					return
				}
				r.orderController.GetUserOrders(c)
			})
		}

		uploads := api.Group("/uploads")
		{
			uploads.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

// databaseGuard fails data requests fast when the database never came
// up, instead of letting a handler dereference a nil connection into
// the recovery middleware's bare 500. Health and uploads stay open.
func databaseGuard(available bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !available {
			errors.RespondWithError(
				c,
				http.StatusServiceUnavailable,
				errors.InternalDatabaseError,
				"Database is unavailable. Please try again later",
			)
			c.Abort()
			return
		}
		c.Next()
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
