package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rkarim/cartify-backend/config"
	"github.com/rkarim/cartify-backend/internal/app/controller"
	"github.com/rkarim/cartify-backend/internal/app/repository"
	"github.com/rkarim/cartify-backend/internal/app/service"
	"github.com/rkarim/cartify-backend/internal/db"
	"github.com/rkarim/cartify-backend/internal/router"
	"github.com/rkarim/cartify-backend/internal/scheduler"
	"github.com/rkarim/cartify-backend/internal/storage"
	"github.com/rkarim/cartify-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Cartify Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database. A failed connection is logged but does not
	// stop the server: it still listens and reports errors per request
	// until the database comes back.
	dbReady := true
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Error("Failed to initialize database, serving without storage", err)
		dbReady = false
	}
	if dbReady {
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", err)
			}
		}()

		// Run migrations
		if err := db.Migrate(); err != nil {
			logger.Fatal("Failed to run migrations", err)
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, db.GetDB())

	// Initialize storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	userController := controller.NewUserController(userService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	uploadController := controller.NewUploadController(s3Storage)

	// Start the cart sweeper
	var cartSweeper *scheduler.CartSweeper
	if dbReady && cfg.Scheduler.CartSweepEnabled {
		cartSweeper = scheduler.NewCartSweeper(
			orderService,
			cfg.Scheduler.CartSweepSpec,
			cfg.Scheduler.CartSweepWindow,
		)
		if err := cartSweeper.Start(); err != nil {
			logger.Error("Failed to start cart sweeper", err)
		}
	}

	// Setup router
	r := router.NewRouter(
		userController,
		productController,
		cartController,
		orderController,
		uploadController,
		cfg,
		dbReady,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	if cartSweeper != nil {
		cartSweeper.Stop()
	}
	logger.Info("Server stopped successfully")
}
