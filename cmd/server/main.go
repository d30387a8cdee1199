package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tkaraca/shopapp-backend/config"
	"github.com/tkaraca/shopapp-backend/internal/app/controller"
	"github.com/tkaraca/shopapp-backend/internal/app/repository"
	"github.com/tkaraca/shopapp-backend/internal/app/service"
	"github.com/tkaraca/shopapp-backend/internal/db"
	"github.com/tkaraca/shopapp-backend/internal/middleware"
	"github.com/tkaraca/shopapp-backend/internal/router"
	"github.com/tkaraca/shopapp-backend/internal/scheduler"
	"github.com/tkaraca/shopapp-backend/pkg/logger"
	"github.com/tkaraca/shopapp-backend/pkg/payment/iyzico"
	"github.com/tkaraca/shopapp-backend/pkg/redis"
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

	logger.Info("Starting ShopApp Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional: the catalog cache degrades to direct reads
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, catalog caching disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer redis.Close()
	}

	// Payment gateway client
	gateway, err := iyzico.NewClient(iyzico.Config{
		APIKey:    cfg.Payment.Iyzico.APIKey,
		SecretKey: cfg.Payment.Iyzico.SecretKey,
		BaseURL:   cfg.Payment.Iyzico.BaseURL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize payment gateway client", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	reconRepo := repository.NewReconciliationRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	catalogService := service.NewCatalogService(productRepo, redis.GetClient(), cfg.Catalog.CacheTTL)
	cartService := service.NewCartService(cartRepo, productRepo, userRepo)
	orderService := service.NewOrderService(orderRepo, userRepo)
	checkoutService := service.NewCheckoutService(
		db.GetDB(),
		userRepo,
		cartRepo,
		reconRepo,
		gateway,
		&cfg.Payment.Iyzico,
	)
	reconciliationService := service.NewReconciliationService(db.GetDB(), reconRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(catalogService)
	cartController := controller.NewCartController(cartService)
	checkoutController := controller.NewCheckoutController(checkoutService, cartService)
	orderController := controller.NewOrderController(orderService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the payment reconciliation scheduler
	reconScheduler := scheduler.NewReconciliationScheduler(reconciliationService, cfg.Payment.ReconciliationCron)
	if err := reconScheduler.Start(); err != nil {
		logger.Fatal("Failed to start reconciliation scheduler", err)
	}
	defer reconScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		checkoutController,
		orderController,
		authMiddleware,
		cfg,
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
	logger.Info("Server stopped successfully")
}
