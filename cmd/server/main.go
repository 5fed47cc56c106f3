package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jcordero/tienda-storefront/config"
	"github.com/jcordero/tienda-storefront/internal/app/cart"
	"github.com/jcordero/tienda-storefront/internal/app/client"
	"github.com/jcordero/tienda-storefront/internal/app/controller"
	"github.com/jcordero/tienda-storefront/internal/app/service"
	"github.com/jcordero/tienda-storefront/internal/app/storage"
	"github.com/jcordero/tienda-storefront/internal/middleware"
	"github.com/jcordero/tienda-storefront/internal/router"
	"github.com/jcordero/tienda-storefront/internal/scheduler"
	"github.com/jcordero/tienda-storefront/internal/websocket"
	"github.com/jcordero/tienda-storefront/pkg/logger"
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

	logger.Info("Starting Tienda storefront server", map[string]interface{}{
		"environment":  cfg.Server.Environment,
		"port":         cfg.Server.Port,
		"cart_storage": cfg.Storage.Backend,
		"log_level":    logLevel,
	})

	// Cart persistence backend
	backend, cleanup, err := buildStorageBackend(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize cart storage", err, map[string]interface{}{
			"backend": cfg.Storage.Backend,
		})
	}
	if cleanup != nil {
		defer cleanup()
	}

	manager := cart.NewManager(backend)

	// Websocket hub for cart-changed pushes
	hub := websocket.NewHub()
	go hub.Run()

	// Commerce backend API client
	apiClient, err := client.NewClient(client.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to initialize backend API client", err)
	}

	// Services
	catalogService := service.NewCatalogService(apiClient)
	checkoutService := service.NewCheckoutService(apiClient)

	// Controllers
	cartController := controller.NewCartController(catalogService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	productController := controller.NewProductController(catalogService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Idle session eviction
	cartScheduler := scheduler.NewCartScheduler(manager, cfg.Session.IdleTTL)
	if err := cartScheduler.Start(); err != nil {
		logger.Fatal("Failed to start cart scheduler", err)
	}
	defer cartScheduler.Stop()

	// Router
	r := router.NewRouter(
		cartController,
		checkoutController,
		productController,
		authMiddleware,
		manager,
		hub,
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

// buildStorageBackend picks the cart persistence backend from configuration.
// The returned cleanup closes held connections, nil when there are none.
func buildStorageBackend(cfg *config.Config) (storage.Backend, func(), error) {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemory(), nil, nil

	case "file":
		backend, err := storage.NewFile(cfg.Storage.FileDir)
		return backend, nil, err

	case "redis":
		backend, err := storage.NewRedis(
			cfg.Redis.Addr(),
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.TTL,
		)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := backend.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}
		return backend, cleanup, nil

	case "postgres":
		db, err := storage.OpenPostgres(cfg.Database.DSN())
		if err != nil {
			return nil, nil, err
		}
		backend, err := storage.NewDatabase(db)
		return backend, nil, err

	case "s3":
		backend := storage.NewS3(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.Prefix,
		)
		return backend, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown cart storage backend: %q", cfg.Storage.Backend)
	}
}
