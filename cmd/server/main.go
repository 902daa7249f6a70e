package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/udonggeum-variants/config"
	"github.com/ikkim/udonggeum-variants/internal/app/controller"
	"github.com/ikkim/udonggeum-variants/internal/app/repository"
	"github.com/ikkim/udonggeum-variants/internal/app/service"
	"github.com/ikkim/udonggeum-variants/internal/db"
	"github.com/ikkim/udonggeum-variants/internal/middleware"
	"github.com/ikkim/udonggeum-variants/internal/router"
	"github.com/ikkim/udonggeum-variants/internal/scheduler"
	"github.com/ikkim/udonggeum-variants/internal/storage"
	"github.com/ikkim/udonggeum-variants/pkg/logger"
	"github.com/ikkim/udonggeum-variants/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting variant catalog server", logger.Fields{
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

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// 카탈로그 캐시 (선택)
	var catalogCache service.CatalogCache
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, attribute catalog cache disabled", logger.Fields{
				"error": err.Error(),
			})
		} else {
			catalogCache = redis.NewCache(redis.GetClient(), "variants", cfg.Variant.CatalogCacheTTL)
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	// Initialize repositories
	attributeRepo := repository.NewAttributeRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	variantRepo := repository.NewVariantRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	catalogService := service.NewCatalogService(attributeRepo, catalogCache)
	variantService := service.NewVariantService(db.GetDB(), productRepo, variantRepo, attributeRepo, orderRepo, cfg.Variant)
	selectorService := service.NewSelectorService(productRepo, variantRepo)
	purchaseService := service.NewPurchaseService(db.GetDB(), productRepo, variantRepo, orderRepo)

	// Initialize controllers
	attributeController := controller.NewAttributeController(catalogService)
	variantController := controller.NewVariantController(variantService, selectorService)
	purchaseController := controller.NewPurchaseController(purchaseService)

	var uploadController *controller.UploadController
	if cfg.S3.Bucket != "" && cfg.S3.AccessKeyID != "" {
		s3Storage := storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
		uploadController = controller.NewUploadController(s3Storage)
	} else {
		logger.Info("S3 credentials not set, variant image uploads disabled")
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	r := router.NewRouter(
		attributeController,
		variantController,
		purchaseController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// 무결성 점검 스케줄러
	auditScheduler := scheduler.NewVariantAuditScheduler(variantService, cfg.Variant.AuditCron)
	if err := auditScheduler.Start(); err != nil {
		logger.Fatal("Failed to start variant audit scheduler", err)
	}
	defer auditScheduler.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("Server started successfully", logger.Fields{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
