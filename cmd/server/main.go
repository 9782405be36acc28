package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	exportapp "github.com/ovesio/feedexport/internal/application/export"
	"github.com/ovesio/feedexport/internal/domain/export"
	"github.com/ovesio/feedexport/internal/infrastructure/config"
	"github.com/ovesio/feedexport/internal/infrastructure/links"
	"github.com/ovesio/feedexport/internal/infrastructure/logger"
	"github.com/ovesio/feedexport/internal/infrastructure/persistence"
	"github.com/ovesio/feedexport/internal/infrastructure/pricing"
	"github.com/ovesio/feedexport/internal/interfaces/http/handler"
	"github.com/ovesio/feedexport/internal/interfaces/http/middleware"
	"github.com/ovesio/feedexport/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting feed exporter",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Connect to the store database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize store readers
	prefix := cfg.Database.TablePrefix
	orderSource := persistence.NewGormOrderSource(db.DB, prefix)
	lineItemSource := persistence.NewGormLineItemSource(db.DB, prefix)
	productSource := persistence.NewGormProductSource(db.DB, prefix)
	categorySource := persistence.NewGormCategorySource(db.DB, prefix)
	currencySource := persistence.NewGormCurrencySource(db.DB, prefix)
	settingStore := persistence.NewGormSettingStore(db.DB, prefix, log)
	priceCalculator := pricing.NewTaxInclusiveCalculator(db.DB, prefix)
	linkBuilder := links.NewShopLinkBuilder(shopProtocol(settingStore, log), cfg.Export.ShopHost)

	// Initialize export services
	orderService := exportapp.NewOrderExportService(
		orderSource, lineItemSource, currencySource, settingStore)
	productService := exportapp.NewProductExportService(
		productSource, categorySource, settingStore, priceCalculator, linkBuilder)

	// Initialize handlers
	defaults := export.ExportContext{
		LanguageID:     cfg.Export.LanguageID,
		ShopID:         cfg.Export.ShopID,
		CurrencyCode:   cfg.Export.CurrencyCode,
		DefaultGroupID: cfg.Export.GuestGroupID,
	}
	exportHandler := handler.NewExportHandler(orderService, productService, defaults)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	router.NewRouter(engine).
		Register(exportHandler).
		Register(systemHandler).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// shopProtocol reads the store SSL setting once at startup. The link builder
// only needs it for absolute product URLs.
func shopProtocol(settings export.Settings, log *zap.Logger) string {
	protocol, err := settings.ShopProtocol(context.Background())
	if err != nil {
		log.Warn("Failed to read shop SSL setting, assuming http", zap.Error(err))
		return "http://"
	}
	return protocol
}
