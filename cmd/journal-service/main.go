package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trading-journal/internal/journal/config"
	delivery "trading-journal/internal/journal/delivery/http"
	"trading-journal/internal/journal/repository"
	"trading-journal/internal/journal/service"
	"trading-journal/internal/journal/storage"
	"trading-journal/pkg/logger"
	"trading-journal/pkg/postgres"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the trading journal service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Trading Journal Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize attachment storage
	attachments, err := storage.NewAttachmentStore(cfg.Storage.UploadsDir, cfg.Storage.PublicPath)
	if err != nil {
		appLogger.Fatal("Failed to initialize attachment storage", logger.ErrorField(err))
	}

	// Initialize repositories and services
	tradeRepo := repository.NewTradeRepository(db.DB)
	tradeSvc := service.NewTradeService(tradeRepo, attachments, appLogger)
	statsSvc := service.NewStatsService(tradeRepo, appLogger)
	exportSvc := service.NewExportService(tradeRepo, appLogger)

	gracePeriod, err := time.ParseDuration(cfg.Sweeper.GracePeriod)
	if err != nil {
		appLogger.Fatal("Invalid sweeper grace period", logger.ErrorField(err))
	}
	sweeperSvc := service.NewSweeperService(tradeRepo, attachments, appLogger, cfg.Sweeper.Schedule, gracePeriod)

	// Start the orphaned-attachment sweeper
	go func() {
		if err := sweeperSvc.Start(ctx); err != nil {
			appLogger.Error("Sweeper stopped", logger.ErrorField(err))
		}
	}()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if cfg.API.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.API.RateLimit))))
	}

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Trade Journal API is running"})
	})
	e.Static(cfg.Storage.PublicPath, cfg.Storage.UploadsDir)

	// Initialize handlers and routes
	apiGroup := e.Group("/api")
	tradesGroup := apiGroup.Group("/trades")

	reportHandler := delivery.NewReportHandler(statsSvc, exportSvc, appLogger)
	reportHandler.RegisterRoutes(tradesGroup)

	tradeHandler := delivery.NewTradeHandler(tradeSvc, appLogger)
	tradeHandler.RegisterRoutes(tradesGroup)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "journal-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing journal-service CLI: %s\n", err)
		os.Exit(1)
	}
}
