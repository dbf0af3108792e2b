package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"chitfund-backend/config"
	"chitfund-backend/internal/api"
	"chitfund-backend/internal/logger"
	"chitfund-backend/internal/middleware"
	"chitfund-backend/internal/services"
	"chitfund-backend/internal/store"
	"chitfund-backend/internal/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	sugar, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer sugar.Sync()

	if err := run(cfg, sugar); err != nil {
		sugar.Fatalw("❌ Server stopped", "error", err)
	}
}

// run serves the API until an interrupt or a listener failure. Deferred cleanup always runs
// before it returns.
func run(cfg *config.Config, sugar *zap.SugaredLogger) error {
	if err := utils.SetLocation(cfg.Timezone); err != nil {
		sugar.Warnw("⚠️ Unknown timezone, keeping default", "timezone", cfg.Timezone, "error", err)
	}

	// Initialize ledger store
	ctx := context.Background()
	ledgerStore, locker, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s ledger store: %w", cfg.StoreDriver, err)
	}
	defer ledgerStore.Close()
	sugar.Infow("📒 Ledger store ready", "driver", cfg.StoreDriver)

	ledgerService := services.NewLedgerService(ledgerStore, locker, cfg.DefaultLateFee, sugar)
	ledgerService.SetLockWait(cfg.LockWait)

	if cfg.OverdueSweepEnabled {
		scheduler := services.NewSchedulerService(ledgerService, utils.Location, sugar)
		if err := scheduler.Start(cfg.OverdueSweepSchedule); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer scheduler.Stop()
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(sugar))
	router.Use(middleware.CORS(cfg.Environment, cfg.CORSAllowedOrigins))
	router.Use(middleware.SecurityMiddleware(&middleware.SecurityConfig{
		MaxRequestSize:    cfg.MaxRequestSize,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   time.Duration(cfg.RateLimitWindow) * time.Second,
		DisableRateLimit:  os.Getenv("DISABLE_RATE_LIMITING") == "true",
	}, sugar))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Chit fund ledger API is running",
			"version": "1.0.0",
		})
	})

	api.RegisterRoutes(router.Group("/api/v1"), api.NewLedgerHandlers(ledgerService, sugar))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	certFile := os.Getenv("TLS_CERT_FILE")
	keyFile := os.Getenv("TLS_KEY_FILE")

	serverErr := make(chan error, 1)
	go func() {
		var err error
		if certFile != "" && keyFile != "" {
			sugar.Infow("🔒 Starting server with TLS", "port", cfg.Port)
			err = server.ListenAndServeTLS(certFile, keyFile)
		} else {
			sugar.Infow("🔓 Starting server without TLS", "port", cfg.Port, "environment", cfg.Environment)
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}
	sugar.Info("Shutting down server...")

	// Create a deadline to wait for
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Server forced to shutdown", "error", err)
	}

	sugar.Info("Server shutdown complete")
	return nil
}
