package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"chitfund-backend/config"
	"chitfund-backend/internal/logger"
	"chitfund-backend/internal/services"
	"chitfund-backend/internal/store"
	"chitfund-backend/internal/utils"
)

// Prepares the ledger store and optionally seeds committees from a YAML file:
//
//	go run ./cmd -committees committees.yaml
func main() {
	committeesPath := flag.String("committees", "", "YAML file with committees to create")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	sugar, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer sugar.Sync()

	if err := run(cfg, sugar, *committeesPath); err != nil {
		sugar.Fatalw("❌ Initialization failed", "error", err)
	}
}

func run(cfg *config.Config, sugar *zap.SugaredLogger, committeesPath string) error {
	if err := utils.SetLocation(cfg.Timezone); err != nil {
		sugar.Warnw("⚠️ Unknown timezone, keeping default", "timezone", cfg.Timezone)
	}

	sugar.Infow("🚀 Initializing ledger store", "driver", cfg.StoreDriver, "database", cfg.DatabaseURL)

	ctx := context.Background()
	ledgerStore, locker, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open ledger store: %w", err)
	}
	defer ledgerStore.Close()

	ledgerService := services.NewLedgerService(ledgerStore, locker, cfg.DefaultLateFee, sugar)
	ledgerService.SetLockWait(cfg.LockWait)

	if committeesPath != "" {
		seeds, err := services.LoadCommitteeFile(committeesPath)
		if err != nil {
			return fmt.Errorf("failed to read committee file %s: %w", committeesPath, err)
		}

		created, err := ledgerService.ImportCommittees(ctx, seeds)
		if err != nil {
			return fmt.Errorf("committee import stopped after %d: %w", len(created), err)
		}
		sugar.Infow("📥 Committees imported", "count", len(created))
	}

	committees, err := ledgerService.ListCommittees(ctx)
	if err != nil {
		return fmt.Errorf("failed to list committees: %w", err)
	}

	for _, c := range committees {
		sugar.Infow("📒 Committee", "id", c.ID, "name", c.Name, "status", c.Status,
			"month", c.CurrentMonth, "duration", c.Duration, "members", c.MemberCount())
	}
	sugar.Infow("🎉 Initialization completed", "committees", len(committees))
	return nil
}
