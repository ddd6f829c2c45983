package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/damoang/payout-ledger/internal/config"
	"github.com/damoang/payout-ledger/internal/database"
	"github.com/damoang/payout-ledger/internal/migration"
	"github.com/damoang/payout-ledger/internal/settlement/domain"
	pkglogger "github.com/damoang/payout-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	commission := flag.String("commission", "", "seed commission percent when no policy exists (default: settlement.default_commission_percent)")
	gst := flag.String("gst", "", "seed GST percent when no policy exists (default: settlement.default_gst_percent)")
	dryRun := flag.Bool("dry-run", false, "print the ledger tables without touching the database")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	config.LoadDotEnv()
	pkglogger.InitStructured(os.Getenv("APP_ENV"))
	log := pkglogger.GetLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	commissionPercent, err := percentFlag(*commission, cfg.Settlement.DefaultCommissionPercent, "commission")
	if err != nil {
		log.Fatal().Err(err).Msg("invalid flag")
	}
	gstPercent, err := percentFlag(*gst, cfg.Settlement.DefaultGSTPercent, "gst")
	if err != nil {
		log.Fatal().Err(err).Msg("invalid flag")
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}
	db, err := database.Open(&cfg.Database, logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get underlying DB")
	}
	defer sqlDB.Close()

	if *dryRun {
		tables, err := migration.Tables(db)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to resolve tables")
		}
		for _, t := range tables {
			fmt.Println("[dry-run] would migrate:", t)
		}
		fmt.Printf("[dry-run] would seed policy commission=%s%% gst=%s%% if none exists\n", commissionPercent, gstPercent)
		return
	}

	if err := migration.Run(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("ledger schema migrated")

	policy, created, err := migration.SeedPolicy(context.Background(), db, commissionPercent, gstPercent)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed commission policy")
	}
	if created {
		log.Info().Uint64("policy_id", policy.ID).Msg("commission policy seeded")
	} else {
		log.Info().Msg("commission policy already present, seed skipped")
	}
}

// percentFlag 플래그 값이 비어 있으면 설정값 사용
func percentFlag(raw string, fallback decimal.Decimal, name string) (decimal.Decimal, error) {
	if raw == "" {
		return fallback, nil
	}
	p, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("-%s: %w", name, err)
	}
	if err := domain.ValidatePercent(name, p); err != nil {
		return decimal.Zero, err
	}
	return p, nil
}
