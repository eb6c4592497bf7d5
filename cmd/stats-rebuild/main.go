package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/AdityaXD007/LearnXchange/internal/repository"
	"github.com/AdityaXD007/LearnXchange/internal/service"
	"github.com/AdityaXD007/LearnXchange/pkg/config"
	"github.com/AdityaXD007/LearnXchange/pkg/database"
	"github.com/AdityaXD007/LearnXchange/pkg/logger"
)

// stats-rebuild recomputes every profile's rating and session count in one pass.
func main() {
	timeout := flag.Duration("timeout", 10*time.Minute, "abort the rebuild after this long")
	migrate := flag.Bool("migrate", false, "apply pending migrations first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	if *migrate {
		migrations, err := database.LoadMigrations()
		if err != nil {
			logr.Fatal("failed to load migrations", zap.Error(err))
		}
		if err := database.NewMigrator(db, migrations, logr).Migrate(ctx); err != nil {
			logr.Fatal("failed to migrate", zap.Error(err))
		}
	}

	stats := service.NewStatsService(repository.NewProfileRepository(db), repository.NewAuditRepository(db), logr)

	start := time.Now()
	done, err := stats.RebuildAll(ctx)
	fields := []zap.Field{zap.Int("profiles", done), zap.Duration("elapsed", time.Since(start))}
	if err != nil {
		logr.Error("stats rebuild finished with errors", append(fields, zap.Error(err))...)
		os.Exit(1)
	}
	logr.Info("stats rebuild finished", fields...)
}
