// cmd/historian/main.go drains the match action journal from Redis into Postgres.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/sanctum/internal/cache"
	"github.com/jason-s-yu/sanctum/internal/config"
	"github.com/jason-s-yu/sanctum/internal/database"
	"github.com/jason-s-yu/sanctum/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "optional config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.RedisAddr == "" || cfg.DatabaseURL == "" {
		log.Fatal("historian needs SANCTUM_REDIS_ADDR and SANCTUM_DATABASE_URL")
	}

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	journal, err := cache.NewRedisJournal(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.JournalQueue)
	if err != nil {
		logger.Fatalf("Failed to connect to redis: %v", err)
	}
	defer journal.Close()

	pool, err := database.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	svc := historian.New(journal, database.NewActionStore(pool), historian.Options{
		BatchSize:  cfg.HistorianBatchSize,
		FlushDelay: cfg.HistorianFlushDelay,
		Inactivity: cfg.MatchInactivity,
	}, logger.WithField("component", "historian"))
	svc.Run(ctx)
}
