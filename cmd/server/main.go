// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/sanctum/internal/cache"
	"github.com/jason-s-yu/sanctum/internal/config"
	"github.com/jason-s-yu/sanctum/internal/database"
	"github.com/jason-s-yu/sanctum/internal/game"
	"github.com/jason-s-yu/sanctum/internal/handlers"
	"github.com/jason-s-yu/sanctum/internal/middleware"
	"github.com/jason-s-yu/sanctum/internal/models"
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

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to load card catalog: %v", err)
	}

	match, err := game.NewMatch(catalog, logger)
	if err != nil {
		logger.Fatalf("Failed to create match: %v", err)
	}

	if cfg.RedisAddr != "" {
		journal, err := cache.NewRedisJournal(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.JournalQueue)
		if err != nil {
			logger.Fatalf("Failed to connect to redis: %v", err)
		}
		defer journal.Close()
		match.Journal = journal
		logger.Infof("Journaling actions to redis list %q", cfg.JournalQueue)
	}

	srv := handlers.NewMatchServer(match, logger, handlers.Options{
		HandshakeTimeout: cfg.HandshakeTimeout,
		WriteTimeout:     cfg.WriteTimeout,
		PingInterval:     cfg.PingInterval,
		SendBuffer:       cfg.SendBuffer,
	})

	mux := http.NewServeMux()
	mux.Handle("/match/ws", middleware.LogMiddleware(logger)(handlers.MatchWSHandler(srv)))
	mux.Handle("/healthz", middleware.LogMiddleware(logger)(handlers.HealthHandler(srv)))

	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("Shutdown: %v", err)
		}
	}()

	logger.Infof("Match %s running on %s", match.ID, cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server exited: %v", err)
	}
}

func loadCatalog(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (models.Catalog, error) {
	switch cfg.CatalogSource {
	case config.CatalogPostgres:
		pool, err := database.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		return database.LoadCatalog(ctx, pool)
	default:
		return models.LoadCatalogFile(cfg.CatalogPath)
	}
}
