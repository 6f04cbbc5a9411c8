package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/kwezi/villagequest/internal/config"
	"github.com/kwezi/villagequest/internal/database"
	"github.com/kwezi/villagequest/internal/game"
	"github.com/kwezi/villagequest/internal/handler/health"
	"github.com/kwezi/villagequest/internal/migrations"
	"github.com/kwezi/villagequest/internal/server"
	"github.com/kwezi/villagequest/internal/storage"
	"github.com/kwezi/villagequest/internal/village"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	store, checks, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Game ---
	graph := village.Mayotte()
	broker := server.NewBroker(logger)
	profiles := server.NewRegistry(graph, store, broker, logger)
	logger.Info("village graph loaded", "villages", graph.Len(), "quizzes", graph.QuizCount())

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Profiles:     profiles,
		Metrics:      server.NewMetrics(profiles),
		Checks:       checks,
		ResetPINHash: cfg.ResetPINHash,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr, "storage", cfg.StorageBackend)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// openStore connects the configured backend and returns its health checks.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (game.Storage, map[string]health.Checker, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		rdb, err := storage.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		logger.Info("connected to redis")
		s := storage.NewRedis(rdb)
		return s, map[string]health.Checker{"redis": health.CheckerFunc(s.Ping)}, func() { rdb.Close() }, nil

	case config.BackendMemory:
		logger.Warn("using in-memory storage, progress is lost on restart")
		return storage.NewMemory(), map[string]health.Checker{}, func() {}, nil
	}

	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connecting to sqlite: %w", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	s := storage.NewSQLite(db)
	return s, map[string]health.Checker{"sqlite": health.CheckerFunc(s.Ping)}, func() { db.Close() }, nil
}
