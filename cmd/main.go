package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "mcommerce/internal/adapter/http"
	"mcommerce/internal/adapter/memory"
	"mcommerce/internal/adapter/postgres"
	"mcommerce/internal/adapter/querycache"
	"mcommerce/internal/adapter/usecase"
	"mcommerce/internal/config"
	"mcommerce/internal/config/configs"
	"mcommerce/internal/db"
	"mcommerce/internal/metrics"
)

// repositories is the full storage surface, satisfied by both drivers.
type repositories interface {
	db.SeedTarget
	usecase.Repositories
}

// main loads configuration, opens the configured store and the query cache,
// wires the services and serves HTTP until SIGINT or SIGTERM.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		}
		os.Exit(exitCode)
	}()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		return
	}

	logger := slog.New(cfg.Log.Handler(os.Stdout)).With(slog.String("env", cfg.Env))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var repos repositories
	switch cfg.Store.Driver {
	case configs.DriverMemory:
		repos = memory.NewStore()
		logger.Warn("using in-memory store; data is lost on exit")
	default:
		if cfg.Psql.RunMigrations {
			if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
				logger.Error("migration error", slog.Any("error", err))
				return
			}
			logger.Info("migrations applied successfully")
		}
		pool, err := db.NewPostgresPool(ctx, cfg.Psql)
		if err != nil {
			logger.Error("database connection error", slog.Any("error", err))
			return
		}
		defer pool.Close()
		repos = postgres.NewRepository(pool)
	}

	if cfg.Psql.Seed || cfg.Store.Driver == configs.DriverMemory {
		if err = db.Seed(ctx, repos, time.Now().UTC()); err != nil {
			logger.Error("seed error", slog.Any("error", err))
			return
		}
		logger.Info("demo data seeded")
	}

	m := metrics.New()
	cacheOpts := []querycache.Option{querycache.WithMetrics(m)}
	if cfg.Cache.RedisEnabled {
		client, err := db.NewRedisClient(ctx, cfg.Cache)
		if err != nil {
			logger.Error("redis connection error", slog.Any("error", err))
			return
		}
		cacheOpts = append(cacheOpts, querycache.WithRedis(querycache.NewRedisLayer(client)))
	}
	cache := querycache.New(querycache.Config{
		DefaultTTL: cfg.Cache.DefaultTTL,
		MemorySize: cfg.Cache.MemorySize,
		Retry: querycache.RetryPolicy{
			MaxAttempts:     cfg.Retry.MaxAttempts,
			InitialInterval: cfg.Retry.InitialInterval,
			MaxInterval:     cfg.Retry.MaxInterval,
		},
	}, logger, cacheOpts...)
	defer cache.Close()

	services := usecase.NewServices(repos, usecase.WithCache(cache), usecase.WithLogger(logger), usecase.WithMetrics(m))
	handler := httpadapter.NewHandler(httpadapter.Services{
		Contents:  services.Contents,
		Campaigns: services.Campaigns,
		Bundles:   services.Bundles,
		Analytics: services.Analytics,
		Catalog:   services.Catalog,
		Launch:    services.Launch,
	}, logger, m)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)), slog.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()
	exitCode = 0

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer stop()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		exitCode = 1
	} else {
		logger.Info("server gracefully stopped")
	}
}
