package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/apiclient"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/server"

	"go.uber.org/zap"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

var (
	connectRedisFunc = cache.ConnectRedis
	startServerFunc  = serveUntilSignal
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	limiter := middleware.NewLimiter(3 * time.Minute)
	go limiter.Run(ctx, time.Minute)

	handler := newServer(cfg, store, limiter).Handler()
	return startServerFunc(ctx, server.NewHTTPServer(":"+cfg.AppPort, handler))
}

// newCache picks Redis when REDIS_URL is set and an in-process map
// otherwise. The returned func releases it.
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, func(), error) {
	if cfg.RedisURL != "" {
		client, err := connectRedisFunc(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.L().Info("using redis cache")
		return cache.NewRedis(client, "storefront:"), func() { _ = client.Close() }, nil
	}

	mem := cache.NewMemory(nil)
	go mem.RunSweeper(ctx, sweepInterval)
	logger.L().Info("using in-memory cache")
	return mem, func() {}, nil
}

func newServer(cfg *config.Config, store cache.Cache, limiter *middleware.Limiter) *server.Server {
	stats := &metrics.Client{}
	api := apiclient.New(cfg.APIBaseURL,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		apiclient.WithRetryPolicy(apiclient.RetryPolicy{
			MaxAttempts: cfg.RetryMaxAttempts,
			Backoff:     apiclient.LinearBackoff(time.Second),
		}),
		apiclient.WithCache(store),
		apiclient.WithMetrics(stats),
	)

	return server.New(server.Deps{
		Catalog:        api,
		Orders:         api,
		Cache:          store,
		ProductsTTL:    cfg.ProductsCacheTTL,
		AdminOrdersTTL: cfg.AdminOrdersCacheTTL,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Limiter:        limiter,
		Metrics:        stats.Snapshot,
	})
}

// serveUntilSignal runs srv until SIGINT/SIGTERM, then shuts it down
// gracefully.
func serveUntilSignal(ctx context.Context, srv *http.Server) error {
	log := logger.L()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-sigCtx.Done():
	}

	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
