package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"paystream/internal/ledger"
	"paystream/internal/ledger/eventlog"
	"paystream/internal/platform/config"
	"paystream/internal/platform/httpserver"
	"paystream/internal/platform/logger"
	"paystream/internal/platform/metrics"
	platformredis "paystream/internal/platform/redis"
	"paystream/internal/stream/cache"
	"paystream/internal/stream/handler"
	"paystream/internal/stream/service"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	module := ledger.Module{Address: cfg.ModuleAddress, Name: cfg.ModuleName}
	ledgerClient := ledger.NewClient(ledger.Config{
		FullnodeURL:     cfg.FullnodeURL,
		Module:          module,
		ResourceAccount: cfg.ResourceAccount,
		Timeout:         cfg.LedgerTimeout,
	}, ledger.WithLogger(log))

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(m),
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, service.WithCache(cache.NewRedis(redisClient, cfg.CacheTTL)))
		log.Info("snapshot cache enabled", "ttl", cfg.CacheTTL.String())
	}

	if cfg.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		archive := eventlog.NewPostgres(pool)
		if err := archive.EnsureSchema(ctx); err != nil {
			log.Error("event archive schema setup failed", "error", err)
			os.Exit(1)
		}
		opts = append(opts, service.WithEventArchive(archive))
		log.Info("event archive enabled")
	}

	svc, err := service.New(ledgerClient, opts...)
	if err != nil {
		log.Error("service construction failed", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	h := handler.New(svc, module, log, handler.WithMetrics(m))
	h.Register(router)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting paystream server",
		"addr", cfg.Addr,
		"fullnode", cfg.FullnodeURL,
		"module", module.String(),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
