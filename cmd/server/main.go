package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"

	httpadapter "bizready/internal/adapters/http"
	"bizready/internal/adapters/kafka"
	"bizready/internal/adapters/memory"
	"bizready/internal/adapters/objectstore"
	pg "bizready/internal/adapters/postgres"
	rediscache "bizready/internal/adapters/redis"
	"bizready/internal/config"
	"bizready/internal/observability"
	"bizready/internal/ports"
	"bizready/internal/services/assessment"
	"bizready/internal/services/thresholds"
	"bizready/internal/workers/assessrunner"
)

func main() {
	cfg, cfgErr := config.Load()
	logger := observability.InitLogger(observability.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if cfgErr != nil {
		if errors.Is(cfgErr, config.ErrInvalid) {
			fatal(logger, "configuration error", cfgErr)
		}
		logger.Warn("configuration warning", slog.String("warning", cfgErr.Error()))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var (
		catalogStore ports.CatalogStore
		repo         ports.AssessmentRepository
		jobs         ports.JobRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fatal(logger, "db connect error", err)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			fatal(logger, "db migrate error", err)
		}
		catalogStore, repo, jobs = db, db, db
	} else {
		c, err := memory.LoadFile(cfg.CatalogFile)
		if err != nil {
			fatal(logger, "catalog file error", err)
		}
		store := memory.NewAssessmentStore()
		catalogStore, repo, jobs = memory.NewCatalogStore(c), store, store
		logger.Info("using catalog file", slog.String("path", cfg.CatalogFile))
	}

	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		cache := rediscache.NewCatalogCache(catalogStore, rdb, cfg.CatalogCacheTTL, logger)
		// The catalog may have been re-seeded since the last run.
		if err := cache.Invalidate(ctx); err != nil {
			logger.Warn("catalog cache invalidate failed", slog.String("error", err.Error()))
		}
		catalogStore = cache
		logger.Info("catalog cache enabled", slog.String("addr", cfg.RedisAddr), slog.Duration("ttl", cfg.CatalogCacheTTL))
	}

	var plans ports.PlanStore
	if cfg.MinioEndpoint != "" {
		store, err := objectstore.New(objectstore.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
		})
		if err != nil {
			fatal(logger, "object store error", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Warn("plan bucket check failed", slog.String("bucket", cfg.MinioBucket), slog.String("error", err.Error()))
		}
		plans = store
	}

	var events ports.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		pub := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer pub.Close()
		events = pub
	}

	engine, err := assessment.NewEngine(thresholds.Thresholds{
		ForcePreselect: cfg.ForcePreselectScore,
		MinPreselect:   cfg.MinPreselectScore,
	}, logger)
	if err != nil {
		fatal(logger, "engine error", err)
	}
	metrics := observability.NewMetrics()
	svc := assessment.New(assessment.Deps{
		Catalog: catalogStore,
		Engine:  engine,
		Repo:    repo,
		Plans:   plans,
		Events:  events,
		Metrics: metrics,
		Logger:  logger,
	})

	srv := httpadapter.New(svc, jobs, svc,
		httpadapter.WithMetrics(metrics.Handler()),
		httpadapter.WithLogger(logger))
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	if cfg.AssessWorkers > 0 {
		go assessrunner.Run(ctx, jobs, svc, cfg.AssessWorkers, 500*time.Millisecond, logger)
		logger.Info("assessment workers started", slog.Int("workers", cfg.AssessWorkers))
	}

	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	logger.Info("listening", slog.String("addr", cfg.ListenAddr), slog.String("env", cfg.Env))

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "server error", err)
		}
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}
