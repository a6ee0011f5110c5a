package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	authhandler "legado/internal/auth/handler"
	"legado/internal/auth/models"
	authservice "legado/internal/auth/service"
	sessionstore "legado/internal/auth/store/session"
	userstore "legado/internal/auth/store/user"
	estatehandler "legado/internal/estate/handler"
	estatemetrics "legado/internal/estate/metrics"
	estateservice "legado/internal/estate/service"
	estatestore "legado/internal/estate/store"
	"legado/internal/intake"
	"legado/internal/platform/config"
	"legado/internal/platform/httpserver"
	"legado/internal/platform/logger"
	"legado/internal/platform/metrics"
	"legado/internal/platform/postgres"
	"legado/internal/platform/redis"
	"legado/internal/token"
	httptransport "legado/internal/transport/http"
	id "legado/pkg/domain"
	audit "legado/pkg/platform/audit"
	auditkafka "legado/pkg/platform/audit/store/kafka"
	auditmemory "legado/pkg/platform/audit/store/memory"
	auditpostgres "legado/pkg/platform/audit/store/postgres"
	auditworker "legado/pkg/platform/audit/worker"
	"legado/pkg/secrets"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Stores fall back to in-memory implementations when no backend is
	// configured, so the service runs dependency-free in development.
	var (
		estates  estateservice.Store
		users    userstore.Store
		sessions sessionstore.Store
	)
	if pool != nil {
		pgEstates := estatestore.NewPostgres(pool.Pool)
		if err := pgEstates.EnsureSchema(ctx); err != nil {
			return err
		}
		pgUsers := userstore.NewPostgres(pool.Pool)
		if err := pgUsers.EnsureSchema(ctx); err != nil {
			return err
		}
		estates, users = pgEstates, pgUsers
	} else {
		estates, users = estatestore.NewInMemoryStore(), userstore.New()
		log.Warn("no database configured, using in-memory stores")
	}
	if redisClient != nil {
		sessions = sessionstore.NewRedis(redisClient)
	} else {
		sessions = sessionstore.New()
		log.Warn("no redis configured, sessions will not survive restarts")
	}

	blobs, err := newBlobStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	auditStore, auditCleanup, err := newAuditStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer auditCleanup()

	publisher := audit.NewChannelPublisher(256)
	worker := auditworker.New(auditStore, publisher.Events(), log)

	if err := seedBootstrapUser(ctx, cfg, users, log); err != nil {
		return err
	}

	sharedMetrics := metrics.New()
	tokens := token.NewService(cfg.SessionSigningKey)

	estateSvc := estateservice.New(estates, blobs, publisher, estatemetrics.New(), log)
	authSvc := authservice.New(users, sessions, tokens, publisher, sharedMetrics, log, cfg.SessionTTL)

	router := httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		Metrics:        sharedMetrics,
		RequestTimeout: 30 * time.Second,
		Checks: map[string]httptransport.HealthChecker{
			"postgres": healthOrNil(pool),
			"redis":    healthOrNil(redisClient),
		},
	},
		estatehandler.New(estateSvc, log),
		authhandler.New(authSvc, log, cfg.SessionTTL, false),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := worker.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		log.Info("starting legado", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newBlobStore(ctx context.Context, cfg config.Server, log *slog.Logger) (estateservice.BlobStore, error) {
	if cfg.S3.Enabled() {
		store, err := intake.NewObjectStore(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		log.Info("file intake using object storage", "bucket", cfg.S3.Bucket)
		return store, nil
	}
	store, err := intake.NewDiskStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	log.Info("file intake using local disk", "dir", cfg.UploadDir)
	return store, nil
}

func newAuditStore(ctx context.Context, cfg config.Server, log *slog.Logger) (audit.Store, func(), error) {
	if len(cfg.KafkaBrokers) > 0 {
		store, err := auditkafka.New(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			return nil, nil, err
		}
		log.Info("audit trail shipping to kafka", "topic", cfg.AuditTopic)
		return store, store.Close, nil
	}
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := auditpostgres.New(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("audit trail writing to postgres outbox")
		return store, func() { db.Close() }, nil
	}
	log.Warn("no audit backend configured, events kept in memory only")
	return auditmemory.NewInMemoryStore(), func() {}, nil
}

func seedBootstrapUser(ctx context.Context, cfg config.Server, users userstore.Store, log *slog.Logger) error {
	if cfg.BootstrapUsername == "" || cfg.BootstrapPassword == "" {
		return nil
	}
	if _, err := users.FindByUsername(ctx, cfg.BootstrapUsername); err == nil {
		return nil
	}
	hash, err := secrets.Hash(cfg.BootstrapPassword)
	if err != nil {
		return err
	}
	user := &models.User{
		ID:           id.NewUserID(),
		Username:     cfg.BootstrapUsername,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := users.Save(ctx, user); err != nil {
		return err
	}
	log.Info("bootstrap user seeded", "username", cfg.BootstrapUsername)
	return nil
}

// healthOrNil avoids a typed-nil interface when a backend is absent.
func healthOrNil(c httptransport.HealthChecker) httptransport.HealthChecker {
	switch v := c.(type) {
	case *postgres.Pool:
		if v == nil {
			return nil
		}
	case *redis.Client:
		if v == nil {
			return nil
		}
	}
	return c
}
