package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	_ "github.com/orderly/orders-api/docs"
	"github.com/orderly/orders-api/internal/api"
	"github.com/orderly/orders-api/internal/api/metrics"
	"github.com/orderly/orders-api/internal/api/middleware"
	"github.com/orderly/orders-api/internal/core/service"
	"github.com/orderly/orders-api/internal/infrastructure/config"
	mongodb "github.com/orderly/orders-api/internal/infrastructure/db/mongo"
	"github.com/orderly/orders-api/internal/infrastructure/db/postgres"
	redisdb "github.com/orderly/orders-api/internal/infrastructure/db/redis"
	"github.com/orderly/orders-api/internal/infrastructure/http/handlers"
	"github.com/orderly/orders-api/internal/infrastructure/queue"
	"github.com/orderly/orders-api/internal/pkg/validation"
	"github.com/orderly/orders-api/pkg/logger"
)

const migrationTimeout = 2 * time.Minute

// @title                       Orders API
// @version                     1.0
// @description                 JWT-authenticated, user-scoped order management API.
// @host                        localhost:8080
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "orders-api",
		File:    cfg.LogFile,
	})
	defer func() { _ = logger.Close() }()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		_ = logger.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Relational store ---
	db, err := postgres.Connect(ctx, postgres.Config{
		DSN:          cfg.Postgres.DSN,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
	}, log)
	if err != nil {
		return err
	}
	defer func() { _ = postgres.Close(db) }()

	checks := map[string]handlers.Checker{
		"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}

	// --- Redis (migration lock) ---
	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	if cfg.MigrateOnStart {
		if err := migrate(ctx, db, rdb, log); err != nil {
			return err
		}
	}

	// --- Audit trail ---
	var recorder middleware.Recorder
	if cfg.Mongo.URI != "" {
		client, mdb, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()

		auditRepo := mongodb.NewAuditRepository(mdb)
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure request_log indexes")
		}

		dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditRepo, log)
		dispatcher.Start()
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := dispatcher.Close(dctx); err != nil {
				log.Warn().Err(err).Msg("audit dispatcher did not drain in time")
			}
		}()

		recorder = dispatcher
		checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	}

	// --- Services ---
	v := validation.New()
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL, service.WithAudience(cfg.JWT.Audience))
	credentials := service.NewCredentialStore(postgres.NewUserRepository(db), cfg.JWT.BcryptCost)

	e := api.NewRouter(api.Dependencies{
		AuthService:  service.NewAuthService(credentials, tokens, v, log),
		OrderService: service.NewOrderService(postgres.NewOrderRepository(db), v, log),
		Tokens:       tokens,
		Validator:    v,
		Recorder:     recorder,
		HealthChecks: checks,
		AllowOrigins: cfg.AllowOrigins,
		Logger:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

func migrate(ctx context.Context, db *gorm.DB, rdb *goredis.Client, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, migrationTimeout)
	defer cancel()

	var opts []postgres.MigratorOption
	if rdb != nil {
		opts = append(opts, postgres.WithLocker(redisdb.NewLocker(rdb, "orders-api:migrations", 0)))
	}

	applied, err := postgres.NewMigrator(db, log, opts...).Up(ctx)
	metrics.MigrationsAppliedTotal.Add(float64(len(applied)))
	return err
}
