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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/protodeck/protodeck-backend/config"
	"github.com/protodeck/protodeck-backend/internal/auth"
	authmw "github.com/protodeck/protodeck-backend/internal/auth/middleware"
	"github.com/protodeck/protodeck-backend/internal/bootstrap"
	"github.com/protodeck/protodeck-backend/internal/db"
	"github.com/protodeck/protodeck-backend/internal/jobs"
	"github.com/protodeck/protodeck-backend/internal/logging"
	"github.com/protodeck/protodeck-backend/internal/storage/postgres"
)

const serviceName = "protodeck-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	logging.SetBase(logger)

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	sqlDB, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := postgres.Migrate(ctx, sqlDB); err != nil {
		logger.Fatal("failed to apply schema", zap.Error(err))
	}

	pool, err := db.Open(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("failed to open pgx pool", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	} else {
		logger.Info("redis not configured, view dedupe and thumbnail cache disabled")
	}

	authMiddleware, err := authenticator(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize auth", zap.Error(err))
	}

	services := bootstrap.BuildServices(sqlDB, rdb, cfg)

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler, err = jobs.NewScheduler(services.JobDeps(cfg.Jobs))
		if err != nil {
			logger.Fatal("failed to create scheduler", zap.Error(err))
		}
		scheduler.Start()
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Config:      cfg,
		DB:          pool.Pool,
		Services:    services,
		Auth:        authMiddleware,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			logger.Warn("scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
}

func authenticator(ctx context.Context, cfg *config.Config) (gin.HandlerFunc, error) {
	if cfg.Firebase.AuthDisabled {
		logging.L().Warn("AUTH_DISABLED is set, trusting X-User-Id headers")
		return authmw.DevUser(), nil
	}
	client, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		return nil, err
	}
	return authmw.FirebaseAuthMiddleware(client), nil
}
