package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/pushworks/wapush/internal/config"
	"github.com/pushworks/wapush/internal/infra/postgresql"
	"github.com/pushworks/wapush/internal/infra/postgresql/migrations"
	infraredis "github.com/pushworks/wapush/internal/infra/redis"
	"github.com/pushworks/wapush/internal/observability"
	"github.com/pushworks/wapush/internal/provider"
	"github.com/pushworks/wapush/internal/queue"
	"github.com/pushworks/wapush/internal/repository"
	"github.com/pushworks/wapush/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal("rabbitmq initialization failed", zap.Error(err))
	}
	defer rabbit.Close()
	consumer := queue.NewRabbitMQConsumer(rabbit, cfg.WorkerPrefetch, logger)

	twilio, err := provider.NewTwilioProvider(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.StatusCallbackURL)
	if err != nil {
		logger.Fatal("twilio provider initialization failed", zap.Error(err))
	}

	limiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.SendRateLimitPerSec)
	if err != nil {
		logger.Fatal("rate limiter initialization failed", zap.Error(err))
	}

	statusLogRepo := repository.NewGormStatusLogRepo(db)

	worker, err := service.NewWorkerService(statusLogRepo, consumer, twilio, limiter, cfg.WorkerPrefetch, logger)
	if err != nil {
		logger.Fatal("worker service initialization failed", zap.Error(err))
	}
	worker.SetMetrics(observability.NewMetrics())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("wapush worker started", zap.Int("prefetch", cfg.WorkerPrefetch))
	if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("worker stopped", zap.Error(err))
	}
	logger.Info("wapush worker stopped")
}
