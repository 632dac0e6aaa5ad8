package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/pushworks/wapush/internal/blobstore"
	"github.com/pushworks/wapush/internal/config"
	"github.com/pushworks/wapush/internal/handler"
	"github.com/pushworks/wapush/internal/infra/postgresql"
	"github.com/pushworks/wapush/internal/infra/postgresql/migrations"
	infraredis "github.com/pushworks/wapush/internal/infra/redis"
	"github.com/pushworks/wapush/internal/observability"
	"github.com/pushworks/wapush/internal/queue"
	"github.com/pushworks/wapush/internal/recipients"
	"github.com/pushworks/wapush/internal/repository"
	"github.com/pushworks/wapush/internal/service"
	"github.com/pushworks/wapush/internal/transport"
	"go.uber.org/zap"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
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
	publisher := queue.NewRabbitMQPublisher(rabbit)

	blob, err := blobstore.NewMinioStore(cfg.BlobEndpoint, cfg.BlobAccessKey, cfg.BlobSecretKey, cfg.RecipientBucket, cfg.BlobUseSSL)
	if err != nil {
		logger.Fatal("blob store initialization failed", zap.Error(err))
	}

	templateRepo := repository.NewGormTemplateRepo(db)
	taskRepo := repository.NewGormTaskRepo(db)
	statusLogRepo := repository.NewGormStatusLogRepo(db)

	resolver, err := recipients.NewResolver(blob)
	if err != nil {
		logger.Fatal("recipient resolver initialization failed", zap.Error(err))
	}

	templateSvc, err := service.NewTemplateService(templateRepo, logger)
	if err != nil {
		logger.Fatal("template service initialization failed", zap.Error(err))
	}

	notificationSvc, err := service.NewNotificationService(taskRepo, templateRepo, resolver, publisher, cfg.TwilioFromNumber, logger)
	if err != nil {
		logger.Fatal("notification service initialization failed", zap.Error(err))
	}

	statusSvc, err := service.NewStatusService(statusLogRepo, logger)
	if err != nil {
		logger.Fatal("status service initialization failed", zap.Error(err))
	}

	uploadSvc, err := service.NewUploadService(blob, logger)
	if err != nil {
		logger.Fatal("upload service initialization failed", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	notificationSvc.SetMetrics(metrics)
	statusSvc.SetMetrics(metrics)

	app := fiber.New(fiber.Config{
		ErrorHandler:          transport.ErrorHandler(logger),
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(metrics.HTTPMiddleware())

	handler.RegisterHealthRoutes(app, sqlDB, rdb, blob)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	if err := handler.RegisterTemplateRoutes(app, templateSvc); err != nil {
		logger.Fatal("template routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterNotificationRoutes(app, notificationSvc, statusSvc); err != nil {
		logger.Fatal("notification routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterCallbackRoutes(app, statusSvc); err != nil {
		logger.Fatal("callback routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterUploadRoutes(app, uploadSvc); err != nil {
		logger.Fatal("upload routes registration failed", zap.Error(err))
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		logger.Info("shutting down api", zap.String("signal", sig.String()))
		if err := app.Shutdown(); err != nil {
			logger.Error("api shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("wapush api started", zap.Int("port", cfg.APIPort))
	if err := app.Listen(fmt.Sprintf(":%d", cfg.APIPort)); err != nil {
		logger.Fatal("api server stopped", zap.Error(err))
	}
}
