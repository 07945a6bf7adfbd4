package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dsgov-acme/devstream-notification-service/internal/config"
	"github.com/dsgov-acme/devstream-notification-service/internal/httpserver"
	"github.com/dsgov-acme/devstream-notification-service/internal/localization"
	"github.com/dsgov-acme/devstream-notification-service/internal/mqhandler"
	"github.com/dsgov-acme/devstream-notification-service/internal/provider"
	"github.com/dsgov-acme/devstream-notification-service/internal/repository"
	"github.com/dsgov-acme/devstream-notification-service/internal/service"
	"github.com/dsgov-acme/devstream-notification-service/internal/userdir"
	"github.com/dsgov-acme/devstream-notification-service/pkg/db"
	"github.com/dsgov-acme/devstream-notification-service/pkg/logger"
	"github.com/dsgov-acme/devstream-notification-service/pkg/metrics"
	"github.com/dsgov-acme/devstream-notification-service/pkg/mq"
	pkgredis "github.com/dsgov-acme/devstream-notification-service/pkg/redis"
)

func main() {
	log := logger.New()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Starting notification service",
		zap.String("db_host", cfg.DB.Host),
		zap.String("mq_url", cfg.MQ.URL),
	)

	if err := db.Migrate(cfg.DB, "migrations", log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	pool, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer pool.Close()

	rdb := pkgredis.NewClient(cfg.Redis)
	defer rdb.Close()

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Repositories
	templateRepo := repository.NewTemplateRepository(pool)
	layoutRepo := repository.NewEmailLayoutRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	// External collaborators
	tokens, err := userdir.NewTokenProvider(cfg.UserDirectory.TokenIssuer, cfg.UserDirectory.PrivateKey)
	if err != nil {
		log.Fatal("Failed to init user directory token provider", zap.Error(err))
	}
	users := userdir.NewClient(cfg.UserDirectory.BaseURL, tokens, log)

	// Channel providers, registered once at startup
	emailProvider := provider.NewEmailMessageProvider(layoutRepo, provider.NewSMTPEmailSender(cfg.SMTP), log)
	smsProvider := provider.NewSmsMessageProvider(provider.NewHTTPSmsSender(cfg.SmsGateway), log)

	// Services
	messageService := service.NewMessageService(templateRepo, messageRepo, publisher, log)
	templateService := service.NewTemplateService(templateRepo)
	layoutService := service.NewEmailLayoutService(layoutRepo)
	sendService := service.NewSendMessageService(users, templateRepo,
		[]provider.SendMessageProvider{emailProvider, smsProvider}, log)
	localizationService := localization.NewService(templateRepo)

	// Dispatch consumer
	attempts := mq.NewAttemptTracker(rdb, 24*time.Hour)
	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		service.MessageQueueName,
		service.MessageRoutingKey,
		attempts,
		cfg.MQ.MaxDeliveryAttempts,
		log,
	)
	if err != nil {
		log.Fatal("Failed to init consumer", zap.Error(err))
	}
	defer consumer.Close()

	handler := mqhandler.NewMessageHandler(messageRepo, sendService, log)
	consumer.SetHandler(handler.Handle)
	consumer.SetFatalFunc(mqhandler.IsFatal)
	consumer.SetOutcomeObserver(func(outcome string) {
		// The handler records sent/unprocessable itself when it acks.
		if outcome != "acked" {
			metrics.MessagesProcessed.WithLabelValues(outcome).Inc()
		}
	})

	go func() {
		if err := consumer.StartConsuming(); err != nil {
			log.Fatal("Dispatch consumer failed", zap.Error(err))
		}
	}()

	// HTTP server
	apiHandler := httpserver.NewHandler(
		messageService, templateService, layoutService, localizationService,
		cfg.Localization.DefaultLocale, log,
	)
	router := httpserver.NewRouter(apiHandler, pool, log)
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.Engine,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down notification service")

	consumer.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	log.Info("Shutdown complete")
}
