package main

import (
	"catalog/app/category"
	"catalog/app/item"
	"catalog/infra/memory"
	"catalog/infra/postgres"
	"catalog/infra/rabbitmq"
	"catalog/internal/router"
	"catalog/pkg/config"
	"catalog/pkg/events"
	"catalog/pkg/logger"
	"catalog/pkg/metrics"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type store interface {
	item.Repository
	category.Repository
	Close() error
}

func main() {
	appConfig := config.Read()

	log, err := logger.Init(appConfig.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.L().Info("app starting...")
	zap.L().Info("app config", zap.Any("appConfig", appConfig.Redacted()))

	metrics.Register()

	repository, err := openStore(appConfig)
	if err != nil {
		zap.L().Fatal("failed to open store", zap.Error(err))
	}
	defer repository.Close()

	var publisher events.Publisher
	if appConfig.RabbitMQURL != "" {
		rmq, err := rabbitmq.NewPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
		defer rmq.Close()
		publisher = rmq
	} else {
		zap.L().Info("RABBITMQ_URL not set, catalog events disabled")
	}

	app := router.New(router.Dependencies{
		Items:      repository,
		Categories: repository,
		Emitter:    events.NewEmitter(publisher, appConfig.ServiceName),
		Username:   appConfig.HTTPAuthUsername,
		Password:   appConfig.HTTPAuthPassword,
	})

	metricsServer := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", appConfig.MetricsPort),
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("Failed to start metrics server", zap.Error(err))
		}
	}()

	// Start server in a goroutine
	go func() {
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port",
		zap.String("port", appConfig.Port),
		zap.String("metrics_port", appConfig.MetricsPort))

	gracefulShutdown(app, metricsServer)
}

// openStore picks the in-memory store for DATABASE_URL=memory:// and Postgres
// otherwise.
func openStore(appConfig *config.AppConfig) (store, error) {
	dsn := appConfig.DSN()
	if strings.HasPrefix(dsn, "memory://") {
		zap.L().Warn("using in-memory store, data is lost on restart")
		return memory.NewRepository(), nil
	}

	pgRepository, err := postgres.NewPgRepository(dsn)
	if err != nil {
		return nil, err
	}

	if appConfig.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := pgRepository.Migrate(ctx); err != nil {
			pgRepository.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		zap.L().Info("database schema migrated")
	}

	if err := metrics.RegisterDB(pgRepository.DB(), appConfig.ServiceName); err != nil {
		zap.L().Warn("failed to register db stats collector", zap.Error(err))
	}

	return pgRepository, nil
}

func gracefulShutdown(app *fiber.App, metricsServer *http.Server) {
	// Create channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for shutdown signal
	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(ctx); err != nil {
		zap.L().Error("Error during metrics server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
