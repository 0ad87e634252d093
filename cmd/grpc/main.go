package main

import (
	"catalog/infra/grpc"
	"catalog/infra/memory"
	"catalog/infra/postgres"
	"catalog/pkg/config"
	"catalog/pkg/logger"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

type store interface {
	grpc.CatalogReader
	grpc.Pinger
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

	zap.L().Info("Catalog gRPC Service starting...")

	var repository store
	if dsn := appConfig.DSN(); strings.HasPrefix(dsn, "memory://") {
		repository = memory.NewRepository()
	} else {
		repository, err = postgres.NewPgRepository(dsn)
		if err != nil {
			zap.L().Error("failed to connect to postgres", zap.Error(err))
			os.Exit(1)
		}
	}
	defer repository.Close()

	grpcServer, err := grpc.NewServer(appConfig)
	if err != nil {
		zap.L().Error("failed to create grpc server", zap.Error(err))
		os.Exit(1)
	}

	grpc.RegisterCatalogServer(grpcServer.GetGRPCServer(), grpc.NewCatalogService(repository))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go grpcServer.WatchHealth(ctx, repository, 10*time.Second)

	zap.L().Info("starting gRPC server...", zap.String("port", appConfig.GRPCPort))
	go func() {
		if err := grpcServer.Start(); err != nil {
			zap.L().Error("failed to start grpc server", zap.Error(err))
			os.Exit(1)
		}
	}()

	gracefulShutdown(grpcServer, cancel)
}

func gracefulShutdown(grpcServer *grpc.Server, stopHealth context.CancelFunc) {
	// Create channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for shutdown signal
	<-sigChan
	zap.L().Info("Shutting down server...")

	stopHealth()
	grpcServer.GracefulStop()

	zap.L().Info("Server gracefully stopped")
}
