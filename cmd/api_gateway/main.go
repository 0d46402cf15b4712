package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/moneyflow-ledger/internal/api_gateway"
	"github.com/moneyflow-ledger/internal/api_gateway/service"
	"github.com/moneyflow-ledger/internal/config"
	"github.com/moneyflow-ledger/internal/data/mongo"
	"github.com/moneyflow-ledger/internal/data/postgres"
	"github.com/moneyflow-ledger/internal/logger"
	"github.com/moneyflow-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	// NewPostgresDB applies pending migrations before opening the pool
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Ledger side: the write path and every aggregate read from Postgres
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	categoryRepo := postgres.NewCategoryRepository(log, postgresDB)
	ledgerRepo := postgres.NewTransactionRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)

	// Activity side: the feed projected by the event processor
	activityRepo := mongo.NewActivityRepository(log, mongoDB.Database())

	services := api_gateway.Services{
		Accounts:   service.NewAccountService(accountRepo),
		Categories: service.NewCategoryService(categoryRepo),
		Ledger:     service.NewLedgerService(postgresDB, accountRepo, categoryRepo, ledgerRepo, outboxRepo, log),
		Reports:    service.NewReportService(ledgerRepo, categoryRepo, &cfg.Reporting, log),
		Activity:   service.NewActivityService(activityRepo),
	}

	server := api_gateway.NewServer(log, cfg, services, map[string]api_gateway.HealthCheck{
		"postgres": postgresDB.Ping,
		"mongodb":  mongoDB.Ping,
	})
	log.Info("REST server initialized")

	errChan := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case serverErr = <-errChan:
		log.Error("Server error occurred", "error", serverErr)
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Drain HTTP first so in-flight ledger transactions can still commit
	shutdownErr := server.Stop(shutdownCtx)
	if shutdownErr != nil {
		log.Error("Error during server shutdown", "error", shutdownErr)
	}

	postgresDB.Close()

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}

	if serverErr != nil || shutdownErr != nil {
		log.Error("Server shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Server shutdown completed successfully")
}
