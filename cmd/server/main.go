package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/bankledger/internal/adapter/http"
	"github.com/iho/bankledger/internal/adapter/http/handler"
	postgresRepo "github.com/iho/bankledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bankledger/internal/adapter/repository/redis"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/logger"
	"github.com/iho/bankledger/internal/infrastructure/postgres"
	"github.com/iho/bankledger/internal/infrastructure/redis"
	"github.com/iho/bankledger/internal/usecase"
	redislib "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis is optional; without it transfers are still correct, clients
	// just lose idempotency-key replay.
	var redisClient *redislib.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	}

	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	retrier := postgresRepo.NewRetrier()

	accountUC := usecase.NewAccountUseCase(accountRepo)
	transferUC := usecase.NewTransferUseCase(txManager, accountRepo, transferRepo, entryRepo, retrier)
	transferUC.SetLockWait(cfg.LockWaitTimeout)
	entryUC := usecase.NewEntryUseCase(entryRepo)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo)

	routerCfg := httpAdapter.RouterConfig{
		Logger:          log.Logger,
		AccountHandler:  handler.NewAccountHandler(accountUC),
		TransferHandler: handler.NewTransferHandler(transferUC),
		EntryHandler:    handler.NewEntryHandler(entryUC),
		LedgerHandler:   handler.NewLedgerHandler(ledgerUC),
		HealthHandler:   handler.NewHealthHandler(pool, redisClient),
	}
	if redisClient != nil {
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		routerCfg.IdempotencyTTL = cfg.IdempotencyTTL
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
