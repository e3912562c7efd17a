// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"instapay-callback/internal/config"
	"instapay-callback/internal/domain/ports/adapter"
	pg "instapay-callback/internal/infra/db/postgres"
	httpapi "instapay-callback/internal/infra/http"
	"instapay-callback/internal/infra/logging"
	"instapay-callback/internal/infra/metrics"
	red "instapay-callback/internal/infra/redis"
	"instapay-callback/internal/infra/security"
	"instapay-callback/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no redaction)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}
	metrics.MustRegister(nil)

	// ---- Postgres ----
	pool, err := pg.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	txManager := pg.NewTxManager(pool)

	// ---- Repositories ----
	accountRepo := pg.NewAccountRepo(pool)
	inwardRepo := pg.NewInwardRepo(pool)
	outwardRepo := pg.NewOutwardRepo(pool)

	// ---- Redis (optional) ----
	caps := adapter.InwardCapabilities{
		Accounts:  usecase.NewAccountCheckUseCase(accountRepo, logger),
		Balances:  usecase.NewLimitCheckUseCase(accountRepo, inwardRepo, logger),
		Processor: usecase.NewLedgerUseCase(accountRepo, inwardRepo, txManager, logger),
	}
	opts := []httpapi.Option{httpapi.WithHealthCheck("postgres", pool)}
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		caps.Duplicates = red.NewDuplicateChecker(redisClient, cfg.Redis.DuplicateTTL)
		opts = append(opts,
			httpapi.WithRateLimiter(red.NewRateLimiter(redisClient)),
			httpapi.WithHealthCheck("redis", redisClient),
		)
	} else {
		logger.Warn().Msg("redis.url not set; duplicate detection relies on the ledger constraint only")
	}

	// ---- Use cases ----
	tokens := security.NewTokenService(cfg.Callback.SecretKey)
	opts = append(opts, httpapi.WithTokenParser(tokens))

	callbackUC := usecase.NewCallbackUseCase(usecase.CallbackConfig{
		Tokens:          tokens,
		ResponseHandler: usecase.NewOutwardStatusUseCase(outwardRepo, logger),
		InwardHandler:   usecase.NewInwardUseCase(caps, logger),
	}, logger)

	// ---- HTTP callback server ----
	server := httpapi.NewServer(cfg, callbackUC, logger, opts...)
	errc := make(chan error, 1)
	go func() { errc <- server.Start() }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case err := <-errc:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
