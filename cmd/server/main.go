package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/config"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/database"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/logging"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/market"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/repository"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	log.Logger = logger

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	schema, err := database.SchemaVersion(db)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to read schema version")
	}
	logger.Info().Str("path", cfg.Database.Path).Int64("schema", schema).Msg("connected to database")

	// Load market data
	store := market.NewStore(cfg.Market.DataDir, cfg.Market.Symbols)
	if err := store.Preload(context.Background()); err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.Market.DataDir).Msg("failed to load market data")
	}
	lookup, err := market.ParseLookupMode(cfg.Market.AnalysisLookup)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid analysis lookup mode")
	}
	logger.Info().Strs("symbols", store.Symbols()).Str("dir", cfg.Market.DataDir).Msg("market data loaded")

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	strategyRepo := repository.NewStrategyRepository(db)

	// Create services
	services := api.Services{
		System: service.NewSystemService(db),
		Market: service.NewMarketService(store),
		User:   service.NewUserService(userRepo),
		Portfolio: service.NewPortfolioService(
			db,
			portfolioRepo,
			holdingRepo,
			store,
			cfg.Trading.MaxAttempts,
			logger,
		),
		Trade: service.NewTradeService(
			db,
			store,
			portfolioRepo,
			holdingRepo,
			tradeRepo,
			cfg.Trading.MaxAttempts,
			logger,
		),
		Analysis: service.NewAnalysisService(store, portfolioRepo, holdingRepo, lookup),
		Group:    service.NewGroupService(groupRepo),
		Task:     service.NewTaskService(taskRepo, groupRepo),
		Strategy: service.NewStrategyService(strategyRepo),
	}

	// Create router
	router := api.NewRouter(services, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Str("version", version.Version).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	logger.Info().Msg("server exited")
}
