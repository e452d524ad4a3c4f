package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Reece236/StockMarketSim/internal/bootstrap"
	"github.com/Reece236/StockMarketSim/internal/config"
	"github.com/Reece236/StockMarketSim/internal/handler"
	"github.com/Reece236/StockMarketSim/internal/market"
	"github.com/Reece236/StockMarketSim/internal/service"
	"github.com/Reece236/StockMarketSim/internal/store"
	"github.com/Reece236/StockMarketSim/internal/stream"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// One seeded source drives every random draw in the run.
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Info("run starting", slog.Int64("seed", seed), slog.Int("periods", cfg.Periods))

	// Bootstrap the universe and population.
	instruments := store.NewRegistry()
	traders := store.NewTraderStore()
	fills := store.NewFillStore()

	err = bootstrap.Populate(instruments, traders, bootstrap.Params{
		Instruments:  cfg.Instruments,
		Traders:      cfg.Traders,
		InitialCash:  cfg.InitialCash,
		UniverseFile: cfg.UniverseFile,
	}, rng)
	if err != nil {
		logger.Error("bootstrap failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Optional live period stream.
	var hub *stream.Hub
	opts := []market.Option{}
	if cfg.Serve {
		hub = stream.NewHub(logger)
		opts = append(opts, market.WithPublisher(hub))
	}
	if cfg.HumanTrader != "" {
		opts = append(opts, market.WithAdvisor(newConsoleAdvisor(os.Stdin, os.Stdout), cfg.HumanTrader))
	}

	m, err := market.New(instruments, traders, fills, rng, logger, opts...)
	if err != nil {
		logger.Error("market construction failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Run the horizon.
	m.Open()
	reports, err := m.SimulateHorizon(cfg.Periods)
	if err != nil {
		logger.Error("simulation aborted", slog.String("error", err.Error()))
		os.Exit(1)
	}
	m.Close()

	var volume int64
	for _, r := range reports {
		volume += r.Volume
	}
	logger.Info("run complete",
		slog.Int("periods", len(reports)),
		slog.Int64("volume", volume),
	)

	// Final standings.
	query := service.NewQueryService(instruments, traders, fills)
	for _, s := range query.Standings() {
		logger.Info("standing",
			slog.String("trader", s.ID),
			slog.Float64("cash", s.Cash),
			slog.Float64("portfolio_value", s.PortfolioValue),
			slog.Float64("risk_tolerance", s.RiskTolerance),
		)
	}

	if !cfg.Serve {
		return
	}

	// Serve the read-only presentation API until interrupted.
	var streamHandler http.Handler
	if hub != nil {
		streamHandler = hub
	}
	router := handler.NewRouter(query, streamHandler, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}
