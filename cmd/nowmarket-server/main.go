package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"nowmarket/internal/api"
	"nowmarket/internal/config"
	"nowmarket/internal/market"
	"nowmarket/internal/refdata"

	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()
	cfg := config.LoadServerFromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	m := market.New(market.Config{
		Seed:            cfg.Seed,
		StartingBalance: cfg.StartingBalance,
		BetResolveTicks: cfg.BetResolveTicks,
	}, logger)

	if cfg.RefDataEnabled {
		fetcher := refdata.NewFetcher(
			refdata.NewClient(cfg.RefDataBaseURL, cfg.RefDataAPIKey),
			m, cfg.RefDataMaxAge, logger,
		)
		go fetcher.Run(ctx, cfg.RefDataEvery)
	}

	runOnce := strings.EqualFold(strings.TrimSpace(os.Getenv("NOWMARKET_RUN_ONCE")), "true")
	if runOnce {
		m.Tick()
		logger.Info("run-once tick completed", "clock", m.Clock())
		return
	}

	go tickLoop(ctx, m, cfg.TickEvery, logger)

	server := api.New(logger, m)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("nowmarket api listening", "addr", cfg.Addr, "tick_every", cfg.TickEvery.String())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func tickLoop(ctx context.Context, m *market.Market, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("tick loop shutdown")
			return
		case <-ticker.C:
			m.Tick()
		}
	}
}
