package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"pricewatch/internal/app"
	"pricewatch/internal/config"
	"pricewatch/internal/health"
	"pricewatch/internal/monitor"
	"pricewatch/internal/notify"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := app.NewLogger(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChannelID)
	if err != nil {
		logger.Error("failed to init telegram bot", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if name, err := tg.Identify(); err != nil {
		logger.Warn("telegram bot not verified, delivery will be retried each cycle",
			slog.String("error", err.Error()))
	} else {
		logger.Info("Telegram bot authorized",
			slog.String("username", name),
			slog.String("channel", cfg.Telegram.ChannelID))
	}

	src, closeSource, err := app.NewSource(cfg.Source)
	if err != nil {
		logger.Error("failed to build quote source", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeSource()

	opts, err := app.MonitorOptions(cfg.Monitor, logger)
	if err != nil {
		logger.Error("invalid monitor config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	mon := monitor.New(src, tg, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *http.Server
	if cfg.Server.Enabled {
		srv = health.NewServer(cfg.Server.Port, mon)
		go func() {
			logger.Info("liveness endpoint listening", slog.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("liveness server failed", slog.String("error", err.Error()))
			}
		}()
	}

	logger.Info("Starting monitor...",
		slog.String("strategy", cfg.Source.Strategy),
		slog.Int("interval_sec", cfg.Monitor.IntervalSec))

	runErr := mon.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}

	if runErr != nil {
		logger.Error("monitor stopped", slog.String("error", runErr.Error()))
		closeSource()
		os.Exit(1)
	}
	logger.Info("Monitor stopped gracefully")
}
