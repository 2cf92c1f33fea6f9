package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"finbot/internal/api"
	"finbot/internal/config"
	"finbot/internal/logging"
	"finbot/pkg/finbot"
)

func main() {
	var port int
	var host string
	var logDir string

	flag.IntVar(&port, "port", 0, "Port to run the server on (overrides PORT env)")
	flag.StringVar(&host, "host", "0.0.0.0", "Host to bind the server to")
	flag.StringVar(&logDir, "log-dir", "logs", "Directory for log files")
	flag.Parse()

	logger, writer, err := logging.NewLogger(logDir, slog.LevelInfo)
	if err != nil {
		slog.Error("failed to initialize logger", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("failed to close log writer", "err", err)
		}
	}()

	cfg := config.FromEnv(logger)
	if port > 0 {
		cfg.Port = port
	}

	core := finbot.New(finbot.Options{
		Logger:         logger,
		Positions:      cfg.Positions,
		GeminiAPIKey:   cfg.GeminiAPIKey,
		GeminiModel:    cfg.GeminiModel,
		GeminiBaseURL:  cfg.GeminiBaseURL,
		TelegramToken:  cfg.TelegramToken,
		TelegramChatID: cfg.TelegramChatID,
		QuoteJitterMin: cfg.QuoteJitterMin,
		QuoteJitterMax: cfg.QuoteJitterMax,
		HTTPTimeout:    cfg.HTTPTimeout,
	})

	addr := fmt.Sprintf("%s:%d", host, cfg.Port)
	handler := middleware.Compress(5)(api.NewRouter(core, logger))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server starting", "addr", addr,
		"telegram_configured", cfg.TelegramToken != "" && cfg.TelegramChatID != "",
		"gemini_configured", cfg.GeminiAPIKey != "",
		"positions", len(core.Positions()),
	)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop

	logger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}
}
