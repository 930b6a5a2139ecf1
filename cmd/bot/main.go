package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/escalopa/quran-tajwid-bot/internal/adapter/httpapi"
	"github.com/escalopa/quran-tajwid-bot/internal/adapter/i18n"
	"github.com/escalopa/quran-tajwid-bot/internal/adapter/quranapi"
	"github.com/escalopa/quran-tajwid-bot/internal/adapter/redis"
	"github.com/escalopa/quran-tajwid-bot/internal/adapter/telegram"
	"github.com/escalopa/quran-tajwid-bot/internal/adapter/whisper"
	"github.com/escalopa/quran-tajwid-bot/internal/application"
	"github.com/escalopa/quran-tajwid-bot/internal/config"
	"github.com/escalopa/quran-tajwid-bot/internal/domain"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateBot(); err != nil {
		return err
	}

	logger := config.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "path", configPath)

	i18nService, err := i18n.NewI18n(cfg.App.LocalesDir, domain.Language(cfg.App.DefaultLanguage))
	if err != nil {
		return err
	}

	fsm, err := redis.NewFSM(cfg.Redis.URI, cfg.Redis.SessionTTL)
	if err != nil {
		return err
	}
	defer fsm.Close()
	logger.Info("redis FSM connected")

	quranClient := quranapi.NewClient(quranConfig(cfg.QuranAPI), logger.With("component", "quranapi"))

	transcriber := whisper.NewTranscriber(whisper.Config{
		APIKey:            cfg.OpenAI.APIKey,
		BaseURL:           cfg.OpenAI.BaseURL,
		Model:             cfg.OpenAI.Model,
		Timeout:           cfg.OpenAI.Timeout,
		RequestsPerSecond: cfg.OpenAI.RequestsPerSecond,
		Burst:             cfg.OpenAI.Burst,
	}, logger.With("component", "whisper"))
	if cfg.OpenAI.APIKey == "" {
		logger.Warn("openai api key is not set, voice scoring will be unavailable")
	}

	recitationService := application.NewRecitationService(transcriber, logger.With("component", "recitation"))
	botService := application.NewBotService(quranClient, fsm, i18nService, recitationService)

	bot, err := telegram.NewBot(cfg.Telegram.Token, botService, i18nService, logger.With("component", "telegram"))
	if err != nil {
		return err
	}

	api := httpapi.NewServer(recitationService, cfg.HTTP.MaxUploadMB<<20, logger.With("component", "httpapi"))
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 2)
	go func() {
		logger.Info("starting bot")
		if err := bot.Start(ctx); err != nil {
			errChan <- fmt.Errorf("bot: %w", err)
		}
	}()
	go func() {
		logger.Info("starting http server", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case runErr = <-errChan:
		logger.Error("component failed", "error", runErr)
	}

	if err := bot.Stop(); err != nil {
		logger.Error("stop bot", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown http server", "error", err)
	}

	logger.Info("stopped")
	return runErr
}

func quranConfig(cfg config.QuranAPIConfig) quranapi.Config {
	return quranapi.Config{
		BaseURL:            cfg.BaseURL,
		Language:           cfg.Language,
		CacheTTL:           cfg.CacheTTL,
		TranslationID:      cfg.TranslationID,
		ReciterID:          cfg.ReciterID,
		AudioBaseURL:       cfg.AudioBaseURL,
		TransliterationURL: cfg.TransliterationURL,
	}
}
