package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/avoronin/photobattle/internal/config"
	"github.com/avoronin/photobattle/internal/factory"
	redisstorage "github.com/avoronin/photobattle/internal/storage/redis"
	"github.com/avoronin/photobattle/internal/telegram"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.BotToken == "" {
		return errors.New("BOT_TOKEN is required")
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return err
	}
	client := telegram.NewClient(api)

	app, err := factory.New(factory.Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		RedisConfig: redisConfig(cfg),
		Lanes:       cfg.Workers,
		BotID:       client.BotID(),
		Photos:      client,
		Sink:        client,
	})
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller := telegram.NewPoller(api, app.Inbound, logger)

	poller.Start()
	app.Pool.Start(ctx)
	app.Sender.Start(ctx)

	logger.Info("bot started",
		slog.Int64("bot_id", int64(client.BotID())),
		slog.Int("workers", cfg.Workers),
		slog.String("storage", cfg.StorageType),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown signal received")

	// Stop order matters: no new events, then drain dispatch, then
	// drain outbound delivery
	poller.Stop()
	app.Pool.Stop()
	app.Sender.Stop()

	logger.Info("bot stopped")
	return nil
}

func redisConfig(cfg *config.Config) *redisstorage.Config {
	if cfg.StorageType != config.StorageTypeRedis {
		return nil
	}
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = cfg.RedisURL
	return &redisCfg
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
