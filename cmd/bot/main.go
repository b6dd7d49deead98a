package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/mindlink/internal/config"
	"github.com/set-night/mindlink/internal/credentials"
	"github.com/set-night/mindlink/internal/domain"
	"github.com/set-night/mindlink/internal/handler"
	"github.com/set-night/mindlink/internal/middleware"
	"github.com/set-night/mindlink/internal/service"
	"github.com/set-night/mindlink/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if cfg.BotToken == "" {
		slog.Error("BOT_TOKEN is required")
		os.Exit(1)
	}

	defaultProvider, err := cfg.Provider()
	if err != nil {
		slog.Error("invalid MODEL", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := credentials.New(credentials.WithDotenv(cfg.DotenvFiles...))
	if err != nil {
		slog.Error("failed to load credentials", "error", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: cfg.RequestTimeout}
	newConfig := func(s service.ChatSettings) (domain.ModelConfig, error) {
		return service.NewModelConfigBuilder(store, s.Provider).
			WithSystemPrompt(cfg.SystemPrompt).
			WithMaxTokens(cfg.MaxTokens).
			WithTemperature(s.Temperature).
			Build()
	}
	sessions := service.NewSessionRegistry(client, newConfig, service.ChatSettings{
		Provider:    defaultProvider,
		Temperature: cfg.Temperature,
	})
	catalog := service.NewCatalog(client, store, service.NewModelsCache(cfg.ModelsCacheTTL))

	// Assigned once the bot exists; the closures below read them late.
	var h *handler.Handler
	var reporter *telegram.ErrorReporter

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(middleware.ReporterFunc(func(err error, where string) {
				reporter.Report(err, where)
			})),
			middleware.Logging(),
			middleware.AllowList(cfg),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil {
				return
			}
			h.HandleText(ctx, b, update)
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	reporter = telegram.NewErrorReporter(b, cfg.LogTelegramChatID)
	h = handler.New(handler.Deps{
		Bot:         b,
		Cfg:         cfg,
		Sessions:    sessions,
		Catalog:     catalog,
		Reporter:    reporter,
		BotUsername: me.Username,
	})
	h.Register()

	slog.Info("starting bot", "username", me.Username, "id", me.ID, "model", defaultProvider.String())
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
