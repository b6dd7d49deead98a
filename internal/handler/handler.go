package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/set-night/mindlink/internal/config"
	"github.com/set-night/mindlink/internal/service"
	"github.com/set-night/mindlink/internal/telegram"
)

// Messenger is the part of *bot.Bot handlers talk back through.
type Messenger interface {
	telegram.MessageSender
	telegram.ChatActionSender
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot         *bot.Bot
	out         Messenger
	cfg         *config.Config
	sessions    *service.SessionRegistry
	catalog     *service.Catalog
	reporter    *telegram.ErrorReporter
	botUsername string
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot *bot.Bot
	// Messenger defaults to Bot.
	Messenger   Messenger
	Cfg         *config.Config
	Sessions    *service.SessionRegistry
	Catalog     *service.Catalog
	Reporter    *telegram.ErrorReporter
	BotUsername string
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	h := &Handler{
		bot:         deps.Bot,
		out:         deps.Messenger,
		cfg:         deps.Cfg,
		sessions:    deps.Sessions,
		catalog:     deps.Catalog,
		reporter:    deps.Reporter,
		botUsername: deps.BotUsername,
	}
	if h.out == nil && deps.Bot != nil {
		h.out = deps.Bot
	}
	return h
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	telegram.SendText(ctx, h.out, chatID, text)
}
