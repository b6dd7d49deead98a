package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/mindlink/internal/telegram"
)

const welcomeText = "👋 Hi! I relay your messages to %s and keep the conversation in memory.\n\n" +
	"📋 *Commands:*\n" +
	"/models — Pick a model\n" +
	"/model <id> — Switch model by id\n" +
	"/temperature — Sampling temperature\n" +
	"/history — Show this conversation\n" +
	"/end — Start over\n\n" +
	"Just send a message to begin."

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	settings := h.sessions.Settings(chatID)

	if err := telegram.SendLongMessage(ctx, h.out, chatID, fmt.Sprintf(welcomeText, settings.Provider.ModelID()), nil); err != nil {
		h.reporter.Report(err, "start")
	}
}
