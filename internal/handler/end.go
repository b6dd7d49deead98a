package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (h *Handler) handleEnd(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if _, err := h.sessions.Reset(chatID); err != nil {
		slog.Error("reset session", "chat_id", chatID, "error", err)
		h.reply(ctx, chatID, "❌ Could not start a new conversation: "+err.Error())
		return
	}
	h.reply(ctx, chatID, "🔄 Context cleared. Starting a new conversation.")
}
