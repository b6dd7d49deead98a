package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/mindlink/internal/config"
	"github.com/set-night/mindlink/internal/service"
	"github.com/set-night/mindlink/internal/telegram"
)

func (h *Handler) handleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	session, err := h.sessions.FindOrCreate(chatID)
	if err != nil {
		h.reply(ctx, chatID, "❌ "+err.Error())
		return
	}
	if session.Len() == 0 {
		h.reply(ctx, chatID, "📭 History is empty.")
		return
	}

	var sb strings.Builder
	if err := session.PrintHistory(&sb); err != nil {
		h.reporter.Report(err, "history")
		return
	}
	if h.cfg.ShowCost {
		usage := session.Usage()
		sb.WriteString("\n📊 Tokens: ")
		sb.WriteString(formatUsage(usage.InputTokens, usage.OutputTokens))
		sb.WriteString(" | 💰 $")
		sb.WriteString(service.SessionCost(session, h.cfg.MarkupPercent).StringFixed(6))
	}

	// transcripts are plain text; model output would break markdown
	for _, part := range telegram.SplitMessage(sb.String(), config.MaxTelegramMessageLen) {
		h.reply(ctx, chatID, part)
	}
}
