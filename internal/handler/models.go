package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/mindlink/internal/domain"
	"github.com/set-night/mindlink/internal/service"
	tg "github.com/set-night/mindlink/internal/telegram"
)

// handleModels lists the supported models. "/models remote" lists what the
// current provider advertises that this bot cannot address yet.
func (h *Handler) handleModels(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	current := h.sessions.Settings(chatID).Provider

	if arg := commandArg(update.Message.Text); arg == "remote" {
		h.sendRemoteModels(ctx, chatID, current.Family())
		return
	}

	var sb strings.Builder
	sb.WriteString("🤖 *Choose a model:*\n\n")

	var rows [][]models.InlineKeyboardButton
	for _, p := range domain.AllProviders() {
		selected := ""
		if p == current {
			selected = " ✅"
		}
		priceStr := ""
		if pr, ok := service.PriceFor(p); ok {
			priceStr = fmt.Sprintf(" | 💰 $%s/$%s per 1M", pr.Input.String(), pr.Output.String())
		}
		sb.WriteString(fmt.Sprintf("`%s`%s%s\n", p.ModelID(), selected, priceStr))
		rows = append(rows, tg.ButtonRow(tg.InlineButton(p.ModelID()+selected, "m_"+p.ModelID())))
	}

	_, err := h.out.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        sb.String(),
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: tg.InlineKeyboard(rows...),
	})
	if err != nil {
		slog.Error("send models", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) sendRemoteModels(ctx context.Context, chatID int64, f domain.Family) {
	unsupported, err := h.catalog.Unsupported(ctx, f)
	if errors.Is(err, domain.ErrUnsupportedProvider) {
		h.reply(ctx, chatID, fmt.Sprintf("❌ Listing %s models is not supported.", f))
		return
	}
	if err != nil {
		slog.Error("list remote models", "family", f.String(), "error", err)
		h.reporter.Report(err, "models remote")
		h.reply(ctx, chatID, "❌ Could not load the model list.")
		return
	}
	if len(unsupported) == 0 {
		h.reply(ctx, chatID, fmt.Sprintf("✅ Every %s model is supported.", f))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s models without support:\n", f))
	for _, m := range unsupported {
		sb.WriteString("• " + m.ID)
		if m.DisplayName != "" {
			sb.WriteString(" (" + m.DisplayName + ")")
		}
		sb.WriteString("\n")
	}
	h.reply(ctx, chatID, sb.String())
}

func (h *Handler) handleModel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	h.reply(ctx, chatID, h.switchModel(chatID, commandArg(update.Message.Text)))
}

func (h *Handler) handleModelSelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	status := h.switchModel(callbackChatID(update), strings.TrimPrefix(update.CallbackQuery.Data, "m_"))
	h.answer(ctx, update, status)
}

// switchModel resets the chat onto modelID and returns the status to show.
func (h *Handler) switchModel(chatID int64, modelID string) string {
	p, err := domain.ParseProvider(modelID)
	if err != nil {
		return fmt.Sprintf("❌ Unknown model %q. See /models.", modelID)
	}
	if _, err := h.sessions.SetProvider(chatID, p); err != nil {
		slog.Error("switch model", "chat_id", chatID, "model", modelID, "error", err)
		return "❌ " + err.Error()
	}
	return fmt.Sprintf("✅ Switched to %s. Context cleared.", p.ModelID())
}

// commandArg returns the text after the command word.
func commandArg(text string) string {
	_, arg, _ := strings.Cut(text, " ")
	return strings.TrimSpace(arg)
}
