package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/mindlink/internal/config"
	tg "github.com/set-night/mindlink/internal/telegram"
)

func (h *Handler) handleTemperature(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	current := h.sessions.Settings(chatID).Temperature

	var row []models.InlineKeyboardButton
	for _, t := range config.TemperatureOptions {
		label := strconv.FormatFloat(t, 'f', -1, 64)
		if t == current {
			label = "✅ " + label
		}
		row = append(row, tg.InlineButton(label, "temp_"+strconv.FormatFloat(t, 'f', -1, 64)))
	}

	_, err := h.out.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        fmt.Sprintf("🌡 Temperature: *%.2f*", current),
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: tg.InlineKeyboard(row),
	})
	if err != nil {
		slog.Error("send temperature", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) handleTempValue(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	temp, err := strconv.ParseFloat(strings.TrimPrefix(update.CallbackQuery.Data, "temp_"), 64)
	if err != nil {
		h.answer(ctx, update, "")
		return
	}

	chatID := callbackChatID(update)
	if err := h.sessions.SetTemperature(chatID, temp); err != nil {
		slog.Error("set temperature", "chat_id", chatID, "temperature", temp, "error", err)
		h.answer(ctx, update, "❌ "+err.Error())
		return
	}
	h.answer(ctx, update, fmt.Sprintf("🌡 Temperature set to %.2f", temp))
}
