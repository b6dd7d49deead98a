package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/end", bot.MatchTypePrefix, h.handleEnd)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/history", bot.MatchTypePrefix, h.handleHistory)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/models", bot.MatchTypePrefix, h.handleModels)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/model ", bot.MatchTypePrefix, h.handleModel)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/temperature", bot.MatchTypePrefix, h.handleTemperature)

	// Callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "m_", bot.MatchTypePrefix, h.handleModelSelect)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "temp_", bot.MatchTypePrefix, h.handleTempValue)
}

// answer acknowledges a callback query so the client stops its spinner.
func (h *Handler) answer(ctx context.Context, update *models.Update, text string) {
	h.out.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
		Text:            text,
	})
}

func callbackChatID(update *models.Update) int64 {
	if msg := update.CallbackQuery.Message.Message; msg != nil {
		return msg.Chat.ID
	}
	return 0
}
