package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Logging returns middleware that logs update processing time.
func Logging() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()
			updateType, chatID, userID := describe(update)

			next(ctx, b, update)

			slog.Debug("update processed",
				"type", updateType,
				"chat_id", chatID,
				"user_id", userID,
				"duration", time.Since(start),
			)
		}
	}
}

func describe(update *models.Update) (updateType string, chatID, userID int64) {
	switch {
	case update.Message != nil:
		if update.Message.From != nil {
			userID = update.Message.From.ID
		}
		return "message", update.Message.Chat.ID, userID
	case update.CallbackQuery != nil:
		if msg := update.CallbackQuery.Message.Message; msg != nil {
			chatID = msg.Chat.ID
		}
		return "callback_query", chatID, update.CallbackQuery.From.ID
	default:
		return "unknown", 0, 0
	}
}
