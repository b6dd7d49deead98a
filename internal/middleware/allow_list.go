package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Allower decides which Telegram users may talk to the bot, e.g. *config.Config.
type Allower interface {
	IsAllowed(telegramID int64) bool
}

// AllowList drops updates from users a does not allow. Updates without a
// sender pass through.
func AllowList(a Allower) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			_, chatID, userID := describe(update)
			if userID != 0 && !a.IsAllowed(userID) {
				slog.Warn("update from user not on allow list", "user_id", userID, "chat_id", chatID)
				return
			}
			next(ctx, b, update)
		}
	}
}
