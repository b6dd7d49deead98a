package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/mindlink/internal/config"
)

const reportTimeout = 10 * time.Second

// ErrorReporter mirrors handler failures to an operator chat. A zero chat ID
// disables it.
type ErrorReporter struct {
	sender MessageSender
	chatID int64
	now    func() time.Time
}

func NewErrorReporter(s MessageSender, chatID int64) *ErrorReporter {
	return &ErrorReporter{sender: s, chatID: chatID, now: time.Now}
}

func (r *ErrorReporter) Report(err error, where string) {
	if r == nil || r.chatID == 0 || err == nil {
		return
	}

	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`\n*Time:* %s",
		where, err.Error(), r.now().Format("2006-01-02 15:04:05"))
	if runes := []rune(msg); len(runes) > config.MaxTelegramMessageLen {
		msg = string(runes[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	_, sendErr := r.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    r.chatID,
		Text:      msg,
		ParseMode: models.ParseModeMarkdownV1,
	})
	if sendErr != nil {
		slog.Error("failed to send error report", "error", sendErr)
	}
}
