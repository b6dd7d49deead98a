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

// MessageSender is the part of *bot.Bot replies go through.
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// ChatActionSender is the part of *bot.Bot typing indicators go through.
type ChatActionSender interface {
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

// SendLongMessage sends a potentially long message, splitting it into parts if needed.
// Falls back to plain text if Markdown parsing fails.
func SendLongMessage(ctx context.Context, s MessageSender, chatID int64, text string, replyToID *int) error {
	text = FixMarkdown(text)
	parts := SplitMessage(text, config.MaxTelegramMessageLen)

	for _, part := range parts {
		params := &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      part,
			ParseMode: models.ParseModeMarkdownV1,
		}
		if replyToID != nil {
			params.ReplyParameters = &models.ReplyParameters{
				MessageID: *replyToID,
			}
			replyToID = nil // only reply to first part
		}

		_, err := s.SendMessage(ctx, params)
		if err != nil {
			slog.Warn("markdown send failed, falling back to plain text", "chat_id", chatID, "error", err)
			params.ParseMode = ""
			if _, err = s.SendMessage(ctx, params); err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		}
	}

	return nil
}

// SendText sends a short plain reply and logs a failure instead of returning it.
func SendText(ctx context.Context, s MessageSender, chatID int64, text string) {
	if _, err := s.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		slog.Error("send reply", "chat_id", chatID, "error", err)
	}
}

// StartTyping sends "typing..." until the returned cancel function is called.
func StartTyping(ctx context.Context, s ChatActionSender, chatID int64) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(config.TypingInterval)
		defer ticker.Stop()
		for {
			s.SendChatAction(ctx, &bot.SendChatActionParams{
				ChatID: chatID,
				Action: models.ChatActionTyping,
			})
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return cancel
}
