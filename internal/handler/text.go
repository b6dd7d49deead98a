package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/mindlink/internal/domain"
	"github.com/set-night/mindlink/internal/service"
	tg "github.com/set-night/mindlink/internal/telegram"
)

// HandleText sends a chat message to the chat's model and replies with the
// answer. In groups only messages that mention the bot are answered.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	msg := update.Message
	if strings.HasPrefix(msg.Text, "/") {
		return
	}

	text, ok := h.addressedText(msg)
	if !ok {
		return
	}
	chatID := msg.Chat.ID

	release, ok := h.sessions.TryAcquire(chatID)
	if !ok {
		if msg.Chat.Type == "private" {
			h.reply(ctx, chatID, "⏳ Wait for the answer to your previous message.")
		}
		return
	}
	defer release()

	session, err := h.sessions.FindOrCreate(chatID)
	if err != nil {
		slog.Error("find or create session", "chat_id", chatID, "error", err)
		h.reply(ctx, chatID, "❌ "+err.Error())
		return
	}

	stopTyping := tg.StartTyping(ctx, h.out, chatID)
	err = session.SendTracked(ctx, domain.FromUser(text))
	stopTyping()
	if err != nil {
		slog.Error("send to model", "chat_id", chatID, "session_id", session.ID(), "error", err)
		h.reply(ctx, chatID, sendErrorText(err))
		if reportable(err) {
			h.reporter.Report(err, "send "+session.Config().Provider.String())
		}
		return
	}

	history := session.History()
	answer := history[len(history)-1]

	replyTo := msg.ID
	if err := tg.SendLongMessage(ctx, h.out, chatID, answer.Message.Content, &replyTo); err != nil {
		slog.Error("send answer", "chat_id", chatID, "error", err)
		h.reporter.Report(err, "send answer")
		return
	}

	if h.cfg.ShowCost {
		h.reply(ctx, chatID, costText(answer, h.cfg.MarkupPercent))
	}
}

// addressedText strips the bot mention in groups and reports whether the
// message is meant for the bot.
func (h *Handler) addressedText(msg *models.Message) (string, bool) {
	if msg.Chat.Type == "private" {
		return msg.Text, true
	}
	if h.botUsername == "" {
		return "", false
	}
	mention := "@" + h.botUsername
	if !strings.Contains(msg.Text, mention) {
		return "", false
	}
	text := strings.TrimSpace(strings.ReplaceAll(msg.Text, mention, ""))
	return text, text != ""
}

func sendErrorText(err error) string {
	var sendErr *domain.SendError
	if !errors.As(err, &sendErr) {
		return "❌ Request failed."
	}
	switch {
	case sendErr.Kind == domain.SendUnsupportedProvider:
		return "❌ This model cannot chat yet. Pick another one with /models."
	case sendErr.Status == http.StatusTooManyRequests:
		return "⏳ The provider is rate limiting requests. Try again later."
	case sendErr.Status == http.StatusUnauthorized || sendErr.Status == http.StatusForbidden:
		return "❌ The provider rejected the API key."
	case sendErr.Status >= http.StatusInternalServerError:
		return "❌ The provider is temporarily unavailable."
	case errors.Is(err, context.DeadlineExceeded):
		return "⏳ The provider took too long to answer."
	case sendErr.Kind == domain.SendParseResponse || sendErr.Kind == domain.SendExtractContent:
		return "❌ The provider sent an answer that could not be read."
	default:
		return "❌ Request failed."
	}
}

// reportable skips failures users cause or that fix themselves.
func reportable(err error) bool {
	var sendErr *domain.SendError
	if !errors.As(err, &sendErr) {
		return true
	}
	return sendErr.Kind != domain.SendUnsupportedProvider && sendErr.Status != http.StatusTooManyRequests
}

func costText(answer domain.MessageBundle, markupPercent float64) string {
	usage := answer.Metadata.Usage
	text := "📊 Tokens: " + formatUsage(usage.InputTokens, usage.OutputTokens)
	if pr, ok := service.PriceFor(answer.Metadata.Config.Provider); ok {
		text += " | 💰 $" + service.CalculateCost(usage, pr, markupPercent).StringFixed(6)
	}
	return text
}

func formatUsage(in, out int) string {
	return fmt.Sprintf("%d→%d", in, out)
}
