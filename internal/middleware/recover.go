package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Reporter receives recovered panics, e.g. *telegram.ErrorReporter.
type Reporter interface {
	Report(err error, where string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(err error, where string)

func (f ReporterFunc) Report(err error, where string) { f(err, where) }

// Recover returns middleware that recovers from panics and forwards them to r.
func Recover(r Reporter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if p := recover(); p != nil {
					slog.Error("panic recovered in handler",
						"update_id", update.ID,
						"panic", p,
						"stack", string(debug.Stack()),
					)
					if r != nil {
						r.Report(fmt.Errorf("panic: %v", p), "handler")
					}
				}
			}()
			next(ctx, b, update)
		}
	}
}
