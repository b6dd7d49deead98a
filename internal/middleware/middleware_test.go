package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type allowOnly int64

func (a allowOnly) IsAllowed(id int64) bool { return int64(a) == id }

type recordingReporter struct {
	errs []error
}

func (r *recordingReporter) Report(err error, _ string) { r.errs = append(r.errs, err) }

func messageFrom(userID int64) *models.Update {
	return &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: 100},
		From: &models.User{ID: userID},
		Text: "hi",
	}}
}

func TestAllowList(t *testing.T) {
	var called int
	h := AllowList(allowOnly(1))(func(context.Context, *bot.Bot, *models.Update) { called++ })

	h(context.Background(), nil, messageFrom(1))
	h(context.Background(), nil, messageFrom(2))
	h(context.Background(), nil, &models.Update{})

	assert.Equal(t, 2, called)
}

func TestRecoverReportsPanic(t *testing.T) {
	r := &recordingReporter{}
	h := Recover(r)(func(context.Context, *bot.Bot, *models.Update) { panic("boom") })

	assert.NotPanics(t, func() { h(context.Background(), nil, messageFrom(1)) })
	require.Len(t, r.errs, 1)
	assert.EqualError(t, r.errs[0], "panic: boom")
}

func TestRecoverWithoutReporter(t *testing.T) {
	h := Recover(nil)(func(context.Context, *bot.Bot, *models.Update) { panic(errors.New("boom")) })
	assert.NotPanics(t, func() { h(context.Background(), nil, messageFrom(1)) })
}

func TestDescribe(t *testing.T) {
	typ, chatID, userID := describe(messageFrom(5))
	assert.Equal(t, "message", typ)
	assert.Equal(t, int64(100), chatID)
	assert.Equal(t, int64(5), userID)

	typ, _, _ = describe(&models.Update{})
	assert.Equal(t, "unknown", typ)
}

func TestReporterFunc(t *testing.T) {
	var got string
	h := Recover(ReporterFunc(func(err error, where string) { got = where + ": " + err.Error() }))(
		func(context.Context, *bot.Bot, *models.Update) { panic("boom") })

	h(context.Background(), nil, &models.Update{})
	assert.Equal(t, "handler: panic: boom", got)
}
