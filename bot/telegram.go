package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/niktanya/telegram-book-bot/log"
	"github.com/niktanya/telegram-book-bot/model"
	"github.com/niktanya/telegram-book-bot/worker"
)

// TelegramBot adapts the telegram long-polling API to the transport
// seam: inbound updates become Events pushed into the dispatch pool,
// outbound Replies become messages with an optional reply keyboard.
type TelegramBot struct {
	api *tgbotapi.BotAPI
}

func NewTelegramBot(token string) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot api")
	}
	log.Info("Authorized on telegram", zap.String("username", api.Self.UserName))
	return &TelegramBot{api: api}, nil
}

// Run consumes updates until the context is cancelled. Turn handling
// happens on the pool's workers, never on the polling goroutine.
func (b *TelegramBot) Run(ctx context.Context, pool *worker.DispatchPool) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			msg := update.Message
			if msg == nil || msg.From == nil {
				continue
			}
			ev := Event{
				UserID:    msg.From.ID,
				ChatID:    msg.Chat.ID,
				FirstName: msg.From.FirstName,
				Text:      msg.Text,
			}
			if msg.IsCommand() {
				ev.Command = msg.Command()
				ev.Text = msg.CommandArguments()
			}
			pool.Push(model.Job{UserID: ev.UserID, Item: ev})
		}
	}
}

// Send implements Sender.
func (b *TelegramBot) Send(reply Reply) error {
	msg := tgbotapi.NewMessage(reply.ChatID, reply.Text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	switch {
	case len(reply.Options) > 0:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(reply.Options))
		for _, opt := range reply.Options {
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(opt)))
		}
		keyboard := tgbotapi.NewReplyKeyboard(rows...)
		keyboard.OneTimeKeyboard = true
		msg.ReplyMarkup = keyboard
	case reply.RemoveOptions:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	}

	if _, err := b.api.Send(msg); err != nil {
		return errors.Wrap(err, "failed to send telegram message")
	}
	return nil
}
