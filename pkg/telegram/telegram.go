// Package telegram delivers files to users through the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"redirectadmin/pkg/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender delivers documents to a chat. The wrapping pipeline uses it to hand
// the report file to the user.
type Sender interface {
	SendDocument(ctx context.Context, chatID domain.ChatID, filename string, data []byte) error
}

// Bot is a Sender backed by the Telegram Bot API.
type Bot struct {
	api *tgbotapi.BotAPI
}

// SendDocument uploads data as a document named filename to the chat. The
// Bot API client has no context plumbing, so cancellation is only checked
// before the upload starts.
func (b *Bot) SendDocument(ctx context.Context, chatID domain.ChatID, filename string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("could not send document: %w", err)
	}

	doc := tgbotapi.NewDocument(int64(chatID), tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	})
	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("could not send document: %w", err)
	}

	return nil
}

// Ensure Bot conforms to the Sender interface at compile time.
var _ Sender = (*Bot)(nil)

// New authenticates against the Bot API with the given token.
func New(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("could not create telegram bot api: %w", err)
	}

	return &Bot{api: api}, nil
}
