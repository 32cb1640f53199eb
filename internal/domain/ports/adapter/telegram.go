package adapter

import (
	"context"

	"tg-config-bot/internal/domain/model"
)

// SendMessageParams describes a text message to a chat, optionally with an inline keyboard.
type SendMessageParams struct {
	ChatID   int64
	Text     string
	Keyboard model.Keyboard
}

// EditMessageParams targets either a regular message (Message) or an inline one (InlineMessageID).
type EditMessageParams struct {
	Message         *model.MessageRef
	InlineMessageID string
	Text            string
}

// InlineArticle is a single article result of an inline query answer.
type InlineArticle struct {
	ID          string
	Title       string
	MessageText string
	Keyboard    model.Keyboard
}

// TelegramBotAdapter is everything the bot needs from the Bot API.
type TelegramBotAdapter interface {
	GetChatMember(ctx context.Context, chat model.ChatRef, userID int64) (model.MembershipStatus, error)
	SendMessage(ctx context.Context, p SendMessageParams) error
	EditMessageText(ctx context.Context, p EditMessageParams) error
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
	AnswerInlineQuery(ctx context.Context, queryID string, results []InlineArticle) error
}
