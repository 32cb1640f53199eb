package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"tg-config-bot/internal/domain"
	"tg-config-bot/internal/domain/model"
	"tg-config-bot/internal/domain/ports/adapter"
	"tg-config-bot/internal/infra/metrics"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// AllowedUpdates are the update types the bot subscribes to.
var AllowedUpdates = []string{"message", "callback_query", "inline_query"}

// EventSink receives every converted update.
type EventSink func(ctx context.Context, ev model.Event) error

// RealTelegramBotAdapter talks to the Bot API through tgbotapi.
type RealTelegramBotAdapter struct {
	bot *tgbotapi.BotAPI
	log *zerolog.Logger

	stopOnce sync.Once
}

// NewRealTelegramBotAdapter connects to the public Bot API and calls getMe.
func NewRealTelegramBotAdapter(token string, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	return NewRealTelegramBotAdapterWithClient(token, tgbotapi.APIEndpoint, &http.Client{}, logger)
}

// NewRealTelegramBotAdapterWithClient is NewRealTelegramBotAdapter against a custom
// endpoint ("https://host/bot%s/%s") and HTTP client.
func NewRealTelegramBotAdapterWithClient(token, endpoint string, client tgbotapi.HTTPClient, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: empty bot token", domain.ErrInvalidArgument)
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("getMe: %w", err)
	}
	return &RealTelegramBotAdapter{bot: bot, log: logger}, nil
}

// Username is the bot's own @handle without the "@", as reported by getMe.
func (r *RealTelegramBotAdapter) Username() string {
	return r.bot.Self.UserName
}

func (r *RealTelegramBotAdapter) GetChatMember(ctx context.Context, chat model.ChatRef, userID int64) (model.MembershipStatus, error) {
	if err := ctx.Err(); err != nil {
		return model.MembershipOther, err
	}
	cfg := tgbotapi.GetChatMemberConfig{ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
		ChatID:             chat.ID,
		SuperGroupUsername: chat.Username,
		UserID:             userID,
	}}
	member, err := r.bot.GetChatMember(cfg)
	if err != nil {
		metrics.IncOutboundError("getChatMember")
		return model.MembershipOther, fmt.Errorf("getChatMember: %w", err)
	}
	return model.ParseMembershipStatus(member.Status), nil
}

func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, p adapter.SendMessageParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(p.ChatID, p.Text)
	if len(p.Keyboard) > 0 {
		msg.ReplyMarkup = toMarkup(p.Keyboard)
	}
	if _, err := r.bot.Send(msg); err != nil {
		metrics.IncOutboundError("sendMessage")
		return fmt.Errorf("sendMessage: %w", err)
	}
	return nil
}

func (r *RealTelegramBotAdapter) EditMessageText(ctx context.Context, p adapter.EditMessageParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var edit tgbotapi.EditMessageTextConfig
	switch {
	case p.Message != nil:
		edit = tgbotapi.NewEditMessageText(p.Message.ChatID, p.Message.MessageID, p.Text)
	case p.InlineMessageID != "":
		edit = tgbotapi.EditMessageTextConfig{
			BaseEdit: tgbotapi.BaseEdit{InlineMessageID: p.InlineMessageID},
			Text:     p.Text,
		}
	default:
		return fmt.Errorf("%w: edit without a target message", domain.ErrInvalidArgument)
	}
	// Inline edits answer with "true" instead of a Message, so Send cannot be used.
	if _, err := r.bot.Request(edit); err != nil {
		metrics.IncOutboundError("editMessageText")
		return fmt.Errorf("editMessageText: %w", err)
	}
	return nil
}

func (r *RealTelegramBotAdapter) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := r.bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		metrics.IncOutboundError("answerCallbackQuery")
		return fmt.Errorf("answerCallbackQuery: %w", err)
	}
	return nil
}

func (r *RealTelegramBotAdapter) AnswerInlineQuery(ctx context.Context, queryID string, results []adapter.InlineArticle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	items := make([]interface{}, 0, len(results))
	for _, a := range results {
		article := tgbotapi.NewInlineQueryResultArticle(a.ID, a.Title, a.MessageText)
		if len(a.Keyboard) > 0 {
			markup := toMarkup(a.Keyboard)
			article.ReplyMarkup = &markup
		}
		items = append(items, article)
	}
	cfg := tgbotapi.InlineConfig{
		InlineQueryID: queryID,
		Results:       items,
		// answers may differ per user once the gate applies to inline queries
		IsPersonal: true,
	}
	if _, err := r.bot.Request(cfg); err != nil {
		metrics.IncOutboundError("answerInlineQuery")
		return fmt.Errorf("answerInlineQuery: %w", err)
	}
	return nil
}

// SetCommands publishes the command menu shown by Telegram clients.
func (r *RealTelegramBotAdapter) SetCommands(ctx context.Context, commands []model.CommandDescription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	list := make([]tgbotapi.BotCommand, 0, len(commands))
	for _, c := range commands {
		list = append(list, tgbotapi.BotCommand{Command: c.Name, Description: c.Description})
	}
	if _, err := r.bot.Request(tgbotapi.NewSetMyCommands(list...)); err != nil {
		metrics.IncOutboundError("setMyCommands")
		return fmt.Errorf("setMyCommands: %w", err)
	}
	return nil
}

// SetWebhook registers url with Telegram. A non-empty secret is echoed back by
// Telegram in the X-Telegram-Bot-Api-Secret-Token header of every delivery.
func (r *RealTelegramBotAdapter) SetWebhook(ctx context.Context, url, secret string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	if err := params.AddInterface("allowed_updates", AllowedUpdates); err != nil {
		return err
	}
	if _, err := r.bot.MakeRequest("setWebhook", params); err != nil {
		metrics.IncOutboundError("setWebhook")
		return fmt.Errorf("setWebhook: %w", err)
	}
	return nil
}

// DeleteWebhook removes any webhook so that getUpdates is allowed again.
func (r *RealTelegramBotAdapter) DeleteWebhook(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := r.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		metrics.IncOutboundError("deleteWebhook")
		return fmt.Errorf("deleteWebhook: %w", err)
	}
	return nil
}

// StartPolling long-polls getUpdates and hands every supported update to sink.
// It blocks until ctx is cancelled. A sink error stops polling and is returned.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context, sink EventSink) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = AllowedUpdates
	updates := r.bot.GetUpdatesChan(u)
	defer r.StopPolling()

	r.log.Info().Str("bot", r.Username()).Msg("polling for updates")
	for {
		select {
		case <-ctx.Done():
			return nil
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			ev, ok := ToEvent(up)
			if !ok {
				r.log.Debug().Int("update_id", up.UpdateID).Msg("skipping unsupported update")
				continue
			}
			if err := sink(ctx, ev); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		}
	}
}

// StopPolling stops the getUpdates loop. Safe to call more than once.
func (r *RealTelegramBotAdapter) StopPolling() {
	r.stopOnce.Do(r.bot.StopReceivingUpdates)
}

func toMarkup(kb model.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		if len(row) == 0 {
			continue
		}
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			data := b.Data
			if data == "" {
				data = b.Text
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
