package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"tg-config-bot/internal/domain"
	"tg-config-bot/internal/domain/model"
	"tg-config-bot/internal/domain/ports/adapter"
	"tg-config-bot/internal/infra/logging"
	"tg-config-bot/internal/infra/metrics"
	"tg-config-bot/internal/usecase"
)

const (
	promptChooseAction = "Выберите действие:"
	titleChooseAction  = "Выберите действие"
	replyUnknownCmd    = "Команда не найдена"
	inlineArticleID    = "choose_action"
)

// Options tune the facade; the zero value answers inline queries for everyone.
type Options struct {
	// BotUsername is used to tell "/start@this_bot" from "/start@other_bot",
	// which is answered as an unknown command.
	BotUsername string
	// GateInlineQueries applies the membership gate to inline queries too.
	GateInlineQueries bool
}

// BotFacade turns inbound events into Bot API calls.
// It keeps no state between events and is safe for concurrent use.
type BotFacade struct {
	bot    adapter.TelegramBotAdapter
	access usecase.AccessUseCase
	opts   Options
	log    *zerolog.Logger
}

func NewBotFacade(bot adapter.TelegramBotAdapter, access usecase.AccessUseCase, opts Options, logger *zerolog.Logger) *BotFacade {
	opts.BotUsername = strings.TrimPrefix(opts.BotUsername, "@")
	return &BotFacade{bot: bot, access: access, opts: opts, log: logger}
}

// Dispatch routes one event to its handler.
func (b *BotFacade) Dispatch(ctx context.Context, ev model.Event) error {
	metrics.IncUpdate(ev.Kind.String())
	switch ev.Kind {
	case model.EventMessage:
		if ev.Message == nil {
			return nil
		}
		return b.HandleMessage(ctx, *ev.Message)
	case model.EventCallback:
		if ev.Callback == nil {
			return nil
		}
		return b.HandleCallback(ctx, *ev.Callback)
	case model.EventInlineQuery:
		if ev.InlineQuery == nil {
			return nil
		}
		return b.HandleInlineQuery(ctx, *ev.InlineQuery)
	default:
		logging.With(ctx, b.log).Debug().Int("update_id", ev.UpdateID).Msg("ignoring unsupported update")
		return nil
	}
}

// HandleMessage gates the sender and answers /help and /start.
// Denied users get no reply at all.
func (b *BotFacade) HandleMessage(ctx context.Context, msg model.Message) error {
	log := logging.With(ctx, b.log)
	if msg.From == nil {
		log.Debug().Int64("chat_id", msg.ChatID).Msg("message without sender dropped")
		return nil
	}
	if !b.access.HasAccess(ctx, *msg.From) {
		return nil
	}
	if msg.Text == "" {
		return nil
	}

	cmd, err := usecase.ParseCommand(msg.Text, b.opts.BotUsername)
	switch {
	case errors.Is(err, domain.ErrNotCommand):
		return nil
	case errors.Is(err, domain.ErrUnknownCommand):
		metrics.IncCommand("unknown")
		return b.send(ctx, adapter.SendMessageParams{ChatID: msg.ChatID, Text: replyUnknownCmd})
	case err != nil:
		return err
	}

	metrics.IncCommand(cmd.String())
	handler, ok := b.commandRoutes()[cmd]
	if !ok {
		return b.send(ctx, adapter.SendMessageParams{ChatID: msg.ChatID, Text: replyUnknownCmd})
	}
	return handler(ctx, msg)
}

// HandleCallback acknowledges a button press and edits the message it came from.
// The payload is echoed verbatim; never put anything secret into button data.
func (b *BotFacade) HandleCallback(ctx context.Context, cb model.Callback) error {
	log := logging.With(ctx, b.log)

	var errs []error
	if err := b.bot.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		log.Error().Err(err).Str("callback_id", cb.ID).Msg("failed to answer callback query")
		errs = append(errs, fmt.Errorf("answer callback: %w", err))
	}

	if cb.Data == "" {
		return errors.Join(errs...)
	}

	text := chosenText(cb.Data)
	edit := adapter.EditMessageParams{Text: text}
	switch {
	case cb.Message != nil:
		edit.Message = cb.Message
	case cb.InlineMessageID != "":
		edit.InlineMessageID = cb.InlineMessageID
	default:
		log.Info().Msg(text)
		return errors.Join(errs...)
	}

	if err := b.bot.EditMessageText(ctx, edit); err != nil {
		errs = append(errs, fmt.Errorf("edit message: %w", err))
	}
	log.Info().Msg(text)
	return errors.Join(errs...)
}

// HandleInlineQuery answers every inline query with the single action article.
func (b *BotFacade) HandleInlineQuery(ctx context.Context, q model.InlineQuery) error {
	results := []adapter.InlineArticle{ChooseActionArticle()}
	if b.opts.GateInlineQueries && !b.access.HasAccess(ctx, q.From) {
		results = nil
	}
	if err := b.bot.AnswerInlineQuery(ctx, q.ID, results); err != nil {
		return fmt.Errorf("answer inline query: %w", err)
	}
	return nil
}

// ChooseActionArticle is the only inline query result the bot ever offers.
func ChooseActionArticle() adapter.InlineArticle {
	return adapter.InlineArticle{
		ID:          inlineArticleID,
		Title:       titleChooseAction,
		MessageText: promptChooseAction,
		Keyboard:    model.BuildKeyboard(),
	}
}

func chosenText(payload string) string {
	return "You chose: " + payload
}

func (b *BotFacade) send(ctx context.Context, p adapter.SendMessageParams) error {
	if err := b.bot.SendMessage(ctx, p); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
