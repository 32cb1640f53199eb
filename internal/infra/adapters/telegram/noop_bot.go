package telegram

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"tg-config-bot/internal/domain/model"
	"tg-config-bot/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter implements adapter.TelegramBotAdapter for local/dev runs.
// It logs outbound calls instead of sending them and treats everyone as a member.
type NoopBotAdapter struct {
	log *zerolog.Logger
}

func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	return &NoopBotAdapter{log: logger}
}

func (b *NoopBotAdapter) GetChatMember(ctx context.Context, chat model.ChatRef, userID int64) (model.MembershipStatus, error) {
	b.log.Debug().Str("chat", chat.String()).Int64("user_id", userID).Msg("[noop-telegram] getChatMember")
	return model.MembershipMember, ctx.Err()
}

func (b *NoopBotAdapter) SendMessage(ctx context.Context, p adapter.SendMessageParams) error {
	b.log.Info().Int64("chat_id", p.ChatID).Str("text", p.Text).Int("keyboard_rows", len(p.Keyboard)).Msg("[noop-telegram] sendMessage")
	return ctx.Err()
}

func (b *NoopBotAdapter) EditMessageText(ctx context.Context, p adapter.EditMessageParams) error {
	ev := b.log.Info().Str("text", p.Text)
	if p.Message != nil {
		ev = ev.Int64("chat_id", p.Message.ChatID).Int("message_id", p.Message.MessageID)
	} else {
		ev = ev.Str("inline_message_id", p.InlineMessageID)
	}
	ev.Msg("[noop-telegram] editMessageText")
	return ctx.Err()
}

func (b *NoopBotAdapter) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	b.log.Debug().Str("callback_id", callbackID).Msg("[noop-telegram] answerCallbackQuery")
	return ctx.Err()
}

func (b *NoopBotAdapter) AnswerInlineQuery(ctx context.Context, queryID string, results []adapter.InlineArticle) error {
	b.log.Info().Str("query_id", queryID).Int("results", len(results)).Msg("[noop-telegram] answerInlineQuery")
	return ctx.Err()
}

// Console user and chat for events typed by hand.
const (
	consoleUserID = 1
	consoleChatID = 1
)

// ReadConsole turns lines from r into events until r is exhausted or ctx ends.
// "cb:<payload>" presses a button on message 1, "iq:<text>" is an inline
// query, anything else is a private message. It returns as soon as ctx is
// done; a Read already blocked on r stays blocked until r yields or closes.
func (b *NoopBotAdapter) ReadConsole(ctx context.Context, r io.Reader, sink EventSink) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(r)
		var err error
		defer func() {
			scanErr <- err
			close(lines)
		}()
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		err = sc.Err()
	}()

	user := model.User{ID: consoleUserID, FirstName: "Console", Username: "console"}
	for n := 1; ; n++ {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			line = strings.TrimSpace(l)
		}
		if line == "" {
			continue
		}

		ev := model.Event{UpdateID: n}
		switch {
		case strings.HasPrefix(line, "cb:"):
			ev.Kind = model.EventCallback
			ev.Callback = &model.Callback{
				ID:      "console",
				From:    user,
				Data:    strings.TrimPrefix(line, "cb:"),
				Message: &model.MessageRef{ChatID: consoleChatID, MessageID: 1},
			}
		case strings.HasPrefix(line, "iq:"):
			ev.Kind = model.EventInlineQuery
			ev.InlineQuery = &model.InlineQuery{ID: "console", From: user, Query: strings.TrimPrefix(line, "iq:")}
		default:
			u := user
			ev.Kind = model.EventMessage
			ev.Message = &model.Message{ID: n, ChatID: consoleChatID, From: &u, Text: line}
		}
		if err := sink(ctx, ev); err != nil {
			return err
		}
	}
}
