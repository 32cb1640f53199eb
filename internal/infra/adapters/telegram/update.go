package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tg-config-bot/internal/domain/model"
)

// ToEvent converts a raw update into a domain event. Update types the bot
// does not handle (edited messages, channel posts, polls...) report false.
func ToEvent(up tgbotapi.Update) (model.Event, bool) {
	ev := model.Event{UpdateID: up.UpdateID}
	switch {
	case up.Message != nil:
		m := up.Message
		msg := &model.Message{ID: m.MessageID, Text: m.Text, From: toUser(m.From)}
		if m.Chat != nil {
			msg.ChatID = m.Chat.ID
		}
		ev.Kind, ev.Message = model.EventMessage, msg

	case up.CallbackQuery != nil:
		q := up.CallbackQuery
		cb := &model.Callback{ID: q.ID, Data: q.Data, InlineMessageID: q.InlineMessageID}
		if u := toUser(q.From); u != nil {
			cb.From = *u
		}
		if q.Message != nil && q.Message.Chat != nil {
			cb.Message = &model.MessageRef{ChatID: q.Message.Chat.ID, MessageID: q.Message.MessageID}
		}
		ev.Kind, ev.Callback = model.EventCallback, cb

	case up.InlineQuery != nil:
		q := up.InlineQuery
		iq := &model.InlineQuery{ID: q.ID, Query: q.Query}
		if u := toUser(q.From); u != nil {
			iq.From = *u
		}
		ev.Kind, ev.InlineQuery = model.EventInlineQuery, iq

	default:
		return ev, false
	}
	return ev, true
}

func toUser(u *tgbotapi.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.UserName,
		IsBot:     u.IsBot,
	}
}
