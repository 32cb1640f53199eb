//go:build !integration

package usecase_test

import (
	"context"
	"sync"

	"tg-config-bot/internal/domain/model"
	"tg-config-bot/internal/domain/ports/adapter"
)

// memberBot is a TelegramBotAdapter that only answers GetChatMember.
type memberBot struct {
	mu       sync.Mutex
	statuses map[int64]model.MembershipStatus
	err      error
	lookups  []int64
	chats    []model.ChatRef
}

func newMemberBot() *memberBot {
	return &memberBot{statuses: make(map[int64]model.MembershipStatus)}
}

func (m *memberBot) GetChatMember(ctx context.Context, chat model.ChatRef, userID int64) (model.MembershipStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, userID)
	m.chats = append(m.chats, chat)
	if m.err != nil {
		return model.MembershipOther, m.err
	}
	status, ok := m.statuses[userID]
	if !ok {
		return model.MembershipLeft, nil
	}
	return status, nil
}

func (m *memberBot) SendMessage(ctx context.Context, p adapter.SendMessageParams) error { return nil }
func (m *memberBot) EditMessageText(ctx context.Context, p adapter.EditMessageParams) error {
	return nil
}
func (m *memberBot) AnswerCallbackQuery(ctx context.Context, callbackID string) error { return nil }
func (m *memberBot) AnswerInlineQuery(ctx context.Context, queryID string, results []adapter.InlineArticle) error {
	return nil
}
