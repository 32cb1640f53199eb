//go:build !integration

package application_test

import (
	"context"
	"sync"

	"tg-config-bot/internal/domain/model"
	"tg-config-bot/internal/domain/ports/adapter"
)

// call is one recorded Bot API call.
type call struct {
	Method string
	ID     string
	Send   *adapter.SendMessageParams
	Edit   *adapter.EditMessageParams
	Inline []adapter.InlineArticle
}

// recordingBot records every outbound call in order.
type recordingBot struct {
	mu    sync.Mutex
	calls []call

	status    model.MembershipStatus
	lookupErr error
	answerErr error
	editErr   error
	sendErr   error
}

func newRecordingBot(status model.MembershipStatus) *recordingBot {
	return &recordingBot{status: status}
}

func (r *recordingBot) record(c call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

func (r *recordingBot) Calls() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

func (r *recordingBot) methods() []string {
	var out []string
	for _, c := range r.Calls() {
		out = append(out, c.Method)
	}
	return out
}

func (r *recordingBot) GetChatMember(ctx context.Context, chat model.ChatRef, userID int64) (model.MembershipStatus, error) {
	r.record(call{Method: "getChatMember"})
	return r.status, r.lookupErr
}

func (r *recordingBot) SendMessage(ctx context.Context, p adapter.SendMessageParams) error {
	r.record(call{Method: "sendMessage", Send: &p})
	return r.sendErr
}

func (r *recordingBot) EditMessageText(ctx context.Context, p adapter.EditMessageParams) error {
	r.record(call{Method: "editMessageText", Edit: &p})
	return r.editErr
}

func (r *recordingBot) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	r.record(call{Method: "answerCallbackQuery", ID: callbackID})
	return r.answerErr
}

func (r *recordingBot) AnswerInlineQuery(ctx context.Context, queryID string, results []adapter.InlineArticle) error {
	r.record(call{Method: "answerInlineQuery", ID: queryID, Inline: results})
	return nil
}
